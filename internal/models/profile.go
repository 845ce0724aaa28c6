package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProfileRole tags which collection a profile id points into.
type ProfileRole string

const (
	RoleTenant ProfileRole = "tenant"
	RoleClient ProfileRole = "client"
)

func (r ProfileRole) Valid() bool {
	return r == RoleTenant || r == RoleClient
}

// Profile abstracts over Tenant and Client so the resolver, linker and
// merge engine work against one shape instead of branching on role.
type Profile interface {
	ProfileRole() ProfileRole
	ProfileID() primitive.ObjectID
	DisplayName() string
	ImageURL() string
	ContactEmail() string
	ContactPhone() string
	Active() bool
}
