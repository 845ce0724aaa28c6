package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TenantClientMapping declares that a client is visible to a tenant.
// Unique per (tenantId, clientId).
type TenantClientMapping struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID  primitive.ObjectID `bson:"tenant_id" json:"tenant_id" validate:"required"`
	ClientID  primitive.ObjectID `bson:"client_id" json:"client_id" validate:"required"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// UserTenantClientMapping gives a user an identity as a profile.
// MasterID points into either the tenant or the client collection
// depending on Role. Unique per (userId, masterId).
type UserTenantClientMapping struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	MasterID  primitive.ObjectID `bson:"master_id" json:"master_id" validate:"required"`
	Role      ProfileRole        `bson:"role" json:"role" validate:"required,oneof=tenant client"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
