package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is a single human login identity. Which tenant or client profile
// the user is acting as lives in the active profile pair; the pair must
// always be backed by a UserTenantClientMapping row.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	ActiveProfile   ProfileRole        `bson:"active_profile,omitempty" json:"active_profile,omitempty"`
	ActiveProfileID primitive.ObjectID `bson:"active_profile_id,omitempty" json:"active_profile_id,omitempty"`
	LastActiveDate  time.Time          `bson:"last_active_date,omitempty" json:"last_active_date,omitempty"`
	Status          UserStatus         `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}
