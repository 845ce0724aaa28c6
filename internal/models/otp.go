package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OtpPurpose string

const (
	OtpPurposeRegistration OtpPurpose = "registration"
	OtpPurposeLogin        OtpPurpose = "login"
)

func (p OtpPurpose) Valid() bool {
	return p == OtpPurposeRegistration || p == OtpPurposeLogin
}

// Otp is a single-use verification code keyed by email. Only one live
// code exists per identifier; issuing again replaces it. A TTL index on
// expires_at reaps lapsed codes.
type Otp struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Identifier string             `bson:"identifier" json:"identifier"`
	Code       string             `bson:"otp" json:"-"`
	ExpiresAt  time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
