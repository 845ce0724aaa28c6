package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type SendOtpRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Type  OtpPurpose `json:"type" validate:"required,oneof=registration login"`
}

type SendOtpResponse struct {
	Message string `json:"message"`
	Warning string `json:"warning,omitempty"`
}

type VerifyOtpRequest struct {
	Email         string      `json:"email" validate:"required,email"`
	Otp           string      `json:"otp" validate:"required,len=6,numeric"`
	Type          OtpPurpose  `json:"type" validate:"required,oneof=registration login"`
	Name          string      `json:"name,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	ActiveProfile ProfileRole `json:"active_profile,omitempty" validate:"omitempty,profile_role"`
}

// AuthSession is returned after OTP verification and account switches.
type AuthSession struct {
	Token              string             `json:"token"`
	UserID             primitive.ObjectID `json:"user_id"`
	ActiveProfile      ProfileRole        `json:"active_profile"`
	ActiveProfileID    primitive.ObjectID `json:"active_profile_id"`
	ActiveProfileImage string             `json:"active_profile_image,omitempty"`
	ProfileName        string             `json:"profile_name,omitempty"`
}

type CreateProfileRequest struct {
	Name            string      `json:"name" validate:"required"`
	Email           string      `json:"email" validate:"required,email"`
	ProfileType     ProfileRole `json:"profile_type" validate:"required,profile_role"`
	Phone           string      `json:"phone,omitempty"`
	ProfileImageURL string      `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProfileRequest struct {
	ProfileType     ProfileRole `json:"profile_type" validate:"required,profile_role"`
	Name            string      `json:"name,omitempty"`
	Email           string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string      `json:"phone,omitempty"`
	ProfileImageURL string      `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

type MergeProfilesRequest struct {
	SourceProfileID string      `json:"source_profile_id" validate:"required,objectid"`
	TargetProfileID string      `json:"target_profile_id" validate:"required,objectid"`
	ProfileType     ProfileRole `json:"profile_type" validate:"required,profile_role"`
}

type SwitchAccountRequest struct {
	ActiveProfile ProfileRole `json:"active_profile" validate:"required,profile_role"`
	MasterID      string      `json:"master_id" validate:"required,objectid"`
}

// AccountSummary is one linked profile in the get-accounts listing.
type AccountSummary struct {
	Type            ProfileRole        `json:"type"`
	ID              primitive.ObjectID `json:"id"`
	Name            string             `json:"name"`
	Email           string             `json:"email"`
	Phone           string             `json:"phone,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty"`
}
