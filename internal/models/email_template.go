package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Template type codes. A tenant may override any of these with its own
// email_template row; otherwise the system default row applies.
const (
	TemplateOtpRegistration = 1
	TemplateOtpLogin        = 2
	TemplateClientInvite    = 3
	TemplateProjectUpdate   = 4
)

// EmailTemplate is a tenant-scoped message template. Subject and body
// run through token substitution before dispatch. Rows with a zero
// TenantID are system defaults.
type EmailTemplate struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID   primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	TemplateID int                `bson:"template_id" json:"template_id" validate:"required"`
	Name       string             `bson:"name" json:"name" validate:"required"`
	Subject    string             `bson:"subject" json:"subject" validate:"required"`
	Body       string             `bson:"body" json:"body" validate:"required"`
	IsActive   bool               `bson:"is_active" json:"is_active"`
	IsDefault  bool               `bson:"is_default" json:"is_default"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
