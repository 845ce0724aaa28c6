package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SMTPSetting is the tenant-provided outgoing mail account. A tenant
// without one falls back to the system transport.
type SMTPSetting struct {
	Host string `bson:"host,omitempty" json:"host,omitempty"`
	Port int    `bson:"port,omitempty" json:"port,omitempty"`
	User string `bson:"user,omitempty" json:"user,omitempty"`
	Pass string `bson:"pass,omitempty" json:"-"`
	From string `bson:"from,omitempty" json:"from,omitempty"`
}

// EmailSetting toggles which portal events notify the tenant's clients.
type EmailSetting struct {
	NewProject          bool `bson:"new_project" json:"new_project"`
	ProjectStatusChange bool `bson:"project_status_change" json:"project_status_change"`
	NewTask             bool `bson:"new_task" json:"new_task"`
	TaskUpdate          bool `bson:"task_update" json:"task_update"`
	DocumentUpload      bool `bson:"document_upload" json:"document_upload"`
	InvoiceUpload       bool `bson:"invoice_upload" json:"invoice_upload"`
}

type Tenant struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompanyName     string             `bson:"company_name" json:"company_name" validate:"required"`
	Email           string             `bson:"email" json:"email" validate:"required,email"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive        bool               `bson:"is_active" json:"is_active"`
	BrandColor      string             `bson:"brand_color,omitempty" json:"brand_color,omitempty"`
	CustomDomain    string             `bson:"custom_domain,omitempty" json:"custom_domain,omitempty"`
	ProfileImageURL string             `bson:"profile_image_url,omitempty" json:"profile_image_url,omitempty"`
	SMTPSetting     *SMTPSetting       `bson:"smtp_setting,omitempty" json:"smtp_setting,omitempty"`
	EmailSetting    EmailSetting       `bson:"email_setting" json:"email_setting"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

func (t *Tenant) ProfileRole() ProfileRole       { return RoleTenant }
func (t *Tenant) ProfileID() primitive.ObjectID  { return t.ID }
func (t *Tenant) DisplayName() string            { return t.CompanyName }
func (t *Tenant) ImageURL() string               { return t.ProfileImageURL }
func (t *Tenant) ContactEmail() string           { return t.Email }
func (t *Tenant) ContactPhone() string           { return t.Phone }
func (t *Tenant) Active() bool                   { return t.IsActive }
