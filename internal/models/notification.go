package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// NotificationLog records every outbound notification, successful or
// not, so delivery failures stay visible instead of being swallowed.
type NotificationLog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID    primitive.ObjectID `bson:"tenant_id,omitempty" json:"tenant_id,omitempty"`
	Recipient   string             `bson:"recipient" json:"recipient"`
	TemplateID  int                `bson:"template_id" json:"template_id"`
	Subject     string             `bson:"subject" json:"subject"`
	Status      NotificationStatus `bson:"status" json:"status"`
	Error       string             `bson:"error,omitempty" json:"error,omitempty"`
	DeliveredAt *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// NotificationEvent is the wire shape consumed from the notifications
// topic for asynchronous portal notifications (project updates and the
// like; OTP mail is dispatched inline).
type NotificationEvent struct {
	Pattern    string            `json:"pattern"`
	TenantID   string            `json:"tenant_id,omitempty"`
	Recipient  string            `json:"recipient"`
	TemplateID int               `json:"template_id"`
	Tokens     map[string]string `json:"tokens,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

const NotificationEventPattern = "notification.requested"
