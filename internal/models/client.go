package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is an end customer of a tenant. A non-empty InvitationToken
// means the invitation has not been accepted yet and the client cannot
// log in until it is cleared.
type Client struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name" validate:"required"`
	Email            string             `bson:"email" json:"email" validate:"required,email"`
	Phone            string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	ProfileImageURL  string             `bson:"profile_image_url,omitempty" json:"profile_image_url,omitempty"`
	InvitationToken  string             `bson:"invitation_token,omitempty" json:"-"`
	LastActivityDate time.Time          `bson:"last_activity_date,omitempty" json:"last_activity_date,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

func (c *Client) ProfileRole() ProfileRole      { return RoleClient }
func (c *Client) ProfileID() primitive.ObjectID { return c.ID }
func (c *Client) DisplayName() string           { return c.Name }
func (c *Client) ImageURL() string              { return c.ProfileImageURL }
func (c *Client) ContactEmail() string          { return c.Email }
func (c *Client) ContactPhone() string          { return c.Phone }
func (c *Client) Active() bool                  { return c.IsActive }

// Invited reports whether the client still has a pending invitation.
func (c *Client) Invited() bool { return c.InvitationToken != "" }
