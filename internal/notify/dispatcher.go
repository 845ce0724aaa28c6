package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/mailer"
	"github.com/portalbase/portal-api/internal/models"
	"github.com/portalbase/portal-api/internal/repo/mongodb"
	"github.com/portalbase/portal-api/pkg/tmplx"
)

// Dispatcher renders token-substituted email templates and hands them
// to the mailer, recording every attempt in the notification log.
// Template resolution is tenant row, then system default row, then the
// built-in fallback text.
type Dispatcher struct {
	templates mongodb.EmailTemplateRepository
	tenants   mongodb.TenantRepository
	logs      mongodb.NotificationLogRepository
	mailer    mailer.Mailer
}

func NewDispatcher(
	templates mongodb.EmailTemplateRepository,
	tenants mongodb.TenantRepository,
	logs mongodb.NotificationLogRepository,
	m mailer.Mailer,
) *Dispatcher {
	return &Dispatcher{
		templates: templates,
		tenants:   tenants,
		logs:      logs,
		mailer:    m,
	}
}

// SendOtp implements usecase.OtpNotifier.
func (d *Dispatcher) SendOtp(ctx context.Context, tenantID primitive.ObjectID, recipient, code string, purpose models.OtpPurpose, expiry time.Duration) error {
	templateID := models.TemplateOtpLogin
	if purpose == models.OtpPurposeRegistration {
		templateID = models.TemplateOtpRegistration
	}

	tokens := map[string]string{
		"Otp":       code,
		"Email":     recipient,
		"ExpiresIn": fmt.Sprintf("%d minutes", int(expiry.Minutes())),
	}
	return d.Send(ctx, tenantID, recipient, templateID, tokens)
}

// Dispatch handles one event from the notifications topic.
func (d *Dispatcher) Dispatch(ctx context.Context, event models.NotificationEvent) error {
	tenantID := primitive.NilObjectID
	if event.TenantID != "" {
		id, err := primitive.ObjectIDFromHex(event.TenantID)
		if err != nil {
			return fmt.Errorf("bad tenant id %q: %w", event.TenantID, models.ErrBadRequest)
		}
		tenantID = id
	}
	return d.Send(ctx, tenantID, event.Recipient, event.TemplateID, event.Tokens)
}

func (d *Dispatcher) Send(ctx context.Context, tenantID primitive.ObjectID, recipient string, templateID int, tokens map[string]string) error {
	subject, body, err := d.render(ctx, tenantID, templateID, tokens)
	if err != nil {
		return err
	}

	entry := &models.NotificationLog{
		TenantID:   tenantID,
		Recipient:  recipient,
		TemplateID: templateID,
		Subject:    subject,
	}
	if err := d.logs.Create(ctx, entry); err != nil {
		log.Warnw(ctx, "notification log write failed", "recipient", recipient, "error", err)
	}

	msg := mailer.Message{
		To:      recipient,
		Subject: subject,
		Text:    body,
	}
	if strings.Contains(body, "<") {
		msg.HTML = body
	}

	var smtpSetting *models.SMTPSetting
	if !tenantID.IsZero() {
		tenant, err := d.tenants.GetByID(ctx, tenantID)
		if err == nil {
			smtpSetting = tenant.SMTPSetting
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
	}

	if err := d.mailer.Send(ctx, smtpSetting, msg); err != nil {
		if !entry.ID.IsZero() {
			if markErr := d.logs.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				log.Warnw(ctx, "notification log update failed", "id", entry.ID.Hex(), "error", markErr)
			}
		}
		return err
	}

	if !entry.ID.IsZero() {
		if err := d.logs.MarkSent(ctx, entry.ID); err != nil {
			log.Warnw(ctx, "notification log update failed", "id", entry.ID.Hex(), "error", err)
		}
	}
	return nil
}

func (d *Dispatcher) render(ctx context.Context, tenantID primitive.ObjectID, templateID int, tokens map[string]string) (string, string, error) {
	subjectText, bodyText := fallbackTemplate(templateID)

	tmplRow, err := d.templates.GetForTenant(ctx, tenantID, templateID)
	if err == nil {
		subjectText, bodyText = tmplRow.Subject, tmplRow.Body
	} else if !errors.Is(err, models.ErrNotFound) {
		return "", "", err
	}

	subject, err := renderOne("subject", subjectText, tokens)
	if err != nil {
		return "", "", err
	}
	body, err := renderOne("body", bodyText, tokens)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func renderOne(name, text string, tokens map[string]string) (string, error) {
	tmpl, err := tmplx.Parse(name, text)
	if err != nil {
		return "", err
	}
	buf, err := tmpl.Render(tokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// fallbackTemplate is the hardcoded last resort when neither a tenant
// template nor a system default row exists.
func fallbackTemplate(templateID int) (subject, body string) {
	switch templateID {
	case models.TemplateOtpRegistration:
		return "Verify your email",
			"Your verification code is {{.Otp}}. It expires in {{.ExpiresIn}}."
	case models.TemplateOtpLogin:
		return "Your login code",
			"Your login code is {{.Otp}}. It expires in {{.ExpiresIn}}."
	case models.TemplateClientInvite:
		return "You have been invited",
			"{{default \"Your service provider\" .CompanyName}} invited you to their client portal. Follow {{.InviteURL}} to accept."
	default:
		return "Portal notification",
			"{{default \"You have a new notification.\" .Message}}"
	}
}
