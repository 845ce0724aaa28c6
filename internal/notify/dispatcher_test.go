package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/portalbase/portal-api/internal/mailer"
	"github.com/portalbase/portal-api/internal/models"
)

type fakeTemplateRepo struct {
	rows map[string]*models.EmailTemplate // key tenantHex:templateID
}

func (r *fakeTemplateRepo) key(tenantID primitive.ObjectID, templateID int) string {
	return fmt.Sprintf("%s:%d", tenantID.Hex(), templateID)
}

func (r *fakeTemplateRepo) GetForTenant(ctx context.Context, tenantID primitive.ObjectID, templateID int) (*models.EmailTemplate, error) {
	if tmpl, ok := r.rows[r.key(tenantID, templateID)]; ok {
		return tmpl, nil
	}
	return r.GetDefault(ctx, templateID)
}

func (r *fakeTemplateRepo) GetDefault(ctx context.Context, templateID int) (*models.EmailTemplate, error) {
	if tmpl, ok := r.rows[r.key(primitive.NilObjectID, templateID)]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("email template: %w", models.ErrNotFound)
}

func (r *fakeTemplateRepo) Upsert(ctx context.Context, tmpl *models.EmailTemplate) error {
	if r.rows == nil {
		r.rows = map[string]*models.EmailTemplate{}
	}
	r.rows[r.key(tmpl.TenantID, tmpl.TemplateID)] = tmpl
	return nil
}

type fakeTenantRepo struct {
	tenants map[primitive.ObjectID]*models.Tenant
}

func (r *fakeTenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	tenant.ID = primitive.NewObjectID()
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("tenant: %w", models.ErrNotFound)
}

func (r *fakeTenantRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*models.Tenant, error) {
	return nil, errors.New("not implemented")
}

type fakeLogRepo struct {
	entries []*models.NotificationLog
	sent    []primitive.ObjectID
	failed  map[primitive.ObjectID]string
}

func newFakeLogRepo() *fakeLogRepo {
	return &fakeLogRepo{failed: map[primitive.ObjectID]string{}}
}

func (r *fakeLogRepo) Create(ctx context.Context, entry *models.NotificationLog) error {
	entry.ID = primitive.NewObjectID()
	entry.Status = models.NotificationPending
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeLogRepo) MarkSent(ctx context.Context, id primitive.ObjectID) error {
	r.sent = append(r.sent, id)
	return nil
}

func (r *fakeLogRepo) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string) error {
	r.failed[id] = reason
	return nil
}

type capturingMailer struct {
	messages []mailer.Message
	smtp     []*models.SMTPSetting
	fail     error
}

func (m *capturingMailer) Send(ctx context.Context, smtpSetting *models.SMTPSetting, msg mailer.Message) error {
	if m.fail != nil {
		return m.fail
	}
	m.messages = append(m.messages, msg)
	m.smtp = append(m.smtp, smtpSetting)
	return nil
}

func TestSendOtpUsesFallbackTemplate(t *testing.T) {
	templates := &fakeTemplateRepo{}
	tenants := &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}
	logs := newFakeLogRepo()
	m := &capturingMailer{}
	d := NewDispatcher(templates, tenants, logs, m)

	err := d.SendOtp(context.Background(), primitive.NilObjectID, "a@x.com", "123456", models.OtpPurposeLogin, 10*time.Minute)
	require.NoError(t, err)

	require.Len(t, m.messages, 1)
	assert.Equal(t, "a@x.com", m.messages[0].To)
	assert.Equal(t, "Your login code", m.messages[0].Subject)
	assert.Contains(t, m.messages[0].Text, "123456")
	assert.Contains(t, m.messages[0].Text, "10 minutes")

	require.Len(t, logs.entries, 1)
	assert.Len(t, logs.sent, 1)
	assert.Empty(t, logs.failed)
}

func TestSendOtpPrefersTenantTemplateAndSMTP(t *testing.T) {
	templates := &fakeTemplateRepo{}
	tenants := &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}
	logs := newFakeLogRepo()
	m := &capturingMailer{}
	d := NewDispatcher(templates, tenants, logs, m)

	tenant := &models.Tenant{
		CompanyName: "Acme",
		SMTPSetting: &models.SMTPSetting{Host: "mail.acme.test", Port: 2525, From: "no-reply@acme.test"},
	}
	require.NoError(t, tenants.Create(context.Background(), tenant))
	require.NoError(t, templates.Upsert(context.Background(), &models.EmailTemplate{
		TenantID:   tenant.ID,
		TemplateID: models.TemplateOtpLogin,
		Subject:    "Acme code",
		Body:       "Code {{.Otp}} for {{.Email}}",
		IsActive:   true,
	}))

	err := d.SendOtp(context.Background(), tenant.ID, "a@x.com", "654321", models.OtpPurposeLogin, 5*time.Minute)
	require.NoError(t, err)

	require.Len(t, m.messages, 1)
	assert.Equal(t, "Acme code", m.messages[0].Subject)
	assert.Equal(t, "Code 654321 for a@x.com", m.messages[0].Text)
	require.Len(t, m.smtp, 1)
	require.NotNil(t, m.smtp[0])
	assert.Equal(t, "mail.acme.test", m.smtp[0].Host)
}

func TestSendFailureMarksLogFailed(t *testing.T) {
	templates := &fakeTemplateRepo{}
	tenants := &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}
	logs := newFakeLogRepo()
	m := &capturingMailer{fail: errors.New("connection refused")}
	d := NewDispatcher(templates, tenants, logs, m)

	err := d.SendOtp(context.Background(), primitive.NilObjectID, "a@x.com", "123456", models.OtpPurposeRegistration, time.Minute)
	require.Error(t, err)

	require.Len(t, logs.entries, 1)
	assert.Empty(t, logs.sent)
	assert.Contains(t, logs.failed[logs.entries[0].ID], "connection refused")
}

func TestDispatchFiltersBadTenantID(t *testing.T) {
	d := NewDispatcher(&fakeTemplateRepo{}, &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}, newFakeLogRepo(), &capturingMailer{})

	err := d.Dispatch(context.Background(), models.NotificationEvent{
		Pattern:   models.NotificationEventPattern,
		TenantID:  "not-hex",
		Recipient: "a@x.com",
	})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestDispatchRendersEventTokens(t *testing.T) {
	templates := &fakeTemplateRepo{}
	tenants := &fakeTenantRepo{tenants: map[primitive.ObjectID]*models.Tenant{}}
	logs := newFakeLogRepo()
	m := &capturingMailer{}
	d := NewDispatcher(templates, tenants, logs, m)

	require.NoError(t, templates.Upsert(context.Background(), &models.EmailTemplate{
		TenantID:   primitive.NilObjectID,
		TemplateID: models.TemplateProjectUpdate,
		Subject:    "Project {{.ProjectName}} updated",
		Body:       "Status is now {{.Status}}",
		IsActive:   true,
		IsDefault:  true,
	}))

	err := d.Dispatch(context.Background(), models.NotificationEvent{
		Pattern:    models.NotificationEventPattern,
		Recipient:  "c@y.com",
		TemplateID: models.TemplateProjectUpdate,
		Tokens:     map[string]string{"ProjectName": "Website", "Status": "done"},
	})
	require.NoError(t, err)

	require.Len(t, m.messages, 1)
	assert.Equal(t, "Project Website updated", m.messages[0].Subject)
	assert.Equal(t, "Status is now done", m.messages[0].Text)
}
