package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/portalbase/portal-api/internal/config"
	"github.com/portalbase/portal-api/internal/models"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends mail through the tenant's SMTP account when one is
// configured, otherwise through the system transport. Sends are bounded
// by the configured timeout so a slow SMTP peer cannot hang a request.
type Mailer interface {
	Send(ctx context.Context, smtpSetting *models.SMTPSetting, msg Message) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func New(cfg *config.Config) Mailer {
	return &smtpMailer{cfg: cfg.SMTP}
}

func (m *smtpMailer) Send(ctx context.Context, smtpSetting *models.SMTPSetting, msg Message) error {
	host, port, user, pass, from := m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass, m.cfg.From
	if smtpSetting != nil && smtpSetting.Host != "" {
		host, user, pass = smtpSetting.Host, smtpSetting.User, smtpSetting.Pass
		if smtpSetting.Port != 0 {
			port = smtpSetting.Port
		}
		if smtpSetting.From != "" {
			from = smtpSetting.From
		}
	}

	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(pass),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	if err := client.DialAndSendWithContext(sendCtx, out); err != nil {
		return fmt.Errorf("send mail: %v: %w", err, models.ErrDependency)
	}
	return nil
}
