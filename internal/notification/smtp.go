package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

// SMTPMailer delivers mail over authenticated SMTP. Port 465 opens an
// implicit TLS session; any other port negotiates STARTTLS.
type SMTPMailer struct {
	cfg      internal.SMTPConfig
	fromAddr string
	fromName string
}

func NewSMTPMailer(cfg internal.SMTPConfig, fromAddr, fromName string) *SMTPMailer {
	return &SMTPMailer{
		cfg:      cfg,
		fromAddr: fromAddr,
		fromName: fromName,
	}
}

func (m *SMTPMailer) Name() string {
	return "smtp"
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.ImplicitTLS() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	mm := mail.NewMsg()
	if err := mm.FromFormat(m.fromName, m.fromAddr); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("smtp recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	if msg.AttachmentPath != "" {
		mm.AttachFile(msg.AttachmentPath)
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
