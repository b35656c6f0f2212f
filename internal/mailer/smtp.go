package mailer

import (
	"context"

	mail "github.com/wneessen/go-mail"

	"github.com/yannisyannis/qr-shopify/internal/mailer/config"
)

// SMTP-бэкенд (Mailgun, Mailjet и т.п.)

type smtpMailer struct {
	client *mail.Client
	from   string
}

func newSMTPMailer(cfg config.Config) (*smtpMailer, error) {
	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.SMTPUser),
		mail.WithPassword(cfg.SMTPPass),
		// TLS при наличии, как secure:false у nodemailer
		mail.WithTLSPolicy(mail.TLSOpportunistic))
	if err != nil {
		return nil, err
	}

	return &smtpMailer{
		client: client,
		from:   cfg.From,
	}, nil
}

func (m *smtpMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	return m.client.DialAndSendWithContext(ctx, msg)
}
