package mailer

import (
	"context"

	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/mailer/config"
)

// Mailer - отправка письма с QR-кодом покупателю.
// Ошибки отправки логируются вызывающим кодом и не останавливают обработку заказа
type Mailer interface {
	Send(ctx context.Context, to string, subject string, htmlBody string) error
}

// NewMailer выбирает бэкенд: SMTP, HTTP-релей или заглушка,
// если почта не настроена
func NewMailer(cfg config.Config, zaplog *zap.Logger) (Mailer, error) {
	switch {
	case cfg.SMTPHost != "":
		return newSMTPMailer(cfg)
	case cfg.APIURL != "":
		return newAPIMailer(cfg), nil
	default:
		zaplog.Warn("mail is not configured, notifications disabled")
		return nopMailer{zaplog: zaplog}, nil
	}
}

type nopMailer struct {
	zaplog *zap.Logger
}

func (m nopMailer) Send(_ context.Context, to string, subject string, _ string) error {
	m.zaplog.Info("mail skipped",
		zap.String("to", to),
		zap.String("subject", subject))
	return nil
}
