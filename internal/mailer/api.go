package mailer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/yannisyannis/qr-shopify/internal/mailer/config"
)

// HTTP-релей: POST на endpoint провайдера вместо SMTP

type apiMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type apiMailer struct {
	client *resty.Client
	url    string
	apiKey string
	from   string
}

func newAPIMailer(cfg config.Config) *apiMailer {
	return &apiMailer{
		client: resty.New(),
		url:    cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
	}
}

func (m *apiMailer) Send(ctx context.Context, to string, subject string, htmlBody string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetAuthToken(m.apiKey).
		SetBody(apiMessage{
			From:    m.from,
			To:      to,
			Subject: subject,
			HTML:    htmlBody,
		}).
		Post(m.url)
	if err != nil {
		return err
	}

	switch resp.StatusCode() {
	case http.StatusOK, http.StatusAccepted:
		return nil
	default:
		return fmt.Errorf("mail relay status: %d", resp.StatusCode())
	}
}
