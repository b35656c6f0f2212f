package config

type Config struct {
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	From     string

	// HTTP-релей (Mailgun/Mailjet и т.п.) вместо SMTP
	APIURL string
	APIKey string
}
