package config

import (
	"os"
	"strconv"

	handlerConfig "github.com/yannisyannis/qr-shopify/internal/handler/config"
	loggerConfig "github.com/yannisyannis/qr-shopify/internal/logger/config"
	mailerConfig "github.com/yannisyannis/qr-shopify/internal/mailer/config"
	serviceConfig "github.com/yannisyannis/qr-shopify/internal/service/config"
	storeConfig "github.com/yannisyannis/qr-shopify/internal/store/config"
)

type Config struct {
	Handler handlerConfig.Config
	Service serviceConfig.Config
	Store   storeConfig.Config
	Mailer  mailerConfig.Config
	Logger  loggerConfig.Config
}

// GetConfig читает окружение. Имена переменных совпадают
// с .env исходного сервиса
func GetConfig() Config {
	port := getenv("PORT", "3000")

	return Config{
		Handler: handlerConfig.Config{
			ServerAddr: ":" + port,
			QRDir:      getenv("QR_DIR", "./public/qrcodes"),
			LabelsPath: os.Getenv("LABELS_FILE"),
		},
		Service: serviceConfig.Config{
			ServerURL:     getenv("SERVER_URL", "http://localhost:"+port),
			QRDir:         getenv("QR_DIR", "./public/qrcodes"),
			ProductMarker: getenv("QR_PRODUCT_MARKER", "qrtest"),
		},
		Store: storeConfig.Config{
			FilePath:    getenv("QR_FILE", "./qrcodes.json"),
			DatabaseDSN: os.Getenv("DATABASE_DSN"),
		},
		Mailer: mailerConfig.Config{
			SMTPHost: os.Getenv("SMTP_HOST"),
			SMTPPort: getenvInt("SMTP_PORT", 587),
			SMTPUser: os.Getenv("SMTP_USER"),
			SMTPPass: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
			APIURL:   os.Getenv("MAIL_API_URL"),
			APIKey:   os.Getenv("MAIL_API_KEY"),
		},
		Logger: loggerConfig.Config{
			LogLevel: getenv("LOG_LEVEL", "info"),
		},
	}
}

func getenv(key string, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
