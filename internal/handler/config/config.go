package config

type Config struct {
	ServerAddr string
	QRDir      string
	LabelsPath string
}
