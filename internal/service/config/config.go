package config

type Config struct {
	ServerURL     string
	QRDir         string
	ProductMarker string
}
