package config

type Config struct {
	FilePath    string
	DatabaseDSN string
}
