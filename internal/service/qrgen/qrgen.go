package qrgen

import (
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Генератор PNG с QR-кодом

const imageSize = 256

type Generator interface {
	Generate(path string, payload string) error
}

type generator struct{}

func NewGenerator() Generator {
	return generator{}
}

func (generator) Generate(path string, payload string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return qrcode.WriteFile(payload, qrcode.Medium, imageSize, path)
}
