package handler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"html/template"
	"os"
)

//go:embed scan.html
var scanHTML string

// Надписи страницы сканера. Можно переопределить JSON-файлом
// (LABELS_FILE), ключи совпадают с labels.json
type labels struct {
	PageTitle           string `json:"page_title"`
	HeaderTitle         string `json:"header_title"`
	StatusDefault       string `json:"status_default"`
	StatusValid         string `json:"status_valid"`
	StatusInvalid       string `json:"status_invalid"`
	StatusError         string `json:"status_error"`
	StatusInvalidFormat string `json:"status_invalid_format"`
	StatusConfirmed     string `json:"status_confirmed"`
	ButtonConfirm       string `json:"button_confirm"`
	LabelName           string `json:"label_name"`
	LabelProduct        string `json:"label_product"`
	LabelQuantity       string `json:"label_quantity"`
	CameraLabel         string `json:"camera_label"`
}

func defaultLabels() labels {
	return labels{
		PageTitle:           "QR Scanner",
		HeaderTitle:         "Scan a QR code",
		StatusDefault:       "Waiting for a scan...",
		StatusValid:         "Valid QR code",
		StatusInvalid:       "Invalid QR code",
		StatusError:         "Verification error",
		StatusInvalidFormat: "Unrecognized QR code",
		StatusConfirmed:     "Pickup confirmed",
		ButtonConfirm:       "Confirm pickup",
		LabelName:           "Name",
		LabelProduct:        "Product",
		LabelQuantity:       "Quantity",
		CameraLabel:         "Camera",
	}
}

// renderScanPage собирает страницу один раз при старте:
// надписи статичны, рендерить на каждый запрос незачем
func renderScanPage(labelsPath string) ([]byte, error) {
	lbl := defaultLabels()
	if labelsPath != "" {
		data, err := os.ReadFile(labelsPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &lbl); err != nil {
			return nil, err
		}
	}

	tmpl, err := template.New("scan").Parse(scanHTML)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, lbl); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
