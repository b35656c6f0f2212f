package model

import "encoding/json"

// Статус QR-кода

type Status string

const (
	StatusActive Status = "active"
	StatusUsed   Status = "used"
)

// Redeemable: можно ли ещё подтвердить код.
// "used" - терминальный статус, обратного перехода нет
func (s Status) Redeemable() bool {
	return s == StatusActive
}

// Record - один QR-код на заказ. JSON-теги совпадают
// с полями файла qrcodes.json

type Record struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	Status       Status `json:"status"`
	QRCodeURL    string `json:"qr_code_url"`
}

// Входящий вебхук Shopify

type WebhookOrder struct {
	ID        json.Number       `json:"id" validate:"required"`
	Email     string            `json:"email" validate:"omitempty,email"`
	Customer  *WebhookCustomer  `json:"customer"`
	LineItems []WebhookLineItem `json:"line_items" validate:"required,dive"`
}

type WebhookCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type WebhookLineItem struct {
	Title    string `json:"title" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}
