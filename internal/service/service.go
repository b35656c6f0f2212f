package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/mailer"
	"github.com/yannisyannis/qr-shopify/internal/model"
	"github.com/yannisyannis/qr-shopify/internal/service/config"
	"github.com/yannisyannis/qr-shopify/internal/service/qrgen"
	"github.com/yannisyannis/qr-shopify/internal/store"
)

type Service interface {
	IngestOrder(ctx context.Context, order model.WebhookOrder) error
	Verify(ctx context.Context, orderID string) (model.Record, error)
	Confirm(ctx context.Context, orderID string) error
}

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyRedeemed  = errors.New("already redeemed")
)

type service struct {
	cfg    config.Config
	marker string
	store  store.Store
	qrgen  qrgen.Generator
	mailer mailer.Mailer
	zaplog *zap.Logger
}

func NewService(cfg config.Config, store store.Store, qrgen qrgen.Generator, mailer mailer.Mailer, zaplog *zap.Logger) Service {
	return &service{
		cfg:    cfg,
		marker: foldMarker(cfg.ProductMarker),
		store:  store,
		qrgen:  qrgen,
		mailer: mailer,
		zaplog: zaplog,
	}
}

// IngestOrder обрабатывает вебхук заказа. Если среди позиций есть
// целевой товар: генерируем QR-код, пишем запись, дожидаемся сброса
// на диск и только потом пытаемся отправить письмо
func (service *service) IngestOrder(ctx context.Context, order model.WebhookOrder) error {
	orderID := order.ID.String()
	if orderID == "" {
		return ErrInsufficientData
	}

	item, ok := service.matchLineItem(order.LineItems)
	if !ok {
		service.zaplog.Info("no qualifying line item, qr not generated",
			zap.String("order", orderID))
		return nil
	}

	imagePath := filepath.Join(service.cfg.QRDir, orderID+".png")
	payload := service.cfg.ServerURL + "/scan?order_id=" + orderID
	if err := service.qrgen.Generate(imagePath, payload); err != nil {
		return fmt.Errorf("generate qr image: %w", err)
	}

	qrURL := service.cfg.ServerURL + "/qrcodes/" + orderID + ".png"
	record := model.Record{
		OrderID:      orderID,
		CustomerName: customerName(order.Customer),
		ProductName:  item.Title,
		Quantity:     item.Quantity,
		Status:       model.StatusActive,
		QRCodeURL:    qrURL,
	}

	if err := service.store.Put(ctx, record); err != nil {
		return err
	}
	if err := service.store.Flush(ctx); err != nil {
		return err
	}
	service.zaplog.Info("qr generated", zap.String("order", orderID))

	if order.Email == "" {
		service.zaplog.Warn("order has no email address", zap.String("order", orderID))
		return nil
	}
	// ошибка почты не отменяет обработку заказа
	if err := service.sendQRMail(ctx, order.Email, orderID, qrURL); err != nil {
		service.zaplog.Error("send mail failed",
			zap.String("order", orderID),
			zap.Error(err))
	} else {
		service.zaplog.Info("mail sent",
			zap.String("order", orderID),
			zap.String("to", order.Email))
	}
	return nil
}

// Verify - только чтение, статус не меняется
func (service *service) Verify(ctx context.Context, orderID string) (model.Record, error) {
	if orderID == "" {
		return model.Record{}, ErrInsufficientData
	}

	record, err := service.store.Get(ctx, orderID)
	if err != nil {
		switch err {
		case store.ErrNotFound:
			return model.Record{}, ErrNotFound
		default:
			return model.Record{}, err
		}
	}
	if !record.Status.Redeemable() {
		return model.Record{}, ErrAlreadyRedeemed
	}
	return record, nil
}

// Confirm гасит код. Сброс на диск запрашивается только после
// успешного перехода active -> used
func (service *service) Confirm(ctx context.Context, orderID string) error {
	if orderID == "" {
		return ErrInsufficientData
	}

	if err := service.store.Redeem(ctx, orderID); err != nil {
		switch err {
		case store.ErrNotFound:
			return ErrNotFound
		case store.ErrAlreadyRedeemed:
			return ErrAlreadyRedeemed
		default:
			return err
		}
	}
	return service.store.Flush(ctx)
}

// foldMarker убирает пробелы и приводит к нижнему регистру,
// чтобы маркер "qrtest" находил и название вида "QR Test Shirt"
func foldMarker(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

func (service *service) matchLineItem(items []model.WebhookLineItem) (model.WebhookLineItem, bool) {
	for _, item := range items {
		if strings.Contains(foldMarker(item.Title), service.marker) {
			return item, true
		}
	}
	return model.WebhookLineItem{}, false
}

func (service *service) sendQRMail(ctx context.Context, email string, orderID string, qrURL string) error {
	subject := fmt.Sprintf("Your QR code for order #%s", orderID)
	body := fmt.Sprintf(
		"<h2>Thank you for your order!</h2>"+
			"<p>Here is your QR code to pick up your product:</p>"+
			"<img src=%q alt=\"QR Code\">"+
			"<p>Scan this code at the pickup point.</p>",
		qrURL)
	return service.mailer.Send(ctx, email, subject, body)
}

func customerName(customer *model.WebhookCustomer) string {
	if customer == nil {
		return "Customer"
	}
	name := strings.TrimSpace(customer.FirstName + " " + customer.LastName)
	if name == "" {
		return "Customer"
	}
	return name
}
