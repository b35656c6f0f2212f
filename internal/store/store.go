package store

import (
	"context"
	"errors"

	"github.com/yannisyannis/qr-shopify/internal/model"
)

// Store - хранилище QR-кодов. Бэкенд выбирается конфигурацией:
// JSON-файл (filestore) или Postgres (pgstore)
type Store interface {
	Get(ctx context.Context, orderID string) (model.Record, error)
	Put(ctx context.Context, record model.Record) error
	All(ctx context.Context) ([]model.Record, error)
	Redeem(ctx context.Context, orderID string) error
	Flush(ctx context.Context) error
	Close(ctx context.Context) error
}

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyRedeemed = errors.New("already redeemed")
)
