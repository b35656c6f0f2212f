package pgstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yannisyannis/qr-shopify/internal/model"
	"github.com/yannisyannis/qr-shopify/internal/store"
	"github.com/yannisyannis/qr-shopify/internal/store/config"
)

// интеграционные тесты, нужен живой Postgres
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	s, err := NewStore(config.Config{DatabaseDSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func uniqueOrderID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("%s-%d", t.Name(), time.Now().UnixNano())
}

func testRecord(orderID string) model.Record {
	return model.Record{
		OrderID:      orderID,
		CustomerName: "Jane Doe",
		ProductName:  "QR Test Shirt",
		Quantity:     2,
		Status:       model.StatusActive,
		QRCodeURL:    "http://localhost:3000/qrcodes/" + orderID + ".png",
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	record := testRecord(uniqueOrderID(t))
	require.NoError(t, s.Put(ctx, record))

	got, err := s.Get(ctx, record.OrderID)
	require.NoError(t, err)
	require.Equal(t, record, got)

	// перезапись по тому же order_id, последняя запись побеждает
	record.Quantity = 7
	require.NoError(t, s.Put(ctx, record))

	got, err = s.Get(ctx, record.OrderID)
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func TestGetUnknownOrder(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), uniqueOrderID(t))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRedeem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// неизвестный заказ
	err := s.Redeem(ctx, uniqueOrderID(t))
	require.ErrorIs(t, err, store.ErrNotFound)

	record := testRecord(uniqueOrderID(t))
	require.NoError(t, s.Put(ctx, record))

	// первое погашение
	require.NoError(t, s.Redeem(ctx, record.OrderID))
	got, err := s.Get(ctx, record.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.StatusUsed, got.Status)

	// повторное погашение: UPDATE не трогает строк,
	// и хранилище отличает "уже погашен" от "не найден"
	err = s.Redeem(ctx, record.OrderID)
	require.ErrorIs(t, err, store.ErrAlreadyRedeemed)
}
