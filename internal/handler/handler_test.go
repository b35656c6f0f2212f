package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/handler/config"
	"github.com/yannisyannis/qr-shopify/internal/mailer"
	mailerConfig "github.com/yannisyannis/qr-shopify/internal/mailer/config"
	"github.com/yannisyannis/qr-shopify/internal/service"
	serviceConfig "github.com/yannisyannis/qr-shopify/internal/service/config"
	"github.com/yannisyannis/qr-shopify/internal/service/qrgen"
	storeConfig "github.com/yannisyannis/qr-shopify/internal/store/config"
	"github.com/yannisyannis/qr-shopify/internal/store/filestore"
)

// полный стек поверх временного каталога: файловое хранилище,
// настоящий генератор QR, почта-заглушка
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dir := t.TempDir()
	qrDir := filepath.Join(dir, "qrcodes")
	zaplog := zap.NewNop()

	qrstore, err := filestore.NewStore(
		storeConfig.Config{FilePath: filepath.Join(dir, "qrcodes.json")}, zaplog)
	require.NoError(t, err)

	qrmailer, err := mailer.NewMailer(mailerConfig.Config{}, zaplog)
	require.NoError(t, err)

	svc := service.NewService(serviceConfig.Config{
		ServerURL:     "http://shop.example.com",
		QRDir:         qrDir,
		ProductMarker: "qrtest",
	}, qrstore, qrgen.NewGenerator(), qrmailer, zaplog)

	h, err := newHandler(config.Config{
		ServerAddr: ":0",
		QRDir:      qrDir,
	}, svc, zaplog)
	require.NoError(t, err)

	return h.newRouter()
}

func do(t *testing.T, router http.Handler, method string, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookVerifyConfirmFlow(t *testing.T) {
	router := newTestRouter(t)

	// вебхук с целевым товаром
	webhook := `{
		"id": 1001,
		"email": "jane@example.com",
		"customer": {"first_name": "Jane", "last_name": "Doe"},
		"line_items": [
			{"title": "Plain Mug", "quantity": 1},
			{"title": "QR Test Shirt", "quantity": 2}
		]
	}`
	w := do(t, router, http.MethodPost, "/webhook-order", webhook)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())

	// картинка доступна по публичному пути
	w = do(t, router, http.MethodGet, "/qrcodes/1001.png", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotZero(t, w.Body.Len())

	// проверка кода
	w = do(t, router, http.MethodGet, "/verify-qr?order_id=1001", "")
	require.Equal(t, http.StatusOK, w.Code)
	var verify struct {
		Status       string `json:"status"`
		CustomerName string `json:"customer_name"`
		ProductName  string `json:"product_name"`
		Quantity     int    `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &verify))
	require.Equal(t, "success", verify.Status)
	require.Equal(t, "Jane Doe", verify.CustomerName)
	require.Equal(t, "QR Test Shirt", verify.ProductName)
	require.Equal(t, 2, verify.Quantity)

	// подтверждение
	w = do(t, router, http.MethodPost, "/confirm-qr", `{"order_id":"1001"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())

	// код уже погашен
	w = do(t, router, http.MethodGet, "/verify-qr?order_id=1001", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "already used")

	w = do(t, router, http.MethodPost, "/confirm-qr", `{"order_id":"1001"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookNoQualifyingItem(t *testing.T) {
	router := newTestRouter(t)

	webhook := `{
		"id": 1002,
		"email": "jane@example.com",
		"line_items": [{"title": "Plain Mug", "quantity": 1}]
	}`
	w := do(t, router, http.MethodPost, "/webhook-order", webhook)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/verify-qr?order_id=1002", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "not found")
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t)

	// не-JSON
	w := do(t, router, http.MethodPost, "/webhook-order", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)

	// нет id
	w = do(t, router, http.MethodPost, "/webhook-order",
		`{"line_items":[{"title":"QR Test Shirt","quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// количество меньше единицы
	w = do(t, router, http.MethodPost, "/webhook-order",
		`{"id":1003,"line_items":[{"title":"QR Test Shirt","quantity":0}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyRequiresOrderID(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/verify-qr", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "order_id is required")
}

func TestConfirmRequiresOrderID(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/confirm-qr", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "order_id is required")
}

func TestConfirmUnknownOrder(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/confirm-qr", `{"order_id":"404"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "not found or already used")
}

func TestScanPage(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/scan", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "html5-qrcode")
	require.Contains(t, w.Body.String(), "Scan a QR code")
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
}
