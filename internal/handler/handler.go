package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/handler/config"
	"github.com/yannisyannis/qr-shopify/internal/logger"
	"github.com/yannisyannis/qr-shopify/internal/model"
	"github.com/yannisyannis/qr-shopify/internal/service"
)

// Serve поднимает HTTP-сервер и блокируется до SIGINT/SIGTERM
func Serve(cfg config.Config, service service.Service, zaplog *zap.Logger) error {
	h, err := newHandler(cfg, service, zaplog)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           h.newRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errch := make(chan error, 1)
	go func() {
		zaplog.Info("listening", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errch <- err
		}
	}()

	select {
	case err := <-errch:
		return err
	case <-ctx.Done():
	}

	zaplog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type handler struct {
	service  service.Service
	validate *validator.Validate
	scanPage []byte
	qrDir    string
	zaplog   *zap.Logger
}

func newHandler(cfg config.Config, service service.Service, zaplog *zap.Logger) (*handler, error) {
	scanPage, err := renderScanPage(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	return &handler{
		service:  service,
		validate: validator.New(),
		scanPage: scanPage,
		qrDir:    cfg.QRDir,
		zaplog:   zaplog,
	}, nil
}

func (h *handler) newRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(logger.RequestLogMdlw(h.zaplog))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/webhook-order", h.WebhookOrder)
	r.Get("/scan", h.ScanPage)
	r.Get("/verify-qr", h.VerifyQR)
	r.Post("/confirm-qr", h.ConfirmQR)
	r.Handle("/qrcodes/*",
		http.StripPrefix("/qrcodes/", http.FileServer(http.Dir(h.qrDir))))

	return r
}

// WebhookOrder принимает вебхук заказа. Для отправителя это
// fire-and-forget: ошибки обработки логируются, ответ всё равно 200
func (h *handler) WebhookOrder(w http.ResponseWriter, r *http.Request) {
	var order model.WebhookOrder
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(order); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.IngestOrder(r.Context(), order); err != nil {
		h.zaplog.Error("ingest order failed",
			zap.String("order", order.ID.String()),
			zap.Error(err))
	}

	_, _ = w.Write([]byte("OK"))
}

func (h *handler) ScanPage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.scanPage)
}

type verifyJSONResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
	ProductName  string `json:"product_name,omitempty"`
	Quantity     int    `json:"quantity,omitempty"`
}

// VerifyQR - только чтение, код не гасится.
// Невалидный код - это обычный ответ сканеру, а не ошибка HTTP
func (h *handler) VerifyQR(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		h.writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "order_id is required"})
		return
	}

	record, err := h.service.Verify(r.Context(), orderID)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			h.writeJSON(w, http.StatusOK,
				verifyJSONResponse{Status: "error", Message: "QR code not found"})
		case service.ErrAlreadyRedeemed:
			h.writeJSON(w, http.StatusOK,
				verifyJSONResponse{Status: "error", Message: "QR code already used"})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, verifyJSONResponse{
		Status:       "success",
		CustomerName: record.CustomerName,
		ProductName:  record.ProductName,
		Quantity:     record.Quantity,
	})
}

type confirmJSONRequest struct {
	OrderID string `json:"order_id"`
}

func (h *handler) ConfirmQR(w http.ResponseWriter, r *http.Request) {
	var confirmJSON confirmJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&confirmJSON); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if confirmJSON.OrderID == "" {
		h.writeJSON(w, http.StatusBadRequest,
			map[string]string{"error": "order_id is required"})
		return
	}

	if err := h.service.Confirm(r.Context(), confirmJSON.OrderID); err != nil {
		switch err {
		case service.ErrNotFound, service.ErrAlreadyRedeemed:
			h.writeJSON(w, http.StatusBadRequest,
				map[string]string{"error": "QR code not found or already used"})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.zaplog.Error("write response failed", zap.Error(err))
	}
}
