package logger

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/logger/config"
)

func NewZapLog(cfg config.Config) (*zap.Logger, error) {
	// текстовый уровень логирования -> zap.AtomicLevel
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zapcfg := zap.NewProductionConfig()
	zapcfg.Level = lvl
	return zapcfg.Build()
}

// middleware-логер для входящих HTTP-запросов
func RequestLogMdlw(zaplog *zap.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wl := newResponseWriterLogger(w)

			handlerStart := time.Now()
			h.ServeHTTP(wl, r)
			handlerDuration := time.Since(handlerStart)

			zaplog.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("code", wl.statusCode),
				zap.Int("length", wl.length),
				zap.String("duration", handlerDuration.String()),
			)
		})
	}
}

type responseWriterLogger struct {
	http.ResponseWriter
	statusCode int
	length     int
}

func newResponseWriterLogger(w http.ResponseWriter) *responseWriterLogger {
	return &responseWriterLogger{w, http.StatusOK, 0}
}

func (wl *responseWriterLogger) WriteHeader(code int) {
	wl.statusCode = code
	wl.ResponseWriter.WriteHeader(code)
}

func (wl *responseWriterLogger) Write(b []byte) (n int, err error) {
	n, err = wl.ResponseWriter.Write(b)
	wl.length += n
	return
}
