package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/yannisyannis/qr-shopify/internal/config"
	"github.com/yannisyannis/qr-shopify/internal/handler"
	"github.com/yannisyannis/qr-shopify/internal/logger"
	"github.com/yannisyannis/qr-shopify/internal/mailer"
	"github.com/yannisyannis/qr-shopify/internal/service"
	"github.com/yannisyannis/qr-shopify/internal/service/qrgen"
	"github.com/yannisyannis/qr-shopify/internal/store"
	"github.com/yannisyannis/qr-shopify/internal/store/filestore"
	"github.com/yannisyannis/qr-shopify/internal/store/pgstore"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}

	var qrstore store.Store
	if cfg.Store.DatabaseDSN != "" {
		qrstore, err = pgstore.NewStore(cfg.Store)
	} else {
		qrstore, err = filestore.NewStore(cfg.Store, zaplog)
	}
	if err != nil {
		return err
	}
	// финальный сброс на любом пути выхода:
	// последняя запись файла авторитетна
	defer func() {
		if err := qrstore.Close(context.Background()); err != nil {
			zaplog.Error("final flush failed", zap.Error(err))
		}
	}()

	qrmailer, err := mailer.NewMailer(cfg.Mailer, zaplog)
	if err != nil {
		return err
	}

	service := service.NewService(cfg.Service, qrstore, qrgen.NewGenerator(), qrmailer, zaplog)

	return handler.Serve(cfg.Handler, service, zaplog)
}
