package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kursadbilgin/bulk-notify/internal/config"
	"github.com/kursadbilgin/bulk-notify/internal/handler"
	"github.com/kursadbilgin/bulk-notify/internal/observability"
	"github.com/kursadbilgin/bulk-notify/internal/provider"
	"github.com/kursadbilgin/bulk-notify/internal/ratelimit"
	"github.com/kursadbilgin/bulk-notify/internal/registry"
	"github.com/kursadbilgin/bulk-notify/internal/service"
	"github.com/kursadbilgin/bulk-notify/internal/source"
	"github.com/kursadbilgin/bulk-notify/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()
	jobs := registry.New()
	recipientSource := source.NewFileSource(logger)

	automator := provider.Automator(provider.DisabledAutomator{})
	if strings.TrimSpace(cfg.WhatsAppBridgeURL) != "" {
		bridge, err := provider.NewBridgeAutomator(
			cfg.WhatsAppBridgeURL,
			cfg.WhatsAppLoadWait(),
			cfg.WhatsAppCloseWait(),
		)
		if err != nil {
			logger.Fatal("whatsapp bridge initialization failed", zap.Error(err))
		}
		automator = bridge
	} else {
		logger.Warn("whatsapp bridge url not set, whatsapp sends will fail per recipient")
	}

	whatsapp, err := provider.NewWhatsAppSender(automator, cfg.WhatsAppDefaultCountryCode, logger)
	if err != nil {
		logger.Fatal("whatsapp sender initialization failed", zap.Error(err))
	}

	bulkService, err := service.NewBulkService(
		jobs,
		whatsapp,
		service.EmailDefaults{Host: cfg.DefaultSMTPHost, Port: cfg.DefaultSMTPPort},
		ratelimit.NewFixedDelayPacer(cfg.SendDelay()),
		logger,
	)
	if err != nil {
		logger.Fatal("bulk service initialization failed", zap.Error(err))
	}
	bulkService.SetMetrics(metrics)

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	if err := handler.RegisterBulkRoutes(app, bulkService, recipientSource); err != nil {
		logger.Fatal("route registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("bulk-notify api started", zap.Int("port", cfg.APIPort))
		return app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	})
	g.Go(func() error {
		<-ctx.Done()
		return app.Shutdown()
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}
