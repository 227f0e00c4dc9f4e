package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	ledgerhttp "github.com/hernahi/fundraising-mvp-sub000/internal/ledger/adapters/http"
	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/app"
	ledgerpg "github.com/hernahi/fundraising-mvp-sub000/internal/ledger/repository/postgres"
	outreachpg "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/repository/postgres"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/config"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/database"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/logger"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/messagebroker"
)

const serviceName = "payment_webhook_service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(serviceName, cfg.LogLevel)
	appLogger.Info("Payment webhook service starting...", "port", cfg.WebhookHTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewDBPool(rootCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL database")

	natsClient, err := messagebroker.NewNATSClient(cfg.NATSUrl, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("Connected to NATS")

	donationRepo := ledgerpg.NewPgDonationRepository(dbPool, appLogger)
	aggregateRepo := ledgerpg.NewPgAggregateRepository(dbPool, appLogger)
	engagementRepo := ledgerpg.NewPgEngagementRepository(dbPool, appLogger)
	contactRepo := outreachpg.NewPgContactRepository(dbPool, appLogger)

	ledgerService := app.NewLedgerService(
		app.NewSignatureVerifier(cfg.PaymentWebhookSecret),
		&app.PoolTxRunner{Pool: dbPool},
		donationRepo,
		aggregateRepo,
		engagementRepo,
		contactRepo,
		natsClient,
		cfg.ReceiptSubject,
		cfg.WebhookTimeout,
		appLogger,
	)
	webhookHandler := ledgerhttp.NewWebhookHandler(ledgerService, appLogger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok", "service": serviceName})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Authenticated by the HMAC signature on the body, not by admin token.
	r.Post("/webhooks/payment", webhookHandler.HandlePaymentWebhook)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebhookHTTPPort),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Payment webhook service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Payment webhook service shut down cleanly")
}
