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

	outreachhttp "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/adapters/http"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/adapters/mailer"
	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/app"
	outreachpg "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/repository/postgres"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/config"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/database"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/logger"
)

const serviceName = "outreach_service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(serviceName, cfg.LogLevel)
	appLogger.Info("Outreach service starting...",
		"port", cfg.OutreachHTTPPort, "sweep_interval", cfg.SweepInterval.String())

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewDBPool(rootCtx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL database")

	orgRepo := outreachpg.NewPgOrganizationRepository(dbPool, appLogger)
	campaignRepo := outreachpg.NewPgCampaignRepository(dbPool, appLogger)
	athleteRepo := outreachpg.NewPgAthleteRepository(dbPool, appLogger)
	contactRepo := outreachpg.NewPgContactRepository(dbPool, appLogger)
	messageRepo := outreachpg.NewPgMessageRepository(dbPool, appLogger)
	eventRepo := outreachpg.NewPgEmailEventRepository(dbPool, appLogger)

	provider := mailer.NewHTTPProvider(appLogger, cfg.MailProviderURL, cfg.MailProviderAPIKey, nil)
	engine := app.NewBatchSendEngine(
		provider,
		&app.PoolTxRunner{Pool: dbPool},
		athleteRepo,
		contactRepo,
		messageRepo,
		cfg.MailFromAddress,
		cfg.SendConcurrency,
		cfg.SendTimeout,
		appLogger,
	)
	sweeper := app.NewDripSweeper(orgRepo, campaignRepo, athleteRepo, contactRepo, engine, cfg.DonateURLBase, appLogger)
	manual := app.NewManualSender(orgRepo, campaignRepo, athleteRepo, contactRepo, engine, cfg.DonateURLBase, appLogger)

	outreachHandler := outreachhttp.NewOutreachHandler(manual, appLogger)
	eventsHandler := outreachhttp.NewDeliveryEventsHandler(messageRepo, contactRepo, eventRepo, appLogger)

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

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(outreachhttp.RequireAdminToken(cfg.AdminAPIJWTSecret, appLogger))
		r.Post("/athletes/{athleteID}/outreach/send", outreachHandler.HandleManualSend)
	})

	// Provider callbacks authenticate by obscurity of the tracking ids, not
	// by admin token.
	r.Post("/webhooks/email/events", eventsHandler.HandleEvents)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.OutreachHTTPPort),
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

	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		// One pass on startup so a restart never delays due sends by a
		// full interval.
		runSweep(gCtx, sweeper, appLogger)
		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				runSweep(gCtx, sweeper, appLogger)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Outreach service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Outreach service shut down cleanly")
}

func runSweep(ctx context.Context, sweeper *app.DripSweeper, logger *slog.Logger) {
	processed, err := sweeper.Sweep(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Sweep pass failed", "error", err)
		return
	}
	logger.InfoContext(ctx, "Sweep pass complete", "athletes_processed", processed)
}
