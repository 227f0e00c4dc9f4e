package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/adapters/paymentgateway"
	ledgerpg "github.com/hernahi/fundraising-mvp-sub000/internal/ledger/repository/postgres"
	outreachpg "github.com/hernahi/fundraising-mvp-sub000/internal/outreach/repository/postgres"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/config"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/database"
	"github.com/hernahi/fundraising-mvp-sub000/internal/platform/logger"
	"github.com/hernahi/fundraising-mvp-sub000/internal/reports/app"
)

const serviceName = "rollup_service"

// Runs once and exits; scheduling (cron, systemd timer) is external.
func main() {
	var (
		skipReconcile = flag.Bool("skip-reconcile", false, "skip the gateway reconciliation pass")
		skipRollup    = flag.Bool("skip-rollup", false, "skip the daily rollup pass")
	)
	flag.Parse()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(serviceName, cfg.LogLevel)
	appLogger.Info("Rollup service starting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	orgRepo := outreachpg.NewPgOrganizationRepository(dbPool, appLogger)
	donationRepo := ledgerpg.NewPgDonationRepository(dbPool, appLogger)
	rollupRepo := ledgerpg.NewPgRollupRepository(dbPool, appLogger)

	failed := false

	if !*skipReconcile {
		gateway := paymentgateway.NewHTTPClient(appLogger, cfg.PaymentAPIBaseURL, cfg.PaymentAPIKey, nil)
		reconciler := app.NewReconciler(gateway, donationRepo, appLogger)

		// Reconcile the previous UTC day.
		now := time.Now().UTC()
		to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		from := to.Add(-24 * time.Hour)

		report, err := reconciler.Reconcile(ctx, from, to)
		if err != nil {
			appLogger.Error("Reconciliation failed", "error", err)
			failed = true
		} else if !report.Clean() {
			// The report goes to stdout for the operator; discrepancies are
			// resolved by gateway redelivery or by hand, never written here.
			if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
				appLogger.Error("Failed to write reconciliation report", "error", err)
			}
		}
	}

	if !*skipRollup {
		job := app.NewRollupJob(orgRepo, donationRepo, rollupRepo, appLogger)
		if err := job.Run(ctx); err != nil {
			appLogger.Error("Rollup run failed", "error", err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
	appLogger.Info("Rollup service finished")
}
