package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgAggregateRepository maintains the denormalized campaign and athlete
// running totals that the public pages read.
type PgAggregateRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgAggregateRepository(db *pgxpool.Pool, logger *slog.Logger) *PgAggregateRepository {
	return &PgAggregateRepository{db: db, logger: logger}
}

// IncrementTx bumps both totals inside the caller's transaction. Rows are
// created on first increment.
func (r *PgAggregateRepository) IncrementTx(ctx context.Context, tx pgx.Tx, campaignID, athleteID uuid.UUID, amount int64) error {
	campaignQuery := `
		INSERT INTO campaign_totals (campaign_id, total_raised, donation_count, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (campaign_id) DO UPDATE SET
			total_raised = campaign_totals.total_raised + EXCLUDED.total_raised,
			donation_count = campaign_totals.donation_count + 1,
			updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, campaignQuery, campaignID, amount); err != nil {
		r.logger.ErrorContext(ctx, "Error incrementing campaign total", "error", err, "campaign_id", campaignID)
		return err
	}

	athleteQuery := `
		INSERT INTO athlete_totals (athlete_id, total_raised, donation_count, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (athlete_id) DO UPDATE SET
			total_raised = athlete_totals.total_raised + EXCLUDED.total_raised,
			donation_count = athlete_totals.donation_count + 1,
			updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, athleteQuery, athleteID, amount); err != nil {
		r.logger.ErrorContext(ctx, "Error incrementing athlete total", "error", err, "athlete_id", athleteID)
		return err
	}
	return nil
}
