package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

type PgRollupRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgRollupRepository(db *pgxpool.Pool, logger *slog.Logger) *PgRollupRepository {
	return &PgRollupRepository{db: db, logger: logger}
}

// InsertIfAbsent writes the rollup row unless the (org, day) key already
// exists. Rollups are write-once; a recomputed value never replaces the
// first one recorded.
func (r *PgRollupRepository) InsertIfAbsent(ctx context.Context, rollup *domain.DailyRollup) (bool, error) {
	query := `
		INSERT INTO daily_rollups (org_id, day, total_raised, donation_count, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (org_id, day) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, rollup.OrgID, rollup.Day, rollup.TotalRaised, rollup.DonationCount)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error inserting daily rollup", "error", err, "org_id", rollup.OrgID, "day", rollup.Day)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
