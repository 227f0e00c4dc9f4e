package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgCampaignRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgCampaignRepository(db *pgxpool.Pool, logger *slog.Logger) *PgCampaignRepository {
	return &PgCampaignRepository{db: db, logger: logger}
}

func (r *PgCampaignRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	query := `
		SELECT id, org_id, name, start_date, end_date, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`
	c := &domain.Campaign{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.OrgID, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting campaign by ID", "error", err, "campaign_id", id)
		return nil, err
	}
	return c, nil
}
