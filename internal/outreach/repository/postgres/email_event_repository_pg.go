package postgres

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgEmailEventRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgEmailEventRepository(db *pgxpool.Pool, logger *slog.Logger) *PgEmailEventRepository {
	return &PgEmailEventRepository{db: db, logger: logger}
}

func (r *PgEmailEventRepository) Create(ctx context.Context, ev *domain.EmailEvent) error {
	query := `
		INSERT INTO email_events (id, tracking_id, type, payload, received_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, ev.ID, ev.TrackingID, string(ev.Type), ev.Payload, ev.ReceivedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error appending email event", "error", err, "tracking_id", ev.TrackingID)
	}
	return err
}
