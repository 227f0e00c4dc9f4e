package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgMessageRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgMessageRepository(db *pgxpool.Pool, logger *slog.Logger) *PgMessageRepository {
	return &PgMessageRepository{db: db, logger: logger}
}

// CreateTx appends one audit record inside the batch commit. Messages are
// append-only; there is no update path.
func (r *PgMessageRepository) CreateTx(ctx context.Context, tx pgx.Tx, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, org_id, athlete_id, contact_id, email, phase,
		                      subject, succeeded, error, tracking_id, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.Exec(ctx, query,
		msg.ID, msg.OrgID, msg.AthleteID, msg.ContactID, msg.Email, string(msg.Phase),
		msg.Subject, msg.Succeeded, msg.Error, msg.TrackingID, msg.SentAt,
	)
	return err
}

func (r *PgMessageRepository) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Message, error) {
	query := `
		SELECT id, org_id, athlete_id, contact_id, email, phase, subject,
		       succeeded, error, tracking_id, sent_at
		FROM messages
		WHERE tracking_id = $1
	`
	msg := &domain.Message{}
	var phase string
	err := r.db.QueryRow(ctx, query, trackingID).Scan(
		&msg.ID, &msg.OrgID, &msg.AthleteID, &msg.ContactID, &msg.Email, &phase,
		&msg.Subject, &msg.Succeeded, &msg.Error, &msg.TrackingID, &msg.SentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting message by tracking ID", "error", err, "tracking_id", trackingID)
		return nil, err
	}
	msg.Phase = domain.PhaseKey(phase)
	return msg, nil
}
