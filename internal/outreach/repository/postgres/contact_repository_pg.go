package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type PgContactRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgContactRepository(db *pgxpool.Pool, logger *slog.Logger) *PgContactRepository {
	return &PgContactRepository{db: db, logger: logger}
}

const contactColumns = `
	id, org_id, athlete_id, name, email, email_key, status,
	last_sent_at, last_phase_sent, created_at, updated_at
`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	c := &domain.Contact{}
	var lastPhase *string
	err := row.Scan(
		&c.ID, &c.OrgID, &c.AthleteID, &c.Name, &c.Email, &c.EmailKey,
		&c.Status, &c.LastSentAt, &lastPhase, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastPhase != nil {
		k := domain.PhaseKey(*lastPhase)
		c.LastPhaseSent = &k
	}
	return c, nil
}

func (r *PgContactRepository) ListByAthlete(ctx context.Context, athleteID uuid.UUID) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE athlete_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, athleteID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing contacts by athlete", "error", err, "athlete_id", athleteID)
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning contact row", "error", err, "athlete_id", athleteID)
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PgContactRepository) GetByIDs(ctx context.Context, athleteID uuid.UUID, ids []uuid.UUID) ([]*domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE athlete_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, athleteID, ids)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error getting contacts by IDs", "error", err, "athlete_id", athleteID)
		return nil, err
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// MarkSentTx records a delivery. Terminal statuses are preserved even if a
// contact was flipped (e.g. to donated by the payment ledger) between the
// engine's read and this commit.
func (r *PgContactRepository) MarkSentTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, phase domain.PhaseKey, sentAt time.Time) error {
	query := `
		UPDATE contacts
		SET status = CASE
		        WHEN status IN ('donated', 'bounced', 'complained') THEN status
		        ELSE $2
		    END,
		    last_sent_at = $3, last_phase_sent = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, query, id, domain.ContactSent, sentAt, string(phase), time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	query := `UPDATE contacts SET status = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating contact status", "error", err, "contact_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgContactRepository) MarkDonatedByEmailKey(ctx context.Context, athleteID uuid.UUID, emailKey string) error {
	query := `
		UPDATE contacts
		SET status = $3, updated_at = $4
		WHERE athlete_id = $1 AND email_key = $2
	`
	tag, err := r.db.Exec(ctx, query, athleteID, emailKey, domain.ContactDonated, time.Now().UTC())
	if err != nil {
		r.logger.ErrorContext(ctx, "Error marking contact donated", "error", err, "athlete_id", athleteID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
