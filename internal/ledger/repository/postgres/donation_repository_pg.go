package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

const donationColumns = `id, org_id, campaign_id, athlete_id, amount, currency,
       donor_name, donor_email, status, source_event_id, source_event_type,
       paid_at, created_at, updated_at`

type PgDonationRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgDonationRepository(db *pgxpool.Pool, logger *slog.Logger) *PgDonationRepository {
	return &PgDonationRepository{db: db, logger: logger}
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	d := &domain.Donation{}
	var status string
	err := row.Scan(
		&d.ID, &d.OrgID, &d.CampaignID, &d.AthleteID, &d.Amount, &d.Currency,
		&d.DonorName, &d.DonorEmail, &status, &d.SourceEventID, &d.SourceEventType,
		&d.PaidAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Status = domain.DonationStatus(status)
	return d, nil
}

// GetForUpdateTx locks the ledger row for the duration of the caller's
// transaction so concurrent deliveries of the same confirmation serialize.
func (r *PgDonationRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1 FOR UPDATE`
	d, err := scanDonation(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error locking donation", "error", err, "donation_id", id)
		return nil, err
	}
	return d, nil
}

func (r *PgDonationRepository) UpsertPaidTx(ctx context.Context, tx pgx.Tx, d *domain.Donation) error {
	query := `
		INSERT INTO donations (id, org_id, campaign_id, athlete_id, amount, currency,
		                       donor_name, donor_email, status, source_event_id,
		                       source_event_type, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			donor_name = EXCLUDED.donor_name,
			donor_email = EXCLUDED.donor_email,
			status = EXCLUDED.status,
			source_event_id = EXCLUDED.source_event_id,
			source_event_type = EXCLUDED.source_event_type,
			paid_at = EXCLUDED.paid_at,
			updated_at = NOW()
	`
	_, err := tx.Exec(ctx, query,
		d.ID, d.OrgID, d.CampaignID, d.AthleteID, d.Amount, d.Currency,
		d.DonorName, d.DonorEmail, string(d.Status), d.SourceEventID,
		d.SourceEventType, d.PaidAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error upserting paid donation", "error", err, "donation_id", d.ID)
	}
	return err
}

func (r *PgDonationRepository) ListPaidInRange(ctx context.Context, from, to time.Time) ([]*domain.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE status = 'paid' AND paid_at >= $1 AND paid_at < $2
		ORDER BY paid_at
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error listing paid donations", "error", err)
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

func (r *PgDonationRepository) SumPaidForOrgDay(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) (int64, int, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0), COUNT(*)
		FROM donations
		WHERE org_id = $1 AND status = 'paid' AND paid_at >= $2 AND paid_at < $3
	`
	var total int64
	var count int
	err := r.db.QueryRow(ctx, query, orgID, dayStart, dayEnd).Scan(&total, &count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error summing paid donations", "error", err, "org_id", orgID)
		return 0, 0, err
	}
	return total, count, nil
}
