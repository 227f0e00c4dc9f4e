package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hernahi/fundraising-mvp-sub000/internal/ledger/domain"
)

// PgEngagementRepository stores the side records of a paid donation. Each
// table carries a unique key on donation_id, which is what makes the
// create calls at-most-once across redelivered confirmations.
type PgEngagementRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPgEngagementRepository(db *pgxpool.Pool, logger *slog.Logger) *PgEngagementRepository {
	return &PgEngagementRepository{db: db, logger: logger}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgEngagementRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO donation_comments (donation_id, athlete_id, donor_name, body, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, c.DonationID, c.AthleteID, c.DonorName, c.Body)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating donation comment", "error", err, "donation_id", c.DonationID)
		return err
	}
	return nil
}

func (r *PgEngagementRepository) CreateFeedItem(ctx context.Context, f *domain.FeedItem) error {
	query := `
		INSERT INTO donor_feed_items (donation_id, campaign_id, athlete_id, donor_name,
		                              amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, f.DonationID, f.CampaignID, f.AthleteID, f.DonorName, f.Amount, f.Currency)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating feed item", "error", err, "donation_id", f.DonationID)
		return err
	}
	return nil
}

func (r *PgEngagementRepository) CreateReceiptRecord(ctx context.Context, donationID string) error {
	query := `INSERT INTO donation_receipts (donation_id, created_at) VALUES ($1, NOW())`
	_, err := r.db.Exec(ctx, query, donationID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEntry
		}
		r.logger.ErrorContext(ctx, "Error creating receipt record", "error", err, "donation_id", donationID)
		return err
	}
	return nil
}
