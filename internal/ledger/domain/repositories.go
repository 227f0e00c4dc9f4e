package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DonationRepository persists ledger entries. The Tx variants run inside
// the webhook's financial transaction.
type DonationRepository interface {
	// GetForUpdateTx locks and returns the entry, or ErrNotFound.
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (*Donation, error)
	// UpsertPaidTx writes the entry with status=paid plus denormalized
	// fields. Insert or update; the caller has already ruled out a prior
	// paid entry under the same lock.
	UpsertPaidTx(ctx context.Context, tx pgx.Tx, d *Donation) error
	// ListPaidInRange returns paid entries with PaidAt in [from, to),
	// for reconciliation.
	ListPaidInRange(ctx context.Context, from, to time.Time) ([]*Donation, error)
	// SumPaidForOrgDay sums paid entries for one org with PaidAt in
	// [dayStart, dayEnd).
	SumPaidForOrgDay(ctx context.Context, orgID uuid.UUID, dayStart, dayEnd time.Time) (total int64, count int, err error)
}

// AggregateRepository maintains the campaign/athlete running totals.
// Increments happen only inside the transaction that flips a ledger entry
// to paid, which keeps them consistent with the set of paid entries.
type AggregateRepository interface {
	IncrementTx(ctx context.Context, tx pgx.Tx, campaignID, athleteID uuid.UUID, amount int64) error
}

// EngagementRepository stores the cosmetic, at-most-once side records of a
// paid donation. Every create is keyed by the donation id and returns
// ErrDuplicateEntry when the record already exists.
type EngagementRepository interface {
	CreateComment(ctx context.Context, c *Comment) error
	CreateFeedItem(ctx context.Context, f *FeedItem) error
	// CreateReceiptRecord claims the right to queue the receipt message
	// for a donation. ErrDuplicateEntry means a prior delivery already
	// queued it.
	CreateReceiptRecord(ctx context.Context, donationID string) error
}

// RollupRepository materializes daily aggregates, write-once per (org, day).
type RollupRepository interface {
	// InsertIfAbsent writes the rollup unless one already exists for the
	// (org, day) key; inserted reports whether a row was written.
	InsertIfAbsent(ctx context.Context, r *DailyRollup) (inserted bool, err error)
}
