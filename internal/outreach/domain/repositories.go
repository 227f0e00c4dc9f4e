package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrganizationRepository reads organization settings. Sweeps must fetch
// fresh rows every cycle rather than caching them process-wide.
type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
}

// CampaignRepository reads campaigns.
type CampaignRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Campaign, error)
}

// AthleteRepository reads athletes and persists the outreach cursor.
type AthleteRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Athlete, error)
	// ListAutoSendEnabled returns every athlete with auto-send turned on,
	// the sweep's working set.
	ListAutoSendEnabled(ctx context.Context) ([]*Athlete, error)
	UpdateOutreachState(ctx context.Context, id uuid.UUID, state OutreachState) error
	// UpdateOutreachStateTx joins the send engine's batch commit.
	UpdateOutreachStateTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, state OutreachState) error
}

// ContactRepository reads and mutates contacts.
type ContactRepository interface {
	ListByAthlete(ctx context.Context, athleteID uuid.UUID) ([]*Contact, error)
	GetByIDs(ctx context.Context, athleteID uuid.UUID, ids []uuid.UUID) ([]*Contact, error)
	// MarkSentTx records a successful delivery inside the batch commit.
	MarkSentTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, phase PhaseKey, sentAt time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status ContactStatus) error
	// MarkDonatedByEmailKey flips a contact to donated by its normalized
	// address; returns ErrNotFound when no contact matches.
	MarkDonatedByEmailKey(ctx context.Context, athleteID uuid.UUID, emailKey string) error
}

// MessageRepository appends outreach audit records.
type MessageRepository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, msg *Message) error
	// GetByTrackingID resolves the original send for a delivery event.
	GetByTrackingID(ctx context.Context, trackingID string) (*Message, error)
}

// EmailEventRepository appends delivery-event log rows.
type EmailEventRepository interface {
	Create(ctx context.Context, ev *EmailEvent) error
}
