package domain

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus is the ledger entry state. Entries are only ever written
// by a verified confirmation, so the sole status is paid; reconciliation
// reports a gateway session with no entry as missing rather than pending.
type DonationStatus string

const (
	DonationPaid DonationStatus = "paid"
)

// Donation is the authoritative, append-only record of one confirmed
// payment. ID is the gateway checkout-session identifier supplied by the
// payment confirmation; it is the idempotency key and is never generated
// locally.
type Donation struct {
	ID              string         `json:"id"`
	OrgID           uuid.UUID      `json:"org_id"`
	CampaignID      uuid.UUID      `json:"campaign_id"`
	AthleteID       uuid.UUID      `json:"athlete_id"`
	Amount          int64          `json:"amount"` // integer minor currency units
	Currency        string         `json:"currency"`
	DonorName       string         `json:"donor_name,omitempty"`
	DonorEmail      string         `json:"donor_email,omitempty"`
	Status          DonationStatus `json:"status"`
	SourceEventID   string         `json:"source_event_id"`
	SourceEventType string         `json:"source_event_type"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// PaymentEvent is a verified, parsed payment confirmation.
type PaymentEvent struct {
	EventID    string    `json:"id"`
	EventType  string    `json:"type"`
	SessionID  string    `json:"session_id"`
	OrgID      uuid.UUID `json:"org_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	AthleteID  uuid.UUID `json:"athlete_id"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	DonorName  string    `json:"donor_name,omitempty"`
	DonorEmail string    `json:"donor_email,omitempty"`
	Comment    string    `json:"comment,omitempty"` // optional public message from the donor
}

// EventTypeSessionCompleted is the confirmation type that flips a ledger
// entry to paid. Other event types are acknowledged and ignored.
const EventTypeSessionCompleted = "checkout.session.completed"

// Comment is the at-most-once public comment created for a paid donation,
// keyed by the donation id.
type Comment struct {
	DonationID string    `json:"donation_id"`
	AthleteID  uuid.UUID `json:"athlete_id"`
	DonorName  string    `json:"donor_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedItem is the at-most-once public donor-feed entry for a paid
// donation, keyed by the donation id.
type FeedItem struct {
	DonationID string    `json:"donation_id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	AthleteID  uuid.UUID `json:"athlete_id"`
	DonorName  string    `json:"donor_name,omitempty"`
	Amount     int64     `json:"amount"`
	Currency   string    `json:"currency"`
	CreatedAt  time.Time `json:"created_at"`
}

// DailyRollup is the write-once per (org, day) materialized sum over paid
// ledger entries.
type DailyRollup struct {
	OrgID         uuid.UUID `json:"org_id"`
	Day           time.Time `json:"day"` // date only, org-local calendar day
	TotalRaised   int64     `json:"total_raised"`
	DonationCount int       `json:"donation_count"`
	CreatedAt     time.Time `json:"created_at"`
}
