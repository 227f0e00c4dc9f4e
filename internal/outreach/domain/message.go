package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is the immutable audit record of one attempted send. Append-only;
// never updated after insert.
type Message struct {
	ID         uuid.UUID `json:"id"`
	OrgID      uuid.UUID `json:"org_id"`
	AthleteID  uuid.UUID `json:"athlete_id"`
	ContactID  uuid.UUID `json:"contact_id"`
	Email      string    `json:"email"`
	Phase      PhaseKey  `json:"phase"`
	Subject    string    `json:"subject"`
	Succeeded  bool      `json:"succeeded"`
	Error      string    `json:"error,omitempty"`
	TrackingID string    `json:"tracking_id,omitempty"` // opaque id carried on the provider send, echoed by delivery events
	SentAt     time.Time `json:"sent_at"`
}

// EmailEventType is a provider delivery-status callback type.
type EmailEventType string

const (
	EventDelivered  EmailEventType = "delivered"
	EventBounced    EmailEventType = "bounced"
	EventComplained EmailEventType = "complained"
)

// EmailEvent is one row of the delivery-event log, appended for every
// provider callback received.
type EmailEvent struct {
	ID         uuid.UUID      `json:"id"`
	TrackingID string         `json:"tracking_id"`
	Type       EmailEventType `json:"type"`
	Payload    []byte         `json:"payload,omitempty"` // raw provider payload, kept for diagnostics
	ReceivedAt time.Time      `json:"received_at"`
}
