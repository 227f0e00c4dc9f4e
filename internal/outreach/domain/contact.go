package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContactStatus tracks where a contact sits in the outreach funnel.
type ContactStatus string

const (
	ContactDraft      ContactStatus = "draft"
	ContactSent       ContactStatus = "sent"
	ContactBounced    ContactStatus = "bounced"
	ContactComplained ContactStatus = "complained"
	ContactDonated    ContactStatus = "donated"
)

// Contact is one potential donor imported by an athlete.
type Contact struct {
	ID            uuid.UUID     `json:"id"`
	OrgID         uuid.UUID     `json:"org_id"`
	AthleteID     uuid.UUID     `json:"athlete_id"`
	Name          string        `json:"name,omitempty"`
	Email         string        `json:"email"`
	EmailKey      string        `json:"email_key"` // normalized lowercase email, dedup/match key
	Status        ContactStatus `json:"status"`
	LastSentAt    *time.Time    `json:"last_sent_at,omitempty"`
	LastPhaseSent *PhaseKey     `json:"last_phase_sent,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NormalizeEmailKey produces the canonical match key for an address.
func NormalizeEmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Suppressed reports whether the contact is in a terminal state that
// permanently excludes it from automated sends. Terminal states never reset.
func (c *Contact) Suppressed() bool {
	switch c.Status {
	case ContactBounced, ContactComplained:
		return true
	}
	return false
}

// Converted reports whether the contact has already donated.
func (c *Contact) Converted() bool {
	return c.Status == ContactDonated
}
