package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign groups athletes under one fundraising window. StartDate anchors
// the phase schedule and is treated as immutable once phases have begun
// firing; a nil StartDate means no schedule exists yet.
type Campaign struct {
	ID        uuid.UUID  `json:"id"`
	OrgID     uuid.UUID  `json:"org_id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"` // calendar date (DATE column); time-of-day and zone are ignored
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Ended reports whether the campaign's end date has passed at now.
func (c *Campaign) Ended(now time.Time) bool {
	return c.EndDate != nil && now.After(*c.EndDate)
}
