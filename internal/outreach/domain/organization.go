package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization owns campaigns, athletes and contacts. Its outreach settings
// (global enable flag, per-phase templates) are mutable configuration and are
// re-read fresh on every sweep; Version increments on each settings change so
// concurrent sweep workers can tell stale snapshots apart.
type Organization struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	Timezone        string                `json:"timezone"` // IANA zone name, e.g. "America/Los_Angeles"
	OutreachEnabled bool                  `json:"outreach_enabled"`
	PhaseTemplates  map[PhaseKey]string   `json:"phase_templates,omitempty"` // body template per phase
	PhaseSubjects   map[PhaseKey]string   `json:"phase_subjects,omitempty"`
	DefaultTemplate string                `json:"default_template,omitempty"`
	Version         int64                 `json:"version"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// Location resolves the organization's IANA zone, falling back to UTC when
// the stored name is missing or invalid.
func (o *Organization) Location() *time.Location {
	if o.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
