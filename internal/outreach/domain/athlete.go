package domain

import (
	"time"

	"github.com/google/uuid"
)

// SweepState classifies an athlete's position in the drip sequence during a
// sweep. It is derived, not persisted; the persisted cursor is OutreachState.
type SweepState string

const (
	SweepNoSchedule SweepState = "no-schedule" // no usable start date, campaign ended, or outreach disabled
	SweepWaiting    SweepState = "waiting"     // a future phase exists but none is due
	SweepDue        SweepState = "due"         // a phase is due to fire now
	SweepExhausted  SweepState = "exhausted"   // all phases have been sent
)

// OutreachState is the scheduler's only persisted cursor for an athlete.
// LastPhaseSent only ever advances forward through the fixed phase ordering.
// NextPhase/NextSendAt are observability fields recomputed each sweep.
type OutreachState struct {
	AutoSendEnabled bool       `json:"auto_send_enabled"`
	LastPhaseSent   *PhaseKey  `json:"last_phase_sent,omitempty"`
	NextPhase       *PhaseKey  `json:"next_phase,omitempty"`
	NextSendAt      *time.Time `json:"next_send_at,omitempty"`
}

// Athlete solicits donors for one campaign.
type Athlete struct {
	ID              uuid.UUID     `json:"id"`
	OrgID           uuid.UUID     `json:"org_id"`
	CampaignID      uuid.UUID     `json:"campaign_id"`
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	TeamName        string        `json:"team_name,omitempty"`
	PersonalMessage string        `json:"personal_message,omitempty"` // athlete-written note injected into templates
	PhaseTemplates  map[PhaseKey]string `json:"phase_templates,omitempty"` // per-athlete overrides, rare
	Outreach        OutreachState `json:"outreach"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// FullName joins the athlete's name parts.
func (a *Athlete) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
