// Package schedule computes the absolute send instants of the fixed
// outreach phase sequence. Everything here is pure: same inputs, same
// outputs, no I/O.
package schedule

import (
	"time"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

// Send time-of-day, fixed at 18:30 local time in the organization's zone.
const (
	sendHour   = 18
	sendMinute = 30
)

// PhaseInstant pairs a phase key with its absolute due instant.
type PhaseInstant struct {
	Key PhaseKey
	At  time.Time
}

// PhaseKey aliases the domain type so callers can use either package's name.
type PhaseKey = domain.PhaseKey

// Compute returns the ordered (phase, instant) list for a campaign start
// date in the given zone. The start date is a calendar date: its own
// year/month/day are taken as stored (a DATE column scans to midnight UTC,
// and converting that instant into a western zone would shift it to the
// previous day). Offsets are added in calendar days, not 24h multiples, so
// the schedule stays on 18:30 wall-clock time across DST transitions. A
// nil start date yields an empty schedule: nothing is ever due.
func Compute(startDate *time.Time, loc *time.Location) []PhaseInstant {
	if startDate == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	// Calendar parts of the date itself, re-anchored at 18:30 local per
	// offset day.
	y, m, d := startDate.Date()

	out := make([]PhaseInstant, 0, len(domain.Phases))
	for _, p := range domain.Phases {
		at := time.Date(y, m, d+p.OffsetDays, sendHour, sendMinute, 0, 0, loc)
		out = append(out, PhaseInstant{Key: p.Key, At: at})
	}
	return out
}

// DuePhase returns the phase to fire: the most advanced phase strictly
// after lastSent whose instant is at or before now. Earlier due phases
// whose window has fully elapsed are skipped rather than fired late; the
// scheduler never fires two phases in one sweep. ok is false when nothing
// is due.
func DuePhase(sched []PhaseInstant, lastSent *PhaseKey, now time.Time) (PhaseInstant, bool) {
	start := 0
	if lastSent != nil {
		if i := domain.PhaseIndex(*lastSent); i >= 0 {
			start = i + 1
		}
	}

	var due PhaseInstant
	found := false
	for _, pi := range sched[min(start, len(sched)):] {
		if pi.At.After(now) {
			break
		}
		due = pi
		found = true
	}
	return due, found
}

// NextPending returns the nearest future phase after lastSent, for the
// waiting-state observability fields. ok is false when the sequence is
// exhausted (no phase after the cursor is in the future and none is due).
func NextPending(sched []PhaseInstant, lastSent *PhaseKey, now time.Time) (PhaseInstant, bool) {
	start := 0
	if lastSent != nil {
		if i := domain.PhaseIndex(*lastSent); i >= 0 {
			start = i + 1
		}
	}

	for _, pi := range sched[min(start, len(sched)):] {
		if pi.At.After(now) {
			return pi, true
		}
	}
	return PhaseInstant{}, false
}

// Exhausted reports whether no phase after lastSent remains, due or future.
func Exhausted(sched []PhaseInstant, lastSent *PhaseKey) bool {
	if lastSent == nil {
		return len(sched) == 0
	}
	i := domain.PhaseIndex(*lastSent)
	if i < 0 {
		return len(sched) == 0
	}
	return i+1 >= len(sched)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
