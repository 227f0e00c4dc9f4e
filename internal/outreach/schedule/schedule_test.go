package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func datePtr(y int, m time.Month, d int, loc *time.Location) *time.Time {
	dt := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &dt
}

func TestComputeAnchorsLocalSendTime(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)

	sched := Compute(start, la)
	require.Len(t, sched, len(domain.Phases))

	assert.Equal(t, domain.PhaseWeek1a, sched[0].Key)
	assert.Equal(t, time.Date(2024, time.January, 1, 18, 30, 0, 0, la), sched[0].At)

	assert.Equal(t, domain.PhaseWeek2, sched[2].Key)
	assert.Equal(t, time.Date(2024, time.January, 8, 18, 30, 0, 0, la), sched[2].At)
}

func TestComputeUsesStoredCalendarDate(t *testing.T) {
	// A DATE column scans to midnight UTC. The calendar date must be read
	// as stored, not shifted to the previous day by conversion into a
	// western zone.
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, time.UTC)

	sched := Compute(start, la)
	require.NotEmpty(t, sched)
	assert.Equal(t, time.Date(2024, time.January, 1, 18, 30, 0, 0, la), sched[0].At)
}

func TestComputeStrictlyIncreasingAndStable(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)

	first := Compute(start, la)
	second := Compute(start, la)
	require.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i].At.After(first[i-1].At),
			"phase %s must be strictly after %s", first[i].Key, first[i-1].Key)
	}
}

func TestComputeAcrossDSTTransition(t *testing.T) {
	// US spring-forward 2024 was March 10. A start date before the
	// transition must still yield 18:30 wall-clock instants after it.
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.March, 4, la)

	sched := Compute(start, la)
	for _, pi := range sched {
		h, m, _ := pi.At.In(la).Clock()
		assert.Equal(t, 18, h, "phase %s", pi.Key)
		assert.Equal(t, 30, m, "phase %s", pi.Key)
	}

	// week1b lands on March 7 (PST), week2 on March 11 (PDT): the absolute
	// gap is 4 days minus the hour lost to DST.
	gap := sched[2].At.Sub(sched[1].At)
	assert.Equal(t, 4*24*time.Hour-time.Hour, gap)
}

func TestComputeNilStartDate(t *testing.T) {
	assert.Empty(t, Compute(nil, time.UTC))
}

func TestDuePhaseFiresMostAdvancedDue(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)
	sched := Compute(start, la)

	// Both week1a and week1b have elapsed; only week1b fires.
	now := time.Date(2024, time.January, 5, 9, 0, 0, 0, la)
	due, ok := DuePhase(sched, nil, now)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseWeek1b, due.Key)
}

func TestDuePhaseRespectsCursor(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)
	sched := Compute(start, la)

	last := domain.PhaseWeek1b
	now := time.Date(2024, time.January, 5, 9, 0, 0, 0, la)

	_, ok := DuePhase(sched, &last, now)
	assert.False(t, ok, "no phase after week1b is due on Jan 5")

	next, ok := NextPending(sched, &last, now)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseWeek2, next.Key)
	assert.Equal(t, time.Date(2024, time.January, 8, 18, 30, 0, 0, la), next.At)
}

func TestDuePhaseNothingDueBeforeFirstInstant(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)
	sched := Compute(start, la)

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, la)
	_, ok := DuePhase(sched, nil, now)
	assert.False(t, ok)

	next, ok := NextPending(sched, nil, now)
	require.True(t, ok)
	assert.Equal(t, domain.PhaseWeek1a, next.Key)
}

func TestExhausted(t *testing.T) {
	la := mustLoad(t, "America/Los_Angeles")
	start := datePtr(2024, time.January, 1, la)
	sched := Compute(start, la)

	last := domain.PhaseWeek5
	assert.True(t, Exhausted(sched, &last))

	mid := domain.PhaseWeek3
	assert.False(t, Exhausted(sched, &mid))
	assert.False(t, Exhausted(sched, nil))
	assert.True(t, Exhausted(nil, nil))
}
