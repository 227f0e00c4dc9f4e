package domain

// PhaseKey identifies one step of the fixed outreach sequence.
type PhaseKey string

const (
	PhaseWeek1a PhaseKey = "week1a"
	PhaseWeek1b PhaseKey = "week1b"
	PhaseWeek2  PhaseKey = "week2"
	PhaseWeek3  PhaseKey = "week3"
	PhaseWeek4  PhaseKey = "week4"
	PhaseWeek5  PhaseKey = "week5"

	// PhaseManual labels caller-initiated sends that bypass the schedule.
	PhaseManual PhaseKey = "manual"
)

// PhaseDef is one row of the fixed phase table: a key and its offset in
// calendar days from the campaign start date.
type PhaseDef struct {
	Key        PhaseKey
	OffsetDays int
}

// Phases is the fixed, ordered outreach sequence. Send time-of-day is fixed
// at 18:30 in the organization's zone (see the schedule package).
var Phases = []PhaseDef{
	{Key: PhaseWeek1a, OffsetDays: 0},
	{Key: PhaseWeek1b, OffsetDays: 3},
	{Key: PhaseWeek2, OffsetDays: 7},
	{Key: PhaseWeek3, OffsetDays: 14},
	{Key: PhaseWeek4, OffsetDays: 21},
	{Key: PhaseWeek5, OffsetDays: 28},
}

// PhaseIndex returns the position of key in the fixed sequence, or -1 for
// unknown keys (including PhaseManual, which has no schedule position).
func PhaseIndex(key PhaseKey) int {
	for i, p := range Phases {
		if p.Key == key {
			return i
		}
	}
	return -1
}
