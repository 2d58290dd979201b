package attendance

import "time"

// State is the attendance session state. Transitions only move along
// NOT_CLOCKED_IN -> CLOCKED_IN <-> ON_LUNCH -> ... -> CLOCKED_OUT;
// CLOCKED_OUT is terminal.
type State string

const (
	StateNotClockedIn State = "NOT_CLOCKED_IN"
	StateClockedIn    State = "CLOCKED_IN"
	StateOnLunch      State = "ON_LUNCH"
	StateClockedOut   State = "CLOCKED_OUT"
)

func (s State) Valid() bool {
	switch s {
	case StateNotClockedIn, StateClockedIn, StateOnLunch, StateClockedOut:
		return true
	}
	return false
}

// Session is one worker's attendance for one project on one work day.
// Timestamps are monotonically non-decreasing; once CLOCKED_OUT the row is
// never mutated again.
type Session struct {
	ID        string
	WorkerID  string
	ProjectID string
	Date      time.Time // work day, truncated to date
	State     State

	ClockInAt    *time.Time
	LunchStartAt *time.Time
	LunchEndAt   *time.Time
	ClockOutAt   *time.Time

	IsLate      bool
	MinutesLate int

	RegularHours float64
	OTHours      float64
	// Minutes worked past the logout grace window without an approved
	// overtime request. Recorded but never payable.
	UnapprovedOvertimeMinutes int
	UnapprovedOvertime        bool

	LastLatitude       *float64
	LastLongitude      *float64
	LastInsideGeofence *bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GeofenceViolation records an attempt to act from outside the project fence.
type GeofenceViolation struct {
	ID             string
	WorkerID       string
	ProjectID      string
	Action         string
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
	OccurredAt     time.Time
}
