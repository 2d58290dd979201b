package task

import "time"

// Status is the assignment lifecycle state. Completed is terminal;
// assignments are never deleted.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// DailyTarget is the expected output for one calendar day.
type DailyTarget struct {
	Quantity float64
	Unit     string // e.g. "m2", "bricks", "kg"
}

// Assignment is one worker's task for one day. At most one assignment per
// (worker, date) may be in_progress at any instant, and an assignment may
// start only once every dependency is completed.
type Assignment struct {
	ID           string
	WorkerID     string
	ProjectID    string
	Date         time.Time
	Name         string
	Sequence     int
	Status       Status
	Dependencies []string // assignment IDs that must be completed first

	DailyTarget     DailyTarget
	ActualOutput    float64
	ProgressPercent int

	StartedAt   *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
