package overtime

import "time"

// Status is the overtime request lifecycle state. Approved and rejected are
// terminal; at most one non-terminal request exists per worker+project+date.
type Status string

const (
	StatusNone     Status = "none"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is a worker's ask to have hours past the standard shift counted as
// payable overtime.
type Request struct {
	ID        string
	WorkerID  string
	ProjectID string
	Date      time.Time
	Reason    string
	Status    Status
	DecidedBy *string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
