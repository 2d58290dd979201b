package overtime

import (
	"context"
	"time"
)

// OvertimeService manages the request/approve/reject lifecycle consulted by
// the attendance state machine at clock-out.
type OvertimeService interface {
	// Request creates a pending overtime request for the caller's day.
	Request(ctx context.Context, req RequestOvertimeRequest) (RequestResponse, error)

	// Decide transitions a pending request to approved or rejected.
	// Supervisor-only (enforced at the HTTP layer).
	Decide(ctx context.Context, req DecideRequest) (RequestResponse, error)

	// Status returns the caller's request status for today.
	Status(ctx context.Context) (RequestResponse, error)

	// CheckStatus is the read-only projection the attendance state machine
	// uses to decide whether excess time is payable overtime.
	CheckStatus(ctx context.Context, workerID, projectID string, date time.Time) (Status, error)
}
