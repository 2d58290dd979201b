package overtime

import (
	"context"
	"time"
)

// RequestRepository persists overtime requests. The single-pending invariant
// is enforced by a conditional insert at the store.
type RequestRepository interface {
	// CreatePending inserts a pending request unless one is already pending
	// for the same worker+project+date; the second return is false in that
	// case.
	CreatePending(ctx context.Context, request Request) (Request, bool, error)

	GetByID(ctx context.Context, id string) (Request, error)

	// Decide moves pending -> status. Returns false when the request was not
	// pending anymore.
	Decide(ctx context.Context, id string, status Status, decidedBy string, at time.Time) (bool, error)

	// GetStatus returns the latest request status for a worker's day, or
	// StatusNone when no request exists.
	GetStatus(ctx context.Context, workerID, projectID string, date time.Time) (Status, error)
}
