package attendance

import (
	"context"
	"time"
)

// AttendanceService drives the per-worker attendance state machine.
type AttendanceService interface {
	// ValidateLocation tests the worker position against the project fence
	// without touching the session.
	ValidateLocation(ctx context.Context, req LocationRequest) (ValidateLocationResponse, error)

	// ClockIn opens today's session. Requires the worker inside the fence
	// and the login window (or its grace period) open.
	ClockIn(ctx context.Context, req LocationRequest) (SessionResponse, error)

	// LunchStart moves CLOCKED_IN -> ON_LUNCH within the lunch window.
	LunchStart(ctx context.Context, req LocationRequest) (SessionResponse, error)

	// LunchEnd moves ON_LUNCH -> CLOCKED_IN.
	LunchEnd(ctx context.Context, req LocationRequest) (SessionResponse, error)

	// ClockOut closes the session and computes regular/overtime hours. A
	// geofence violation is recorded but never blocks closing.
	ClockOut(ctx context.Context, req LocationRequest) (SessionResponse, error)

	// GetToday returns the worker's session for today.
	GetToday(ctx context.Context) (SessionResponse, error)

	// IsClockedIn is the read-only projection other modules consult before
	// allowing work to start.
	IsClockedIn(ctx context.Context, workerID, projectID string, date time.Time) (bool, error)
}
