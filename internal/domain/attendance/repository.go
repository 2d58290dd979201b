package attendance

import (
	"context"
	"time"
)

// SessionRepository persists attendance sessions. State transitions are
// conditional updates keyed on the current state so concurrent requests for
// the same worker serialize at the store, not in process.
type SessionRepository interface {
	// Create inserts a new session keyed on (worker, project, date). The
	// second return is false when a session for that key already exists.
	Create(ctx context.Context, session Session) (Session, bool, error)

	// Get loads the session for a worker+project+date key.
	Get(ctx context.Context, workerID, projectID string, date time.Time) (Session, error)

	// TransitionLunchStart moves CLOCKED_IN -> ON_LUNCH. Returns false when
	// the session was not in CLOCKED_IN.
	TransitionLunchStart(ctx context.Context, sessionID string, at time.Time, lat, lon float64, inside bool) (bool, error)

	// TransitionLunchEnd moves ON_LUNCH -> CLOCKED_IN. Returns false when the
	// session was not in ON_LUNCH.
	TransitionLunchEnd(ctx context.Context, sessionID string, at time.Time) (bool, error)

	// TransitionClockOut moves CLOCKED_IN -> CLOCKED_OUT and writes the
	// computed hours. Returns false when the session was not in CLOCKED_IN.
	TransitionClockOut(ctx context.Context, session Session) (bool, error)

	// RecordViolation stores a geofence violation. Violations never block.
	RecordViolation(ctx context.Context, violation GeofenceViolation) error
}
