package task

import (
	"context"
	"time"
)

// AssignmentRepository persists task assignments. Status transitions are
// conditional updates so the single-active invariant holds across server
// instances.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment Assignment) (Assignment, error)

	GetByID(ctx context.Context, id string) (Assignment, error)

	// ListByWorkerAndDate returns all assignments for a worker's day ordered
	// by sequence.
	ListByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]Assignment, error)

	// Start moves queued|paused -> in_progress, guarded against any other
	// in_progress assignment for the same worker+date. started_at is set only
	// when null so a resume keeps the original start. Returns false when the
	// guard failed.
	Start(ctx context.Context, id string, at time.Time) (bool, error)

	// Pause moves in_progress -> paused. Returns false when the assignment
	// was not in_progress.
	Pause(ctx context.Context, id string) (bool, error)

	// Complete moves in_progress -> completed. Returns false when the
	// assignment was not in_progress.
	Complete(ctx context.Context, id string, at time.Time) (bool, error)

	// AddProgress atomically adds delta to actual_output and recomputes the
	// capped percentage, guarded on in_progress and a non-negative result.
	// Returns the updated assignment; ok is false when a guard failed.
	AddProgress(ctx context.Context, id string, delta float64) (Assignment, bool, error)
}

// AttendanceChecker is the narrow attendance projection the resolver needs:
// task-start legality depends on the worker being clocked in right now.
type AttendanceChecker interface {
	IsClockedIn(ctx context.Context, workerID, projectID string, date time.Time) (bool, error)
}
