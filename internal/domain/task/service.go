package task

import (
	"context"
)

// TaskService sequences daily task work: dependency gating, one active task
// per worker, and daily target progress.
type TaskService interface {
	// CreateAssignment is the supervisor write path.
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)

	// Start transitions an assignment to in_progress after checking the
	// attendance gate, dependency completion, and the single-active rule.
	Start(ctx context.Context, assignmentID string) (AssignmentResponse, error)

	// Pause transitions in_progress -> paused.
	Pause(ctx context.Context, assignmentID string) (AssignmentResponse, error)

	// Complete transitions in_progress -> completed; rejects under-target
	// output unless ForceComplete is set (supervisor escalation, logged).
	Complete(ctx context.Context, req CompleteTaskRequest) (AssignmentResponse, error)

	// RecordProgress adds output to an in_progress assignment.
	RecordProgress(ctx context.Context, req RecordProgressRequest) (AssignmentResponse, error)

	// ListToday returns the caller's assignments with the advisory next task.
	ListToday(ctx context.Context) (TodayResponse, error)

	// DailySummary aggregates the caller's output per target unit.
	DailySummary(ctx context.Context) (DailySummaryResponse, error)
}
