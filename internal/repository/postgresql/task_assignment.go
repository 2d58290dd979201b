package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/task"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) task.AssignmentRepository {
	return &assignmentRepository{db: db}
}

const assignmentColumns = `
	id, worker_id, project_id, date, name, sequence, status, dependencies,
	target_quantity, target_unit, actual_output, progress_percent,
	started_at, completed_at, created_at, updated_at`

func scanAssignment(row pgx.Row) (task.Assignment, error) {
	var a task.Assignment
	err := row.Scan(
		&a.ID, &a.WorkerID, &a.ProjectID, &a.Date, &a.Name, &a.Sequence, &a.Status, &a.Dependencies,
		&a.DailyTarget.Quantity, &a.DailyTarget.Unit, &a.ActualOutput, &a.ProgressPercent,
		&a.StartedAt, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements task.AssignmentRepository.
func (r *assignmentRepository) Create(ctx context.Context, assignment task.Assignment) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	assignment.ID = uuid.New().String()

	query := `
		INSERT INTO worker_task_assignments (
			id, worker_id, project_id, date, name, sequence, status, dependencies,
			target_quantity, target_unit
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.ID,
		assignment.WorkerID,
		assignment.ProjectID,
		assignment.Date,
		assignment.Name,
		assignment.Sequence,
		assignment.Status,
		assignment.Dependencies,
		assignment.DailyTarget.Quantity,
		assignment.DailyTarget.Unit,
	).Scan(&assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		return task.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	return assignment, nil
}

// GetByID implements task.AssignmentRepository.
func (r *assignmentRepository) GetByID(ctx context.Context, id string) (task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM worker_task_assignments
		WHERE id = $1
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Assignment{}, task.ErrAssignmentNotFound
		}
		return task.Assignment{}, fmt.Errorf("failed to get assignment by ID: %w", err)
	}

	return a, nil
}

// ListByWorkerAndDate implements task.AssignmentRepository.
func (r *assignmentRepository) ListByWorkerAndDate(ctx context.Context, workerID string, date time.Time) ([]task.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + assignmentColumns + `
		FROM worker_task_assignments
		WHERE worker_id = $1 AND date = $2
		ORDER BY sequence ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, workerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []task.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// Start implements task.AssignmentRepository. The NOT EXISTS guard enforces
// the single-active invariant at the store, so it holds across server
// instances without in-process locks. started_at survives a pause/resume via
// COALESCE.
func (r *assignmentRepository) Start(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worker_task_assignments t
		SET status = $1, started_at = COALESCE(t.started_at, $2), updated_at = NOW()
		WHERE t.id = $3
		  AND t.status IN ($4, $5)
		  AND NOT EXISTS (
			SELECT 1 FROM worker_task_assignments o
			WHERE o.worker_id = t.worker_id
			  AND o.date = t.date
			  AND o.status = $1
			  AND o.id <> t.id
		  )
	`

	tag, err := q.Exec(ctx, query,
		task.StatusInProgress, at, id,
		task.StatusQueued, task.StatusPaused,
	)
	if err != nil {
		return false, fmt.Errorf("failed to start assignment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Pause implements task.AssignmentRepository.
func (r *assignmentRepository) Pause(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worker_task_assignments
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query, task.StatusPaused, id, task.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("failed to pause assignment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Complete implements task.AssignmentRepository.
func (r *assignmentRepository) Complete(ctx context.Context, id string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worker_task_assignments
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	tag, err := q.Exec(ctx, query, task.StatusCompleted, at, id, task.StatusInProgress)
	if err != nil {
		return false, fmt.Errorf("failed to complete assignment: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// AddProgress implements task.AssignmentRepository. One conditional UPDATE:
// guarded on in_progress and on the running total staying non-negative, with
// the capped percentage recomputed in the same statement.
func (r *assignmentRepository) AddProgress(ctx context.Context, id string, delta float64) (task.Assignment, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE worker_task_assignments
		SET actual_output = actual_output + $1,
		    progress_percent = LEAST(100, ROUND((actual_output + $1) / NULLIF(target_quantity, 0) * 100)),
		    updated_at = NOW()
		WHERE id = $2
		  AND status = $3
		  AND actual_output + $1 >= 0
		RETURNING ` + assignmentColumns + `
	`

	a, err := scanAssignment(q.QueryRow(ctx, query, delta, id, task.StatusInProgress))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Assignment{}, false, nil
		}
		return task.Assignment{}, false, fmt.Errorf("failed to add progress: %w", err)
	}

	return a, true, nil
}
