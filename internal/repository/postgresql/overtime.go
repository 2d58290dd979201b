package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/buildcrew/sitework-backend-go/internal/domain/overtime"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.RequestRepository {
	return &overtimeRepository{db: db}
}

// CreatePending implements overtime.RequestRepository. The NOT EXISTS guard
// keeps at most one pending request per worker+project+date regardless of
// concurrent submissions.
func (r *overtimeRepository) CreatePending(ctx context.Context, request overtime.Request) (overtime.Request, bool, error) {
	q := GetQuerier(ctx, r.db)

	request.ID = uuid.New().String()

	query := `
		INSERT INTO overtime_requests (id, worker_id, project_id, date, reason, status)
		SELECT $1, $2, $3, $4, $5, $6
		WHERE NOT EXISTS (
			SELECT 1 FROM overtime_requests
			WHERE worker_id = $2 AND project_id = $3 AND date = $4 AND status = $6
		)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.WorkerID,
		request.ProjectID,
		request.Date,
		request.Reason,
		overtime.StatusPending,
	).Scan(&request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Request{}, false, nil
		}
		return overtime.Request{}, false, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return request, true, nil
}

// GetByID implements overtime.RequestRepository.
func (r *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, project_id, date, reason, status, decided_by, decided_at, created_at, updated_at
		FROM overtime_requests
		WHERE id = $1
	`

	var req overtime.Request
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.WorkerID, &req.ProjectID, &req.Date, &req.Reason,
		&req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Request{}, overtime.ErrRequestNotFound
		}
		return overtime.Request{}, fmt.Errorf("failed to get overtime request: %w", err)
	}

	return req, nil
}

// Decide implements overtime.RequestRepository. Guarded on pending so a
// request is decided exactly once.
func (r *overtimeRepository) Decide(ctx context.Context, id string, status overtime.Status, decidedBy string, at time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE overtime_requests
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`

	tag, err := q.Exec(ctx, query, status, decidedBy, at, id, overtime.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to decide overtime request: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// GetStatus implements overtime.RequestRepository.
func (r *overtimeRepository) GetStatus(ctx context.Context, workerID, projectID string, date time.Time) (overtime.Status, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status
		FROM overtime_requests
		WHERE worker_id = $1 AND project_id = $2 AND date = $3
		ORDER BY created_at DESC
		LIMIT 1
	`

	var status overtime.Status
	err := q.QueryRow(ctx, query, workerID, projectID, date).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.StatusNone, nil
		}
		return overtime.StatusNone, fmt.Errorf("failed to get overtime status: %w", err)
	}

	return status, nil
}
