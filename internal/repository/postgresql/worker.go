package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildcrew/sitework-backend-go/internal/domain/worker"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type workerRepository struct {
	db *database.DB
}

func NewWorkerRepository(db *database.DB) worker.WorkerRepository {
	return &workerRepository{db: db}
}

const workerColumns = `
	id, code, full_name, pin_hash, role, project_id, active, created_at, updated_at`

func scanWorker(row pgx.Row) (worker.Worker, error) {
	var w worker.Worker
	err := row.Scan(
		&w.ID, &w.Code, &w.FullName, &w.PINHash, &w.Role, &w.ProjectID, &w.Active,
		&w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

// GetByID implements worker.WorkerRepository.
func (r *workerRepository) GetByID(ctx context.Context, id string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workerColumns + ` FROM workers WHERE id = $1`

	w, err := scanWorker(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker by ID: %w", err)
	}

	return w, nil
}

// GetByCode implements worker.WorkerRepository.
func (r *workerRepository) GetByCode(ctx context.Context, code string) (worker.Worker, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workerColumns + ` FROM workers WHERE code = $1`

	w, err := scanWorker(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worker.Worker{}, worker.ErrWorkerNotFound
		}
		return worker.Worker{}, fmt.Errorf("failed to get worker by code: %w", err)
	}

	return w, nil
}
