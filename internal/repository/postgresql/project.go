package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/buildcrew/sitework-backend-go/internal/domain/project"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type projectRepository struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepository{db: db}
}

// GetByID implements project.ProjectRepository.
func (r *projectRepository) GetByID(ctx context.Context, id string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, fence_latitude, fence_longitude, fence_radius_meters, fence_allowed_variance,
		       created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var p project.Project
	err := q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name,
		&p.Geofence.Latitude, &p.Geofence.Longitude, &p.Geofence.RadiusMeters, &p.Geofence.AllowedVariance,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, fmt.Errorf("failed to get project: %w", err)
	}

	return p, nil
}
