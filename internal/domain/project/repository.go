package project

import "context"

// ProjectRepository reads project definitions. Project CRUD is external.
type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (Project, error)
}
