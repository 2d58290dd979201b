package worker

import "context"

// WorkerRepository reads worker identities. The core never writes workers.
type WorkerRepository interface {
	GetByID(ctx context.Context, id string) (Worker, error)
	GetByCode(ctx context.Context, code string) (Worker, error)
}
