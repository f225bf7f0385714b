package queue

import "context"

// Repo defines persistence operations for jobs.
type Repo interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id string) (Job, error)
	// GetActive returns the queued or running job for the slot, if any.
	GetActive(ctx context.Context, entityID, kind string) (Job, error)
	Update(ctx context.Context, job Job) error
	CountByStatus(ctx context.Context) (map[string]int, error)
}
