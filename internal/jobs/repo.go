package jobs

import "context"

// Repo persists job records.
type Repo interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, jobID int64) (Job, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error)
}
