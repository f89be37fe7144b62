package pool

import "context"

// Repository describes pool persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Pool, error)
	GetByID(ctx context.Context, poolID string) (Pool, bool, error)
	Insert(ctx context.Context, p Pool) error
	UpdateStatus(ctx context.Context, poolID string, status Status) error
}
