package entry

import "context"

// Repository describes entry persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, entryID string) (Entry, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
	ListByUserAndPool(ctx context.Context, userID, poolID string) ([]Entry, error)
	ListByPool(ctx context.Context, poolID string) ([]Entry, error)
	CountByUserAndPool(ctx context.Context, userID, poolID string) (int, error)
	// InsertBatch persists all entries or none of them.
	InsertBatch(ctx context.Context, entries []Entry) error
	Update(ctx context.Context, e Entry) error
}
