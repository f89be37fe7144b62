package request

import "context"

// Repository describes request persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, requestID string) (Request, bool, error)
	ListByPool(ctx context.Context, poolID string) ([]Request, error)
	ListByUser(ctx context.Context, userID string) ([]Request, error)
	// SumOpenEntries totals NumberOfEntries over the user's pending and
	// payment_pending requests for one pool.
	SumOpenEntries(ctx context.Context, userID, poolID string) (int, error)
	Insert(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
}
