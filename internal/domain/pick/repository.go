package pick

import "context"

// Repository describes pick persistence needs from use cases.
//
// Upsert must be atomic with respect to the (entry, entryNumber, week) key:
// two concurrent calls for the same key converge to one row. Implementations
// back this with a uniqueness constraint so a lost race surfaces as a
// duplicate-key error instead of silent duplication.
type Repository interface {
	GetByEntryAndWeek(ctx context.Context, entryID string, entryNumber, week int) (Pick, bool, error)
	ListByEntry(ctx context.Context, entryID string) ([]Pick, error)
	ListByPoolAndWeek(ctx context.Context, poolID string, week int) ([]Pick, error)
	// TeamUsedInOtherWeek reports whether the entry already has a pick for
	// this team in any week other than the given one.
	TeamUsedInOtherWeek(ctx context.Context, entryID, team string, week int) (bool, error)
	Upsert(ctx context.Context, p Pick) (Pick, error)
	Update(ctx context.Context, p Pick) error
	Delete(ctx context.Context, entryID string, entryNumber, week int) (bool, error)
}
