package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
)

type EntryRepository struct {
	mu    sync.RWMutex
	items map[string]entry.Entry
}

func NewEntryRepository(entries []entry.Entry) *EntryRepository {
	items := make(map[string]entry.Entry, len(entries))
	for _, e := range entries {
		items[e.ID] = cloneEntry(e)
	}

	return &EntryRepository{items: items}
}

func (r *EntryRepository) GetByID(_ context.Context, entryID string) (entry.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[entryID]
	if !ok {
		return entry.Entry{}, false, nil
	}

	return cloneEntry(e), true, nil
}

func (r *EntryRepository) ListByUser(_ context.Context, userID string) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entry.Entry
	for _, e := range r.items {
		if e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *EntryRepository) ListByUserAndPool(_ context.Context, userID, poolID string) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entry.Entry
	for _, e := range r.items {
		if e.UserID == userID && e.PoolID == poolID {
			out = append(out, cloneEntry(e))
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *EntryRepository) ListByPool(_ context.Context, poolID string) ([]entry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entry.Entry
	for _, e := range r.items {
		if e.PoolID == poolID {
			out = append(out, cloneEntry(e))
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *EntryRepository) CountByUserAndPool(_ context.Context, userID, poolID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, e := range r.items {
		if e.UserID == userID && e.PoolID == poolID {
			count++
		}
	}
	return count, nil
}

func (r *EntryRepository) InsertBatch(_ context.Context, entries []entry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		r.items[e.ID] = cloneEntry(e)
	}
	return nil
}

func (r *EntryRepository) Update(_ context.Context, e entry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[e.ID]; !ok {
		return nil
	}
	r.items[e.ID] = cloneEntry(e)
	return nil
}

func sortEntries(items []entry.Entry) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].PoolID != items[j].PoolID {
			return items[i].PoolID < items[j].PoolID
		}
		if items[i].UserID != items[j].UserID {
			return items[i].UserID < items[j].UserID
		}
		return items[i].EntryNumber < items[j].EntryNumber
	})
}

func cloneEntry(e entry.Entry) entry.Entry {
	copied := e
	if e.EliminatedWeek != nil {
		week := *e.EliminatedWeek
		copied.EliminatedWeek = &week
	}
	return copied
}
