package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[string]pick.Pick)}
}

func (r *PickRepository) GetByEntryAndWeek(_ context.Context, entryID string, entryNumber, week int) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[pickKey(entryID, entryNumber, week)]
	if !ok {
		return pick.Pick{}, false, nil
	}

	return p, true, nil
}

func (r *PickRepository) ListByEntry(_ context.Context, entryID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, p := range r.items {
		if p.EntryID == entryID {
			out = append(out, p)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListByPoolAndWeek(_ context.Context, poolID string, week int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []pick.Pick
	for _, p := range r.items {
		if p.PoolID == poolID && p.Week == week {
			out = append(out, p)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) TeamUsedInOtherWeek(_ context.Context, entryID, team string, week int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.EntryID == entryID && p.Week != week && strings.EqualFold(p.Team, team) {
			return true, nil
		}
	}
	return false, nil
}

func (r *PickRepository) Upsert(_ context.Context, p pick.Pick) (pick.Pick, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the unique index on (entry, team): the same team in any other
	// week loses the race here too.
	for _, existing := range r.items {
		if existing.EntryID == p.EntryID && existing.Week != p.Week && strings.EqualFold(existing.Team, p.Team) {
			return pick.Pick{}, pick.ErrTeamReused
		}
	}

	key := pickKey(p.EntryID, p.EntryNumber, p.Week)
	if existing, ok := r.items[key]; ok {
		p.ID = existing.ID
		p.PickedAt = existing.PickedAt
	}
	r.items[key] = p
	return p, nil
}

func (r *PickRepository) Update(_ context.Context, p pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pickKey(p.EntryID, p.EntryNumber, p.Week)
	if _, ok := r.items[key]; !ok {
		return fmt.Errorf("pick %s not found", p.ID)
	}
	r.items[key] = p
	return nil
}

func (r *PickRepository) Delete(_ context.Context, entryID string, entryNumber, week int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pickKey(entryID, entryNumber, week)
	if _, ok := r.items[key]; !ok {
		return false, nil
	}
	delete(r.items, key)
	return true, nil
}

func pickKey(entryID string, entryNumber, week int) string {
	return fmt.Sprintf("%s::%d::%d", entryID, entryNumber, week)
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].EntryID != items[j].EntryID {
			return items[i].EntryID < items[j].EntryID
		}
		return items[i].Week < items[j].Week
	})
}
