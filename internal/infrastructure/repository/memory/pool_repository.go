package memory

import (
	"context"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
)

type PoolRepository struct {
	mu     sync.RWMutex
	items  map[string]pool.Pool
	orders []string
}

func NewPoolRepository(pools []pool.Pool) *PoolRepository {
	items := make(map[string]pool.Pool, len(pools))
	orders := make([]string, 0, len(pools))

	for _, p := range pools {
		items[p.ID] = p
		orders = append(orders, p.ID)
	}

	return &PoolRepository{
		items:  items,
		orders: orders,
	}
}

func (r *PoolRepository) List(_ context.Context) ([]pool.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pool.Pool, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *PoolRepository) GetByID(_ context.Context, poolID string) (pool.Pool, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[poolID]
	if !ok {
		return pool.Pool{}, false, nil
	}

	return p, true, nil
}

func (r *PoolRepository) Insert(_ context.Context, p pool.Pool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[p.ID]; !exists {
		r.orders = append(r.orders, p.ID)
	}
	r.items[p.ID] = p
	return nil
}

func (r *PoolRepository) UpdateStatus(_ context.Context, poolID string, status pool.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[poolID]
	if !ok {
		return nil
	}
	p.Status = status
	r.items[poolID] = p
	return nil
}
