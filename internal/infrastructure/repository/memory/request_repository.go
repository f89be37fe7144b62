package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/request"
)

type RequestRepository struct {
	mu    sync.RWMutex
	items map[string]request.Request
}

func NewRequestRepository(requests []request.Request) *RequestRepository {
	items := make(map[string]request.Request, len(requests))
	for _, req := range requests {
		items[req.ID] = req
	}

	return &RequestRepository{items: items}
}

func (r *RequestRepository) GetByID(_ context.Context, requestID string) (request.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[requestID]
	if !ok {
		return request.Request{}, false, nil
	}

	return req, true, nil
}

func (r *RequestRepository) ListByPool(_ context.Context, poolID string) ([]request.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []request.Request
	for _, req := range r.items {
		if req.PoolID == poolID {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r *RequestRepository) ListByUser(_ context.Context, userID string) ([]request.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []request.Request
	for _, req := range r.items {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	sortRequests(out)
	return out, nil
}

func (r *RequestRepository) SumOpenEntries(_ context.Context, userID, poolID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, req := range r.items {
		if req.UserID == userID && req.PoolID == poolID && req.Status.IsOpen() {
			total += req.NumberOfEntries
		}
	}
	return total, nil
}

func (r *RequestRepository) Insert(_ context.Context, req request.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if req.Status.IsOpen() {
		for _, existing := range r.items {
			if existing.UserID == req.UserID && existing.PoolID == req.PoolID && existing.Status.IsOpen() {
				return request.ErrOpenRequestExists
			}
		}
	}

	r.items[req.ID] = req
	return nil
}

func (r *RequestRepository) Update(_ context.Context, req request.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[req.ID]; !ok {
		return nil
	}
	r.items[req.ID] = req
	return nil
}

func sortRequests(items []request.Request) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}
