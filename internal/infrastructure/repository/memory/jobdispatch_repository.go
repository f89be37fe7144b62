package memory

import (
	"context"
	"sync"

	"github.com/gridironpool/survivor-pool/internal/domain/jobscheduler"
)

type JobDispatchRepository struct {
	mu    sync.RWMutex
	items map[string]jobscheduler.DispatchEvent
}

func NewJobDispatchRepository() *JobDispatchRepository {
	return &JobDispatchRepository{items: make(map[string]jobscheduler.DispatchEvent)}
}

func (r *JobDispatchRepository) UpsertEvent(_ context.Context, event jobscheduler.DispatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[event.DispatchID+"::"+string(event.Status)] = event
	return nil
}

// Events returns a snapshot for tests.
func (r *JobDispatchRepository) Events() []jobscheduler.DispatchEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.DispatchEvent, 0, len(r.items))
	for _, event := range r.items {
		out = append(out, event)
	}
	return out
}
