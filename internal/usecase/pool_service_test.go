package usecase

import (
	"errors"
	"testing"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/gridironpool/survivor-pool/internal/platform/id"
)

func TestPoolService_CreateAndAdvance(t *testing.T) {
	svc := NewPoolService(memory.NewPoolRepository(nil), id.NewRandomGenerator(), nil)

	created, err := svc.CreatePool(t.Context(), CreatePoolInput{
		Name:            "Office Survivor",
		Season:          2025,
		MaxParticipants: 20,
		EntryFee:        2500,
		CreatorID:       "user-admin",
	})
	if err != nil {
		t.Fatalf("create pool failed: %v", err)
	}
	if created.Status != pool.StatusPending {
		t.Fatalf("new pool should be pending, got %s", created.Status)
	}
	if created.WeekCount != 18 {
		t.Fatalf("week count should default to 18, got %d", created.WeekCount)
	}

	opened, err := svc.UpdatePoolStatus(t.Context(), created.ID, pool.StatusOpen)
	if err != nil {
		t.Fatalf("open pool failed: %v", err)
	}
	if opened.Status != pool.StatusOpen {
		t.Fatalf("pool should be open, got %s", opened.Status)
	}

	if _, err := svc.UpdatePoolStatus(t.Context(), created.ID, pool.StatusPending); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict moving backward, got %v", err)
	}

	if _, err := svc.UpdatePoolStatus(t.Context(), created.ID, pool.Status("archived")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestPoolService_CreatePool_Validation(t *testing.T) {
	svc := NewPoolService(memory.NewPoolRepository(nil), id.NewRandomGenerator(), nil)

	if _, err := svc.CreatePool(t.Context(), CreatePoolInput{
		Season:          2025,
		MaxParticipants: 20,
		CreatorID:       "user-admin",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing name, got %v", err)
	}
}

func TestPoolService_GetPool_NotFound(t *testing.T) {
	svc := NewPoolService(memory.NewPoolRepository(nil), id.NewRandomGenerator(), nil)

	if _, err := svc.GetPool(t.Context(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
