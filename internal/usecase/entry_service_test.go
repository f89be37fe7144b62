package usecase

import (
	"errors"
	"testing"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
)

func newEntryServiceFixture(t *testing.T) *EntryService {
	t.Helper()

	entryRepo := memory.NewEntryRepository([]entry.Entry{
		{ID: "entry-1", UserID: "user-1", PoolID: "pool-1", RequestID: "req-1", EntryNumber: 1, Status: entry.StatusActive},
		{ID: "entry-2", UserID: "user-1", PoolID: "pool-1", RequestID: "req-1", EntryNumber: 2, Status: entry.StatusActive},
		{ID: "entry-3", UserID: "user-2", PoolID: "pool-1", RequestID: "req-2", EntryNumber: 1, Status: entry.StatusActive},
	})
	return NewEntryService(entryRepo, nil)
}

func TestEntryService_GetEntry_Ownership(t *testing.T) {
	svc := newEntryServiceFixture(t)

	if _, err := svc.GetEntry(t.Context(), "entry-1", "user-1", false); err != nil {
		t.Fatalf("owner should read own entry: %v", err)
	}

	if _, err := svc.GetEntry(t.Context(), "entry-1", "user-2", false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger, got %v", err)
	}

	if _, err := svc.GetEntry(t.Context(), "entry-1", "user-2", true); err != nil {
		t.Fatalf("admin should read any entry: %v", err)
	}

	if _, err := svc.GetEntry(t.Context(), "entry-missing", "user-1", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntryService_ListUserEntries(t *testing.T) {
	svc := newEntryServiceFixture(t)

	all, err := svc.ListUserEntries(t.Context(), "user-1", "")
	if err != nil {
		t.Fatalf("list entries failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	scoped, err := svc.ListUserEntries(t.Context(), "user-2", "pool-1")
	if err != nil {
		t.Fatalf("list scoped entries failed: %v", err)
	}
	if len(scoped) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(scoped))
	}
}

func TestEntryService_EliminateEntry_OneWay(t *testing.T) {
	svc := newEntryServiceFixture(t)

	eliminated, err := svc.EliminateEntry(t.Context(), "entry-1", 4)
	if err != nil {
		t.Fatalf("eliminate failed: %v", err)
	}
	if eliminated.Status != entry.StatusEliminated {
		t.Fatalf("entry should be eliminated, got %s", eliminated.Status)
	}
	if eliminated.EliminatedWeek == nil || *eliminated.EliminatedWeek != 4 {
		t.Fatalf("elimination week should be 4, got %v", eliminated.EliminatedWeek)
	}

	if _, err := svc.EliminateEntry(t.Context(), "entry-1", 7); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for second elimination, got %v", err)
	}

	// The original week survives the refused second elimination.
	after, err := svc.GetEntry(t.Context(), "entry-1", "user-1", false)
	if err != nil {
		t.Fatalf("get entry failed: %v", err)
	}
	if after.EliminatedWeek == nil || *after.EliminatedWeek != 4 {
		t.Fatalf("elimination week should stay 4, got %v", after.EliminatedWeek)
	}
}
