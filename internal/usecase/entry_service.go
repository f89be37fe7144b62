package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
)

type EntryService struct {
	entryRepo entry.Repository
	logger    *slog.Logger
	now       func() time.Time
}

func NewEntryService(entryRepo entry.Repository, logger *slog.Logger) *EntryService {
	if logger == nil {
		logger = slog.Default()
	}

	return &EntryService{
		entryRepo: entryRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// GetEntry returns one entry. Callers that are not the owner are refused
// unless the HTTP layer marked them as admin.
func (s *EntryService) GetEntry(ctx context.Context, entryID, callerID string, callerIsAdmin bool) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.GetEntry")
	defer span.End()

	e, found, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	if !found {
		return entry.Entry{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	if e.UserID != callerID && !callerIsAdmin {
		return entry.Entry{}, fmt.Errorf("%w: entry %s does not belong to caller", ErrForbidden, entryID)
	}
	return e, nil
}

// ListUserEntries returns every entry a user holds, optionally scoped to one
// pool.
func (s *EntryService) ListUserEntries(ctx context.Context, userID, poolID string) ([]entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.ListUserEntries")
	defer span.End()

	var (
		entries []entry.Entry
		err     error
	)
	if poolID != "" {
		entries, err = s.entryRepo.ListByUserAndPool(ctx, userID, poolID)
	} else {
		entries, err = s.entryRepo.ListByUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("list user entries: %w", err)
	}
	return entries, nil
}

// ListPoolEntries returns every entry admitted into a pool.
func (s *EntryService) ListPoolEntries(ctx context.Context, poolID string) ([]entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.ListPoolEntries")
	defer span.End()

	entries, err := s.entryRepo.ListByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("list pool entries: %w", err)
	}
	return entries, nil
}

// EliminateEntry marks an entry as eliminated in the given week. Elimination
// is one-way: an already eliminated entry keeps its original week and the
// call reports a conflict.
func (s *EntryService) EliminateEntry(ctx context.Context, entryID string, week int) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.EliminateEntry")
	defer span.End()

	if week < 1 {
		return entry.Entry{}, fmt.Errorf("%w: week must be at least 1", ErrInvalidInput)
	}

	e, found, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	if !found {
		return entry.Entry{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	if !e.IsActive() {
		return entry.Entry{}, fmt.Errorf("%w: entry %s is already eliminated", ErrConflict, entryID)
	}

	e.Status = entry.StatusEliminated
	e.EliminatedWeek = &week
	e.UpdatedAt = s.now().UTC()

	if err := s.entryRepo.Update(ctx, e); err != nil {
		return entry.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	s.logger.InfoContext(ctx, "entry eliminated", "entry_id", e.ID, "pool_id", e.PoolID, "week", week)
	return e, nil
}
