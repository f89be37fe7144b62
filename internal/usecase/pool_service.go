package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/season"
	idgen "github.com/gridironpool/survivor-pool/internal/platform/id"
)

// CreatePoolInput carries the fields an admin supplies when opening a pool.
type CreatePoolInput struct {
	Name            string
	Season          int
	WeekCount       int
	MaxParticipants int
	MaxEntries      int
	EntryFee        int64
	CreatorID       string
	Description     string
}

type PoolService struct {
	poolRepo pool.Repository
	idGen    idgen.Generator
	logger   *slog.Logger
	now      func() time.Time
}

func NewPoolService(poolRepo pool.Repository, idGen idgen.Generator, logger *slog.Logger) *PoolService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PoolService{
		poolRepo: poolRepo,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

// CreatePool registers a new pool in pending status. Week count defaults to a
// full regular season when omitted.
func (s *PoolService) CreatePool(ctx context.Context, input CreatePoolInput) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.CreatePool")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.CreatorID = strings.TrimSpace(input.CreatorID)
	if input.WeekCount == 0 {
		input.WeekCount = season.MaxWeeks
	}
	if input.MaxEntries == 0 {
		input.MaxEntries = 3
	}

	poolID, err := s.idGen.NewID()
	if err != nil {
		return pool.Pool{}, fmt.Errorf("generate pool id: %w", err)
	}

	now := s.now().UTC()
	p := pool.Pool{
		ID:              poolID,
		Name:            input.Name,
		Season:          input.Season,
		CurrentWeek:     1,
		Status:          pool.StatusPending,
		WeekCount:       input.WeekCount,
		MaxParticipants: input.MaxParticipants,
		MaxEntries:      input.MaxEntries,
		EntryFee:        input.EntryFee,
		CreatorID:       input.CreatorID,
		Description:     strings.TrimSpace(input.Description),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := p.Validate(); err != nil {
		return pool.Pool{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	if err := s.poolRepo.Insert(ctx, p); err != nil {
		return pool.Pool{}, fmt.Errorf("insert pool: %w", err)
	}

	s.logger.InfoContext(ctx, "pool created", "pool_id", p.ID, "season", p.Season, "name", p.Name)
	return p, nil
}

// GetPool returns one pool by id.
func (s *PoolService) GetPool(ctx context.Context, poolID string) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.GetPool")
	defer span.End()

	p, found, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !found {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	return p, nil
}

// ListPools returns every pool.
func (s *PoolService) ListPools(ctx context.Context) ([]pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.ListPools")
	defer span.End()

	pools, err := s.poolRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pools: %w", err)
	}
	return pools, nil
}

// UpdatePoolStatus advances a pool through its lifecycle. The lifecycle only
// moves forward, so reopening a completed pool is refused.
func (s *PoolService) UpdatePoolStatus(ctx context.Context, poolID string, status pool.Status) (pool.Pool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PoolService.UpdatePoolStatus")
	defer span.End()

	if !pool.ValidStatus(status) {
		return pool.Pool{}, fmt.Errorf("%w: unknown pool status %q", ErrInvalidInput, status)
	}

	p, found, err := s.poolRepo.GetByID(ctx, poolID)
	if err != nil {
		return pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !found {
		return pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, poolID)
	}
	if !pool.CanTransition(p.Status, status) {
		return pool.Pool{}, fmt.Errorf("%w: pool cannot move from %s to %s", ErrConflict, p.Status, status)
	}

	if err := s.poolRepo.UpdateStatus(ctx, poolID, status); err != nil {
		return pool.Pool{}, fmt.Errorf("update pool status: %w", err)
	}

	p.Status = status
	p.UpdatedAt = s.now().UTC()
	s.logger.InfoContext(ctx, "pool status updated", "pool_id", p.ID, "status", status)
	return p, nil
}
