package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	idgen "github.com/gridironpool/survivor-pool/internal/platform/id"
)

// DefaultPickLockout is how long before kickoff a pick freezes. Zero disables
// the buffer and gates only on the kickoff itself.
const DefaultPickLockout = 5 * time.Minute

// AddOrUpdatePickInput is the incoming payload for creating or changing a
// weekly pick.
type AddOrUpdatePickInput struct {
	EntryID     string
	EntryNumber int
	UserID      string
	Team        string
	Week        int
}

// UpdatePickPatch applies partial changes to an existing pick. Nil fields are
// left untouched.
type UpdatePickPatch struct {
	Team *string
}

type PickService struct {
	poolRepo  pool.Repository
	entryRepo entry.Repository
	pickRepo  pick.Repository
	gameRepo  game.Repository
	idGen     idgen.Generator
	lockout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewPickService(
	poolRepo pool.Repository,
	entryRepo entry.Repository,
	pickRepo pick.Repository,
	gameRepo game.Repository,
	idGen idgen.Generator,
	lockout time.Duration,
	logger *slog.Logger,
) *PickService {
	if logger == nil {
		logger = slog.Default()
	}
	if lockout < 0 {
		lockout = DefaultPickLockout
	}

	return &PickService{
		poolRepo:  poolRepo,
		entryRepo: entryRepo,
		pickRepo:  pickRepo,
		gameRepo:  gameRepo,
		idGen:     idGen,
		lockout:   lockout,
		logger:    logger,
		now:       time.Now,
	}
}

// AddOrUpdatePick upserts the pick for (entry, entryNumber, week). The write
// is a single atomic insert-or-replace keyed on that triple, so concurrent
// calls converge to one row.
func (s *PickService) AddOrUpdatePick(ctx context.Context, input AddOrUpdatePickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.AddOrUpdatePick")
	defer span.End()

	input.Team = strings.TrimSpace(input.Team)
	if input.Team == "" {
		return pick.Pick{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	e, p, err := s.loadOwnedEntry(ctx, input.EntryID, input.UserID)
	if err != nil {
		return pick.Pick{}, err
	}
	if input.EntryNumber != e.EntryNumber {
		return pick.Pick{}, fmt.Errorf("%w: entry number %d does not belong to entry %s", ErrInvalidInput, input.EntryNumber, input.EntryID)
	}
	if input.Week < 1 || input.Week > p.WeekCount {
		return pick.Pick{}, fmt.Errorf("%w: week %d is outside 1..%d", ErrInvalidInput, input.Week, p.WeekCount)
	}

	used, err := s.pickRepo.TeamUsedInOtherWeek(ctx, e.ID, input.Team, input.Week)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("check team reuse: %w", err)
	}
	if used {
		return pick.Pick{}, fmt.Errorf("%w: %s already picked this season for this entry", ErrConflict, input.Team)
	}

	g, found, err := s.gameRepo.FindByTeamAndWeek(ctx, p.Season, input.Week, input.Team)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("find game for team: %w", err)
	}
	if !found {
		return pick.Pick{}, fmt.Errorf("%w: no game found for %s in week %d", ErrNotFound, input.Team, input.Week)
	}
	if err := s.checkKickoff(g); err != nil {
		return pick.Pick{}, err
	}

	pickID, err := s.idGen.NewID()
	if err != nil {
		return pick.Pick{}, fmt.Errorf("generate pick id: %w", err)
	}

	now := s.now().UTC()
	saved, err := s.pickRepo.Upsert(ctx, pick.Pick{
		ID:          pickID,
		EntryID:     e.ID,
		EntryNumber: e.EntryNumber,
		PoolID:      e.PoolID,
		Week:        input.Week,
		Team:        input.Team,
		GameID:      g.ID,
		Result:      pick.ResultPending,
		PickedAt:    now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, pick.ErrTeamReused) {
			return pick.Pick{}, fmt.Errorf("%w: %s already picked this season for this entry", ErrConflict, input.Team)
		}
		return pick.Pick{}, fmt.Errorf("upsert pick: %w", err)
	}

	s.logger.InfoContext(ctx, "pick saved",
		"entry_id", e.ID,
		"week", input.Week,
		"team", input.Team,
		"game_id", g.ID,
	)

	return saved, nil
}

// GetPickForWeek returns the pick at (entry, entryNumber, week), or false
// when none exists yet. An absent pick is a valid state, not a failure.
func (s *PickService) GetPickForWeek(ctx context.Context, entryID string, entryNumber, week int) (pick.Pick, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.GetPickForWeek")
	defer span.End()

	if _, found, err := s.entryRepo.GetByID(ctx, entryID); err != nil {
		return pick.Pick{}, false, fmt.Errorf("get entry: %w", err)
	} else if !found {
		return pick.Pick{}, false, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}

	p, found, err := s.pickRepo.GetByEntryAndWeek(ctx, entryID, entryNumber, week)
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return p, found, nil
}

// ListPicksForEntry returns every pick the entry has made this season.
func (s *PickService) ListPicksForEntry(ctx context.Context, entryID string) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListPicksForEntry")
	defer span.End()

	if _, found, err := s.entryRepo.GetByID(ctx, entryID); err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	} else if !found {
		return nil, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}

	picks, err := s.pickRepo.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	return picks, nil
}

// UpdatePick applies a partial update to an existing pick. Unlike
// AddOrUpdatePick it never creates: a missing pick at the key is NotFound.
func (s *PickService) UpdatePick(ctx context.Context, entryID string, entryNumber, week int, userID string, patch UpdatePickPatch) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.UpdatePick")
	defer span.End()

	e, p, err := s.loadOwnedEntry(ctx, entryID, userID)
	if err != nil {
		return pick.Pick{}, err
	}

	existing, found, err := s.pickRepo.GetByEntryAndWeek(ctx, entryID, entryNumber, week)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get pick: %w", err)
	}
	if !found {
		return pick.Pick{}, fmt.Errorf("%w: no pick for entry %s week %d", ErrNotFound, entryID, week)
	}

	if patch.Team != nil {
		team := strings.TrimSpace(*patch.Team)
		if team == "" {
			return pick.Pick{}, fmt.Errorf("%w: team cannot be empty", ErrInvalidInput)
		}
		if !strings.EqualFold(team, existing.Team) {
			used, err := s.pickRepo.TeamUsedInOtherWeek(ctx, e.ID, team, week)
			if err != nil {
				return pick.Pick{}, fmt.Errorf("check team reuse: %w", err)
			}
			if used {
				return pick.Pick{}, fmt.Errorf("%w: %s already picked this season for this entry", ErrConflict, team)
			}
			g, gameFound, err := s.gameRepo.FindByTeamAndWeek(ctx, p.Season, week, team)
			if err != nil {
				return pick.Pick{}, fmt.Errorf("find game for team: %w", err)
			}
			if !gameFound {
				return pick.Pick{}, fmt.Errorf("%w: no game found for %s in week %d", ErrNotFound, team, week)
			}
			existing.Team = team
			existing.GameID = g.ID
		}
	}

	existing.UpdatedAt = s.now().UTC()
	if err := s.pickRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, pick.ErrTeamReused) {
			return pick.Pick{}, fmt.Errorf("%w: %s already picked this season for this entry", ErrConflict, existing.Team)
		}
		return pick.Pick{}, fmt.Errorf("update pick: %w", err)
	}

	return existing, nil
}

// DeletePick removes the pick at (entry, entryNumber, week), subject to the
// kickoff gate: a pick for a game already underway cannot be withdrawn.
func (s *PickService) DeletePick(ctx context.Context, entryID string, entryNumber, week int, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.DeletePick")
	defer span.End()

	if _, _, err := s.loadOwnedEntry(ctx, entryID, userID); err != nil {
		return err
	}

	existing, found, err := s.pickRepo.GetByEntryAndWeek(ctx, entryID, entryNumber, week)
	if err != nil {
		return fmt.Errorf("get pick: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: no pick for entry %s week %d", ErrNotFound, entryID, week)
	}

	if g, gameFound, err := s.gameRepo.GetByID(ctx, existing.GameID); err != nil {
		return fmt.Errorf("get game: %w", err)
	} else if gameFound {
		if err := s.checkKickoff(g); err != nil {
			return err
		}
	}

	return s.removePick(ctx, entryID, entryNumber, week)
}

// RemovePick is the ungated administrative removal path. It skips the kickoff
// gate and the ownership check; callers are expected to have authorized an
// admin before invoking it.
func (s *PickService) RemovePick(ctx context.Context, entryID string, entryNumber, week int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.RemovePick")
	defer span.End()

	return s.removePick(ctx, entryID, entryNumber, week)
}

func (s *PickService) removePick(ctx context.Context, entryID string, entryNumber, week int) error {
	deleted, err := s.pickRepo.Delete(ctx, entryID, entryNumber, week)
	if err != nil {
		return fmt.Errorf("delete pick: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: no pick for entry %s week %d", ErrNotFound, entryID, week)
	}

	s.logger.InfoContext(ctx, "pick deleted", "entry_id", entryID, "week", week)
	return nil
}

// checkKickoff enforces the single timing policy for every pick mutation.
// The cutoff is kickoff minus the configured lockout; at lockout zero the
// gate falls back to the plain has-it-started check.
func (s *PickService) checkKickoff(g game.Game) error {
	now := s.now()
	if !now.Before(g.KickoffAt) {
		return fmt.Errorf("%w: cannot modify pick after game has started", ErrConflict)
	}
	if s.lockout > 0 && !now.Before(g.KickoffAt.Add(-s.lockout)) {
		return fmt.Errorf("%w: cannot modify pick within %d minutes of kickoff", ErrConflict, int(s.lockout.Minutes()))
	}
	return nil
}

func (s *PickService) loadOwnedEntry(ctx context.Context, entryID, userID string) (entry.Entry, pool.Pool, error) {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	e, found, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("get entry: %w", err)
	}
	if !found {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	if e.UserID != userID {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("%w: entry %s does not belong to caller", ErrForbidden, entryID)
	}

	p, found, err := s.poolRepo.GetByID(ctx, e.PoolID)
	if err != nil {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("get pool: %w", err)
	}
	if !found {
		return entry.Entry{}, pool.Pool{}, fmt.Errorf("%w: pool=%s", ErrNotFound, e.PoolID)
	}

	return e, p, nil
}
