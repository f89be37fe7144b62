package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	concpool "github.com/sourcegraph/conc/pool"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
)

const (
	defaultScheduleFetchConcurrency = 4
	defaultGradingWorkers           = 8
)

// ScheduleSyncResult summarizes one schedule refresh across weeks.
type ScheduleSyncResult struct {
	Season int                 `json:"season"`
	Weeks  []WeekScheduleStats `json:"weeks"`
	Games  int                 `json:"games"`
}

type WeekScheduleStats struct {
	Week  int `json:"week"`
	Games int `json:"games"`
}

// WeekGradingResult summarizes grading one week's finished games.
type WeekGradingResult struct {
	Season     int `json:"season"`
	Week       int `json:"week"`
	FinalGames int `json:"final_games"`
	Graded     int `json:"graded"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Eliminated int `json:"eliminated"`
	Skipped    int `json:"skipped"`
}

// ResultSyncService pulls the schedule from the external provider and settles
// pick results once games go final. Grading is idempotent: a pick is graded
// at most once and an eliminated entry keeps its original elimination week.
type ResultSyncService struct {
	poolRepo  pool.Repository
	entryRepo entry.Repository
	pickRepo  pick.Repository
	gameRepo  game.Repository
	source    game.Source
	workers   int
	logger    *slog.Logger
	now       func() time.Time
}

func NewResultSyncService(
	poolRepo pool.Repository,
	entryRepo entry.Repository,
	pickRepo pick.Repository,
	gameRepo game.Repository,
	source game.Source,
	workers int,
	logger *slog.Logger,
) *ResultSyncService {
	if workers <= 0 {
		workers = defaultGradingWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ResultSyncService{
		poolRepo:  poolRepo,
		entryRepo: entryRepo,
		pickRepo:  pickRepo,
		gameRepo:  gameRepo,
		source:    source,
		workers:   workers,
		logger:    logger,
		now:       time.Now,
	}
}

// SyncSchedule fetches the given weeks from the provider and upserts their
// games. Weeks are fetched concurrently; one failing week fails the whole
// call so the scheduler retries it.
func (s *ResultSyncService) SyncSchedule(ctx context.Context, season int, weeks []int) (ScheduleSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultSyncService.SyncSchedule")
	defer span.End()

	if s.source == nil {
		return ScheduleSyncResult{}, fmt.Errorf("%w: schedule provider is not configured", ErrDependencyUnavailable)
	}
	if len(weeks) == 0 {
		return ScheduleSyncResult{}, fmt.Errorf("%w: at least one week is required", ErrInvalidInput)
	}
	for _, week := range weeks {
		if week < 1 {
			return ScheduleSyncResult{}, fmt.Errorf("%w: week must be at least 1", ErrInvalidInput)
		}
	}

	fetchers := concpool.NewWithResults[WeekScheduleStats]().
		WithContext(ctx).
		WithMaxGoroutines(defaultScheduleFetchConcurrency).
		WithCancelOnError()

	for _, week := range weeks {
		week := week
		fetchers.Go(func(ctx context.Context) (WeekScheduleStats, error) {
			games, err := s.source.FetchWeek(ctx, season, week)
			if err != nil {
				return WeekScheduleStats{}, fmt.Errorf("fetch week %d: %w", week, err)
			}
			if err := s.gameRepo.UpsertBatch(ctx, games); err != nil {
				return WeekScheduleStats{}, fmt.Errorf("upsert week %d games: %w", week, err)
			}
			return WeekScheduleStats{Week: week, Games: len(games)}, nil
		})
	}

	stats, err := fetchers.Wait()
	if err != nil {
		return ScheduleSyncResult{}, err
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Week < stats[j].Week })
	result := ScheduleSyncResult{Season: season, Weeks: stats}
	for _, row := range stats {
		result.Games += row.Games
	}

	s.logger.InfoContext(ctx, "schedule synced", "season", season, "weeks", len(stats), "games", result.Games)
	return result, nil
}

// SyncWeekResults refreshes one week's games and grades every pending pick
// against the final scores. Losing picks eliminate their entry; ties count as
// losses since the picked team did not win.
func (s *ResultSyncService) SyncWeekResults(ctx context.Context, season, week int) (WeekGradingResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultSyncService.SyncWeekResults")
	defer span.End()

	if week < 1 {
		return WeekGradingResult{}, fmt.Errorf("%w: week must be at least 1", ErrInvalidInput)
	}

	if s.source != nil {
		games, err := s.source.FetchWeek(ctx, season, week)
		if err != nil {
			return WeekGradingResult{}, fmt.Errorf("fetch week %d results: %w", week, err)
		}
		if err := s.gameRepo.UpsertBatch(ctx, games); err != nil {
			return WeekGradingResult{}, fmt.Errorf("upsert week %d games: %w", week, err)
		}
	}

	stored, err := s.gameRepo.ListByWeek(ctx, season, week)
	if err != nil {
		return WeekGradingResult{}, fmt.Errorf("list week %d games: %w", week, err)
	}

	finalByTeam := make(map[string]game.Game)
	finalCount := 0
	for _, g := range stored {
		if !game.IsFinalStatus(g.Status) {
			continue
		}
		finalCount++
		finalByTeam[strings.ToLower(g.HomeTeam)] = g
		finalByTeam[strings.ToLower(g.AwayTeam)] = g
	}

	result := WeekGradingResult{Season: season, Week: week, FinalGames: finalCount}
	if finalCount == 0 {
		return result, nil
	}

	pools, err := s.poolRepo.List(ctx)
	if err != nil {
		return WeekGradingResult{}, fmt.Errorf("list pools: %w", err)
	}

	var pending []pick.Pick
	for _, p := range pools {
		if p.Season != season {
			continue
		}
		picks, err := s.pickRepo.ListByPoolAndWeek(ctx, p.ID, week)
		if err != nil {
			return WeekGradingResult{}, fmt.Errorf("list picks pool=%s week=%d: %w", p.ID, week, err)
		}
		for _, row := range picks {
			if !row.Graded() {
				pending = append(pending, row)
			}
		}
	}
	if len(pending) == 0 {
		return result, nil
	}

	var graded, wins, losses, eliminated, skipped atomic.Int32

	gradingPool, err := ants.NewPool(s.workers)
	if err != nil {
		return WeekGradingResult{}, fmt.Errorf("create grading pool: %w", err)
	}
	defer gradingPool.Release()

	var workers sync.WaitGroup
	for _, row := range pending {
		row := row
		workers.Add(1)
		if err := gradingPool.Submit(func() {
			defer workers.Done()

			g, ok := finalByTeam[strings.ToLower(row.Team)]
			if !ok {
				skipped.Add(1)
				return
			}

			outcome := pick.ResultLoss
			if strings.EqualFold(g.Winner(), row.Team) {
				outcome = pick.ResultWin
			}

			row.Result = outcome
			row.UpdatedAt = s.now().UTC()
			if err := s.pickRepo.Update(ctx, row); err != nil {
				s.logger.ErrorContext(ctx, "grade pick",
					"pick_id", row.ID, "entry_id", row.EntryID, "week", row.Week, "error", err)
				skipped.Add(1)
				return
			}
			graded.Add(1)

			if outcome == pick.ResultWin {
				wins.Add(1)
				return
			}
			losses.Add(1)

			if err := s.eliminateLoser(ctx, row.EntryID, week); err != nil {
				s.logger.ErrorContext(ctx, "eliminate entry",
					"entry_id", row.EntryID, "week", week, "error", err)
				return
			}
			eliminated.Add(1)
		}); err != nil {
			workers.Done()
			return WeekGradingResult{}, fmt.Errorf("submit pick to grading pool: %w", err)
		}
	}
	workers.Wait()

	result.Graded = int(graded.Load())
	result.Wins = int(wins.Load())
	result.Losses = int(losses.Load())
	result.Eliminated = int(eliminated.Load())
	result.Skipped = int(skipped.Load())

	s.logger.InfoContext(ctx, "week results graded",
		"season", season,
		"week", week,
		"graded", result.Graded,
		"losses", result.Losses,
		"eliminated", result.Eliminated,
	)

	return result, nil
}

func (s *ResultSyncService) eliminateLoser(ctx context.Context, entryID string, week int) error {
	e, found, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	if !e.IsActive() {
		return nil
	}

	e.Status = entry.StatusEliminated
	e.EliminatedWeek = &week
	e.UpdatedAt = s.now().UTC()
	if err := s.entryRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}
