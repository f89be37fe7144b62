package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pick"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
)

type stubScheduleSource struct {
	games []game.Game
	err   error
}

func (s *stubScheduleSource) FetchWeek(_ context.Context, season, week int) ([]game.Game, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []game.Game
	for _, g := range s.games {
		if g.Season == season && g.Week == week {
			out = append(out, g)
		}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func TestResultSyncService_SyncSchedule(t *testing.T) {
	gameRepo := memory.NewGameRepository(nil)
	source := &stubScheduleSource{games: []game.Game{
		{ID: "g1", Season: 2025, Week: 1, HomeTeam: "Kansas City Chiefs", AwayTeam: "Baltimore Ravens", KickoffAt: time.Now().Add(time.Hour), Status: game.StatusScheduled},
		{ID: "g2", Season: 2025, Week: 2, HomeTeam: "Dallas Cowboys", AwayTeam: "New York Giants", KickoffAt: time.Now().Add(168 * time.Hour), Status: game.StatusScheduled},
	}}

	svc := NewResultSyncService(memory.NewPoolRepository(nil), memory.NewEntryRepository(nil), memory.NewPickRepository(), gameRepo, source, 2, nil)

	result, err := svc.SyncSchedule(t.Context(), 2025, []int{1, 2})
	if err != nil {
		t.Fatalf("sync schedule failed: %v", err)
	}
	if result.Games != 2 {
		t.Fatalf("expected 2 games synced, got %d", result.Games)
	}
	if len(result.Weeks) != 2 || result.Weeks[0].Week != 1 || result.Weeks[1].Week != 2 {
		t.Fatalf("weeks should be reported in order: %+v", result.Weeks)
	}

	stored, err := gameRepo.ListByWeek(t.Context(), 2025, 1)
	if err != nil {
		t.Fatalf("list games failed: %v", err)
	}
	if len(stored) != 1 || stored[0].ID != "g1" {
		t.Fatalf("week 1 game not persisted: %+v", stored)
	}
}

func TestResultSyncService_SyncSchedule_ProviderFailure(t *testing.T) {
	source := &stubScheduleSource{err: errors.New("provider down")}
	svc := NewResultSyncService(memory.NewPoolRepository(nil), memory.NewEntryRepository(nil), memory.NewPickRepository(), memory.NewGameRepository(nil), source, 2, nil)

	if _, err := svc.SyncSchedule(t.Context(), 2025, []int{1}); err == nil {
		t.Fatal("expected error when provider fails")
	}
}

func TestResultSyncService_SyncWeekResults_GradesAndEliminates(t *testing.T) {
	kickoff := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	finals := []game.Game{
		{
			ID: "g1", Season: 2025, Week: 1,
			HomeTeam: "Philadelphia Eagles", AwayTeam: "Dallas Cowboys",
			KickoffAt: kickoff, Status: game.StatusFinal,
			HomeScore: intPtr(28), AwayScore: intPtr(14),
		},
		{
			ID: "g2", Season: 2025, Week: 1,
			HomeTeam: "Kansas City Chiefs", AwayTeam: "Baltimore Ravens",
			KickoffAt: kickoff, Status: game.StatusFinal,
			HomeScore: intPtr(17), AwayScore: intPtr(20),
		},
	}

	poolRepo := memory.NewPoolRepository([]pool.Pool{{
		ID: "pool-1", Name: "Test Survivor", Season: 2025, CurrentWeek: 1,
		Status: pool.StatusActive, WeekCount: 18, MaxParticipants: 10,
		MaxEntries: 3, EntryFee: 1000, CreatorID: "user-admin",
	}})
	entryRepo := memory.NewEntryRepository([]entry.Entry{
		{ID: "entry-1", UserID: "user-1", PoolID: "pool-1", RequestID: "req-1", EntryNumber: 1, Status: entry.StatusActive},
		{ID: "entry-2", UserID: "user-2", PoolID: "pool-1", RequestID: "req-2", EntryNumber: 1, Status: entry.StatusActive},
	})
	pickRepo := memory.NewPickRepository()
	gameRepo := memory.NewGameRepository(nil)

	seedPicks := []pick.Pick{
		{ID: "p1", EntryID: "entry-1", EntryNumber: 1, PoolID: "pool-1", Week: 1, Team: "Philadelphia Eagles", GameID: "g1", Result: pick.ResultPending},
		{ID: "p2", EntryID: "entry-2", EntryNumber: 1, PoolID: "pool-1", Week: 1, Team: "Kansas City Chiefs", GameID: "g2", Result: pick.ResultPending},
	}
	for _, p := range seedPicks {
		if _, err := pickRepo.Upsert(t.Context(), p); err != nil {
			t.Fatalf("seed pick: %v", err)
		}
	}

	svc := NewResultSyncService(poolRepo, entryRepo, pickRepo, gameRepo, &stubScheduleSource{games: finals}, 2, nil)

	result, err := svc.SyncWeekResults(t.Context(), 2025, 1)
	if err != nil {
		t.Fatalf("sync week results failed: %v", err)
	}
	if result.Graded != 2 || result.Wins != 1 || result.Losses != 1 {
		t.Fatalf("unexpected grading counts: %+v", result)
	}
	if result.Eliminated != 1 {
		t.Fatalf("losing entry should be eliminated: %+v", result)
	}

	winner, _, err := pickRepo.GetByEntryAndWeek(t.Context(), "entry-1", 1, 1)
	if err != nil {
		t.Fatalf("get winning pick: %v", err)
	}
	if winner.Result != pick.ResultWin {
		t.Fatalf("eagles pick should win, got %s", winner.Result)
	}

	loser, _, err := entryRepo.GetByID(t.Context(), "entry-2")
	if err != nil {
		t.Fatalf("get losing entry: %v", err)
	}
	if loser.Status != entry.StatusEliminated {
		t.Fatalf("chiefs entry should be eliminated, got %s", loser.Status)
	}
	if loser.EliminatedWeek == nil || *loser.EliminatedWeek != 1 {
		t.Fatalf("elimination week should be 1, got %v", loser.EliminatedWeek)
	}

	// A second run finds nothing left to grade.
	again, err := svc.SyncWeekResults(t.Context(), 2025, 1)
	if err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if again.Graded != 0 || again.Eliminated != 0 {
		t.Fatalf("grading should be idempotent: %+v", again)
	}
}

func TestResultSyncService_SyncWeekResults_IgnoresUnfinishedGames(t *testing.T) {
	kickoff := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	games := []game.Game{{
		ID: "g1", Season: 2025, Week: 1,
		HomeTeam: "Philadelphia Eagles", AwayTeam: "Dallas Cowboys",
		KickoffAt: kickoff, Status: game.StatusInProgress,
	}}

	poolRepo := memory.NewPoolRepository([]pool.Pool{{
		ID: "pool-1", Name: "Test Survivor", Season: 2025, CurrentWeek: 1,
		Status: pool.StatusActive, WeekCount: 18, MaxParticipants: 10,
		MaxEntries: 3, EntryFee: 1000, CreatorID: "user-admin",
	}})
	entryRepo := memory.NewEntryRepository([]entry.Entry{
		{ID: "entry-1", UserID: "user-1", PoolID: "pool-1", RequestID: "req-1", EntryNumber: 1, Status: entry.StatusActive},
	})
	pickRepo := memory.NewPickRepository()
	if _, err := pickRepo.Upsert(t.Context(), pick.Pick{
		ID: "p1", EntryID: "entry-1", EntryNumber: 1, PoolID: "pool-1", Week: 1,
		Team: "Philadelphia Eagles", GameID: "g1", Result: pick.ResultPending,
	}); err != nil {
		t.Fatalf("seed pick: %v", err)
	}

	svc := NewResultSyncService(poolRepo, entryRepo, pickRepo, memory.NewGameRepository(nil), &stubScheduleSource{games: games}, 2, nil)

	result, err := svc.SyncWeekResults(t.Context(), 2025, 1)
	if err != nil {
		t.Fatalf("sync week results failed: %v", err)
	}
	if result.FinalGames != 0 || result.Graded != 0 {
		t.Fatalf("nothing should be graded while the game is live: %+v", result)
	}
}
