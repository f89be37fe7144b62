package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/gridironpool/survivor-pool/internal/platform/id"
)

var pickTestNow = time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)

func newPickServiceFixture(t *testing.T) (*PickService, *memory.PickRepository) {
	t.Helper()

	poolRepo := memory.NewPoolRepository([]pool.Pool{{
		ID:              "pool-1",
		Name:            "Test Survivor",
		Season:          2025,
		CurrentWeek:     1,
		Status:          pool.StatusActive,
		WeekCount:       18,
		MaxParticipants: 10,
		MaxEntries:      3,
		EntryFee:        1000,
		CreatorID:       "user-admin",
	}})
	entryRepo := memory.NewEntryRepository([]entry.Entry{
		{ID: "entry-1", UserID: "user-1", PoolID: "pool-1", RequestID: "req-1", EntryNumber: 1, Status: entry.StatusActive},
		{ID: "entry-2", UserID: "user-2", PoolID: "pool-1", RequestID: "req-2", EntryNumber: 1, Status: entry.StatusActive},
	})
	gameRepo := memory.NewGameRepository([]game.Game{
		{ID: "g-w1-phi", Season: 2025, Week: 1, HomeTeam: "Philadelphia Eagles", AwayTeam: "Dallas Cowboys", KickoffAt: pickTestNow.Add(6 * time.Hour), Status: game.StatusScheduled},
		{ID: "g-w1-kc", Season: 2025, Week: 1, HomeTeam: "Kansas City Chiefs", AwayTeam: "Baltimore Ravens", KickoffAt: pickTestNow.Add(9 * time.Hour), Status: game.StatusScheduled},
		{ID: "g-w2-phi", Season: 2025, Week: 2, HomeTeam: "Atlanta Falcons", AwayTeam: "Philadelphia Eagles", KickoffAt: pickTestNow.AddDate(0, 0, 7), Status: game.StatusScheduled},
		{ID: "g-w2-gb", Season: 2025, Week: 2, HomeTeam: "Green Bay Packers", AwayTeam: "Indianapolis Colts", KickoffAt: pickTestNow.AddDate(0, 0, 7), Status: game.StatusScheduled},
	})
	pickRepo := memory.NewPickRepository()

	svc := NewPickService(poolRepo, entryRepo, pickRepo, gameRepo, id.NewRandomGenerator(), DefaultPickLockout, nil)
	svc.now = func() time.Time { return pickTestNow }
	return svc, pickRepo
}

func TestPickService_AddOrUpdatePick_CreateThenReplace(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	first, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
	})
	if err != nil {
		t.Fatalf("create pick failed: %v", err)
	}
	if first.GameID != "g-w1-phi" {
		t.Fatalf("unexpected game id: %s", first.GameID)
	}
	if first.Result != "pending" {
		t.Fatalf("new pick should be pending, got %s", first.Result)
	}

	second, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Kansas City Chiefs", Week: 1,
	})
	if err != nil {
		t.Fatalf("replace pick failed: %v", err)
	}
	if second.Team != "Kansas City Chiefs" || second.GameID != "g-w1-kc" {
		t.Fatalf("pick was not replaced: %+v", second)
	}

	picks, err := svc.ListPicksForEntry(t.Context(), "entry-1")
	if err != nil {
		t.Fatalf("list picks failed: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("expected one pick for the week, got %d", len(picks))
	}
}

func TestPickService_AddOrUpdatePick_TeamReuseAcrossWeeks(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
	}); err != nil {
		t.Fatalf("week 1 pick failed: %v", err)
	}

	_, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 2,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for reused team, got %v", err)
	}

	// A different entry is free to use the same team.
	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-2", EntryNumber: 1, UserID: "user-2", Team: "Philadelphia Eagles", Week: 2,
	}); err != nil {
		t.Fatalf("other entry should be allowed to pick the team: %v", err)
	}
}

func TestPickService_AddOrUpdatePick_KickoffGate(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	tests := []struct {
		name      string
		untilKick time.Duration
		wantErr   bool
	}{
		{"well before kickoff", 10 * time.Minute, false},
		{"inside lockout buffer", 4 * time.Minute, true},
		{"after kickoff", -time.Minute, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc.now = func() time.Time {
				return pickTestNow.Add(6*time.Hour - tc.untilKick)
			}
			_, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
				EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
			})
			if tc.wantErr {
				if !errors.Is(err, ErrConflict) {
					t.Fatalf("expected ErrConflict, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pick should be allowed: %v", err)
			}
		})
	}
}

func TestPickService_AddOrUpdatePick_Ownership(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	_, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-2", Team: "Philadelphia Eagles", Week: 1,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestPickService_AddOrUpdatePick_Validation(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 19,
	}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week out of range, got %v", err)
	}

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-missing", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing entry, got %v", err)
	}

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "London Monarchs", Week: 1,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for team without a game, got %v", err)
	}
}

func TestPickService_GetPickForWeek_AbsentIsNotAnError(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	_, found, err := svc.GetPickForWeek(t.Context(), "entry-1", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("no pick was made yet")
	}

	if _, _, err := svc.GetPickForWeek(t.Context(), "entry-missing", 1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing entry, got %v", err)
	}
}

func TestPickService_UpdatePick_RequiresExistingPick(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	team := "Kansas City Chiefs"
	_, err := svc.UpdatePick(t.Context(), "entry-1", 1, 1, "user-1", UpdatePickPatch{Team: &team})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing pick, got %v", err)
	}

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
	}); err != nil {
		t.Fatalf("create pick failed: %v", err)
	}

	updated, err := svc.UpdatePick(t.Context(), "entry-1", 1, 1, "user-1", UpdatePickPatch{Team: &team})
	if err != nil {
		t.Fatalf("update pick failed: %v", err)
	}
	if updated.Team != team || updated.GameID != "g-w1-kc" {
		t.Fatalf("pick was not updated: %+v", updated)
	}
}

func TestPickService_DeletePick_KickoffGate(t *testing.T) {
	svc, _ := newPickServiceFixture(t)

	if _, err := svc.AddOrUpdatePick(t.Context(), AddOrUpdatePickInput{
		EntryID: "entry-1", EntryNumber: 1, UserID: "user-1", Team: "Philadelphia Eagles", Week: 1,
	}); err != nil {
		t.Fatalf("create pick failed: %v", err)
	}

	// After kickoff the pick is frozen.
	svc.now = func() time.Time { return pickTestNow.Add(7 * time.Hour) }
	if err := svc.DeletePick(t.Context(), "entry-1", 1, 1, "user-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict after kickoff, got %v", err)
	}

	// The administrative path ignores the gate.
	if err := svc.RemovePick(t.Context(), "entry-1", 1, 1); err != nil {
		t.Fatalf("admin removal failed: %v", err)
	}

	if err := svc.RemovePick(t.Context(), "entry-1", 1, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}
