package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/gridironpool/survivor-pool/internal/domain/entry"
	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/domain/pool"
	"github.com/gridironpool/survivor-pool/internal/domain/user"
	"github.com/gridironpool/survivor-pool/internal/infrastructure/repository/memory"
	idgen "github.com/gridironpool/survivor-pool/internal/platform/id"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

type stubVerifier struct {
	principals map[string]user.Principal
}

func (v *stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v.principals[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Now().UTC()

	poolRepo := memory.NewPoolRepository([]pool.Pool{
		{
			ID:          "pool-1",
			Name:        "Office Survivor",
			Season:      2026,
			CurrentWeek: 1,
			Status:      pool.StatusOpen,
			WeekCount:   18,
			MaxEntries:  3,
			EntryFee:    5000,
			CreatorID:   "admin-1",
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	})
	entryRepo := memory.NewEntryRepository([]entry.Entry{
		{
			ID:          "entry-1",
			UserID:      "user-1",
			PoolID:      "pool-1",
			RequestID:   "request-0",
			EntryNumber: 1,
			Status:      entry.StatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	})
	gameRepo := memory.NewGameRepository([]game.Game{
		{
			ID:        "game-1",
			Season:    2026,
			Week:      1,
			HomeTeam:  "Philadelphia Eagles",
			AwayTeam:  "Dallas Cowboys",
			KickoffAt: now.Add(48 * time.Hour),
			Status:    game.StatusScheduled,
		},
		{
			ID:        "game-2",
			Season:    2026,
			Week:      1,
			HomeTeam:  "Green Bay Packers",
			AwayTeam:  "Chicago Bears",
			KickoffAt: now.Add(-time.Hour),
			Status:    game.StatusInProgress,
		},
		{
			ID:        "game-3",
			Season:    2026,
			Week:      2,
			HomeTeam:  "Philadelphia Eagles",
			AwayTeam:  "New York Giants",
			KickoffAt: now.Add(8 * 24 * time.Hour),
			Status:    game.StatusScheduled,
		},
	})
	requestRepo := memory.NewRequestRepository(nil)
	pickRepo := memory.NewPickRepository()
	dispatchRepo := memory.NewJobDispatchRepository()
	ids := idgen.NewRandomGenerator()

	handler := NewHandler(
		usecase.NewPoolService(poolRepo, ids, logger),
		usecase.NewRequestService(poolRepo, requestRepo, entryRepo, ids, logger),
		usecase.NewEntryService(entryRepo, logger),
		usecase.NewPickService(poolRepo, entryRepo, pickRepo, gameRepo, ids, usecase.DefaultPickLockout, logger),
		nil,
		gameRepo,
		dispatchRepo,
		logger,
	)

	verifier := &stubVerifier{principals: map[string]user.Principal{
		"token-user-1": {UserID: "user-1", Email: "one@example.com", Role: user.RoleUser},
		"token-user-2": {UserID: "user-2", Email: "two@example.com", Role: user.RoleUser},
		"token-admin":  {UserID: "admin-1", Email: "admin@example.com", Role: user.RoleAdmin},
	}}

	return NewRouter(handler, verifier, logger, false, nil, "job-secret")
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("unmarshal response envelope: %v (body=%s)", err, rec.Body.String())
		}
	}
	return rec, envelope
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", envelope)
	}
}

func TestRouter_ListPoolsIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/pools", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, _ := envelope["data"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected one pool, got %v", envelope["data"])
	}
}

func TestRouter_AuthenticatedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodGet, "/v1/entries", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_AdminRoutesRejectNonAdmin(t *testing.T) {
	router := newTestRouter(t)

	body := `{"name":"Second Pool","season":2026}`
	rec, _ := doJSON(t, router, http.MethodPost, "/v1/pools", "token-user-1", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/pools", "token-admin", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d (body=%v)", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["status"] != "pending" {
		t.Fatalf("expected new pool in pending status, got %v", data["status"])
	}
}

func TestRouter_PickLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPut, "/v1/entries/entry-1/1/picks/1", "token-user-1", `{"team":"Philadelphia Eagles"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on first pick, got %d (body=%v)", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["team"] != "Philadelphia Eagles" {
		t.Fatalf("unexpected pick team: %v", data["team"])
	}
	if data["result"] != "pending" {
		t.Fatalf("expected pending result, got %v", data["result"])
	}

	// Same team again in a later week violates the season-long reuse rule.
	rec, _ = doJSON(t, router, http.MethodPut, "/v1/entries/entry-1/1/picks/2", "token-user-1", `{"team":"Philadelphia Eagles"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for reused team, got %d", rec.Code)
	}

	// The Packers game already kicked off.
	rec, _ = doJSON(t, router, http.MethodPut, "/v1/entries/entry-1/1/picks/1", "token-user-1", `{"team":"Green Bay Packers"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after kickoff, got %d", rec.Code)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/entries/entry-1/1/picks/1", "token-user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading pick, got %d", rec.Code)
	}
	data, _ = envelope["data"].(map[string]any)
	if data["game_id"] != "game-1" {
		t.Fatalf("unexpected pick game: %v", data["game_id"])
	}

	// Another user may not read the pick.
	rec, _ = doJSON(t, router, http.MethodGet, "/v1/entries/entry-1/1/picks/1", "token-user-2", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign entry, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodDelete, "/v1/entries/entry-1/1/picks/1", "token-user-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting pick, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/v1/entries/entry-1/1/picks/1", "token-user-1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestRouter_PickPathValidation(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPut, "/v1/entries/entry-1/not-a-number/picks/1", "token-user-1", `{"team":"Philadelphia Eagles"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad entry number, got %d", rec.Code)
	}

	rec, _ = doJSON(t, router, http.MethodPut, "/v1/entries/entry-1/1/picks/99", "token-user-1", `{"team":"Philadelphia Eagles"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range week, got %d", rec.Code)
	}
}

func TestRouter_RequestLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodPost, "/v1/pools/pool-1/requests", "token-user-2", `{"number_of_entries":2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating request, got %d (body=%v)", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	requestID, _ := data["id"].(string)
	if requestID == "" {
		t.Fatalf("expected request id in response: %v", data)
	}
	if got, _ := data["total_amount"].(float64); got != 10000 {
		t.Fatalf("expected total_amount 10000, got %v", data["total_amount"])
	}

	rec, envelope = doJSON(t, router, http.MethodPut, "/v1/requests/"+requestID+"/payment", "token-user-2", `{"transaction_id":"txn-9","payment_method":"venmo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 confirming payment, got %d (body=%v)", rec.Code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	if data["status"] != "payment_pending" {
		t.Fatalf("expected payment_pending, got %v", data["status"])
	}

	// Approval is admin-only.
	rec, _ = doJSON(t, router, http.MethodPut, "/v1/requests/"+requestID+"/approve", "token-user-2", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin approval, got %d", rec.Code)
	}

	rec, envelope = doJSON(t, router, http.MethodPut, "/v1/requests/"+requestID+"/approve", "token-admin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 approving request, got %d (body=%v)", rec.Code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	entries, _ := data["entries"].([]any)
	if len(entries) != 2 {
		t.Fatalf("expected two minted entries, got %v", data["entries"])
	}

	rec, envelope = doJSON(t, router, http.MethodGet, "/v1/entries?pool_id=pool-1", "token-user-2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing entries, got %d", rec.Code)
	}
	items, _ := envelope["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected two entries for user-2, got %v", envelope["data"])
	}
}

func TestRouter_PoolWeekGames(t *testing.T) {
	router := newTestRouter(t)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/pools/pool-1/games/1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	items, _ := envelope["data"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected two week-1 games, got %v", envelope["data"])
	}

	rec, _ = doJSON(t, router, http.MethodGet, "/v1/pools/pool-1/games/99", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range week, got %d", rec.Code)
	}
}

func TestRouter_InternalJobRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/v1/internal/jobs/sync-schedule", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without job token, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-schedule", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)

	// The test router has no orchestrator wired.
	if rec2.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 with nil orchestrator, got %d", rec2.Code)
	}
}
