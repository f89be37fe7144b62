package rundown

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/platform/resilience"
)

const weekOneEventsPayload = `{
  "events": [
    {
      "event_id": "nfl-2025-w1-phi-dal",
      "event_date": "2025-09-07T17:00:00Z",
      "score": {"event_status": "STATUS_FINAL", "score_home": 28, "score_away": 14},
      "teams_normalized": [
        {"name": "Philadelphia", "mascot": "Eagles", "is_home": true, "is_away": false},
        {"name": "Dallas", "mascot": "Cowboys", "is_home": false, "is_away": true}
      ],
      "schedule": {"season_year": 2025, "week": 1}
    },
    {
      "event_id": "nfl-2025-w1-kc-buf",
      "event_date": "2025-09-07T13:00:00Z",
      "score": {"event_status": "STATUS_SCHEDULED", "score_home": 0, "score_away": 0},
      "teams_normalized": [
        {"name": "Kansas City", "mascot": "Chiefs", "is_home": true, "is_away": false},
        {"name": "Buffalo", "mascot": "Bills", "is_home": false, "is_away": true}
      ],
      "schedule": {"season_year": 2025, "week": 1}
    },
    {
      "event_id": "",
      "event_date": "not-a-date",
      "teams_normalized": []
    }
  ]
}`

func TestFetchWeek_MapsEvents(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-rapidapi-key")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(weekOneEventsPayload))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
	})

	games, err := client.FetchWeek(t.Context(), 2025, 1)
	if err != nil {
		t.Fatalf("fetch week: %v", err)
	}

	if gotPath != "/sports/2/events" {
		t.Fatalf("expected events path, got=%s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected rapidapi key header, got=%q", gotKey)
	}
	if !strings.Contains(gotQuery, "season_year=2025") || !strings.Contains(gotQuery, "week=1") {
		t.Fatalf("expected season and week in query, got=%s", gotQuery)
	}

	if len(games) != 2 {
		t.Fatalf("expected malformed event skipped, got %d games", len(games))
	}

	// Sorted by kickoff: the scheduled 13:00 game first.
	first := games[0]
	if first.ID != "nfl-2025-w1-kc-buf" {
		t.Fatalf("expected earliest kickoff first, got=%s", first.ID)
	}
	if first.Status != game.StatusScheduled {
		t.Fatalf("expected scheduled status, got=%s", first.Status)
	}
	if first.HomeScore != nil || first.AwayScore != nil {
		t.Fatalf("expected no scores on scheduled game")
	}

	final := games[1]
	if final.HomeTeam != "Philadelphia Eagles" || final.AwayTeam != "Dallas Cowboys" {
		t.Fatalf("unexpected teams home=%s away=%s", final.HomeTeam, final.AwayTeam)
	}
	if !game.IsFinalStatus(final.Status) {
		t.Fatalf("expected final status, got=%s", final.Status)
	}
	if final.HomeScore == nil || *final.HomeScore != 28 || final.AwayScore == nil || *final.AwayScore != 14 {
		t.Fatalf("unexpected scores home=%v away=%v", final.HomeScore, final.AwayScore)
	}
	if final.Winner() != "Philadelphia Eagles" {
		t.Fatalf("expected home winner, got=%s", final.Winner())
	}
	wantKickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	if !final.KickoffAt.Equal(wantKickoff) {
		t.Fatalf("unexpected kickoff %s", final.KickoffAt)
	}
}

func TestFetchWeek_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "bad-key",
		MaxRetries: 3,
	})

	if _, err := client.FetchWeek(t.Context(), 2025, 1); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
	if calls != 1 {
		t.Fatalf("expected no retries on 401, got %d calls", calls)
	}
}

func TestFetchWeek_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		MaxRetries: 1,
	})

	games, err := client.FetchWeek(t.Context(), 2025, 3)
	if err != nil {
		t.Fatalf("expected retry to recover, got: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected empty slate, got %d games", len(games))
	}
	if calls != 2 {
		t.Fatalf("expected exactly one retry, got %d calls", calls)
	}
}

func TestFetchWeek_CircuitBreakerRejectsWhenOpen(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	if _, err := client.FetchWeek(t.Context(), 2025, 1); err == nil {
		t.Fatal("expected first request to fail")
	}

	_, err := client.FetchWeek(t.Context(), 2025, 1)
	if err == nil {
		t.Fatal("expected circuit breaker rejection")
	}
	if !strings.Contains(err.Error(), "temporarily unavailable") {
		t.Fatalf("expected dependency unavailable error, got: %v", err)
	}
}

func TestFetchWeek_ValidatesInput(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{BaseURL: "http://localhost:0"})

	if _, err := client.FetchWeek(t.Context(), 0, 1); err == nil {
		t.Fatal("expected error for zero season")
	}
	if _, err := client.FetchWeek(t.Context(), 2025, 0); err == nil {
		t.Fatal("expected error for zero week")
	}
}
