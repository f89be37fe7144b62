package jobqueue

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
)

func TestEnqueue_PublishesWithUpstashHeaders(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotHeaders http.Header
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		if err := jsoniter.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode publish body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://api.survivor.example",
		Retries:          2,
		InternalJobToken: "internal-secret",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := publisher.Enqueue(
		t.Context(),
		"/v1/internal/jobs/sync-results",
		map[string]any{"week": 3},
		90*time.Second,
		"sync-results-week3-20260901T170000Z",
	)
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	wantPath := "/v2/publish/https://api.survivor.example/v1/internal/jobs/sync-results"
	if gotPath != wantPath {
		t.Fatalf("unexpected publish path: %s", gotPath)
	}
	if got := gotHeaders.Get("Authorization"); got != "Bearer qstash-token" {
		t.Fatalf("unexpected authorization header: %s", got)
	}
	if got := gotHeaders.Get("Upstash-Delay"); got != "90s" {
		t.Fatalf("unexpected delay header: %s", got)
	}
	if got := gotHeaders.Get("Upstash-Retries"); got != "2" {
		t.Fatalf("unexpected retries header: %s", got)
	}
	if got := gotHeaders.Get("Upstash-Deduplication-Id"); got != "sync-results-week3-20260901T170000Z" {
		t.Fatalf("unexpected deduplication header: %s", got)
	}
	if got := gotHeaders.Get("Upstash-Forward-X-Internal-Job-Token"); got != "internal-secret" {
		t.Fatalf("unexpected forwarded token header: %s", got)
	}
	if gotBody["week"] != float64(3) {
		t.Fatalf("unexpected payload: %v", gotBody)
	}
}

func TestEnqueue_NonSuccessStatusFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "qstash-token",
		TargetBaseURL: "https://api.survivor.example",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := publisher.Enqueue(t.Context(), "/v1/internal/jobs/sync-schedule", nil, 0, "")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "status=402") {
		t.Fatalf("expected status in error, got: %v", err)
	}
}

func TestEnqueue_ValidatesConfiguration(t *testing.T) {
	t.Parallel()

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "ftp://not-http",
		TargetBaseURL: "https://api.survivor.example",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := publisher.Enqueue(t.Context(), "/v1/internal/jobs/sync-schedule", nil, 0, ""); err == nil {
		t.Fatal("expected error for invalid base url scheme")
	}

	publisher = NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		TargetBaseURL: "https://api.survivor.example",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if err := publisher.Enqueue(t.Context(), "   ", nil, 0, ""); err == nil {
		t.Fatal("expected error for empty job path")
	}
}

func TestNormalizeDelay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{1500 * time.Millisecond, "2s"},
		{5 * time.Minute, "300s"},
	}
	for _, tc := range cases {
		if got := normalizeDelay(tc.in); got != tc.want {
			t.Fatalf("normalizeDelay(%s)=%s want=%s", tc.in, got, tc.want)
		}
	}
}
