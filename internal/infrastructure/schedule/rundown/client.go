package rundown

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/gridironpool/survivor-pool/internal/domain/game"
	"github.com/gridironpool/survivor-pool/internal/platform/logging"
	"github.com/gridironpool/survivor-pool/internal/platform/resilience"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

const (
	defaultBaseURL = "https://therundown-therundown-v1.p.rapidapi.com"
	defaultAPIHost = "therundown-therundown-v1.p.rapidapi.com"
	nflSportID     = 2
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-rapidapi-key:\s*\S+`)
var errRundownTransient = crerr.New("rundown transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	APIHost        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches the NFL slate from TheRundown. It implements game.Source.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	apiHost        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiHost := strings.TrimSpace(cfg.APIHost)
	if apiHost == "" {
		apiHost = defaultAPIHost
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		apiHost:        apiHost,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchWeek returns every NFL game in the given season week, including live
// and final scores when the provider has them.
func (c *Client) FetchWeek(ctx context.Context, season, week int) ([]game.Game, error) {
	if season <= 0 {
		return nil, fmt.Errorf("season must be greater than zero")
	}
	if week <= 0 {
		return nil, fmt.Errorf("week must be greater than zero")
	}

	path := fmt.Sprintf("/sports/%d/events", nflSportID)
	query := map[string]string{
		"season_year": strconv.Itoa(season),
		"week":        strconv.Itoa(week),
		"include":     "scores",
	}

	var envelope eventsEnvelope
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch nfl events season=%d week=%d: %w", season, week, err)
	}

	out := make([]game.Game, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		g, ok := mapEvent(item, season, week)
		if !ok {
			c.logger.WarnContext(ctx, "skip malformed rundown event", "event_id", item.EventID, "week", week)
			continue
		}
		out = append(out, g)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "rundown circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: schedule provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errRundownTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.apiHost)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errRundownTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errRundownTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errRundownTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "rundown request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func abbreviateBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 200 {
		return body[:200] + "..."
	}
	return body
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "x-rapidapi-key: REDACTED")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
