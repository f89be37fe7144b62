package identity

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/gridironpool/survivor-pool/internal/domain/user"
	"github.com/gridironpool/survivor-pool/internal/platform/resilience"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

var errIdentityTransient = crerr.New("identity transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	Logger         *slog.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	CacheTTL       time.Duration
	CacheMaxSize   int
}

// Client resolves bearer tokens into principals through the identity
// service's RFC 7662 introspection endpoint. Verified principals are cached
// by token hash so hot tokens do not round-trip on every request.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *principalCache
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          newPrincipalCache(cfg.CacheTTL, cfg.CacheMaxSize),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "identity circuit breaker rejected request", "state", c.breaker.State())
			return user.Principal{}, fmt.Errorf("%w: identity service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	principal, err := c.introspect(ctx, token)
	if c.circuitEnabled {
		if crerr.Is(err, errIdentityTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return user.Principal{}, err
	}

	c.cache.Set(key, principal)
	return principal, nil
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := json.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errIdentityTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: read introspect response: %v", errIdentityTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "identity introspection non-200",
			"status_code", resp.StatusCode,
		)
		if resp.StatusCode >= http.StatusInternalServerError {
			return user.Principal{}, fmt.Errorf("%w: introspection status %d", errIdentityTransient, resp.StatusCode)
		}
		return user.Principal{}, fmt.Errorf("identity introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.Sub) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: sub is empty")
	}

	role := strings.TrimSpace(decoded.Role)
	if role == "" {
		role = user.RoleUser
	}

	return user.Principal{
		UserID: decoded.Sub,
		Email:  decoded.Email,
		Role:   role,
	}, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	Sub    string `json:"sub"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
