package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gridironpool/survivor-pool/internal/domain/user"
	"github.com/gridironpool/survivor-pool/internal/usecase"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{principals: map[string]user.Principal{}}
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	verifier := &stubVerifier{principals: map[string]user.Principal{}}
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_ValidTokenSetsPrincipal(t *testing.T) {
	verifier := &stubVerifier{principals: map[string]user.Principal{
		"good-token": {UserID: "user-1", Role: user.RoleUser},
	}}

	var seen user.Principal
	handler := RequireAuth(verifier, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := principalFromContext(r.Context())
		if !ok {
			t.Fatal("expected principal in request context")
		}
		seen = principal
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen.UserID != "user-1" {
		t.Fatalf("unexpected principal: %+v", seen)
	}
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler should not run")
	}))

	ctx := withPrincipal(context.Background(), user.Principal{UserID: "user-1", Role: user.RoleUser})
	req := httptest.NewRequest(http.MethodPost, "/v1/pools", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdmin_MissingPrincipal(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/pools", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	handler := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ctx := withPrincipal(context.Background(), user.Principal{UserID: "admin-1", Role: user.RoleAdmin})
	req := httptest.NewRequest(http.MethodPost, "/v1/pools", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		provided   string
		wantStatus int
	}{
		{name: "valid token", configured: "secret", provided: "secret", wantStatus: http.StatusOK},
		{name: "wrong token", configured: "secret", provided: "other", wantStatus: http.StatusUnauthorized},
		{name: "missing token", configured: "secret", provided: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured", configured: "", provided: "secret", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireInternalJobToken(tt.configured, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-results", nil)
			if tt.provided != "" {
				req.Header.Set("X-Internal-Job-Token", tt.provided)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestStubVerifier_UnknownToken(t *testing.T) {
	verifier := &stubVerifier{principals: map[string]user.Principal{}}
	_, err := verifier.VerifyAccessToken(context.Background(), "nope")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
