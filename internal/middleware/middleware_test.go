// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/indiankitchen/kitchen-backend/internal/core"
)

type stubResolver struct {
	identities map[string]*Identity
	blocked    map[string]bool
}

func (s stubResolver) Resolve(_ context.Context, token string) (*Identity, error) {
	if s.blocked[token] {
		return nil, fmt.Errorf("resolve: %w", core.ErrForbidden)
	}
	if id, ok := s.identities[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("resolve: %w", core.ErrUnauthorized)
}

func newResolver() stubResolver {
	return stubResolver{
		identities: map[string]*Identity{
			"user-session":  {UserID: "u1", Role: "user", SessionID: "user-session"},
			"admin-session": {UserID: "a1", Role: "admin", SessionID: "admin-session"},
		},
		blocked: map[string]bool{"blocked-session": true},
	}
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(GetUserID(r.Context())))
	})
}

func TestAuthenticator(t *testing.T) {
	h := Authenticator(newResolver(), "session_id")(echoUser())

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session_id", Value: "user-session"})
		}, http.StatusOK, "u1"},
		{"bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer admin-session")
		}, http.StatusOK, "a1"},
		{"unknown session", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer nope")
		}, http.StatusUnauthorized, ""},
		{"blocked user", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "session_id", Value: "blocked-session"})
		}, http.StatusForbidden, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	h := OptionalAuth(newResolver(), "session_id")(echoUser())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer blocked-session")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	h := Authenticator(newResolver(), "session_id")(RequireAdmin(echoUser()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer user-session")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-session")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLocalRateLimiterWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Limit: PerMinute(2, 2)})
	h := rl.Handler(echoUser())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSkipProbesBypassesLimit(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerMinute(1, 1),
		BypassFunc: SkipProbes,
	})
	h := rl.Handler(echoUser())

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		req.RemoteAddr = "203.0.113.8:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}

	assert.True(t, SkipProbes(httptest.NewRequest(http.MethodOptions, "/api/recipes", nil)))
	assert.False(t, SkipProbes(httptest.NewRequest(http.MethodGet, "/api/recipes", nil)))
}

func TestKeyByUserAndEndpointCollapsesIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete,
		"/api/admin/users/0b6c2a8e-9a61-4a8e-b1a4-3f1f2f0c9d11", nil)
	req.RemoteAddr = "198.51.100.2:4000"

	assert.Equal(t,
		"kitchen:rl:ip:198.51.100.2:endpoint:/api/admin/users/{id}",
		KeyByUserAndEndpoint(req))

	req = req.WithContext(withIdentity(req.Context(), &Identity{UserID: "a1"}))
	assert.Equal(t,
		"kitchen:rl:user:a1:endpoint:/api/admin/users/{id}",
		KeyByUserAndEndpoint(req))
}

func TestCredentialLimitUsesLocalFallback(t *testing.T) {
	h := CredentialLimit(nil)(echoUser())

	last := 0
	for range CredentialRequests + 1 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "192.0.2.44:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetRequestID(r.Context())))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "abc-123", rec.Body.String())
}
