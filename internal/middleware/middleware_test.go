package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/park285/ecofy-server-go/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func doRequest(r *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDAssigned(t *testing.T) {
	r := newRouter(RequestID())

	w := doRequest(r, "/api/ping", nil)
	id := w.Header().Get(RequestIDHeader)
	if len(id) != 32 {
		t.Fatalf("request id = %q, want 32 hex chars", id)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	r := newRouter(RequestID())

	w := doRequest(r, "/api/ping", map[string]string{RequestIDHeader: "given-id"})
	if got := w.Header().Get(RequestIDHeader); got != "given-id" {
		t.Fatalf("request id = %q, want given-id", got)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	cfg := &config.Config{HTTPAuth: config.HTTPAuthConfig{APIKey: "secret"}}
	r := newRouter(RequestID(), APIKeyAuth(cfg))

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{"missing key", "/api/ping", nil, http.StatusUnauthorized},
		{"wrong key", "/api/ping", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", "/api/ping", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer key", "/api/ping", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
		{"health is open", "/health", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.path, tt.headers)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestAPIKeyAuthDisabledWithoutKey(t *testing.T) {
	cfg := &config.Config{}
	r := newRouter(APIKeyAuth(cfg))

	if w := doRequest(r, "/api/ping", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{
		HTTPRateLimit: config.HTTPRateLimitConfig{
			RequestsPerMinute: 2,
			CacheSize:         16,
			CacheTTLSeconds:   120,
		},
	}
	r := newRouter(RequestID(), RateLimit(cfg))

	headers := map[string]string{"X-Forwarded-For": "10.0.0.1"}
	for i := 0; i < 2; i++ {
		if w := doRequest(r, "/api/ping", headers); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
	if w := doRequest(r, "/api/ping", headers); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	// 다른 클라이언트는 제한에 걸리지 않는다.
	other := map[string]string{"X-Forwarded-For": "10.0.0.2"}
	if w := doRequest(r, "/api/ping", other); w.Code != http.StatusOK {
		t.Fatalf("other client status = %d", w.Code)
	}
}

func TestRateLimitSkipsHealth(t *testing.T) {
	cfg := &config.Config{
		HTTPRateLimit: config.HTTPRateLimitConfig{
			RequestsPerMinute: 1,
			CacheSize:         16,
			CacheTTLSeconds:   120,
		},
	}
	r := newRouter(RateLimit(cfg))

	for i := 0; i < 5; i++ {
		if w := doRequest(r, "/health", nil); w.Code != http.StatusOK {
			t.Fatalf("health request %d status = %d", i+1, w.Code)
		}
	}
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRouter(RateLimit(&config.Config{}))

	for i := 0; i < 10; i++ {
		if w := doRequest(r, "/api/ping", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i+1, w.Code)
		}
	}
}
