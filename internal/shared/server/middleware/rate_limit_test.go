package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitThrottlesResetRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })

	groupFor := func(c *gin.Context) string {
		if c.FullPath() == "/api/auth/forgot-password" || c.FullPath() == "/api/auth/reset-password" {
			return "RESET"
		}
		return "DEFAULT"
	}

	r := gin.New()
	r.Use(RateLimit(RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     groupFor,
		Limiter:      limiter,
		Rules: map[string]RateLimitRule{
			"RESET": {Rate: 1, Burst: 3},
		},
	}))
	r.POST("/api/auth/forgot-password", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst exhausted, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "rate_limited" {
		t.Fatalf("unexpected body: %v", body)
	}

	// Routes without a rule are not limited.
	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("health request %d: expected 200, got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	now := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(func() time.Time { return now })
	rule := RateLimitRule{Rate: 1, Burst: 1}

	if allowed, _ := limiter.Allow("ip|RESET", rule); !allowed {
		t.Fatalf("first request should be allowed")
	}
	if allowed, retry := limiter.Allow("ip|RESET", rule); allowed || retry <= 0 {
		t.Fatalf("second request should be throttled with retry hint, allowed=%v retry=%s", allowed, retry)
	}

	now = now.Add(2 * time.Second)
	if allowed, _ := limiter.Allow("ip|RESET", rule); !allowed {
		t.Fatalf("request after refill should be allowed")
	}
}
