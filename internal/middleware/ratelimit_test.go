package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLimitedRouter(rps float64, burst int) *gin.Engine {
	router := gin.New()
	// Dynamic API key from header, the way APIKeyAuth sets it.
	router.Use(func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			c.Set(ContextAPIKey, key)
		}
		c.Next()
	})
	router.Use(RateLimit(rps, burst))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doRequest(router *gin.Engine, key, remoteAddr string) int {
	req := httptest.NewRequest("GET", "/test", nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_AllowsNormalTraffic(t *testing.T) {
	router := newLimitedRouter(10, 5) // 10 req/s, burst of 5

	for i := 0; i < 5; i++ {
		if code := doRequest(router, "test-key", ""); code != http.StatusOK {
			t.Errorf("request %d: expected 200, got %d", i, code)
		}
	}
}

func TestRateLimit_RejectsExcessiveTraffic(t *testing.T) {
	router := newLimitedRouter(1, 2) // 1 req/s, burst of 2

	for i := 0; i < 2; i++ {
		doRequest(router, "test-key", "")
	}

	if code := doRequest(router, "test-key", ""); code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", code)
	}
}

func TestRateLimit_PerKeyIsolation(t *testing.T) {
	router := newLimitedRouter(1, 1)

	if code := doRequest(router, "key-a", ""); code != http.StatusOK {
		t.Errorf("key-a first request: expected 200, got %d", code)
	}
	if code := doRequest(router, "key-a", ""); code != http.StatusTooManyRequests {
		t.Errorf("key-a second request: expected 429, got %d", code)
	}
	if code := doRequest(router, "key-b", ""); code != http.StatusOK {
		t.Errorf("key-b first request: expected 200, got %d", code)
	}
}

func TestRateLimit_FallsBackToClientIP(t *testing.T) {
	router := newLimitedRouter(1, 1)

	if code := doRequest(router, "", "10.0.0.1:1234"); code != http.StatusOK {
		t.Errorf("first request from 10.0.0.1: expected 200, got %d", code)
	}
	if code := doRequest(router, "", "10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("second request from 10.0.0.1: expected 429, got %d", code)
	}
	if code := doRequest(router, "", "10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("first request from 10.0.0.2: expected 200, got %d", code)
	}
}
