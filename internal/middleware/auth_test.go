package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/logolist/internal/auth"
)

// httptest.NewRecorder() captures the response without starting a real
// server. Combined with gin's test mode, this tests middleware in isolation.

func init() {
	gin.SetMode(gin.TestMode)
}

func newKeyRouter(keys []string) *gin.Engine {
	router := gin.New()
	router.Use(APIKeyAuth(keys))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAPIKey))
	})
	return router
}

func TestAPIKeyAuth_ValidHeader(t *testing.T) {
	router := newKeyRouter([]string{"test-key-1", "test-key-2"})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "test-key-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "test-key-1" {
		t.Errorf("expected key in context, got %q", w.Body.String())
	}
}

func TestAPIKeyAuth_ValidQueryParam(t *testing.T) {
	router := newKeyRouter([]string{"test-key"})

	req := httptest.NewRequest("GET", "/test?api_key=test-key", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Missing(t *testing.T) {
	router := newKeyRouter([]string{"test-key"})

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_Invalid(t *testing.T) {
	router := newKeyRouter([]string{"test-key"})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAPIKeyAuth_OpenWhenUnconfigured(t *testing.T) {
	router := newKeyRouter(nil)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with no keys configured, got %d", w.Code)
	}
}

func newAdminRouter(t *testing.T) (*gin.Engine, *auth.JWTManager) {
	t.Helper()
	jwt, err := auth.NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("creating jwt manager: %v", err)
	}
	router := gin.New()
	router.Use(AdminAuth(jwt))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, AdminUsername(c))
	})
	return router, jwt
}

func TestAdminAuth_Valid(t *testing.T) {
	router, jwt := newAdminRouter(t)
	token, _, err := jwt.Generate("alice", "admin")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "alice" {
		t.Errorf("expected admin username in context, got %q", w.Body.String())
	}
}

func TestAdminAuth_Rejects(t *testing.T) {
	router, _ := newAdminRouter(t)
	other, err := auth.NewJWTManager("other-secret", time.Hour)
	if err != nil {
		t.Fatalf("creating jwt manager: %v", err)
	}
	forged, _, err := other.Generate("mallory", "admin")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Basic abc",
		"empty bearer": "Bearer ",
		"garbage":      "Bearer not.a.token",
		"wrong secret": "Bearer " + forged,
	} {
		req := httptest.NewRequest("GET", "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, w.Code)
		}
	}
}
