package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
	"github.com/fleveque/logolist/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", validator.Validate(service.RegisterInput{}), http.StatusBadRequest},
		{"invalid input", fmt.Errorf("%w: bad size", service.ErrInvalidInput), http.StatusBadRequest},
		{"store not found", fmt.Errorf("getting company: %w", storage.ErrNotFound), http.StatusNotFound},
		{"catalog not found", service.ErrNotFound, http.StatusNotFound},
		{"duplicate", storage.ErrDuplicateDomain, http.StatusConflict},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{"upstream", fmt.Errorf("%w: HTTP 404", service.ErrUpstream), http.StatusBadGateway},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, zap.NewNop(), tt.err)

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRespondError_ValidationDetails(t *testing.T) {
	err := validator.Validate(service.CompanyUpdate{Domain: "stripe.com", LogoURL: "ftp://stripe.com/logo.png"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, zap.NewNop(), fmt.Errorf("%w: %w", service.ErrInvalidInput, err))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Details["name"] != "is required" {
		t.Errorf("expected name to be required, got %q", body.Details["name"])
	}
	if _, ok := body.Details["logoUrl"]; !ok {
		t.Errorf("expected a logoUrl problem, got %v", body.Details)
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, zap.NewNop(), errors.New("sqlite: /var/lib/secret.db locked"))

	if body := w.Body.String(); body != `{"error":"internal error"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestParamID(t *testing.T) {
	router := gin.New()
	router.GET("/c/:id", func(c *gin.Context) {
		if id, ok := paramID(c); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for path, want := range map[string]int{
		"/c/42":  http.StatusOK,
		"/c/0":   http.StatusBadRequest,
		"/c/-1":  http.StatusBadRequest,
		"/c/abc": http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != want {
			t.Errorf("%s: expected %d, got %d", path, want, w.Code)
		}
	}
}
