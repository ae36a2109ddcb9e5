package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/background"
	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/handler"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource answers "stripe" queries with one Clearbit-style record.
type stubSource struct{}

func (stubSource) Name() string  { return "Clearbit" }
func (stubSource) State() string { return "closed" }
func (stubSource) Search(_ context.Context, q string) []model.BrandRecord {
	if !strings.Contains(strings.ToLower(q), "stripe") {
		return nil
	}
	return []model.BrandRecord{{
		ID: "ext-stripe.com", Name: "Stripe", Domain: "stripe.com",
		LogoURL: "https://logo.example/stripe.com", IsExternal: true,
		Source: model.SourceClearbit, Type: model.TypeLogo,
	}}
}

type testEnv struct {
	router    *gin.Engine
	companies storage.CompanyRepository
	runner    *background.Runner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Providers: config.ProvidersConfig{Favicon: config.FaviconConfig{
			BaseURL: "https://t3.gstatic.com/faviconV2", LogoBaseURL: "https://logo.clearbit.com", Size: 256,
		}},
	}

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	companies := storage.NewCompanyRepository(db)
	searchLogs := storage.NewSearchLogRepository(db)
	changeLogs := storage.NewChangeLogRepository(db)
	admins := storage.NewAdminUserRepository(db)

	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, admins.Upsert(context.Background(), &model.AdminUser{Username: "alice", PasswordHash: hash, Role: "admin"}))

	jwt, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	runner := background.NewRunner(config.BackgroundConfig{Workers: 1, QueueSize: 16, TaskTimeout: time.Second}, logger)
	t.Cleanup(runner.Close)

	favicons := provider.NewFavicons(cfg.Providers.Favicon)
	source := stubSource{}
	resolver := service.NewResolver(companies, searchLogs, []service.Searcher{source}, favicons, model.SourceBrandfetch, runner, logger)
	stats := service.NewStatsService(companies, searchLogs)

	deps := Deps{
		Catalog:      service.NewCatalogService(resolver, companies, favicons, 20, logger),
		Registration: service.NewRegistrationService(companies, favicons, logger),
		Stats:        stats,
		Downloads:    service.NewDownloadService(service.NewImageProcessor(nil), 5*time.Second),
		Admin:        service.NewAdminService(companies, changeLogs, admins, jwt, logger),
		JWT:          jwt,
		Breakers:     []handler.BreakerReporter{source},
	}

	return &testEnv{
		router:    NewRouter(cfg, deps, logger),
		companies: companies,
		runner:    runner,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndPrometheus(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# HELP")
}

func TestCompanies_Search(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/companies?q=stripe", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]model.BrandRecord](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "ext-stripe.com", got[0].ID)

	w = env.do(t, "GET", "/api/v1/companies?query=nothing+matches", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCompanies_DefaultListing(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/companies", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]model.BrandRecord](t, w)
	assert.Len(t, got, 20)
	assert.Equal(t, model.SourceCurated, got[0].Source)

	w = env.do(t, "GET", "/api/v1/companies?category=ai", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[[]model.BrandRecord](t, w))
}

func TestCompanies_RegisterAndDownload(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/companies", map[string]string{"name": "Stripe", "domain": "stripe.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode[model.BrandRecord](t, w)
	assert.Equal(t, model.SourceDB, rec.Source)

	w = env.do(t, "POST", "/api/v1/companies", map[string]string{"name": "Stripe", "domain": "stripe.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, rec.ID, decode[model.BrandRecord](t, w).ID)

	w = env.do(t, "POST", "/api/v1/companies", map[string]string{"name": "NoDomain"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "POST", "/api/v1/companies/"+rec.ID+"/download", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, "POST", "/api/v1/companies/abc/download", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = env.do(t, "POST", "/api/v1/companies/999/download", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/api/v1/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[model.Metrics](t, w)
	assert.Equal(t, int64(1), m.TotalDownloads)
	assert.Equal(t, int64(1), m.TotalCompanies)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[[]service.CategorySummary](t, w))

	w = env.do(t, "GET", "/api/v1/logos/stripe-com", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[service.LogoDetail](t, w)
	assert.Equal(t, "stripe.com", detail.Company.Domain)

	w = env.do(t, "GET", "/api/v1/logos/definitely-unknown-brand", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/api/v1/download-proxy", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing url")
}

func TestDownloadProxy_Attachment(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	}))
	defer upstream.Close()
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/download-proxy?filename=stripe.svg&url="+upstream.URL+"/logo.svg", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="stripe.svg"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
}

func login(t *testing.T, env *testEnv) string {
	t.Helper()
	w := env.do(t, "POST", "/api/v1/admin/login", map[string]string{"username": "alice", "password": "s3cret"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	session := decode[service.Session](t, w)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestAdmin_Login(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "POST", "/api/v1/admin/login", map[string]string{"username": "alice", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, "POST", "/api/v1/admin/login", map[string]string{"username": "alice"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	login(t, env)
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "GET", "/api/v1/admin/companies", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, "GET", "/api/v1/admin/stats", nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_CurationFlow(t *testing.T) {
	env := newTestEnv(t)
	token := login(t, env)
	ctx := context.Background()

	stripe, _, err := env.companies.CreateIfAbsent(ctx, &model.Company{Name: "Stripe", Domain: "stripe.com"})
	require.NoError(t, err)
	_, _, err = env.companies.CreateIfAbsent(ctx, &model.Company{Name: "Shopify", Domain: "shopify.com"})
	require.NoError(t, err)
	base := "/api/v1/admin/companies/" + strconv.FormatInt(stripe.ID, 10)

	w := env.do(t, "GET", "/api/v1/admin/companies?limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[service.CompanyPage](t, w)
	assert.Len(t, page.Companies, 1)
	assert.Equal(t, int64(2), page.Pagination.Pages)

	w = env.do(t, "PUT", base, map[string]string{"name": "Stripe", "domain": "shopify.com"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, "PUT", base, map[string]string{"name": "", "domain": "stripe.com", "affiliateUrl": "stripe"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	problems := decode[struct {
		Details map[string]string `json:"details"`
	}](t, w)
	assert.Equal(t, "is required", problems.Details["name"])
	assert.Contains(t, problems.Details, "affiliateUrl")

	w = env.do(t, "PATCH", base+"/affiliate", map[string]string{"affiliateUrl": "ftp://stripe.com"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "PUT", base, map[string]string{"name": "Stripe Inc", "domain": "stripe.com"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Stripe Inc", decode[model.Company](t, w).Name)

	w = env.do(t, "PATCH", base+"/affiliate", map[string]string{"affiliateUrl": "https://stripe.com/?ref=1"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "DELETE", base, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, "DELETE", base, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, "GET", "/api/v1/admin/history", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[[]model.ChangeLog](t, w)
	require.Len(t, history, 3)
	assert.Equal(t, "alice", history[0].AdminUsername)

	w = env.do(t, "GET", "/api/v1/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[struct {
		Metrics   model.Metrics     `json:"metrics"`
		Providers map[string]string `json:"providers"`
	}](t, w)
	assert.Equal(t, "closed", stats.Providers["Clearbit"])
	assert.Equal(t, int64(1), stats.Metrics.TotalCompanies)
}

func TestCORS_Preflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/companies", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
