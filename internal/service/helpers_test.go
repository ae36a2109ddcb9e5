package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/background"
	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/storage"
)

var errStoreDown = errors.New("store unavailable")

type testStore struct {
	companies  storage.CompanyRepository
	searchLogs storage.SearchLogRepository
	changeLogs storage.ChangeLogRepository
	admins     storage.AdminUserRepository
}

// newTestStore opens a fresh SQLite database under t.TempDir().
func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &testStore{
		companies:  storage.NewCompanyRepository(db),
		searchLogs: storage.NewSearchLogRepository(db),
		changeLogs: storage.NewChangeLogRepository(db),
		admins:     storage.NewAdminUserRepository(db),
	}
}

func (s *testStore) seed(t *testing.T, name, domain string, downloads int64) *model.Company {
	t.Helper()
	c, _, err := s.companies.CreateIfAbsent(context.Background(), &model.Company{
		Name: name, Domain: domain, LogoURL: "https://img.example/" + domain, DownloadCount: downloads,
	})
	require.NoError(t, err)
	return c
}

// downCompanies fails every read the search paths use. Other methods are
// not expected to be called and would panic on the nil embedded interface.
type downCompanies struct {
	storage.CompanyRepository
}

func (downCompanies) Search(context.Context, string) ([]model.Company, error) { return nil, errStoreDown }
func (downCompanies) Top(context.Context, int) ([]model.Company, error)       { return nil, errStoreDown }
func (downCompanies) GetByDomain(context.Context, string) (*model.Company, error) {
	return nil, errStoreDown
}

// fixedSearcher returns the same records for every query.
type fixedSearcher struct {
	name    string
	records []model.BrandRecord
}

func (f fixedSearcher) Name() string { return f.name }
func (f fixedSearcher) Search(context.Context, string) []model.BrandRecord {
	return append([]model.BrandRecord{}, f.records...)
}

// syncTasks runs submitted tasks inline so side effects are visible
// immediately.
type syncTasks struct{}

func (syncTasks) Submit(_ string, fn background.TaskFunc) bool {
	_ = fn(context.Background())
	return true
}

func testFavicons() *provider.Favicons {
	return provider.NewFavicons(config.FaviconConfig{
		BaseURL:     "https://t3.gstatic.com/faviconV2",
		LogoBaseURL: "https://logo.clearbit.com",
		Size:        256,
	})
}

func newTestResolver(companies storage.CompanyRepository, searchLogs storage.SearchLogRepository, tasks TaskSubmitter, searchers ...Searcher) *Resolver {
	return NewResolver(companies, searchLogs, searchers, testFavicons(), model.SourceBrandfetch, tasks, zap.NewNop())
}

func testBreaker() config.BreakerConfig {
	return config.BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureRatio: 0.5, MinRequests: 5}
}
