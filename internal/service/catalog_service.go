package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/catalog"
	"github.com/fleveque/logolist/internal/metrics"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/storage"
)

// curatedRankBase seeds the synthetic download counts of curated lists so
// they render in list order.
const curatedRankBase = 1000

// ErrNotFound is returned for unknown catalog slugs.
var ErrNotFound = errors.New("not found")

// CatalogService routes a listing request to the curated lists, the top
// persisted companies or the resolver.
type CatalogService struct {
	resolver  *Resolver
	companies storage.CompanyRepository
	favicons  *provider.Favicons
	pageSize  int
	logger    *zap.Logger
}

// NewCatalogService creates the router.
func NewCatalogService(resolver *Resolver, companies storage.CompanyRepository, favicons *provider.Favicons, pageSize int, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		resolver:  resolver,
		companies: companies,
		favicons:  favicons,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// List classifies the request: a known category returns its curated list,
// an empty query returns the top companies, anything else is resolved.
// Unknown categories are ignored.
func (s *CatalogService) List(ctx context.Context, category, query string) []model.BrandRecord {
	if category != "" {
		if c, ok := catalog.Lookup(category); ok {
			return s.curated(c.Entries)
		}
	}
	if strings.TrimSpace(query) == "" {
		return s.Top(ctx)
	}
	return s.resolver.Resolve(ctx, query)
}

// Top returns the most downloaded persisted companies, or the curated top
// list when the store is unavailable or still empty.
func (s *CatalogService) Top(ctx context.Context) []model.BrandRecord {
	companies, err := s.companies.Top(ctx, s.pageSize)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("top").Inc()
		s.logger.Warn("listing top companies failed, serving curated list", zap.Error(err))
	}
	if err != nil || len(companies) == 0 {
		return s.curated(catalog.Top(s.pageSize))
	}

	records := make([]model.BrandRecord, 0, len(companies))
	for i := range companies {
		records = append(records, persistedRecord(&companies[i], s.favicons))
	}
	return records
}

func (s *CatalogService) curated(entries []catalog.Entry) []model.BrandRecord {
	records := make([]model.BrandRecord, 0, len(entries))
	for i, e := range entries {
		records = append(records, s.curatedRecord(e, curatedRankBase-int64(i)))
	}
	return records
}

func (s *CatalogService) curatedRecord(e catalog.Entry, rank int64) model.BrandRecord {
	return model.BrandRecord{
		ID:            "curated-" + e.Domain,
		Name:          e.Name,
		Domain:        e.Domain,
		LogoURL:       s.favicons.LogoURL(e.Domain),
		Description:   "Official logo of " + e.Name,
		DownloadCount: rank,
		IsExternal:    true,
		Source:        model.SourceCurated,
		Type:          model.TypeLogo,
		Resolutions:   s.favicons.Resolutions(e.Domain),
	}
}

// CategorySummary describes one curated category.
type CategorySummary struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}

// Categories lists the curated categories in display order.
func (s *CatalogService) Categories() []CategorySummary {
	cats := catalog.Categories()
	out := make([]CategorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategorySummary{Key: c.Key, Title: c.Title, Description: c.Description, Count: len(c.Entries)})
	}
	return out
}

// LogoDetail is a single curated logo with its neighbours.
type LogoDetail struct {
	Company  model.BrandRecord   `json:"company"`
	Category string              `json:"category,omitempty"`
	Related  []model.BrandRecord `json:"related"`
}

// Logo looks a curated logo up by slug ("stripe-com").
func (s *CatalogService) Logo(slug string) (*LogoDetail, error) {
	entry, category, ok := catalog.FindBySlug(slug)
	if !ok {
		return nil, ErrNotFound
	}
	detail := &LogoDetail{
		Company:  s.curatedRecord(entry, curatedRankBase),
		Category: category,
		Related:  []model.BrandRecord{},
	}
	if category != "" {
		detail.Related = s.curated(catalog.Related(category, entry.Domain))
	}
	return detail, nil
}
