// Package service contains the catalog's business logic: the query router,
// the multi-source resolver, registration, counters and admin edits.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fleveque/logolist/internal/background"
	"github.com/fleveque/logolist/internal/metrics"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/storage"
)

// Searcher is one provider behind the adapter boundary: it never fails, a
// failed lookup is an empty slice. *provider.Adapter implements it.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string) []model.BrandRecord
}

// TaskSubmitter accepts fire-and-forget work. *background.Runner implements it.
type TaskSubmitter interface {
	Submit(name string, fn background.TaskFunc) bool
}

// Resolver answers free-text searches by querying the local store and every
// provider concurrently, then merging and deduplicating the results.
type Resolver struct {
	companies  storage.CompanyRepository
	searchLogs storage.SearchLogRepository
	searchers  []Searcher
	favicons   *provider.Favicons
	preferred  model.Source
	tasks      TaskSubmitter
	logger     *zap.Logger
}

// NewResolver creates a resolver. searchers must already be in merge
// priority order.
func NewResolver(
	companies storage.CompanyRepository,
	searchLogs storage.SearchLogRepository,
	searchers []Searcher,
	favicons *provider.Favicons,
	preferred model.Source,
	tasks TaskSubmitter,
	logger *zap.Logger,
) *Resolver {
	return &Resolver{
		companies:  companies,
		searchLogs: searchLogs,
		searchers:  searchers,
		favicons:   favicons,
		preferred:  preferred,
		tasks:      tasks,
		logger:     logger,
	}
}

// Resolve returns the merged, deduplicated records for query. It never
// fails: unavailable sources simply contribute nothing. The result is never
// nil.
func (r *Resolver) Resolve(ctx context.Context, query string) []model.BrandRecord {
	query = strings.TrimSpace(query)

	var (
		local   []model.BrandRecord
		storeOK bool
		remote  = make([][]model.BrandRecord, len(r.searchers))
	)

	// Each branch writes only its own slot, so no locking is needed; Wait
	// gives us the happens-before edge for reading them.
	var g errgroup.Group
	g.Go(func() error {
		companies, err := r.companies.Search(ctx, query)
		if err != nil {
			metrics.StoreErrorsTotal.WithLabelValues("search").Inc()
			r.logger.Warn("local search failed, continuing without store",
				zap.String("query", query), zap.Error(err))
			return nil
		}
		storeOK = true
		local = make([]model.BrandRecord, 0, len(companies))
		for i := range companies {
			local = append(local, persistedRecord(&companies[i], r.favicons))
		}
		return nil
	})
	for i, s := range r.searchers {
		g.Go(func() error {
			remote[i] = s.Search(ctx, query)
			return nil
		})
	}
	_ = g.Wait() // branches never return errors

	groups := make([][]model.BrandRecord, 0, len(remote)+2)
	groups = append(groups, local)
	groups = append(groups, remote...)

	if countAll(groups) == 0 {
		if rec, ok := r.favicons.Fallback(query); ok {
			metrics.SearchFallbackTotal.Inc()
			groups = append(groups, []model.BrandRecord{rec})
		}
	}

	results := Merge(r.preferred, groups...)
	metrics.SearchResults.Observe(float64(len(results)))

	r.recordSearch(query, results, storeOK)
	return results
}

// recordSearch schedules the search log entry and the search counter
// increments. Neither is awaited.
func (r *Resolver) recordSearch(query string, results []model.BrandRecord, storeOK bool) {
	if !storeOK {
		return
	}

	entry := &model.SearchLog{Query: query, Success: len(results) > 0}
	r.tasks.Submit("search-log", func(ctx context.Context) error {
		return r.searchLogs.Create(ctx, entry)
	})

	var ids []int64
	for _, rec := range results {
		if rec.Persisted() {
			ids = append(ids, rec.CompanyID)
		}
	}
	if len(ids) > 0 {
		r.tasks.Submit("search-count", func(ctx context.Context) error {
			return r.companies.IncrementSearchCounts(ctx, ids)
		})
	}
}

// Merge concatenates groups in order and collapses records sharing a dedup
// key. The first record for a key holds its position; a later one replaces
// it when it upgrades a favicon to a logo, or when it comes from the
// preferred source (unless that would downgrade a logo to a favicon).
// The result is never nil.
func Merge(preferred model.Source, groups ...[]model.BrandRecord) []model.BrandRecord {
	out := []model.BrandRecord{}
	index := make(map[string]int)

	for _, group := range groups {
		for _, rec := range group {
			key := rec.DedupKey()
			i, seen := index[key]
			if !seen {
				index[key] = len(out)
				out = append(out, rec)
				continue
			}
			if shouldReplace(out[i], rec, preferred) {
				out[i] = rec
			}
		}
	}
	return out
}

func shouldReplace(existing, incoming model.BrandRecord, preferred model.Source) bool {
	if existing.Type == model.TypeFavicon && incoming.Type == model.TypeLogo {
		return true
	}
	if incoming.Source == preferred && existing.Source != preferred {
		return !(existing.Type == model.TypeLogo && incoming.Type == model.TypeFavicon)
	}
	return false
}

// persistedRecord converts a stored company, substituting a favicon when the
// company has no logo URL.
func persistedRecord(c *model.Company, favicons *provider.Favicons) model.BrandRecord {
	rec := c.ToBrandRecord()
	if model.IsCanonicalDomain(rec.Domain) {
		rec.Resolutions = favicons.Resolutions(rec.Domain)
		if rec.LogoURL == "" {
			rec.LogoURL = favicons.FaviconURL(rec.Domain)
			rec.Type = model.TypeFavicon
		}
	}
	return rec
}

func countAll(groups [][]model.BrandRecord) int {
	n := 0
	for _, g := range groups {
		n += len(g)
	}
	return n
}
