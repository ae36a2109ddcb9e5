package service

import (
	"context"
	"fmt"
	"math"

	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/storage"
)

// StatsService owns the download counter and the public metrics summary.
type StatsService struct {
	companies  storage.CompanyRepository
	searchLogs storage.SearchLogRepository
}

// NewStatsService creates the service.
func NewStatsService(companies storage.CompanyRepository, searchLogs storage.SearchLogRepository) *StatsService {
	return &StatsService{companies: companies, searchLogs: searchLogs}
}

// RecordDownload increments the download counter of a persisted company.
// storage.ErrNotFound is returned for unknown IDs.
func (s *StatsService) RecordDownload(ctx context.Context, id int64) error {
	return s.companies.IncrementDownloads(ctx, id)
}

// Summary aggregates the counters into the public metrics view.
func (s *StatsService) Summary(ctx context.Context) (*model.Metrics, error) {
	total, err := s.searchLogs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting searches: %w", err)
	}
	successful, err := s.searchLogs.CountSuccessful(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting successful searches: %w", err)
	}
	downloads, err := s.companies.SumDownloads(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing downloads: %w", err)
	}
	companies, err := s.companies.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting companies: %w", err)
	}

	return &model.Metrics{
		SearchSuccessRate: successRate(successful, total),
		TotalDownloads:    downloads,
		TotalCompanies:    companies,
		TotalSearches:     total,
	}, nil
}

// successRate is the rounded percentage of successful searches, 0 when
// nothing has been searched yet.
func successRate(successful, total int64) int64 {
	if total == 0 {
		return 0
	}
	return int64(math.Round(float64(successful) * 100 / float64(total)))
}
