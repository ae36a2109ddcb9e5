package provider

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/metrics"
	"github.com/fleveque/logolist/internal/model"
)

// Adapter is the boundary between the resolver and a Provider. It bounds
// every lookup with a timeout, trips a circuit breaker on repeated failures,
// records metrics, and never returns an error: a failed lookup contributes
// an empty slice.
type Adapter struct {
	provider Provider
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[[]model.BrandRecord]
	logger   *zap.Logger
}

// NewAdapter wraps p. timeout must be positive.
func NewAdapter(p Provider, timeout time.Duration, cfg config.BreakerConfig, logger *zap.Logger) *Adapter {
	name := p.Name()
	logger = logger.With(zap.String("provider", name))

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.ProviderBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
		// The caller going away says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	metrics.ProviderBreakerState.WithLabelValues(name).Set(stateValue(gobreaker.StateClosed))

	return &Adapter{
		provider: p,
		timeout:  timeout,
		breaker:  gobreaker.NewCircuitBreaker[[]model.BrandRecord](settings),
		logger:   logger,
	}
}

// Name returns the wrapped provider's name.
func (a *Adapter) Name() string { return a.provider.Name() }

// State returns the breaker state ("closed", "half-open", "open").
func (a *Adapter) State() string { return a.breaker.State().String() }

type lookupResult struct {
	records []model.BrandRecord
	err     error
}

// Search runs the lookup and returns its records, or an empty slice on any
// failure. It returns no later than the adapter timeout even if the provider
// ignores context cancellation.
func (a *Adapter) Search(ctx context.Context, query string) []model.BrandRecord {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan lookupResult, 1) // buffered: the goroutine never blocks on send
	go func() {
		records, err := a.breaker.Execute(func() ([]model.BrandRecord, error) {
			return a.provider.Lookup(ctx, query)
		})
		done <- lookupResult{records: records, err: err}
	}()

	var res lookupResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = lookupResult{err: ctx.Err()}
	}
	metrics.ProviderLatency.WithLabelValues(a.Name()).Observe(time.Since(start).Seconds())

	if res.err != nil {
		outcome := classify(res.err)
		metrics.ProviderRequestsTotal.WithLabelValues(a.Name(), outcome).Inc()
		a.logger.Warn("provider lookup failed",
			zap.String("query", query),
			zap.String("outcome", outcome),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(res.err),
		)
		return []model.BrandRecord{}
	}

	metrics.ProviderRequestsTotal.WithLabelValues(a.Name(), "ok").Inc()
	if res.records == nil {
		return []model.BrandRecord{}
	}
	return res.records
}

func classify(err error) string {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// OrderAdapters sorts adapters by the configured provider order (names are
// matched case-insensitively). Adapters not named keep their relative order
// after the named ones.
func OrderAdapters(adapters []*Adapter, order []string) []*Adapter {
	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[strings.ToLower(name)] = i
	}
	pos := func(a *Adapter) int {
		if r, ok := rank[strings.ToLower(a.Name())]; ok {
			return r
		}
		return len(order)
	}

	out := append([]*Adapter(nil), adapters...)
	sort.SliceStable(out, func(i, j int) bool { return pos(out[i]) < pos(out[j]) })
	return out
}
