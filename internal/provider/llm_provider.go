package provider

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fleveque/logolist/internal/llm"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/storage"
)

// LLMProvider asks a language model which brand a free-text query means.
// It is rate limited to keep API costs bounded and tries the configured
// clients in order: first success wins, failures fall through.
type LLMProvider struct {
	clients     []llm.Client
	limiter     *rate.Limiter
	llmCallRepo storage.LLMCallRepository
	favicons    *Favicons
	logger      *zap.Logger
}

// NewLLMProvider creates a provider with an ordered list of LLM clients.
// The order comes from config (llm.provider_order), so swapping priority is
// a config change, not a code change.
func NewLLMProvider(
	clients []llm.Client,
	ratePerMinute int,
	llmCallRepo storage.LLMCallRepository,
	favicons *Favicons,
	logger *zap.Logger,
) *LLMProvider {
	// rate.Every returns a rate.Limit from a time interval between events.
	every := rate.Every(time.Minute / time.Duration(ratePerMinute))

	return &LLMProvider{
		clients:     clients,
		limiter:     rate.NewLimiter(every, 1),
		llmCallRepo: llmCallRepo,
		favicons:    favicons,
		logger:      logger,
	}
}

func (p *LLMProvider) Name() string { return string(model.SourceLLM) }

func (p *LLMProvider) Lookup(ctx context.Context, query string) ([]model.BrandRecord, error) {
	if len(p.clients) == 0 {
		return nil, fmt.Errorf("no LLM clients configured")
	}

	var lastErr error
	for i, client := range p.clients {
		// Blocks until a token is available or the context is done.
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		result, err := p.ask(ctx, client, query)
		if err == nil {
			return []model.BrandRecord{p.toRecord(result)}, nil
		}
		lastErr = err

		if i < len(p.clients)-1 {
			p.logger.Warn("LLM client failed, trying next",
				zap.String("query", query),
				zap.String("provider", client.ProviderName()),
				zap.Error(err),
			)
		}
	}
	return nil, fmt.Errorf("all LLM clients failed for %q: %w", query, lastErr)
}

func (p *LLMProvider) ask(ctx context.Context, client llm.Client, query string) (*llm.BrandResult, error) {
	start := time.Now()
	result, err := client.FindBrand(ctx, query)
	p.recordCall(ctx, client, query, result, err, time.Since(start).Milliseconds())
	return result, err
}

func (p *LLMProvider) toRecord(r *llm.BrandResult) model.BrandRecord {
	return model.BrandRecord{
		ID:          "llm-" + r.Domain,
		Name:        r.CompanyName,
		Domain:      r.Domain,
		LogoURL:     firstNonEmpty(r.LogoURL, p.favicons.LogoURL(r.Domain)),
		Description: "Official logo of " + r.CompanyName,
		IsExternal:  true,
		Source:      model.SourceLLM,
		Type:        model.TypeLogo,
		Resolutions: p.favicons.Resolutions(r.Domain),
	}
}

// recordCall stores the call for cost tracking. It detaches from ctx so a
// lookup cut short by its deadline is still recorded.
func (p *LLMProvider) recordCall(ctx context.Context, client llm.Client, query string, result *llm.BrandResult, callErr error, durationMs int64) {
	if p.llmCallRepo == nil {
		return
	}
	call := &model.LLMCall{
		Query:      query,
		Provider:   client.ProviderName(),
		Model:      client.ModelName(),
		Success:    callErr == nil,
		DurationMs: &durationMs,
	}
	if result != nil && result.LogoURL != "" {
		call.ResultURL = &result.LogoURL
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.llmCallRepo.Create(ctx, call); err != nil {
		p.logger.Error("recording LLM call", zap.Error(err))
	}
}
