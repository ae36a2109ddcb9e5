// Package main is the entry point for the logolist HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleveque/logolist/internal/auth"
	"github.com/fleveque/logolist/internal/background"
	"github.com/fleveque/logolist/internal/config"
	"github.com/fleveque/logolist/internal/handler"
	"github.com/fleveque/logolist/internal/llm"
	"github.com/fleveque/logolist/internal/logging"
	"github.com/fleveque/logolist/internal/model"
	"github.com/fleveque/logolist/internal/provider"
	"github.com/fleveque/logolist/internal/server"
	"github.com/fleveque/logolist/internal/service"
	"github.com/fleveque/logolist/internal/storage"
)

// downloadTimeout bounds one proxied image download.
const downloadTimeout = 15 * time.Second

func main() {
	// run() is separate so deferred cleanup executes before os.Exit.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("LOGOLIST_CONFIG_PATH"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stderr; nothing useful to do about it.
	defer func() { _ = logger.Sync() }()

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	companies := storage.NewCompanyRepository(db)
	searchLogs := storage.NewSearchLogRepository(db)
	changeLogs := storage.NewChangeLogRepository(db)
	admins := storage.NewAdminUserRepository(db)
	llmCalls := storage.NewLLMCallRepository(db)

	favicons := provider.NewFavicons(cfg.Providers.Favicon)
	adapters := buildAdapters(cfg, favicons, llmCalls, logger)

	searchers := make([]service.Searcher, 0, len(adapters))
	breakers := make([]handler.BreakerReporter, 0, len(adapters))
	for _, a := range adapters {
		searchers = append(searchers, a)
		breakers = append(breakers, a)
	}

	// Closed before the database (defers run in reverse), so queued search
	// logs and counters still reach the store.
	runner := background.NewRunner(cfg.Background, logger)
	defer runner.Close()

	jwt, err := newJWTManager(cfg.Auth, logger)
	if err != nil {
		return err
	}

	resolver := service.NewResolver(companies, searchLogs, searchers, favicons,
		model.Source(cfg.Search.PreferredSource), runner, logger)
	stats := service.NewStatsService(companies, searchLogs)

	deps := server.Deps{
		Catalog:      service.NewCatalogService(resolver, companies, favicons, cfg.Search.PageSize, logger),
		Registration: service.NewRegistrationService(companies, favicons, logger),
		Stats:        stats,
		Downloads:    service.NewDownloadService(service.NewImageProcessor(nil), downloadTimeout),
		Admin:        service.NewAdminService(companies, changeLogs, admins, jwt, logger),
		JWT:          jwt,
		Breakers:     breakers,
	}

	srv := server.New(cfg, deps, logger)

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (docker stop).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}

// buildAdapters wraps every enabled provider in an Adapter and returns them
// in search.provider_order.
func buildAdapters(cfg *config.Config, favicons *provider.Favicons, llmCalls storage.LLMCallRepository, logger *zap.Logger) []*provider.Adapter {
	timeout := cfg.ProviderTimeout
	p := cfg.Providers

	var adapters []*provider.Adapter
	if p.Brandfetch.APIKey != "" {
		adapters = append(adapters, provider.NewAdapter(
			provider.NewBrandfetchProvider(p.Brandfetch, favicons), timeout(p.Brandfetch.Timeout), cfg.Breaker, logger))
	}
	if p.AppStore.Enabled {
		adapters = append(adapters, provider.NewAdapter(
			provider.NewAppStoreProvider(p.AppStore), timeout(p.AppStore.Timeout), cfg.Breaker, logger))
	}
	if p.Clearbit.Enabled {
		adapters = append(adapters, provider.NewAdapter(
			provider.NewClearbitProvider(p.Clearbit, favicons), timeout(p.Clearbit.Timeout), cfg.Breaker, logger))
	}
	if cfg.LLM.Enabled() {
		if clients := llmClients(cfg.LLM, logger); len(clients) > 0 {
			llmProvider := provider.NewLLMProvider(clients, cfg.LLM.RatePerMinute, llmCalls, favicons, logger)
			adapters = append(adapters, provider.NewAdapter(llmProvider, timeout(cfg.LLM.Timeout), cfg.Breaker, logger))
		}
	}

	ordered := provider.OrderAdapters(adapters, cfg.Search.ProviderOrder)
	for _, a := range ordered {
		logger.Info("provider enabled", zap.String("provider", a.Name()))
	}
	return ordered
}

// llmClients builds the LLM clients in llm.provider_order, skipping those
// without an API key.
func llmClients(cfg config.LLMConfig, logger *zap.Logger) []llm.Client {
	var clients []llm.Client
	for _, name := range cfg.ProviderOrder {
		switch strings.ToLower(name) {
		case "anthropic":
			if cfg.Anthropic.APIKey != "" {
				clients = append(clients, llm.NewAnthropicClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
			}
		case "openai":
			if cfg.OpenAI.APIKey != "" {
				clients = append(clients, llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
			}
		default:
			logger.Warn("unknown LLM provider in llm.provider_order", zap.String("provider", name))
		}
	}
	return clients
}

// newJWTManager returns the admin token manager. Without a configured secret
// a random one is generated, so sessions do not survive a restart.
func newJWTManager(cfg config.AuthConfig, logger *zap.Logger) (*auth.JWTManager, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		logger.Warn("auth.jwt_secret not set, using a random secret for this process")
		secret = uuid.NewString() + uuid.NewString()
	}
	jwt, err := auth.NewJWTManager(secret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating jwt manager: %w", err)
	}
	return jwt, nil
}
