// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in priority order.
// Go convention: configuration is loaded into structs, not accessed as raw key-value pairs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related settings.
// `mapstructure` tags tell Viper how to map YAML/env keys to struct fields.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Auth       AuthConfig       `mapstructure:"auth"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Search     SearchConfig     `mapstructure:"search"`
	Providers  ProvidersConfig  `mapstructure:"providers"`
	Breaker    BreakerConfig    `mapstructure:"breaker"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Background BackgroundConfig `mapstructure:"background"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	AssetDir     string `mapstructure:"asset_dir"`
}

type AuthConfig struct {
	// APIKeys guards the public API when non-empty. An empty list leaves it open.
	APIKeys   []string      `mapstructure:"api_keys"`
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type SearchConfig struct {
	// PageSize caps the default (no query) listing.
	PageSize int `mapstructure:"page_size"`
	// ProviderTimeout bounds every outbound provider call unless the provider
	// sets its own timeout.
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	// ProviderOrder is the merge priority; providers not listed are appended
	// in registration order.
	ProviderOrder []string `mapstructure:"provider_order"`
	// PreferredSource wins dedup collisions against every other source.
	PreferredSource string `mapstructure:"preferred_source"`
}

type ProvidersConfig struct {
	Clearbit   ClearbitConfig   `mapstructure:"clearbit"`
	AppStore   AppStoreConfig   `mapstructure:"appstore"`
	Brandfetch BrandfetchConfig `mapstructure:"brandfetch"`
	Favicon    FaviconConfig    `mapstructure:"favicon"`
}

type ClearbitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type AppStoreConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Limit   int           `mapstructure:"limit"`
	Country string        `mapstructure:"country"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type BrandfetchConfig struct {
	// Brandfetch is only queried when an API key is present.
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FaviconConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	LogoBaseURL string `mapstructure:"logo_base_url"`
	Size        int    `mapstructure:"size"`
}

type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type LLMConfig struct {
	// ProviderOrder controls which LLM providers are used and in what order.
	// First provider is primary, rest are fallbacks. Example: ["anthropic", "openai"]
	ProviderOrder []string        `mapstructure:"provider_order"`
	Anthropic     AnthropicConfig `mapstructure:"anthropic"`
	OpenAI        OpenAIConfig    `mapstructure:"openai"`
	RatePerMinute int             `mapstructure:"rate_per_minute"`
	// Timeout overrides search.provider_timeout for LLM lookups. Web-search
	// answers often take 10s or more, and a search waits for its slowest
	// provider, so raising this raises the worst-case search latency too.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Enabled reports whether at least one LLM client has credentials.
func (c LLMConfig) Enabled() bool {
	return c.Anthropic.APIKey != "" || c.OpenAI.APIKey != ""
}

type BackgroundConfig struct {
	Workers     int           `mapstructure:"workers"`
	QueueSize   int           `mapstructure:"queue_size"`
	TaskTimeout time.Duration `mapstructure:"task_timeout"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File enables a rotating JSON log file in addition to stderr.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from a YAML file and environment variables.
// In Go, functions return errors as the last return value — callers must check them.
func Load(configPath string) (*Config, error) {
	// A .env file is optional; it only seeds the process environment.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read from YAML config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// LOGOLIST_ prefix + nested keys: LOGOLIST_SERVER_PORT=9090 → server.port=9090
	v.SetEnvPrefix("LOGOLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/logolist.db")
	v.SetDefault("storage.asset_dir", "./storage/logos")
	v.SetDefault("auth.api_keys", []string{})
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("search.page_size", 20)
	v.SetDefault("search.provider_timeout", "3s")
	v.SetDefault("search.provider_order", []string{"Brandfetch", "AppStore", "Clearbit", "LLM"})
	v.SetDefault("search.preferred_source", "Brandfetch")

	v.SetDefault("providers.clearbit.enabled", true)
	v.SetDefault("providers.clearbit.base_url", "https://autocomplete.clearbit.com")
	v.SetDefault("providers.appstore.enabled", true)
	v.SetDefault("providers.appstore.base_url", "https://itunes.apple.com")
	v.SetDefault("providers.appstore.limit", 5)
	v.SetDefault("providers.appstore.country", "us")
	v.SetDefault("providers.brandfetch.base_url", "https://api.brandfetch.io")
	v.SetDefault("providers.favicon.base_url", "https://t3.gstatic.com/faviconV2")
	v.SetDefault("providers.favicon.logo_base_url", "https://logo.clearbit.com")
	v.SetDefault("providers.favicon.size", 256)

	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.failure_ratio", 0.5)
	v.SetDefault("breaker.min_requests", 5)

	v.SetDefault("llm.provider_order", []string{"anthropic", "openai"})
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.rate_per_minute", 10)

	v.SetDefault("background.workers", 2)
	v.SetDefault("background.queue_size", 256)
	v.SetDefault("background.task_timeout", "5s")

	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 14)
}

func (c *Config) validate() error {
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize)
	}
	if c.Search.ProviderTimeout <= 0 {
		return fmt.Errorf("search.provider_timeout must be positive, got %s", c.Search.ProviderTimeout)
	}
	if c.LLM.RatePerMinute <= 0 {
		return fmt.Errorf("llm.rate_per_minute must be positive, got %d", c.LLM.RatePerMinute)
	}
	if c.Background.Workers <= 0 || c.Background.QueueSize <= 0 {
		return fmt.Errorf("background workers and queue_size must be positive")
	}
	return nil
}

// ProviderTimeout returns override when set, else search.provider_timeout.
func (c *Config) ProviderTimeout(override time.Duration) time.Duration {
	if override > 0 {
		return override
	}
	return c.Search.ProviderTimeout
}

// Address returns the listen address string like "0.0.0.0:8080".
// This is a method on ServerConfig — Go attaches methods to types via receiver syntax.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
