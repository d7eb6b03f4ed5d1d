package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/fund-faq/internal/pkg/retry"
	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("required setting is missing")

const (
	ProviderHashing = "hashing"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"
	ProviderHTTP    = "http"

	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Metered unioffice key, DOCX export is disabled without it
	UniofficeLicenseKey string `env:"UNIOFFICE_LICENSE_KEY"`

	RetrievalCfg  RetrievalConfig  `envPrefix:"RETRIEVAL_"`
	BudgetCfg     BudgetConfig     `envPrefix:"BUDGET_"`
	GenerationCfg GenerationConfig `envPrefix:"GENERATION_"`
	LLMCfg        LLMConfig        `envPrefix:"LLM_"`
	EmbeddingCfg  EmbeddingConfig  `envPrefix:"EMBEDDING_"`
	IndexCfg      IndexConfig      `envPrefix:"INDEX_"`
	RedisCfg      RedisConfig      `envPrefix:"REDIS_"`

	// Database configuration, used by the postgres index backend
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

type RetrievalConfig struct {
	TopK                int     `env:"TOP_K" envDefault:"3"`
	SimilarityThreshold float64 `env:"SIMILARITY_THRESHOLD" envDefault:"0"`
	DedupThreshold      float64 `env:"DEDUP_THRESHOLD" envDefault:"0.9"`
}

// BudgetConfig bounds prompt size in estimated tokens
type BudgetConfig struct {
	ContextTokens int `env:"CONTEXT_TOKENS" envDefault:"1500"`
	OverallTokens int `env:"OVERALL_TOKENS" envDefault:"3000"`
}

type GenerationConfig struct {
	Timeout         time.Duration        `env:"TIMEOUT" envDefault:"20s"`
	MaxOutputTokens int32                `env:"MAX_OUTPUT_TOKENS" envDefault:"200"`
	Temperature     float32              `env:"TEMPERATURE" envDefault:"0.1"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConfig struct {
	HTTPClientConfig
	Provider         string `env:"PROVIDER" envDefault:"gemini"`
	Model            string `env:"MODEL" envDefault:"gemini-2.5-flash"`
	APIKey           string `env:"API_KEY"`
	BaseURL          string `env:"BASE_URL"`
	GenerateEndpoint string `env:"GENERATE_ENDPOINT" envDefault:"/v1/generate"`
}

type EmbeddingConfig struct {
	HTTPClientConfig
	Provider  string        `env:"PROVIDER" envDefault:"hashing"`
	Model     string        `env:"MODEL" envDefault:"gemini-embedding-001"`
	Dimension int           `env:"DIMENSION" envDefault:"384"`
	APIKey    string        `env:"API_KEY"`
	BaseURL   string        `env:"BASE_URL"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"1h"`
}

type IndexConfig struct {
	Backend      string `env:"BACKEND" envDefault:"file"`
	SnapshotPath string `env:"SNAPSHOT_PATH" envDefault:"data/index/snapshot.json"`
	Watch        bool   `env:"WATCH" envDefault:"false"`
	DataPath     string `env:"DATA_PATH" envDefault:"data/processed"`
}

// RedisConfig enables the shared embedding cache when Addr is set
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// LoadConfig reads .env.<environment> when present, then the process environment
func LoadConfig(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = environment

	return cfg, nil
}

// Parse builds and validates the configuration from the environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.RetrievalCfg.TopK < 1 || cfg.RetrievalCfg.TopK > 20 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_TOP_K must be between 1 and 20, got %d", cfg.RetrievalCfg.TopK))
	}
	if cfg.RetrievalCfg.SimilarityThreshold < 0 || cfg.RetrievalCfg.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_SIMILARITY_THRESHOLD must be between 0 and 1, got %v", cfg.RetrievalCfg.SimilarityThreshold))
	}
	if cfg.RetrievalCfg.DedupThreshold <= 0 || cfg.RetrievalCfg.DedupThreshold > 1 {
		errs = append(errs, fmt.Sprintf("RETRIEVAL_DEDUP_THRESHOLD must be in (0, 1], got %v", cfg.RetrievalCfg.DedupThreshold))
	}

	if cfg.BudgetCfg.ContextTokens < 1 {
		errs = append(errs, fmt.Sprintf("BUDGET_CONTEXT_TOKENS must be positive, got %d", cfg.BudgetCfg.ContextTokens))
	}
	if cfg.BudgetCfg.ContextTokens >= cfg.BudgetCfg.OverallTokens {
		errs = append(errs, fmt.Sprintf("BUDGET_CONTEXT_TOKENS (%d) must be smaller than BUDGET_OVERALL_TOKENS (%d)",
			cfg.BudgetCfg.ContextTokens, cfg.BudgetCfg.OverallTokens))
	}

	if cfg.GenerationCfg.Timeout <= 0 {
		errs = append(errs, "GENERATION_TIMEOUT must be positive")
	}
	if cfg.GenerationCfg.MaxOutputTokens < 1 {
		errs = append(errs, fmt.Sprintf("GENERATION_MAX_OUTPUT_TOKENS must be positive, got %d", cfg.GenerationCfg.MaxOutputTokens))
	}
	if cfg.GenerationCfg.Retry.Attempts > 5 {
		errs = append(errs, fmt.Sprintf("GENERATION_RETRY_ATTEMPTS must be at most 5, got %d", cfg.GenerationCfg.Retry.Attempts))
	}

	switch cfg.LLMCfg.Provider {
	case ProviderGemini, ProviderOpenAI:
		if cfg.LLMCfg.APIKey == "" && !cfg.EnableMocks && cfg.LLMCfg.BaseURL == "" {
			errs = append(errs, "LLM_API_KEY is required for provider "+cfg.LLMCfg.Provider)
		}
	case ProviderHTTP:
		if cfg.LLMCfg.Url == "" && !cfg.EnableMocks {
			errs = append(errs, "LLM_SERVICE_URL is required for provider http")
		}
	default:
		errs = append(errs, fmt.Sprintf("LLM_PROVIDER must be one of gemini, openai, http, got %q", cfg.LLMCfg.Provider))
	}

	switch cfg.EmbeddingCfg.Provider {
	case ProviderHashing, ProviderGemini, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Sprintf("EMBEDDING_PROVIDER must be one of hashing, gemini, openai, got %q", cfg.EmbeddingCfg.Provider))
	}
	if cfg.EmbeddingCfg.Dimension < 8 || cfg.EmbeddingCfg.Dimension > 4096 {
		errs = append(errs, fmt.Sprintf("EMBEDDING_DIMENSION must be between 8 and 4096, got %d", cfg.EmbeddingCfg.Dimension))
	}

	switch cfg.IndexCfg.Backend {
	case BackendFile:
		if cfg.IndexCfg.SnapshotPath == "" {
			errs = append(errs, "INDEX_SNAPSHOT_PATH is required for backend file")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for backend postgres")
		}
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	default:
		errs = append(errs, fmt.Sprintf("INDEX_BACKEND must be one of file, postgres, got %q", cfg.IndexCfg.Backend))
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}
	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}
	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errs = append(errs, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development", "":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
