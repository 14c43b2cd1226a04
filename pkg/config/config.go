package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment access happens in this package.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data collection
	Fetch FetchConfig

	// Analysis defaults
	Analysis AnalysisConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the API-side bundle cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration
}

// FetchConfig holds configuration for the market-data collector.
type FetchConfig struct {
	ChartBaseURL   string
	TrendingURL    string
	SP500SourceURL string
	UserAgent      string
	RequestsPerSec float64
	HistoryYears   int
	TrendingLimit  int
}

// AnalysisConfig holds the default parameters for the analysis engine.
// Every value has a documented default; the engine receives these
// explicitly so it stays a pure function of its inputs.
type AnalysisConfig struct {
	MAWindows  []int // moving average windows in trading days (default 20, 50, 200)
	BandWindow int   // 52-week band lookback in trading days (default 252)
	BandLevels int   // support/resistance levels per side (default 2)
	Horizons   []int // post-earnings horizons in trading days (default 1, 5)
}

// SchedulerConfig holds cron schedules for periodic runs.
type SchedulerConfig struct {
	Enabled     bool
	CollectSpec string // cron spec for data collection
	AnalyzeSpec string // cron spec for analysis runs
}

// Load reads configuration from environment variables, optionally seeded
// from a .env file. Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", "15m"),
		},

		Fetch: FetchConfig{
			ChartBaseURL:   getEnv("CHART_BASE_URL", "https://query1.finance.yahoo.com"),
			TrendingURL:    getEnv("TRENDING_URL", "https://finance.yahoo.com/most-active"),
			SP500SourceURL: getEnv("SP500_SOURCE_URL", "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"),
			UserAgent:      getEnv("FETCH_USER_AGENT", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"),
			RequestsPerSec: getEnvAsFloat("FETCH_REQUESTS_PER_SEC", 2.0),
			HistoryYears:   getEnvAsInt("FETCH_HISTORY_YEARS", 2),
			TrendingLimit:  getEnvAsInt("FETCH_TRENDING_LIMIT", 100),
		},

		Analysis: AnalysisConfig{
			MAWindows:  getEnvAsInts("ANALYSIS_MA_WINDOWS", []int{20, 50, 200}),
			BandWindow: getEnvAsInt("ANALYSIS_BAND_WINDOW", 252),
			BandLevels: getEnvAsInt("ANALYSIS_BAND_LEVELS", 2),
			Horizons:   getEnvAsInts("ANALYSIS_HORIZONS", []int{1, 5}),
		},

		Scheduler: SchedulerConfig{
			Enabled:     getEnvAsBool("SCHEDULER_ENABLED", true),
			CollectSpec: getEnv("SCHEDULER_COLLECT_SPEC", "0 0 18 * * MON-FRI"),
			AnalyzeSpec: getEnv("SCHEDULER_ANALYZE_SPEC", "0 30 18 * * MON-FRI"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Analysis.BandWindow <= 0 {
		return fmt.Errorf("ANALYSIS_BAND_WINDOW must be positive")
	}
	if c.Analysis.BandLevels < 1 {
		return fmt.Errorf("ANALYSIS_BAND_LEVELS must be at least 1")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fallback, _ := time.ParseDuration(defaultValue)
		return fallback
	}

	return value
}

// getEnvAsInts parses a comma-separated list of integers.
func getEnvAsInts(key string, defaultValue []int) []int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return defaultValue
		}
		values = append(values, v)
	}
	return values
}
