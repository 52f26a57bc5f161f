package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Gemini.Models) == 0 {
		return errors.New("gemini model candidates empty")
	}
	if c.Gemini.MaxRetries < 1 {
		return fmt.Errorf("gemini max retries must be >= 1: %d", c.Gemini.MaxRetries)
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return fmt.Errorf("gemini timeout must be positive: %d", c.Gemini.TimeoutSeconds)
	}
	if c.Gemini.ChatTemperature < 0 || c.Gemini.ChatTemperature > 2 {
		return fmt.Errorf("chat temperature out of range: %f", c.Gemini.ChatTemperature)
	}
	if c.Gemini.AnalysisTemperature < 0 || c.Gemini.AnalysisTemperature > 2 {
		return fmt.Errorf("analysis temperature out of range: %f", c.Gemini.AnalysisTemperature)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	primaryKey := maskSecret(cfg.Gemini.PrimaryKey())
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", primaryKey,
		"models", cfg.Gemini.Models,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"session_store_url", cfg.SessionStore.URL,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"geocode_url", cfg.Geo.GeocodeBaseURL,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_google_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:          parseAPIKeys(),
			BaseURL:          getEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Models:           parseModels(),
			MaxRetries:       max(1, getEnvInt("GEMINI_MAX_RETRIES", 3)),
			TimeoutSeconds:   getEnvInt("GEMINI_TIMEOUT", 30),
			BackoffBaseMilli: max(1, getEnvInt("GEMINI_BACKOFF_BASE_MS", 1000)),

			AnalysisMaxOutputTokens: getEnvInt("GEMINI_ANALYSIS_MAX_TOKENS", 2048),
			AnalysisTemperature:     getEnvFloat("GEMINI_ANALYSIS_TEMPERATURE", 0.4),
			ChatMaxOutputTokens:     getEnvInt("GEMINI_CHAT_MAX_TOKENS", 1024),
			ChatTemperature:         getEnvFloat("GEMINI_CHAT_TEMPERATURE", 0.9),
			TopK:                    getEnvInt("GEMINI_TOP_K", 40),
			TopP:                    getEnvFloat("GEMINI_TOP_P", 0.95),
		},
		Session: SessionConfig{
			MaxSessions:       getEnvInt("MAX_SESSIONS", 50),
			SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 1440),
			HistoryMaxPairs:   getEnvNonNegativeInt("SESSION_HISTORY_MAX_PAIRS", 10),
		},
		SessionStore: SessionStoreConfig{
			URL:          getEnvString("SESSION_STORE_URL", "redis://localhost:6379"),
			Enabled:      getEnvBool("SESSION_STORE_ENABLED", false),
			Required:     getEnvBool("SESSION_STORE_REQUIRED", false),
			DisableCache: getEnvBool("SESSION_STORE_DISABLE_CACHE", false),
		},
		Guard: GuardConfig{
			Enabled:         getEnvBool("GUARD_ENABLED", false),
			RulepacksDir:    getEnvString("RULEPACKS_DIR", "rulepacks"),
			Threshold:       getEnvFloat("GUARD_THRESHOLD", 0),
			CacheMaxSize:    getEnvInt("GUARD_CACHE_MAX_SIZE", 1024),
			CacheTTLSeconds: getEnvInt("GUARD_CACHE_TTL_SECONDS", 300),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 40310),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
		Database: DatabaseConfig{
			Host:                   getEnvString("DB_HOST", "localhost"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "ecofy"),
			User:                   getEnvString("DB_USER", "ecofy"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MinPool:                getEnvInt("DB_MIN_POOL", 1),
			MaxPool:                getEnvInt("DB_MAX_POOL", 5),
			ConnMaxLifetimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_LIFETIME_MINUTES", 60),
			ConnMaxIdleTimeMinutes: getEnvNonNegativeInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 10),
		},
		Geo: GeoConfig{
			GeocodeBaseURL:  getEnvString("GEO_GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
			RouteBaseURL:    getEnvString("GEO_ROUTE_BASE_URL", "https://router.project-osrm.org"),
			TimeoutSeconds:  getEnvInt("GEO_TIMEOUT", 10),
			CacheSize:       max(1, getEnvNonNegativeInt("GEO_CACHE_SIZE", 2048)),
			CacheTTLSeconds: max(1, getEnvNonNegativeInt("GEO_CACHE_TTL_SECONDS", 3600)),
		},
		Points: PointsConfig{
			LeaderboardLimit: max(1, getEnvNonNegativeInt("POINTS_LEADERBOARD_LIMIT", 20)),
		},
	}
}
