package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Scoring  ScoringConfig
	Store    StoreConfig
	Cache    CacheConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ScoringConfig drives the recommendation fitness function. The four weights
// must be non-negative and sum to 1. Normalization ranges default to the
// observed population range when the fixed bounds are left at zero.
type ScoringConfig struct {
	SkillMatchWeight  float64
	WorkloadWeight    float64
	PerformanceWeight float64
	ExperienceWeight  float64

	MaxPerformance float64
	MaxExperience  float64
	MaxWorkload    float64
}

// StoreConfig bounds directory store calls.
type StoreConfig struct {
	TimeoutSeconds  int
	RetryBackoffMS  int
	ConflictRetries int
}

// CacheConfig controls the recommendation cache.
type CacheConfig struct {
	TTLSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "task-assignment-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scoring: ScoringConfig{
			SkillMatchWeight:  getEnvAsFloat("SCORING_SKILL_MATCH_WEIGHT", 0.4),
			WorkloadWeight:    getEnvAsFloat("SCORING_WORKLOAD_WEIGHT", 0.3),
			PerformanceWeight: getEnvAsFloat("SCORING_PERFORMANCE_WEIGHT", 0.2),
			ExperienceWeight:  getEnvAsFloat("SCORING_EXPERIENCE_WEIGHT", 0.1),
			MaxPerformance:    getEnvAsFloat("SCORING_MAX_PERFORMANCE", 5),
			MaxExperience:     getEnvAsFloat("SCORING_MAX_EXPERIENCE", 0),
			MaxWorkload:       getEnvAsFloat("SCORING_MAX_WORKLOAD", 0),
		},
		Store: StoreConfig{
			TimeoutSeconds:  getEnvAsInt("STORE_TIMEOUT_SECONDS", 5),
			RetryBackoffMS:  getEnvAsInt("STORE_RETRY_BACKOFF_MS", 100),
			ConflictRetries: getEnvAsInt("STORE_CONFLICT_RETRIES", 1),
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvAsInt("RECOMMENDATION_CACHE_TTL_SECONDS", 30),
		},
	}

	if err := cfg.Scoring.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks weight invariants.
func (s ScoringConfig) Validate() error {
	weights := map[string]float64{
		"SCORING_SKILL_MATCH_WEIGHT": s.SkillMatchWeight,
		"SCORING_WORKLOAD_WEIGHT":    s.WorkloadWeight,
		"SCORING_PERFORMANCE_WEIGHT": s.PerformanceWeight,
		"SCORING_EXPERIENCE_WEIGHT":  s.ExperienceWeight,
	}
	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", name, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the per-call store timeout.
func (s StoreConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// RetryBackoff returns the backoff applied before a transient retry.
func (s StoreConfig) RetryBackoff() time.Duration {
	if s.RetryBackoffMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(s.RetryBackoffMS) * time.Millisecond
}

// TTL returns the recommendation cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsFloat(key string, fallback float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
