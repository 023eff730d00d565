package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"eventdesk/internal/domain/models"
)

type Config struct {
	Port            string
	Environment     string
	DatabaseURL     string
	SupabaseURL     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	DevUserID       string // Static identity used when no JWKS is configured (dev only)
	CORSOrigins     string
	TablePrefix     string

	// LLM gateway
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration
	HistoryLimit   int

	// Response cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Workspace change events
	AMQPURL     string
	EventsQueue string

	// Generated files and logs
	FilesDir    string
	LogDir      string
	LogMaxFiles int

	// Report theme defaults (overridable per request)
	Report models.ReportConfig
}

// fileConfig mirrors the optional TOML file named by CONFIG_FILE.
// Environment variables take precedence over anything set here.
type fileConfig struct {
	Server struct {
		Port        string `toml:"port"`
		Environment string `toml:"environment"`
		CORSOrigins string `toml:"cors_origins"`
		FilesDir    string `toml:"files_dir"`
	} `toml:"server"`
	LLM struct {
		Model        string  `toml:"model"`
		BaseURL      string  `toml:"base_url"`
		Temperature  float64 `toml:"temperature"`
		MaxTokens    int     `toml:"max_tokens"`
		Timeout      string  `toml:"timeout"`
		HistoryLimit int     `toml:"history_limit"`
	} `toml:"llm"`
	Cache struct {
		TTL string `toml:"ttl"`
	} `toml:"cache"`
	Report models.ReportConfig `toml:"report"`
}

// Load builds the configuration from built-in defaults, the optional TOML file and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	env := getEnv("ENVIRONMENT", orDefault(fc.Server.Environment, "dev"))
	supabaseURL := getEnv("SUPABASE_URL", "")
	jwksURL := ""
	if supabaseURL != "" {
		jwksURL = supabaseURL + "/auth/v1/.well-known/jwks.json"
	}

	llmTimeout, err := getEnvAsDuration("LLM_TIMEOUT", orDefault(fc.LLM.Timeout, "30s"))
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", orDefault(fc.Cache.TTL, "5m"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:            getEnv("PORT", orDefault(fc.Server.Port, "8080")),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: jwksURL,
		DevUserID:       getEnv("DEV_USER_ID", ""),
		CORSOrigins:     getEnv("CORS_ORIGINS", orDefault(fc.Server.CORSOrigins, "http://localhost:3000")),
		TablePrefix:     getTablePrefix(env),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", fc.LLM.BaseURL),
		LLMModel:       getEnv("LLM_MODEL", orDefault(fc.LLM.Model, "gpt-4.1")),
		LLMTemperature: getEnvAsFloat("LLM_TEMPERATURE", orDefaultFloat(fc.LLM.Temperature, 0.6)),
		LLMMaxTokens:   getEnvAsInt("LLM_MAX_TOKENS", orDefaultInt(fc.LLM.MaxTokens, 2000)),
		LLMTimeout:     llmTimeout,
		HistoryLimit:   getEnvAsInt("HISTORY_LIMIT", orDefaultInt(fc.LLM.HistoryLimit, 10)),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      cacheTTL,

		AMQPURL:     getEnv("AMQP_URL", ""),
		EventsQueue: getEnv("EVENTS_QUEUE", "workspace.events"),

		FilesDir:    getEnv("FILES_DIR", orDefault(fc.Server.FilesDir, "./uploads")),
		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getEnvAsInt("LOG_MAX_FILES", 10),

		Report: fc.Report.WithDefaults(models.ReportConfig{}),
	}

	return cfg, nil
}

// IsDev reports whether dev-only conveniences (static user, debug logs) are allowed
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key, defaultValue string) (time.Duration, error) {
	raw := getEnv(key, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s=%q: %w", key, raw, err)
	}
	return d, nil
}

func orDefault(v, d string) string {
	if v != "" {
		return v
	}
	return d
}

func orDefaultInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}

func orDefaultFloat(v, d float64) float64 {
	if v != 0 {
		return v
	}
	return d
}
