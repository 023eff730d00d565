package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain/models"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "DATABASE_URL", "SUPABASE_DB_URL", "SUPABASE_URL",
		"DEV_USER_ID", "CORS_ORIGINS", "TABLE_PREFIX", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"LLM_MODEL", "LLM_TEMPERATURE", "LLM_MAX_TOKENS", "LLM_TIMEOUT", "HISTORY_LIMIT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CACHE_TTL", "AMQP_URL", "EVENTS_QUEUE",
		"FILES_DIR", "LOG_DIR", "LOG_MAX_FILES",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Empty(t, cfg.SupabaseJWKSURL)
	assert.Equal(t, "gpt-4.1", cfg.LLMModel)
	assert.InDelta(t, 0.6, cfg.LLMTemperature, 1e-9)
	assert.Equal(t, 2000, cfg.LLMMaxTokens)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 10, cfg.HistoryLimit)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "workspace.events", cfg.EventsQueue)
	assert.Equal(t, "./uploads", cfg.FilesDir)
	assert.Equal(t, models.DefaultPrimaryColor, cfg.Report.PrimaryColor)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
	t.Setenv("LLM_TIMEOUT", "45s")
	t.Setenv("LLM_MAX_TOKENS", "not-a-number")
	t.Setenv("HISTORY_LIMIT", "4")
	t.Setenv("SUPABASE_DB_URL", "postgres://legacy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.Equal(t, "https://abc.supabase.co/auth/v1/.well-known/jwks.json", cfg.SupabaseJWKSURL)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 2000, cfg.LLMMaxTokens, "malformed ints fall back to the default")
	assert.Equal(t, 4, cfg.HistoryLimit)
	assert.Equal(t, "postgres://legacy", cfg.DatabaseURL)
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "eventdesk.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = "9090"
environment = "test"

[llm]
model = "gpt-4o-mini"
timeout = "10s"

[report]
primary_color = "#FF0000"
`), 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LLM_MODEL", "gpt-4.1-mini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "test_", cfg.TablePrefix)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLMModel, "env wins over the file")
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "#FF0000", cfg.Report.PrimaryColor)
	assert.Equal(t, models.DefaultSecondaryColor, cfg.Report.SecondaryColor)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad llm timeout", map[string]string{"LLM_TIMEOUT": "soon"}},
		{"bad cache ttl", map[string]string{"CACHE_TTL": "5 minutes"}},
		{"missing config file", map[string]string{"CONFIG_FILE": "/nonexistent/eventdesk.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env      string
		override string
		want     string
	}{
		{"dev", "", "dev_"},
		{"test", "", "test_"},
		{"prod", "", "prod_"},
		{"staging", "", "dev_"},
		{"prod", "custom_", "custom_"},
	}
	for _, tt := range tests {
		t.Setenv("TABLE_PREFIX", tt.override)
		assert.Equal(t, tt.want, getTablePrefix(tt.env))
	}
}

func TestSetupLogFile_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"eventdesk-2024-01-01T00-00-00.log", "eventdesk-2024-01-02T00-00-00.log", "eventdesk-2024-01-03T00-00-00.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	files, err := filepath.Glob(filepath.Join(dir, "eventdesk-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.NotContains(t, files, filepath.Join(dir, "eventdesk-2024-01-01T00-00-00.log"))
}
