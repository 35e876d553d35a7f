package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidencelens/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("EVIDENCELENS_GEMINI_API_KEY", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 300*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.QuickModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.DeepModel)
	assert.Equal(t, 32768, cfg.Gemini.DeepThinkingBudget)
	assert.Equal(t, "Kore", cfg.Gemini.SpeechVoice)
	assert.False(t, cfg.Gemini.HasCredential())
	assert.Equal(t, 10, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxFileBytes())
	assert.Empty(t, cfg.S3.Bucket)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EVIDENCELENS_GEMINI_API_KEY", "  secret  ")
	t.Setenv("EVIDENCELENS_GEMINI_DEEP_THINKING_BUDGET", "1024")
	t.Setenv("EVIDENCELENS_UPLOAD_MAX_FILES", "3")
	t.Setenv("EVIDENCELENS_S3_BUCKET", "sources")
	t.Setenv("EVIDENCELENS_CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Gemini.HasCredential())
	assert.Equal(t, 1024, cfg.Gemini.DeepThinkingBudget)
	assert.Equal(t, 3, cfg.Upload.MaxFiles)
	assert.Equal(t, "sources", cfg.S3.Bucket)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("EVIDENCELENS_SERVER_PORT", "")
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestDBConfig_DSN(t *testing.T) {
	d := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.DSN())
}
