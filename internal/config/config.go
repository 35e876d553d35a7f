package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Log    LogConfig
	Gemini GeminiConfig
	Upload UploadConfig
	CORS   CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// GeminiConfig holds settings for the remote multimodal analysis service.
type GeminiConfig struct {
	APIKey             string `mapstructure:"api_key"`
	BaseURL            string `mapstructure:"base_url"`
	QuickModel         string `mapstructure:"quick_model"`
	DeepModel          string `mapstructure:"deep_model"`
	DeepThinkingBudget int    `mapstructure:"deep_thinking_budget"`
	ChatModel          string `mapstructure:"chat_model"`
	SpeechModel        string `mapstructure:"speech_model"`
	SpeechVoice        string `mapstructure:"speech_voice"`
	TranscribeModel    string `mapstructure:"transcribe_model"`
	ImageModel         string `mapstructure:"image_model"`
	MaxOutputTokens    int    `mapstructure:"max_output_tokens"`
	TimeoutSecs        int    `mapstructure:"timeout_secs"`
}

// HasCredential reports whether an API key is configured.
func (g *GeminiConfig) HasCredential() bool {
	return strings.TrimSpace(g.APIKey) != ""
}

// UploadConfig bounds what a single analysis request may carry.
type UploadConfig struct {
	MaxFiles      int   `mapstructure:"max_files"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxFileBytes returns the per-file size limit in bytes.
func (u *UploadConfig) MaxFileBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the source archive. An empty Bucket
// disables archiving.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from environment variables with the EVIDENCELENS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EVIDENCELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "evidencelens")
	v.SetDefault("db.password", "evidencelens_secret")
	v.SetDefault("db.name", "evidencelens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("gemini.quick_model", "gemini-2.5-flash")
	v.SetDefault("gemini.deep_model", "gemini-2.5-pro")
	v.SetDefault("gemini.deep_thinking_budget", 32768)
	v.SetDefault("gemini.chat_model", "gemini-2.5-flash")
	v.SetDefault("gemini.speech_model", "gemini-2.5-flash-preview-tts")
	v.SetDefault("gemini.speech_voice", "Kore")
	v.SetDefault("gemini.transcribe_model", "gemini-2.5-flash")
	v.SetDefault("gemini.image_model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.max_output_tokens", 16384)
	v.SetDefault("gemini.timeout_secs", 300)

	// Upload defaults
	v.SetDefault("upload.max_files", 10)
	v.SetDefault("upload.max_file_size_mb", 20)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                 "EVIDENCELENS_SERVER_PORT",
		"server.read_timeout":         "EVIDENCELENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":        "EVIDENCELENS_SERVER_WRITE_TIMEOUT",
		"server.environment":          "EVIDENCELENS_SERVER_ENVIRONMENT",
		"db.host":                     "EVIDENCELENS_DB_HOST",
		"db.port":                     "EVIDENCELENS_DB_PORT",
		"db.user":                     "EVIDENCELENS_DB_USER",
		"db.password":                 "EVIDENCELENS_DB_PASSWORD",
		"db.name":                     "EVIDENCELENS_DB_NAME",
		"db.sslmode":                  "EVIDENCELENS_DB_SSLMODE",
		"db.max_open":                 "EVIDENCELENS_DB_MAX_OPEN",
		"db.max_idle":                 "EVIDENCELENS_DB_MAX_IDLE",
		"s3.region":                   "EVIDENCELENS_S3_REGION",
		"s3.bucket":                   "EVIDENCELENS_S3_BUCKET",
		"s3.endpoint":                 "EVIDENCELENS_S3_ENDPOINT",
		"s3.access_key":               "EVIDENCELENS_S3_ACCESS_KEY",
		"s3.secret_key":               "EVIDENCELENS_S3_SECRET_KEY",
		"s3.presign_expiry":           "EVIDENCELENS_S3_PRESIGN_EXPIRY",
		"log.level":                   "EVIDENCELENS_LOG_LEVEL",
		"log.format":                  "EVIDENCELENS_LOG_FORMAT",
		"log.file":                    "EVIDENCELENS_LOG_FILE",
		"gemini.api_key":              "EVIDENCELENS_GEMINI_API_KEY",
		"gemini.base_url":             "EVIDENCELENS_GEMINI_BASE_URL",
		"gemini.quick_model":          "EVIDENCELENS_GEMINI_QUICK_MODEL",
		"gemini.deep_model":           "EVIDENCELENS_GEMINI_DEEP_MODEL",
		"gemini.deep_thinking_budget": "EVIDENCELENS_GEMINI_DEEP_THINKING_BUDGET",
		"gemini.chat_model":           "EVIDENCELENS_GEMINI_CHAT_MODEL",
		"gemini.speech_model":         "EVIDENCELENS_GEMINI_SPEECH_MODEL",
		"gemini.speech_voice":         "EVIDENCELENS_GEMINI_SPEECH_VOICE",
		"gemini.transcribe_model":     "EVIDENCELENS_GEMINI_TRANSCRIBE_MODEL",
		"gemini.image_model":          "EVIDENCELENS_GEMINI_IMAGE_MODEL",
		"gemini.max_output_tokens":    "EVIDENCELENS_GEMINI_MAX_OUTPUT_TOKENS",
		"gemini.timeout_secs":         "EVIDENCELENS_GEMINI_TIMEOUT_SECS",
		"upload.max_files":            "EVIDENCELENS_UPLOAD_MAX_FILES",
		"upload.max_file_size_mb":     "EVIDENCELENS_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":        "EVIDENCELENS_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if EVIDENCELENS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("EVIDENCELENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		File:   v.GetString("log.file"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:             v.GetString("gemini.api_key"),
		BaseURL:            v.GetString("gemini.base_url"),
		QuickModel:         v.GetString("gemini.quick_model"),
		DeepModel:          v.GetString("gemini.deep_model"),
		DeepThinkingBudget: v.GetInt("gemini.deep_thinking_budget"),
		ChatModel:          v.GetString("gemini.chat_model"),
		SpeechModel:        v.GetString("gemini.speech_model"),
		SpeechVoice:        v.GetString("gemini.speech_voice"),
		TranscribeModel:    v.GetString("gemini.transcribe_model"),
		ImageModel:         v.GetString("gemini.image_model"),
		MaxOutputTokens:    v.GetInt("gemini.max_output_tokens"),
		TimeoutSecs:        v.GetInt("gemini.timeout_secs"),
	}
	cfg.Upload = UploadConfig{
		MaxFiles:      v.GetInt("upload.max_files"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
