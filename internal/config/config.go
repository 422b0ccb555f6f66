package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Parser  ParserConfig
	Upload  UploadConfig
	Ingest  IngestConfig
	Session SessionConfig
	CORS    CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ParserConfig holds settings for the extraction oracle (the LLM provider).
// The credential is read once here and nowhere else.
type ParserConfig struct {
	Provider      string `mapstructure:"provider"`
	APIKey        string `mapstructure:"api_key"`
	DefaultModel  string `mapstructure:"default_model"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
	MaxInputChars int    `mapstructure:"max_input_chars"`
	MaxTokens     int    `mapstructure:"max_tokens"`

	// Vertex AI only; authenticates with application default credentials
	// unless CredentialsFile is set.
	ProjectID       string `mapstructure:"project_id"`
	Location        string `mapstructure:"location"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// Timeout returns the per-call oracle timeout.
func (p *ParserConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// UploadConfig holds limits for uploaded documents.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload limit in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// IngestConfig holds per-slot text extraction settings.
type IngestConfig struct {
	ExtractTimeout time.Duration `mapstructure:"extract_timeout"`
}

// SessionConfig holds in-memory session lifetime settings.
type SessionConfig struct {
	IdleTTL        time.Duration `mapstructure:"idle_ttl"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
	AnalyzeTimeout time.Duration `mapstructure:"analyze_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the DECLARANT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DECLARANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Parser defaults
	v.SetDefault("parser.provider", "gemini")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "")
	v.SetDefault("parser.timeout_secs", 120)
	v.SetDefault("parser.max_input_chars", 10000)
	v.SetDefault("parser.max_tokens", 16384)
	v.SetDefault("parser.project_id", "")
	v.SetDefault("parser.location", "us-central1")
	v.SetDefault("parser.credentials_file", "")

	// Upload, ingest and session defaults
	v.SetDefault("upload.max_file_size_mb", 20)
	v.SetDefault("ingest.extract_timeout", "60s")
	v.SetDefault("session.idle_ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")
	v.SetDefault("session.analyze_timeout", "10m")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "DECLARANT_SERVER_PORT",
		"server.read_timeout":     "DECLARANT_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "DECLARANT_SERVER_WRITE_TIMEOUT",
		"server.environment":      "DECLARANT_SERVER_ENVIRONMENT",
		"log.level":               "DECLARANT_LOG_LEVEL",
		"log.format":              "DECLARANT_LOG_FORMAT",
		"parser.provider":         "DECLARANT_PARSER_PROVIDER",
		"parser.api_key":          "DECLARANT_PARSER_API_KEY",
		"parser.default_model":    "DECLARANT_PARSER_DEFAULT_MODEL",
		"parser.timeout_secs":     "DECLARANT_PARSER_TIMEOUT_SECS",
		"parser.max_input_chars":  "DECLARANT_PARSER_MAX_INPUT_CHARS",
		"parser.max_tokens":       "DECLARANT_PARSER_MAX_TOKENS",
		"parser.project_id":       "DECLARANT_PARSER_PROJECT_ID",
		"parser.location":         "DECLARANT_PARSER_LOCATION",
		"parser.credentials_file": "DECLARANT_PARSER_CREDENTIALS_FILE",
		"upload.max_file_size_mb": "DECLARANT_UPLOAD_MAX_FILE_SIZE_MB",
		"ingest.extract_timeout":  "DECLARANT_INGEST_EXTRACT_TIMEOUT",
		"session.idle_ttl":        "DECLARANT_SESSION_IDLE_TTL",
		"session.sweep_interval":  "DECLARANT_SESSION_SWEEP_INTERVAL",
		"session.analyze_timeout": "DECLARANT_SESSION_ANALYZE_TIMEOUT",
		"cors.allowed_origins":    "DECLARANT_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if DECLARANT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DECLARANT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Parser = ParserConfig{
		Provider:        strings.ToLower(strings.TrimSpace(v.GetString("parser.provider"))),
		APIKey:          strings.TrimSpace(v.GetString("parser.api_key")),
		DefaultModel:    v.GetString("parser.default_model"),
		TimeoutSecs:     v.GetInt("parser.timeout_secs"),
		MaxInputChars:   v.GetInt("parser.max_input_chars"),
		MaxTokens:       v.GetInt("parser.max_tokens"),
		ProjectID:       v.GetString("parser.project_id"),
		Location:        v.GetString("parser.location"),
		CredentialsFile: v.GetString("parser.credentials_file"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Ingest = IngestConfig{
		ExtractTimeout: v.GetDuration("ingest.extract_timeout"),
	}
	cfg.Session = SessionConfig{
		IdleTTL:        v.GetDuration("session.idle_ttl"),
		SweepInterval:  v.GetDuration("session.sweep_interval"),
		AnalyzeTimeout: v.GetDuration("session.analyze_timeout"),
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
