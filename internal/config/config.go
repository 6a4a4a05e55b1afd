// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults
// for the server, LLM providers, session handling, and transcript
// persistence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// LLM Configuration
	OpenAIAPIKey string // OpenAI API key (primary interpreter/summarizer provider)
	GroqAPIKey   string // Groq API key (OpenAI-compatible alternative)
	GeminiAPIKey string // Gemini API key

	// LLM Model Configuration (optional, defaults apply if empty)
	OpenAIIntentModel    string
	OpenAISummarizeModel string
	GroqIntentModel      string
	GroqSummarizeModel   string
	GeminiIntentModel    string
	GeminiSummarizeModel string

	// LLM Provider Configuration
	LLMPrimaryProvider  string // "openai", "groq", or "gemini" (default: "openai")
	LLMFallbackProvider string // tried when primary is exhausted (default: "gemini")

	// Observability
	SentryDSN           string
	BetterStackToken    string
	BetterStackEndpoint string
	MetricsUsername     string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword     string // Password for /metrics Basic Auth (empty = no auth)

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir       string // Directory holding the SQLite database and transcripts
	AgreementsDir string // Directory of per-campus agreement JSON files

	// Session Configuration
	SessionIdleTTL   time.Duration // Idle eviction for sessions (default: 30m)
	SessionSweepTick time.Duration // Eviction sweep interval (default: 5m)

	// LLM budget
	InterpretTimeout time.Duration // Per-call interpretation budget (default: 10s)
	SummarizeTimeout time.Duration // Per-call summarize budget (default: 20s)
	LLMPerHour       float64       // Per-session LLM requests per hour (default: 60)

	// Transcript Configuration
	TranscriptMaxBytes int64  // Rotation threshold (default: 8 MiB)
	ArchiveEndpoint    string // S3-compatible endpoint for transcript archives
	ArchiveAccessKeyID string
	ArchiveSecretKey   string
	ArchiveBucket      string
}

// Load reads configuration from environment variables.
// It attempts to load .env first, then reads from env vars.
func Load() (*Config, error) {
	// Ignore error if .env does not exist
	_ = godotenv.Load()

	cfg := &Config{
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		OpenAIIntentModel:    getEnv("OPENAI_INTENT_MODEL", "gpt-4o-mini"),
		OpenAISummarizeModel: getEnv("OPENAI_SUMMARIZE_MODEL", "gpt-4o-mini"),
		GroqIntentModel:      getEnv("GROQ_INTENT_MODEL", "llama-3.3-70b-versatile"),
		GroqSummarizeModel:   getEnv("GROQ_SUMMARIZE_MODEL", "llama-3.3-70b-versatile"),
		GeminiIntentModel:    getEnv("GEMINI_INTENT_MODEL", "gemini-2.5-flash-lite"),
		GeminiSummarizeModel: getEnv("GEMINI_SUMMARIZE_MODEL", "gemini-2.5-flash"),

		LLMPrimaryProvider:  getEnv("LLM_PRIMARY_PROVIDER", "openai"),
		LLMFallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", "gemini"),

		SentryDSN:           getEnv("SENTRY_DSN", ""),
		BetterStackToken:    getEnv("BETTERSTACK_TOKEN", ""),
		BetterStackEndpoint: getEnv("BETTERSTACK_ENDPOINT", ""),
		MetricsUsername:     getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword:     getEnv("METRICS_PASSWORD", ""),

		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),

		DataDir:       getEnv("DATA_DIR", "data"),
		AgreementsDir: getEnv("AGREEMENTS_DIR", "agreements"),

		SessionIdleTTL:   getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		SessionSweepTick: getEnvDuration("SESSION_SWEEP_TICK", 5*time.Minute),

		InterpretTimeout: getEnvDuration("INTERPRET_TIMEOUT", 10*time.Second),
		SummarizeTimeout: getEnvDuration("SUMMARIZE_TIMEOUT", 20*time.Second),
		LLMPerHour:       getEnvFloat("LLM_PER_HOUR", 60),

		TranscriptMaxBytes: getEnvInt64("TRANSCRIPT_MAX_BYTES", 8<<20),
		ArchiveEndpoint:    getEnv("ARCHIVE_ENDPOINT", ""),
		ArchiveAccessKeyID: getEnv("ARCHIVE_ACCESS_KEY_ID", ""),
		ArchiveSecretKey:   getEnv("ARCHIVE_SECRET_KEY", ""),
		ArchiveBucket:      getEnv("ARCHIVE_BUCKET", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	switch c.LLMPrimaryProvider {
	case "openai", "groq", "gemini":
	default:
		return fmt.Errorf("unknown LLM_PRIMARY_PROVIDER %q", c.LLMPrimaryProvider)
	}
	switch c.LLMFallbackProvider {
	case "", "openai", "groq", "gemini":
	default:
		return fmt.Errorf("unknown LLM_FALLBACK_PROVIDER %q", c.LLMFallbackProvider)
	}
	if c.SessionIdleTTL <= 0 {
		return errors.New("SESSION_IDLE_TTL must be positive")
	}
	if c.TranscriptMaxBytes <= 0 {
		return errors.New("TRANSCRIPT_MAX_BYTES must be positive")
	}
	if c.ArchiveEndpoint != "" {
		if c.ArchiveAccessKeyID == "" || c.ArchiveSecretKey == "" || c.ArchiveBucket == "" {
			return errors.New("ARCHIVE_ENDPOINT requires ARCHIVE_ACCESS_KEY_ID, ARCHIVE_SECRET_KEY, and ARCHIVE_BUCKET")
		}
	}
	return nil
}

// SQLitePath returns the SQLite database path under the data directory.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "transferbot.db")
}

// TranscriptPath returns the transcript JSONL path under the data directory.
func (c *Config) TranscriptPath() string {
	return filepath.Join(c.DataDir, "transcripts.jsonl")
}

// ArchiveEnabled reports whether transcript archive upload is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.ArchiveEndpoint != ""
}
