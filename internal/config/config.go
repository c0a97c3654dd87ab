package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime settings. Values come from the environment, with
// an optional .env file loaded by the server entrypoint.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// DataDir holds the sqlite database, calendar files, and rotated logs.
	DataDir string

	// OpenAIAPIKey authorizes the syllabus extraction calls. Empty means
	// extraction always falls back to the regex scanner.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the completion endpoint, used by tests.
	OpenAIBaseURL string

	// ExtractionModel is the chat-completion model name.
	ExtractionModel string

	// ExtractionTimeout bounds one extraction request.
	ExtractionTimeout time.Duration
}

// Defaults applied when the environment leaves a value unset.
const (
	DefaultListenAddr        = ":8600"
	DefaultDataDir           = "./data"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultExtractionModel   = "gpt-4o-mini"
	DefaultExtractionTimeout = 30 * time.Second
)

// Load reads configuration from the environment and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:        envOr("SYLLABUDDY_LISTEN", DefaultListenAddr),
		DataDir:           envOr("SYLLABUDDY_DATA_DIR", DefaultDataDir),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:     envOr("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		ExtractionModel:   envOr("SYLLABUDDY_EXTRACTION_MODEL", DefaultExtractionModel),
		ExtractionTimeout: DefaultExtractionTimeout,
	}

	if raw := os.Getenv("SYLLABUDDY_EXTRACTION_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, errors.New("SYLLABUDDY_EXTRACTION_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.ExtractionTimeout = time.Duration(secs) * time.Second
	}

	if cfg.DataDir == "" {
		return nil, errors.New("data directory must not be empty")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
