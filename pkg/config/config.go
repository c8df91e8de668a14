// Package config builds the process configuration once at startup. The
// resulting value is immutable and passed explicitly to whatever needs it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of a batch run.
type Config struct {
	Provider string // openai, qiniu or gemini
	APIKey   string
	BaseURL  string // optional override for OpenAI-compatible gateways
	Model    string

	Language  string // cn or en
	InputDir  string
	OutputDir string

	ControlNum int // records processed per run
	MaxRetries int
	Delay      time.Duration // pause between records and base retry backoff
	MaxTokens  int64
	Shuffle    bool

	StrictRepair bool // literal-aware repair instead of the heuristic passes
	DebugDiff    bool // log word diffs between raw and repaired replies
}

// FromEnv constructs a Config from the environment, applying defaults that
// match a small exploratory batch. Returns an error for unusable values.
func FromEnv() (Config, error) {
	cfg := Config{
		Provider:     envOr("PROVIDER", "openai"),
		BaseURL:      os.Getenv("OPENAI_BASE_URL"),
		Model:        os.Getenv("MODEL"),
		Language:     envOr("LANGUAGE", "cn"),
		InputDir:     envOr("INPUT_DIR", "input"),
		OutputDir:    envOr("OUTPUT_DIR", "output"),
		ControlNum:   envIntOr("CONTROL_NUM", 3),
		MaxRetries:   envIntOr("API_RETRY_TIMES", 3),
		Delay:        time.Duration(envIntOr("API_DELAY_SECONDS", 2)) * time.Second,
		MaxTokens:    int64(envIntOr("MAX_TOKENS", 8192)),
		Shuffle:      envBoolOr("ENABLE_SHUFFLE", true),
		StrictRepair: envBoolOr("STRICT_REPAIR", false),
		DebugDiff:    envBoolOr("DEBUG_DIFF", false),
	}

	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.Model == "" {
			cfg.Model = "gpt-5-chat-latest"
		}
	case "qiniu":
		cfg.APIKey = os.Getenv("QINIUYUN_API_KEY")
	case "gemini":
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	default:
		return Config{}, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}

	if cfg.Language != "cn" && cfg.Language != "en" {
		return Config{}, fmt.Errorf("unsupported language: %s", cfg.Language)
	}
	if cfg.ControlNum < 0 || cfg.MaxRetries < 0 {
		return Config{}, fmt.Errorf("control num and retry count must not be negative")
	}

	return cfg, nil
}

// DatasetPath is the workbook location for the configured language.
func (c Config) DatasetPath() string {
	return fmt.Sprintf("%s/dataset_%s.xlsx", c.InputDir, c.Language)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolOr(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
