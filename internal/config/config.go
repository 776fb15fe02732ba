// Package config loads runtime settings from STUDYSYNC_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/studysync/internal/inference"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	// DBPath defaults to ~/.studysync/studysync.db when empty.
	DBPath           string   `env:"DB"`
	HTTPAddr         string   `env:"HTTP_ADDR" envDefault:"127.0.0.1:8000"`
	CORSOrigins      []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	AnalyzeTimeoutMs int      `env:"ANALYZE_TIMEOUT_MS" envDefault:"0"`
	TuningFile       string   `env:"TUNING_FILE"`
	LogUseCases      bool     `env:"LOG_USE_CASES" envDefault:"false"`
	DefaultUserID    string   `env:"DEFAULT_USER" envDefault:"user1"`

	Inference inference.Config `envPrefix:"INFERENCE_"`
}

// Load parses the environment into a Config and resolves the database path.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "STUDYSYNC_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".studysync", "studysync.db")
	}
	if cfg.AnalyzeTimeoutMs < 0 {
		return Config{}, fmt.Errorf("STUDYSYNC_ANALYZE_TIMEOUT_MS must not be negative, got %d", cfg.AnalyzeTimeoutMs)
	}
	return cfg, nil
}

// AnalyzeTimeout is the caller-side bound on one frame analysis; zero
// disables it.
func (c Config) AnalyzeTimeout() time.Duration {
	return time.Duration(c.AnalyzeTimeoutMs) * time.Millisecond
}
