package inference

import "time"

// Config holds connection settings for the remote inference server.
type Config struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"http://127.0.0.1:5001"`
	TimeoutMs int    `env:"TIMEOUT_MS" envDefault:"10000"`
	LogCalls  bool   `env:"LOG_CALLS" envDefault:"false"`
}

// DefaultConfig returns the settings used when no environment is present.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://127.0.0.1:5001",
		TimeoutMs: 10000,
	}
}

// Timeout returns the per-call deadline. Non-positive values fall back to
// the default.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return time.Duration(DefaultConfig().TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
