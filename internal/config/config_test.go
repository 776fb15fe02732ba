package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".studysync", "studysync.db"), cfg.DBPath)
	assert.Equal(t, "127.0.0.1:8000", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, time.Duration(0), cfg.AnalyzeTimeout())
	assert.Equal(t, "user1", cfg.DefaultUserID)
	assert.False(t, cfg.LogUseCases)
	assert.Equal(t, "http://127.0.0.1:5001", cfg.Inference.Endpoint)
	assert.Equal(t, 10000, cfg.Inference.TimeoutMs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STUDYSYNC_DB", ":memory:")
	t.Setenv("STUDYSYNC_HTTP_ADDR", ":9090")
	t.Setenv("STUDYSYNC_CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")
	t.Setenv("STUDYSYNC_ANALYZE_TIMEOUT_MS", "1500")
	t.Setenv("STUDYSYNC_TUNING_FILE", "/etc/studysync/tuning.yaml")
	t.Setenv("STUDYSYNC_LOG_USE_CASES", "true")
	t.Setenv("STUDYSYNC_INFERENCE_ENDPOINT", "http://gpu-box:5001")
	t.Setenv("STUDYSYNC_INFERENCE_TIMEOUT_MS", "2500")
	t.Setenv("STUDYSYNC_INFERENCE_LOG_CALLS", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORSOrigins)
	assert.Equal(t, 1500*time.Millisecond, cfg.AnalyzeTimeout())
	assert.Equal(t, "/etc/studysync/tuning.yaml", cfg.TuningFile)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, "http://gpu-box:5001", cfg.Inference.Endpoint)
	assert.Equal(t, 2500, cfg.Inference.TimeoutMs)
	assert.True(t, cfg.Inference.LogCalls)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("STUDYSYNC_DB", ":memory:")
	t.Setenv("STUDYSYNC_ANALYZE_TIMEOUT_MS", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "parse env")

	t.Setenv("STUDYSYNC_ANALYZE_TIMEOUT_MS", "-5")
	_, err = Load()
	assert.ErrorContains(t, err, "must not be negative")
}
