package config

import (
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BUCKET_NAME", "cmapss-datasets")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.APIPort)
	assert.Equal(t, StorageS3, cfg.StorageBackend)
	assert.Equal(t, []string{"python3", "routes/predict.py"}, cfg.PredictCommand)
	assert.Equal(t, []string{"python3", "routes/monitor.py"}, cfg.MonitorCommand)
	assert.Equal(t, 5*time.Minute, cfg.JobTimeout)
	assert.Equal(t, runtime.NumCPU(), cfg.MaxConcurrentJobs)
	assert.Equal(t, int64(64<<20), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("BUCKET_NAME", "b")
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("PREDICT_COMMAND", "/opt/models/predict --fast")
	t.Setenv("JOB_TIMEOUT", "90s")
	t.Setenv("MAX_CONCURRENT_JOBS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageLocal, cfg.StorageBackend)
	assert.Equal(t, []string{"/opt/models/predict", "--fast"}, cfg.PredictCommand)
	assert.Equal(t, 90*time.Second, cfg.JobTimeout)
	assert.Equal(t, 3, cfg.MaxConcurrentJobs)
}

func TestLoadConfigRequiresBucket(t *testing.T) {
	t.Setenv("BUCKET_NAME", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BUCKET_NAME", "b")
	t.Setenv("STORAGE_BACKEND", "gcs")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
}
