package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "", cfg.URL)
	assert.Equal(t, defs.RelayDefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, defs.RelayDefaultFlushInterval, cfg.FlushInterval)
	assert.NoError(t, cfg.VerifyConfig()) // empty URL is valid: reporting disabled
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reporter.yml")
	assert.NoError(t, os.WriteFile(path, []byte(`
url: http://localhost:9023
batchSize: 10
flushInterval: 500000000
framework: karma
http:
  timeout: 2000000000
  maxBodySize: 1MB
  compress: true
filter:
  excludePatterns:
    - "*generated*"
`), 0644))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:9023", cfg.URL)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.FlushInterval)
	assert.Equal(t, "karma", cfg.Framework)
	assert.Equal(t, 2*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, uint64(1024*1024), cfg.HTTP.MaxBodySize.Bytes())
	assert.True(t, cfg.HTTP.Compress)
	assert.Equal(t, []string{"*generated*"}, cfg.Filter.ExcludePatterns)
}

func TestConfigEnvOverridesOptions(t *testing.T) {
	t.Setenv(defs.EnvVarAPIURL, "https://ci.appveyor.com/")
	t.Setenv(defs.EnvVarBatchSize, "25")
	t.Setenv(defs.EnvVarBatchIntervalMS, "250")

	cfg := Default()
	cfg.URL = "http://from-options:1234"
	cfg.BatchSize = 5
	assert.NoError(t, cfg.ApplyEnvOverrides())

	assert.Equal(t, "https://ci.appveyor.com/", cfg.URL)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.FlushInterval)
}

func TestConfigInvalidEnvValues(t *testing.T) {
	t.Setenv(defs.EnvVarBatchSize, "lots")
	cfg := Default()
	assert.ErrorContains(t, cfg.ApplyEnvOverrides(), defs.EnvVarBatchSize)
}

func TestConfigVerifyRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.BatchSize = 0
	assert.ErrorContains(t, cfg.VerifyConfig(), ".batchSize")

	cfg = Default()
	cfg.FlushInterval = 0
	assert.ErrorContains(t, cfg.VerifyConfig(), ".flushInterval")

	cfg = Default()
	cfg.URL = "ftp://example.com"
	assert.ErrorContains(t, cfg.VerifyConfig(), "unsupported scheme")

	cfg = Default()
	cfg.Filter.ExcludePatterns = []string{"[broken"}
	assert.ErrorContains(t, cfg.VerifyConfig(), ".filter.excludePatterns")
}
