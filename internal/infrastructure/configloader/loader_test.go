package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("provider: changelly\n"))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "generic", cfg.ErrorCodes)
	assert.EqualValues(t, 30000, cfg.Backend.RequestTimeoutMillis)
	assert.Equal(t, 1, cfg.Backend.BurstLimit)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.DedupTTLMinutes)
	assert.Equal(t, "exchangeBackendTracking", cfg.Tracking.BackendFlag)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestParse_Values(t *testing.T) {
	data := []byte(`
provider: moonpay
environment: staging
customBackendURL: http://localhost:3000
sdkVersion: 2.1.0
errorCodes: swap
backend:
  requestTimeoutMillis: 5000
  rateLimit: 2.5
  burstLimit: 3
hostWallet:
  rpcURL: http://localhost:9000/rpc
logging:
  level: debug
  format: console
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "moonpay", cfg.Provider)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "http://localhost:3000", cfg.CustomBackendURL)
	assert.Equal(t, "swap", cfg.ErrorCodes)
	assert.Equal(t, 2.5, cfg.Backend.RateLimit)
	assert.Equal(t, 3, cfg.Backend.BurstLimit)
	assert.Equal(t, "http://localhost:9000/rpc", cfg.HostWallet.RPCURL)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("environment: staging\n"))
	assert.Error(t, err, "provider is required")

	_, err = Parse([]byte("provider: x\nenvironment: moon\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("provider: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("provider: changelly\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "changelly", cfg.Provider)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/exchange.yml")
	assert.Equal(t, "flag.yml", ResolvePath("flag.yml"))
	assert.Equal(t, "/etc/exchange.yml", ResolvePath(""))

	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultConfigPath, ResolvePath(""))
}
