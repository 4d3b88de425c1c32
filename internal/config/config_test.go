package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("RMS_DATABASE_URL", "postgres://rms@localhost/rms")
	t.Setenv("RMS_HTTP_PORT", "9090")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://rms@localhost/rms", c.Database.URL)
	assert.Equal(t, 9090, c.HTTP.Port)
	assert.Equal(t, ":9090", c.Addr())
	assert.Equal(t, 15*time.Second, c.HTTP.ReadTimeout)
	assert.Equal(t, int32(3), c.Stock.FloatPrecision)
	assert.Equal(t, int64(500000), c.Stock.LedgerFilterThreshold)
	assert.True(t, c.IsDevelopment())
	assert.True(t, c.Metrics.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
database:
  url: postgres://file/rms
stock:
  float_precision: 2
manufacturing:
  default_wip_warehouse: Work In Progress
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.IsDevelopment())
	assert.Equal(t, "postgres://file/rms", c.Database.URL)
	assert.Equal(t, int32(2), c.Stock.FloatPrecision)
	assert.Equal(t, "Work In Progress", c.Manufacturing.DefaultWIPWarehouse)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("RMS_DATABASE_URL", "")
	_, err := Load("")
	assert.ErrorContains(t, err, "database.url is required")

	t.Setenv("RMS_DATABASE_URL", "postgres://x")
	t.Setenv("RMS_AUTH_ENABLED", "true")
	_, err = Load("")
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
