package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFreshAppliesDefaults(t *testing.T) {
	cfg, err := LoadFresh(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 4096, cfg.RingBufferCapacity)
	assert.Equal(t, uint32(20), cfg.PriceSpread)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.HTTP.Enabled)
}

func TestLoadFreshRejectsNonPowerOfTwoCapacity(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("ring_buffer_capacity: 100\n"), 0o644))

	_, err := LoadFresh(dir)
	assert.Error(t, err)
}

func TestLoadFreshRejectsIncompatibleSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("schema_version: 2.0.0\n"), 0o644))

	_, err := LoadFresh(dir)
	assert.Error(t, err)
}

func TestLoadFreshRejectsInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("logging:\n  level: verbose\n"), 0o644))

	_, err := LoadFresh(dir)
	assert.Error(t, err)
}
