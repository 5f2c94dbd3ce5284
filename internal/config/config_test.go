package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.NotEmpty(t, cfg.StateDir)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 8, cfg.Client.Parallelism)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.LocalClusters)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strato.yaml")
	content := `
state_dir: /tmp/strato-test
local_clusters:
  - onprem-a
  - onprem-b
client:
  parallelism: 3
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/strato-test", cfg.StateDir)
	assert.Equal(t, []string{"onprem-a", "onprem-b"}, cfg.LocalClusters)
	assert.Equal(t, 3, cfg.Client.Parallelism)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Client.Parallelism, cfg.Client.Parallelism)
}
