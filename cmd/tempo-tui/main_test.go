package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_AppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "config.yaml")
	logPath := filepath.Join(dir, "tempo.log")

	cfg, err := loadConfig(missing, filepath.Join(dir, "tasks.db"), "memory", logPath)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "tasks.db"), cfg.Storage.Path)
	assert.Equal(t, logPath, cfg.Log.File)
}

func TestLoadConfig_RejectsInvalidOverride(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.yaml")

	_, err := loadConfig(missing, "", "redis", "")
	assert.ErrorContains(t, err, "unknown storage.backend")
}
