package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assignview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
devhost:
  addr: ":9000"
attach:
  autoConfirm: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.DevHost.Addr)
	assert.Equal(t, "file:assignview.db", cfg.DevHost.Database)
	assert.True(t, cfg.Attach.AutoConfirm)
	assert.Equal(t, "ws://127.0.0.1:8787/ws", cfg.Attach.URL)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "log:\n  level: loud\nattach:\n  url: http://x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
	assert.Contains(t, err.Error(), "attach.url")
}
