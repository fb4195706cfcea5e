package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgekit/aflib/profile"
	"github.com/edgekit/aflib/transport/ipc"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "afctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("file values override the defaults", func(t *testing.T) {
		path := writeConfig(t, `
socket = "/tmp/hub.sock"
profile = "/tmp/profile.bin"
rules = "/tmp/rules.yaml"
debug = 3
`)

		cfg, err := loadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "/tmp/hub.sock", cfg.SocketPath)
		assert.Equal(t, "/tmp/profile.bin", cfg.ProfilePath)
		assert.Equal(t, "/tmp/rules.yaml", cfg.RulesPath)
		assert.Equal(t, 3, cfg.DebugLevel)
	})

	t.Run("absent keys keep the defaults", func(t *testing.T) {
		path := writeConfig(t, `debug = 1`)

		cfg, err := loadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, ipc.DefaultSocketPath, cfg.SocketPath)
		assert.Equal(t, profile.DefaultPath, cfg.ProfilePath)
		assert.Equal(t, "", cfg.RulesPath)
		assert.Equal(t, 1, cfg.DebugLevel)
	})

	t.Run("an explicitly given path must exist", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("a negative debug level is rejected", func(t *testing.T) {
		path := writeConfig(t, `debug = -1`)

		_, err := loadConfig(path)
		assert.Error(t, err)
	})

	t.Run("a malformed file is an error", func(t *testing.T) {
		path := writeConfig(t, `socket = [`)

		_, err := loadConfig(path)
		assert.Error(t, err)
	})
}
