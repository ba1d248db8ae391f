package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "58001", c.Port)
	assert.False(t, c.Verbose)
	assert.Equal(t, "files", c.FilesDir)
}

func TestLoadConfig_UsesDefaultsWithoutArgs(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	c := LoadConfig()
	require.NotNil(t, c)
	assert.Equal(t, "58001", c.Port)
	assert.False(t, c.Verbose)
	assert.Equal(t, "files", c.FilesDir)
}

func TestLoadConfig_Flags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server", "-p", "59000", "-v", "-d", "/tmp/att"}

	c := LoadConfig()
	assert.Equal(t, "59000", c.Port)
	assert.True(t, c.Verbose)
	assert.Equal(t, "/tmp/att", c.FilesDir)
}

func TestLoadConfig_JSONOverlayThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":"59100","verbose":true,"files_dir":"staged"}`), 0o600))

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// JSON alone.
	os.Args = []string{"server", "-c", path}
	c := LoadConfig()
	assert.Equal(t, "59100", c.Port)
	assert.True(t, c.Verbose)
	assert.Equal(t, "staged", c.FilesDir)

	// Flags override the JSON overlay.
	os.Args = []string{"server", "-c", path, "-p", "59200"}
	c = LoadConfig()
	assert.Equal(t, "59200", c.Port)
	assert.True(t, c.Verbose)
}
