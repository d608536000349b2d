package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 64, c.Width())
	assert.Equal(t, 32, c.Height())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"driver: spi\nbrightness: 60\npanel:\n  rows: 16\n  cols: 32\n  chain: 2\n  parallel: 1\n",
	), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spi", c.Driver)
	assert.Equal(t, 60, c.Brightness)
	assert.Equal(t, 64, c.Width())
	assert.Equal(t, 16, c.Height())

	// Unset fields keep their defaults.
	assert.Equal(t, ":3000", c.HTTP.Addr)
	assert.Equal(t, 5, c.PreviewTimeoutS)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: quantum\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Default()
	c.Brightness = 42
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Brightness)
}
