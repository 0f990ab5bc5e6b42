package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfiguration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "transmit_fraction: 0.5\ndefault_initial_mass: 200\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfiguration(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, config.TransmitFraction)
	assert.Equal(t, int64(200), config.DefaultInitialMass)
	// Fields left unset keep their defaults
	assert.Equal(t, DefaultConfig().TickMillis, config.TickMillis)
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	_, err := LoadConfiguration(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigurationMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transmit_fraction: [oops"), 0644))

	_, err := LoadConfiguration(path)
	assert.Error(t, err)
}
