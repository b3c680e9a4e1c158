package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/curator/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
	assert.Equal(t, "set [key] [value]", settingsSetCmd.Use)
}

func TestSettingsShow_Defaults(t *testing.T) {
	setupTestServices(t)

	out, err := runCmd(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "sqlite")
	assert.Contains(t, out, "zstd")
	assert.Contains(t, out, "sha256")
	assert.Contains(t, out, "~/.curator/data")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	setupTestServices(t)

	out, err := runCmd(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[Storage]")
}

func TestSettingsSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		store string
		want  string
	}{
		{"backend", "memory", "storage.backend", "memory"},
		{"data-dir", "/srv/curator", "storage.data_dir", "/srv/curator"},
		{"compression", "LZ4", "snapshot.compression", "lz4"},
		{"hash-algorithm", "blake3", "hashing.algorithm", "blake3"},
		{"uri-prefix", "dataset://", "lineage.uri_prefix", "dataset://"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			stores := setupTestServices(t)

			out, err := runCmd(t, "settings", "set", tt.key, tt.value)

			require.NoError(t, err)
			assert.Contains(t, out, "Saved")
			assert.Equal(t, tt.want, stores.config.GetString(tt.store))
		})
	}
}

func TestSettingsSet_Invalid(t *testing.T) {
	setupTestServices(t)

	_, err := runCmd(t, "settings", "set", "compression", "brotli")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = runCmd(t, "settings", "set", "colour", "blue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)

	_, err := runCmd(t, "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
