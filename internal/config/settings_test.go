package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		envConfigPath,
		"GEOPOINT_UNITS_PER_DEGREE",
		"GEOPOINT_STORE_PATH",
		"GEOPOINT_NOMINATIM_URL",
		"GEOPOINT_LOG_LEVEL",
		"GEOPOINT_LOG_FORMAT",
		"GEOPOINT_FORMAT",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestLoadSettingsDefaults(t *testing.T) {
	home := isolateEnv(t)

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, DefaultUnitsPerDegree, settings.UnitsPerDegree)
	assert.Equal(t, filepath.Join(home, ".geopoint", "bookmarks.json"), settings.StorePath)
	assert.Equal(t, DefaultNominatimURL, settings.NominatimURL)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Equal(t, "text", settings.LogFormat)
	assert.Equal(t, "table", settings.Format)
	assert.Empty(t, settings.ConfigFile)
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GEOPOINT_UNITS_PER_DEGREE", "1000")
	t.Setenv("GEOPOINT_STORE_PATH", "/tmp/geopoint-bookmarks.json")
	t.Setenv("GEOPOINT_FORMAT", "json")

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, 1000, settings.UnitsPerDegree)
	assert.Equal(t, "/tmp/geopoint-bookmarks.json", settings.StorePath)
	assert.Equal(t, "json", settings.Format)
}

func TestLoadSettingsFromFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "geopoint.yaml")
	payload := "units_per_degree: 1\nlog_format: json\nnominatim_url: http://localhost:8080/search\n"
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 1, settings.UnitsPerDegree)
	assert.Equal(t, "json", settings.LogFormat)
	assert.Equal(t, "http://localhost:8080/search", settings.NominatimURL)
	assert.Equal(t, path, settings.ConfigFile)
}

func TestLoadSettingsDefaultFileIsOptional(t *testing.T) {
	home := isolateEnv(t)
	dir := filepath.Join(home, ".geopoint")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("format: yaml\n"), 0o644))

	settings, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", settings.Format)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), settings.ConfigFile)
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	isolateEnv(t)
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadSettingsRejectsInvalidValues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GEOPOINT_UNITS_PER_DEGREE", "0")
	t.Setenv("GEOPOINT_NOMINATIM_URL", "not a url")

	_, err := LoadSettings("")
	require.ErrorIs(t, err, ErrInvalidSettings)
	assert.Contains(t, err.Error(), "units_per_degree")
	assert.Contains(t, err.Error(), "nominatim_url")
}
