package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultDirName        = ".geopoint"
	defaultStoreFileName  = "bookmarks.json"
	defaultConfigFileName = "config.yaml"
	envPrefix             = "GEOPOINT"
	envConfigPath         = "GEOPOINT_CONFIG"

	// DefaultUnitsPerDegree treats integer coordinates as milliseconds of arc.
	DefaultUnitsPerDegree = 3600000
	DefaultNominatimURL   = "https://nominatim.openstreetmap.org/search"
)

// ErrInvalidSettings is returned when settings fail validation.
var ErrInvalidSettings = errors.New("settings are invalid")

// Settings holds runtime configuration.
type Settings struct {
	UnitsPerDegree int    `mapstructure:"units_per_degree"`
	StorePath      string `mapstructure:"store_path"`
	NominatimURL   string `mapstructure:"nominatim_url"`
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"`
	Format         string `mapstructure:"format"`

	// ConfigFile is the file settings were read from, empty when none was used.
	ConfigFile string `mapstructure:"-"`
}

// LoadSettings reads defaults, an optional YAML file and GEOPOINT_* env vars.
// An explicit path (or GEOPOINT_CONFIG) must exist; the default file is optional.
func LoadSettings(path string) (Settings, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	baseDir := filepath.Join(home, defaultDirName)

	v.SetDefault("units_per_degree", DefaultUnitsPerDegree)
	v.SetDefault("store_path", filepath.Join(baseDir, defaultStoreFileName))
	v.SetDefault("nominatim_url", DefaultNominatimURL)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("format", "table")

	configFile := strings.TrimSpace(path)
	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv(envConfigPath))
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings %s: %w", configFile, err)
		}
	} else if home != "" {
		candidate := filepath.Join(baseDir, defaultConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return Settings{}, fmt.Errorf("read settings %s: %w", candidate, err)
			}
			configFile = candidate
		}
	}

	// GEOPOINT_STORE_PATH -> store_path
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	settings.ConfigFile = configFile
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks that settings are usable.
func (s Settings) Validate() error {
	var errs []string

	if s.UnitsPerDegree <= 0 {
		errs = append(errs, fmt.Sprintf("units_per_degree must be positive, got %d", s.UnitsPerDegree))
	}
	if strings.TrimSpace(s.StorePath) == "" {
		errs = append(errs, "store_path is required")
	}
	if parsed, err := url.Parse(s.NominatimURL); err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		errs = append(errs, fmt.Sprintf("nominatim_url must be an absolute http(s) URL, got %q", s.NominatimURL))
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log_level must be debug, info, warn or error, got %q", s.LogLevel))
	}
	switch strings.ToLower(s.LogFormat) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log_format must be json or text, got %q", s.LogFormat))
	}
	switch strings.ToLower(s.Format) {
	case "table", "json", "yaml":
	default:
		errs = append(errs, fmt.Sprintf("format must be table, json or yaml, got %q", s.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(errs, "; "))
	}
	return nil
}
