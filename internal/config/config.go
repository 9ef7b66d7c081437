package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyExtensionsDir = "extensions_dir"
	KeyAPIBaseURL    = "api.base_url"
	KeyAPIToken      = "api.token"
	KeyLogLevel      = "log_level"
)

// DefaultAPIBaseURL is used when api.base_url is not configured.
const DefaultAPIBaseURL = "https://api.extkit.dev"

// Dir returns the path to the config directory (~/.extkit/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.extkit/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
// Nested keys map to env vars with dots replaced, e.g. api.token → EXTKIT_API_TOKEN.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	viper.SetDefault(KeyLogLevel, "warn")

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ExtensionsDir returns the configured registry root, or "" when unset.
func ExtensionsDir() string {
	return viper.GetString(KeyExtensionsDir)
}

// APIBaseURL returns the base URL handed to extensions.
func APIBaseURL() string {
	return viper.GetString(KeyAPIBaseURL)
}

// APIToken returns the configured API token, or "" when the user is not logged in.
func APIToken() string {
	return viper.GetString(KeyAPIToken)
}

// LogLevel returns the configured log level name.
func LogLevel() string {
	return viper.GetString(KeyLogLevel)
}
