// Package branding provides compile-time identity values for the CLI.
//
// The values are read from the embedded branding.yaml so a fork can rename
// the binary, its home directory, and its environment prefix in one place.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	HomeDir      string `yaml:"home_dir"`
	EnvPrefix    string `yaml:"env_prefix"`
	GoModule     string `yaml:"go_module"`
	ManifestFile string `yaml:"manifest_file"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:      "extkit",
			DisplayName:  "extkit",
			Description:  "Install, run, and manage extensions for the extkit CLI",
			HomeDir:      ".extkit",
			EnvPrefix:    "EXTKIT",
			GoModule:     "github.com/extkit-dev/extkit",
			ManifestFile: "extkit.toml",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "extkit").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".extkit").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "EXTKIT").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path. Not consumed at runtime.
func GoModule() string { load(); return defaults.GoModule }

// ManifestFile returns the file name of an extension manifest (e.g., "extkit.toml").
func ManifestFile() string { load(); return defaults.ManifestFile }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "EXTKIT_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
