package userdata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/config"
)

// Directory and file name constants for the ~/.extkit layout.
const (
	ExtensionsDir = "extensions"
	GrantsFile    = "grants.yaml"
)

// Permission constants.
const (
	DirPermSecure  os.FileMode = 0700
	FilePermSecure os.FileMode = 0600
	DirPermNormal  os.FileMode = 0755
)

// GetHomeRoot returns ~/.extkit.
func GetHomeRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, branding.HomeDir()), nil
}

// GetExtensionsRoot returns the path to the installed extensions directory.
// Checks the EXTKIT_EXTENSIONS env override first, then the extensions_dir
// config key, then falls back to ~/.extkit/extensions/.
func GetExtensionsRoot() (string, error) {
	if v := os.Getenv(branding.EnvVar("EXTENSIONS")); v != "" {
		return v, nil
	}
	if v := config.ExtensionsDir(); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ExtensionsDir), nil
}

// GetGrantsPath returns the path of the permission grant record.
// EXTKIT_GRANTS overrides the default ~/.extkit/grants.yaml.
func GetGrantsPath() (string, error) {
	if v := os.Getenv(branding.EnvVar("GRANTS")); v != "" {
		return v, nil
	}
	root, err := GetHomeRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, GrantsFile), nil
}
