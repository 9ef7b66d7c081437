package registry

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/platform"
)

// excludedNames are files/directories excluded when copying an extension.
var excludedNames = map[string]bool{
	"node_modules": true,
	".git":         true,
	".DS_Store":    true,
}

// InstallNodeDeps runs npm install in an installed extension directory if a
// package.json exists. If Node or npm is unavailable, it returns a warning
// message instead of an error.
func InstallNodeDeps(extDir string) (string, error) {
	pkgJSON := filepath.Join(extDir, "package.json")
	if _, err := os.Stat(pkgJSON); err != nil {
		return "", nil // no package.json, nothing to do
	}

	if _, err := exec.LookPath("node"); err != nil {
		return fmt.Sprintf("Node.js not found, skipping npm install (the extension will fail to run until `%s extension install --overwrite` is re-run with Node available)", branding.CLIName()), nil
	}

	npmPath, err := exec.LookPath("npm")
	if err != nil {
		return "npm not found, skipping dependency installation", nil
	}

	cmd := exec.Command(npmPath, "install", "--prefer-offline", "--omit=dev")
	cmd.Dir = extDir
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("npm install in %s: %w", extDir, err)
	}

	return "", nil
}

// copyDir recursively copies src to dst, excluding entries in excludedNames
// and any path listed in skip. dst may already exist; it takes on src's
// permissions.
func copyDir(src, dst string, skip ...string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err := platform.Chmod(dst, srcInfo.Mode()); err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if shouldExclude(entry.Name()) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if slices.Contains(skip, srcPath) {
			continue
		}

		if entry.IsDir() {
			if err := copyDir(srcPath, dstPath, skip...); err != nil {
				return err
			}
		} else if entry.Type().IsRegular() {
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		} else if entry.Type()&os.ModeSymlink != 0 {
			// Symlinked files are copied by content; links to directories and
			// special files are dropped.
			if info, err := os.Stat(srcPath); err == nil && info.Mode().IsRegular() {
				if err := copyFile(srcPath, dstPath); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, srcInfo.Mode())
}

// shouldExclude returns true if the name should be excluded during copy.
func shouldExclude(name string) bool {
	return excludedNames[name]
}
