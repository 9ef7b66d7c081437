//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extkit-dev/extkit/internal/config"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/registry"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir       string // HOME for config and defaults
	ExtensionsDir string // EXTKIT_EXTENSIONS, the registry root
	GrantsFile    string // EXTKIT_GRANTS, the permission grant record
	SourceDir     string // where extension sources are authored
}

// setupTestEnv creates isolated temp directories and sets environment variables
// so all extkit operations are sandboxed. The env vars are restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	home := t.TempDir()
	env := &testEnv{
		HomeDir:       home,
		ExtensionsDir: filepath.Join(home, "extensions"),
		GrantsFile:    filepath.Join(home, "grants.yaml"),
		SourceDir:     t.TempDir(),
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	t.Setenv("EXTKIT_EXTENSIONS", env.ExtensionsDir)
	t.Setenv("EXTKIT_GRANTS", env.GrantsFile)
	config.Load()

	return env
}

func (e *testEnv) registry() *registry.Registry {
	return registry.New(e.ExtensionsDir)
}

func (e *testEnv) grants() *consent.GrantStore {
	return consent.NewGrantStore(e.GrantsFile)
}

// fixedPrompter answers every question the same way.
type fixedPrompter struct {
	interactive bool
	answer      bool
	asked       int
}

func (p *fixedPrompter) IsInteractive() bool { return p.interactive }

func (p *fixedPrompter) Confirm(string, bool) (bool, error) {
	p.asked++
	return p.answer, nil
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
