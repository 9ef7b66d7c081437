package extension

import (
	"os"
	"path/filepath"
	"testing"
)

// writeExtension creates an extension directory under parent and returns its path.
func writeExtension(t *testing.T, parent, name, manifestBody, script string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "extkit.toml"), []byte(manifestBody), 0644); err != nil {
		t.Fatal(err)
	}
	if script != "" {
		if err := os.WriteFile(filepath.Join(dir, "main.js"), []byte(script), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func mustLoad(t *testing.T, dir string) *Extension {
	t.Helper()
	ext, err := Load(dir)
	if err != nil {
		t.Fatalf("Load(%s): %v", dir, err)
	}
	return ext
}
