package extension

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/extkit-dev/extkit/internal/manifest"
)

// Extension is a loaded extension directory.
type Extension struct {
	dir        string
	entryPoint string
	source     []byte
	manifest   manifest.Manifest
}

// Load resolves path to a canonical directory and reads the extension in it.
func Load(path string) (*Extension, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
	}
	dir, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, path)
	}

	manifestPath := filepath.Join(dir, manifest.FileName)
	m, err := manifest.ParseFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s has no %s", ErrInvalidPath, path, manifest.FileName)
		}
		return nil, err
	}

	entry, err := entryPointPath(dir, m.EntryPoint)
	if err != nil {
		return nil, err
	}
	source, err := os.ReadFile(entry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingEntrypoint, entry, err)
	}

	return &Extension{
		dir:        dir,
		entryPoint: entry,
		source:     source,
		manifest:   *m,
	}, nil
}

// entryPointPath joins rel onto dir and checks that it names a regular file
// inside dir.
func entryPointPath(dir, rel string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%w: %q points outside %s", ErrMissingEntrypoint, rel, dir)
	}
	entry := filepath.Join(dir, filepath.FromSlash(rel))

	info, err := os.Stat(entry)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingEntrypoint, entry)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrMissingEntrypoint, entry)
	}

	// A symlinked entrypoint must still resolve inside the extension.
	resolved, err := filepath.EvalSymlinks(entry)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingEntrypoint, entry, err)
	}
	if rel, err := filepath.Rel(dir, resolved); err != nil || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s resolves outside %s", ErrMissingEntrypoint, entry, dir)
	}
	return entry, nil
}

// Name returns the manifest name.
func (e *Extension) Name() string { return e.manifest.Name }

// Description returns the manifest description, possibly empty.
func (e *Extension) Description() string { return e.manifest.Description }

// Version returns the manifest version, possibly empty.
func (e *Extension) Version() string { return e.manifest.Version }

// Runtime returns the runtime the extension asks for.
func (e *Extension) Runtime() string { return e.manifest.Runtime }

// Permissions returns the requested capabilities.
func (e *Extension) Permissions() manifest.Permissions { return e.manifest.Permissions }

// Manifest returns a copy of the parsed manifest.
func (e *Extension) Manifest() manifest.Manifest { return e.manifest }

// Dir returns the canonical absolute directory of the extension.
func (e *Extension) Dir() string { return e.dir }

// EntryPoint returns the absolute path of the entrypoint script.
func (e *Extension) EntryPoint() string { return e.entryPoint }

// Source returns a copy of the entrypoint contents.
func (e *Extension) Source() []byte { return bytes.Clone(e.source) }

// Equal reports whether two extensions have the same manifest and the same
// entrypoint bytes. Other files in the directory are not compared, and
// neither is the location on disk.
func (e *Extension) Equal(other *Extension) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.manifest.Equal(other.manifest) && bytes.Equal(e.source, other.source)
}
