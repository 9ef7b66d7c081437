package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/platform"
	"github.com/extkit-dev/extkit/internal/userdata"
)

// InstallStatus compares a candidate extension with what is installed.
type InstallStatus int

const (
	NotInstalled InstallStatus = iota
	Identical
	Differs
)

func (s InstallStatus) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Identical:
		return "identical"
	case Differs:
		return "differs"
	default:
		return "unknown"
	}
}

// InstallResult reports what Install did.
type InstallResult int

const (
	Unchanged InstallResult = iota
	Installed
	Replaced
)

func (r InstallResult) String() string {
	switch r {
	case Unchanged:
		return "unchanged"
	case Installed:
		return "installed"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

const stagingPrefix = ".staging-"

// Registry is the directory of installed extensions.
type Registry struct {
	root   string
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report skipped entries. Without it the
// registry logs through slog.Default at the time of each call.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// New returns a registry rooted at root. The directory is created lazily on
// the first install.
func New(root string, opts ...Option) *Registry {
	r := &Registry{root: root}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the registry directory.
func (r *Registry) Root() string {
	return r.root
}

// List returns every valid installed extension, sorted by name. A missing
// root yields an empty list. Entries that fail to load are logged and skipped.
func (r *Registry) List() ([]*extension.Extension, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading extensions directory %s: %w", r.root, err)
	}

	var exts []*extension.Extension
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !isDir(filepath.Join(r.root, name)) {
			continue
		}

		ext, err := r.Lookup(name)
		if err != nil {
			r.log().Error("skipping installed extension", "name", name, "error", err)
			continue
		}
		exts = append(exts, ext)
	}

	slices.SortFunc(exts, func(a, b *extension.Extension) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return exts, nil
}

// Lookup loads the installed extension called name.
func (r *Registry) Lookup(name string) (*extension.Extension, error) {
	if name == "" || strings.HasPrefix(name, ".") || extension.LooksLikePath(name) {
		return nil, fmt.Errorf("%w: %q", ErrNotInstalled, name)
	}

	dir := r.dir(name)
	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotInstalled, name)
		}
		return nil, fmt.Errorf("checking %s: %w", dir, err)
	}

	ext, err := extension.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("loading installed extension %s: %w", name, err)
	}
	if ext.Name() != name {
		return nil, fmt.Errorf("%w: directory %s holds %q", ErrNameMismatch, name, ext.Name())
	}
	return ext, nil
}

// Resolve turns a path or installed name into an extension.
func (r *Registry) Resolve(src extension.Source) (*extension.Extension, error) {
	if src.Kind == extension.SourcePath {
		return extension.Load(src.Value)
	}
	return r.Lookup(src.Value)
}

// Status compares ext with the installed copy of the same name and returns
// that copy when it could be loaded. A corrupt installed copy counts as
// Differs.
func (r *Registry) Status(ext *extension.Extension) (InstallStatus, *extension.Extension, error) {
	prior, err := r.Lookup(ext.Name())
	switch {
	case errors.Is(err, ErrNotInstalled):
		return NotInstalled, nil, nil
	case err != nil:
		r.log().Warn("installed copy is unreadable, treating it as different", "name", ext.Name(), "error", err)
		return Differs, nil, nil
	case prior.Equal(ext):
		return Identical, prior, nil
	default:
		return Differs, prior, nil
	}
}

// Install copies ext into the registry. An identical installed copy is left
// untouched whatever overwrite says. A different one is replaced only when
// overwrite is true.
func (r *Registry) Install(ext *extension.Extension, overwrite bool) (InstallResult, error) {
	status, _, err := r.Status(ext)
	if err != nil {
		return Unchanged, err
	}

	switch status {
	case Identical:
		return Unchanged, nil
	case Differs:
		if !overwrite {
			return Unchanged, fmt.Errorf("%w: %s", ErrAlreadyInstalled, ext.Name())
		}
	}

	if err := os.MkdirAll(r.root, userdata.DirPermNormal); err != nil {
		return Unchanged, fmt.Errorf("creating extensions directory %s: %w", r.root, err)
	}

	staging, err := os.MkdirTemp(r.root, stagingPrefix+ext.Name()+"-")
	if err != nil {
		return Unchanged, fmt.Errorf("creating staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	if err := copyDir(ext.Dir(), staging, nestedPaths(ext.Dir(), r.root, staging)...); err != nil {
		return Unchanged, fmt.Errorf("copying %s: %w", ext.Dir(), err)
	}

	if err := platform.ReplaceDir(staging, r.dir(ext.Name())); err != nil {
		return Unchanged, fmt.Errorf("installing %s: %w", ext.Name(), err)
	}

	r.log().Debug("installed extension", "name", ext.Name(), "dir", r.dir(ext.Name()), "status", status)

	if status == Differs {
		return Replaced, nil
	}
	return Installed, nil
}

// Uninstall removes the installed extension called name.
func (r *Registry) Uninstall(name string) error {
	if name == "" || strings.HasPrefix(name, ".") || extension.LooksLikePath(name) {
		return fmt.Errorf("%w: %q", ErrNotInstalled, name)
	}

	dir := r.dir(name)
	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotInstalled, name)
		}
		return fmt.Errorf("checking %s: %w", dir, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s: %w", dir, err)
	}
	r.log().Debug("uninstalled extension", "name", name)
	return nil
}

// nestedPaths returns those of paths that lie inside dir, in canonical form.
// Installing from a directory that contains the registry root must not copy
// the root, or the staging area within it, into itself.
func nestedPaths(dir string, paths ...string) []string {
	var nested []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		rel, err := filepath.Rel(dir, abs)
		if err != nil || rel == "." || !filepath.IsLocal(rel) {
			continue
		}
		nested = append(nested, abs)
	}
	return nested
}

func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}

func (r *Registry) dir(name string) string {
	return filepath.Join(r.root, name)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
