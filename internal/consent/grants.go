package consent

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/extkit-dev/extkit/internal/platform"
	"go.yaml.in/yaml/v3"
)

// Grant is the permission set an operator agreed to for one extension.
type Grant struct {
	Version     string
	GrantedAt   time.Time
	Permissions manifest.Permissions
}

type grantFile struct {
	Extensions map[string]grantRecord `yaml:"extensions"`
}

type grantRecord struct {
	Version   string    `yaml:"version,omitempty"`
	GrantedAt time.Time `yaml:"granted_at"`
	Read      *[]string `yaml:"read,omitempty"`
	Write     *[]string `yaml:"write,omitempty"`
	Run       *[]string `yaml:"run,omitempty"`
	Net       *[]string `yaml:"net,omitempty"`
}

// grantStoreConfig holds configuration for the GrantStore.
type grantStoreConfig struct {
	path     string
	dirPerm  os.FileMode
	filePerm os.FileMode
	now      func() time.Time
}

// GrantStoreOption configures a GrantStore instance.
type GrantStoreOption func(*grantStoreConfig)

// WithFilePermissions sets the file permissions for the grants file.
func WithFilePermissions(perm os.FileMode) GrantStoreOption {
	return func(c *grantStoreConfig) {
		c.filePerm = perm
	}
}

// WithClock overrides the time source used to stamp new grants.
func WithClock(now func() time.Time) GrantStoreOption {
	return func(c *grantStoreConfig) {
		c.now = now
	}
}

// GrantStore persists granted permission sets in a YAML file.
type GrantStore struct {
	config grantStoreConfig
}

// NewGrantStore creates a GrantStore backed by the file at path.
func NewGrantStore(path string, opts ...GrantStoreOption) *GrantStore {
	cfg := grantStoreConfig{
		path:     path,
		dirPerm:  0o700,
		filePerm: 0o600,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GrantStore{config: cfg}
}

// Path returns the path to the backing file.
func (s *GrantStore) Path() string {
	return s.config.path
}

// Get returns the stored grant for name, if any.
func (s *GrantStore) Get(name string) (Grant, bool, error) {
	file, err := s.load()
	if err != nil {
		return Grant{}, false, err
	}
	rec, ok := file.Extensions[name]
	if !ok {
		return Grant{}, false, nil
	}
	return rec.grant(), true, nil
}

// Covers reports whether the stored grant for name is exactly perms. An
// extension whose permissions changed since it was granted is not covered.
func (s *GrantStore) Covers(name string, perms manifest.Permissions) (bool, error) {
	g, ok, err := s.Get(name)
	if err != nil || !ok {
		return false, err
	}
	return g.Permissions.Equal(perms), nil
}

// Record stores perms as granted to name, replacing any earlier grant.
func (s *GrantStore) Record(name, version string, perms manifest.Permissions) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	file.Extensions[name] = recordFrom(version, s.config.now().UTC(), perms)
	return s.save(file)
}

// Forget drops the grant for name. Forgetting an unknown name is not an error.
func (s *GrantStore) Forget(name string) error {
	file, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := file.Extensions[name]; !ok {
		return nil
	}
	delete(file.Extensions, name)
	return s.save(file)
}

func (s *GrantStore) load() (*grantFile, error) {
	file := &grantFile{}
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		file.Extensions = map[string]grantRecord{}
		return file, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading grant store: %w", err)
	}

	if err := yaml.Unmarshal(data, file); err != nil {
		return nil, fmt.Errorf("parsing grant store %s: %w", s.config.path, err)
	}
	if file.Extensions == nil {
		file.Extensions = map[string]grantRecord{}
	}
	return file, nil
}

func (s *GrantStore) save(file *grantFile) error {
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshaling grants: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("creating grant store directory: %w", err)
	}

	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("writing grant store: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := platform.Chmod(s.config.path, s.config.filePerm); err != nil {
		return fmt.Errorf("securing grant store: %w", err)
	}
	return nil
}

func recordFrom(version string, at time.Time, perms manifest.Permissions) grantRecord {
	return grantRecord{
		Version:   version,
		GrantedAt: at,
		Read:      listOf(perms.Read),
		Write:     listOf(perms.Write),
		Run:       listOf(perms.Run),
		Net:       listOf(perms.Net),
	}
}

func (r grantRecord) grant() Grant {
	return Grant{
		Version:   r.Version,
		GrantedAt: r.GrantedAt,
		Permissions: manifest.Permissions{
			Read:  permissionOf(r.Read),
			Write: permissionOf(r.Write),
			Run:   permissionOf(r.Run),
			Net:   permissionOf(r.Net),
		},
	}
}

func listOf(p manifest.Permission) *[]string {
	list, ok := p.Get()
	if !ok {
		return nil
	}
	return &list
}

func permissionOf(list *[]string) manifest.Permission {
	if list == nil {
		return manifest.Permission{}
	}
	return manifest.Only(*list...)
}
