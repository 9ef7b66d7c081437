package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
)

var hostPattern = regexp.MustCompile(`^(\*\.)?[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?)*(:[0-9]{1,5})?$`)

// Parse decodes and validates manifest bytes. Any problem with the document
// itself is reported as ErrMalformed.
func Parse(data []byte) (*Manifest, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, result.Summary())
	}

	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	m := &Manifest{
		Name:        raw.Name,
		Description: raw.Description,
		Version:     raw.Version,
		EntryPoint:  raw.EntryPoint,
		Runtime:     raw.Runtime,
		Permissions: permissionsFromRaw(raw.Permissions),
	}
	if m.EntryPoint == "" {
		m.EntryPoint = DefaultEntryPoint
	}
	if m.Runtime == "" {
		m.Runtime = RuntimeJS
	}

	if err := checkSemantics(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return m, nil
}

// ParseFile reads and parses the manifest at path. A missing file keeps its
// fs.ErrNotExist identity and is never reported as ErrMalformed.
func ParseFile(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// Marshal serializes m to TOML. Categories that are not requested are omitted.
func Marshal(m Manifest) ([]byte, error) {
	raw := rawManifest{
		Name:        m.Name,
		Description: m.Description,
		Version:     m.Version,
		EntryPoint:  m.EntryPoint,
		Runtime:     m.Runtime,
		Permissions: m.Permissions.raw(),
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding manifest %s: %w", m.Name, err)
	}
	return data, nil
}

// checkSemantics covers the rules the schema cannot express.
func checkSemantics(m *Manifest) error {
	if m.Version != "" {
		if _, err := parseSemver(m.Version); err != nil {
			return fmt.Errorf("version %q is not a semantic version", m.Version)
		}
	}

	for _, key := range []struct {
		name string
		perm Permission
	}{{"read", m.Permissions.Read}, {"write", m.Permissions.Write}} {
		list, _ := key.perm.Get()
		for _, pattern := range list {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("permissions.%s: invalid path pattern %q", key.name, pattern)
			}
		}
	}

	run, _ := m.Permissions.Run.Get()
	for _, cmd := range run {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("permissions.run: command must not be blank")
		}
	}

	net, _ := m.Permissions.Net.Get()
	for _, host := range net {
		if !hostPattern.MatchString(host) {
			return fmt.Errorf("permissions.net: invalid domain %q", host)
		}
	}
	return nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
