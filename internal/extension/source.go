package extension

import (
	"path/filepath"
	"strings"
)

// SourceKind says how a user referred to an extension.
type SourceKind int

const (
	// SourcePath is a filesystem path to an extension directory.
	SourcePath SourceKind = iota
	// SourceName is the name of an installed extension.
	SourceName
)

func (k SourceKind) String() string {
	if k == SourceName {
		return "name"
	}
	return "path"
}

// Source is either a path or an installed name.
type Source struct {
	Kind  SourceKind
	Value string
}

// FromPath returns a path source.
func FromPath(path string) Source {
	return Source{Kind: SourcePath, Value: path}
}

// FromName returns a name source.
func FromName(name string) Source {
	return Source{Kind: SourceName, Value: name}
}

// ParseSource classifies a command-line argument. Anything with a path
// separator or a leading dot is a path; the rest are names.
func ParseSource(arg string) Source {
	if LooksLikePath(arg) {
		return FromPath(arg)
	}
	return FromName(arg)
}

// LooksLikePath reports whether arg should be treated as a filesystem path.
func LooksLikePath(arg string) bool {
	// Extension names never start with a dot.
	if strings.HasPrefix(arg, ".") {
		return true
	}
	if strings.ContainsRune(arg, '/') || strings.ContainsRune(arg, filepath.Separator) {
		return true
	}
	return false
}

func (s Source) String() string {
	return s.Kind.String() + " " + s.Value
}
