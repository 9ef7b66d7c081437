package registry

import "errors"

var (
	// ErrAlreadyInstalled is returned when a different version of the extension
	// is installed and overwriting was not allowed.
	ErrAlreadyInstalled = errors.New("extension already installed")

	// ErrNotInstalled is returned when no extension is installed under a name.
	ErrNotInstalled = errors.New("extension not installed")

	// ErrNameMismatch is returned when an installed directory holds a manifest
	// for a different name.
	ErrNameMismatch = errors.New("installed extension name does not match its directory")
)
