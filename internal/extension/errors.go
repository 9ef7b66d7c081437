package extension

import "errors"

var (
	// ErrInvalidPath is returned when a path cannot be resolved to an extension directory.
	ErrInvalidPath = errors.New("invalid extension path")

	// ErrMissingEntrypoint is returned when the manifest's entry point is absent.
	ErrMissingEntrypoint = errors.New("missing entrypoint")
)
