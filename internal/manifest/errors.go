package manifest

import "errors"

var (
	// ErrInvalidName is returned when a name breaks the naming policy.
	ErrInvalidName = errors.New("invalid extension name")

	// ErrMalformed is returned when a manifest exists but cannot be understood.
	ErrMalformed = errors.New("malformed manifest")
)
