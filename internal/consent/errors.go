package consent

import "errors"

var (
	// ErrDeclined is returned when the operator answers no.
	ErrDeclined = errors.New("consent declined")

	// ErrNonInteractive is returned when consent is needed but there is no
	// terminal to ask on.
	ErrNonInteractive = errors.New("consent required but not running in a terminal")
)
