package manifest

import (
	"fmt"
	"regexp"
	"slices"
)

// MaxNameLength bounds extension names.
const MaxNameLength = 64

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ReservedNames are built-in top-level commands an extension may not shadow.
var ReservedNames = []string{
	"extension",
	"help",
	"version",
	"config",
	"completion",
	"auth",
}

// IsReserved reports whether name collides with a built-in command.
func IsReserved(name string) bool {
	return slices.Contains(ReservedNames, name)
}

// ValidateName checks an extension name against the naming policy.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	case len(name) > MaxNameLength:
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, MaxNameLength)
	case !namePattern.MatchString(name):
		return fmt.Errorf("%w: %q must be lowercase alphanumeric with hyphens, starting with a letter or digit", ErrInvalidName, name)
	case IsReserved(name):
		return fmt.Errorf("%w: %q is a built-in command", ErrInvalidName, name)
	}
	return nil
}
