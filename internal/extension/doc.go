// Package extension models a resolved extension: a canonical directory that
// holds a parsed manifest and a readable entrypoint script. Extensions are
// immutable once loaded. Source tells apart the two ways a user can name one,
// by filesystem path or by installed name.
package extension
