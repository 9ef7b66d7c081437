// Package scaffold generates new extensions from embedded templates. It powers
// the "extkit extension new" command, writing a default manifest plus a
// runnable example entrypoint and README for the chosen runtime.
package scaffold
