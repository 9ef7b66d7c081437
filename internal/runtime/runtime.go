package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/manifest"
)

// Runtime defines the interface for executing an extension.
type Runtime interface {
	// Run executes ext with args passed through unmodified. The API handle is
	// only resolved if the extension asks for it.
	Run(ctx context.Context, ext *extension.Extension, provider api.Provider, args []string) error
}

// ErrUnknownRuntime is returned for a runtime name no implementation handles.
var ErrUnknownRuntime = errors.New("unknown runtime")

// ExitError reports that an extension finished with a non-zero exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("extension exited with code %d", e.Code)
}

// Options carries what every runtime needs from the host. Nil streams
// default to the process's own.
type Options struct {
	// HostVersion is exposed to scripts as host.version.
	HostVersion string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DispatchRuntime returns the appropriate Runtime implementation for the given
// runtime identifier. Returns an error-producing runtime for unknown values.
func DispatchRuntime(name string, opts Options) Runtime {
	switch name {
	case manifest.RuntimeJS, "":
		return &JSRuntime{HostVersion: opts.HostVersion, Stdout: opts.Stdout, Stderr: opts.Stderr}
	case manifest.RuntimeNode:
		return &NodeRuntime{HostVersion: opts.HostVersion, Stdin: opts.Stdin, Stdout: opts.Stdout, Stderr: opts.Stderr}
	default:
		return &unknownRuntime{name: name}
	}
}

// unknownRuntime is returned when the runtime identifier is not recognized.
type unknownRuntime struct {
	name string
}

func (u *unknownRuntime) Run(_ context.Context, _ *extension.Extension, _ api.Provider, _ []string) error {
	return fmt.Errorf("%w %q: supported runtimes are %q and %q", ErrUnknownRuntime, u.name, manifest.RuntimeJS, manifest.RuntimeNode)
}
