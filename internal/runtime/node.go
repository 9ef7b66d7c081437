package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/extension"
)

// NodeRuntime executes extensions with a Node.js subprocess.
type NodeRuntime struct {
	HostVersion string

	// Stdin, Stdout and Stderr can be set for testing; defaults to the
	// process's own streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes `node <entrypoint> args...` in the extension directory. Host
// details are passed as EXTKIT_-prefixed environment variables. A non-zero
// exit becomes an *ExitError.
func (n *NodeRuntime) Run(ctx context.Context, ext *extension.Extension, provider api.Provider, args []string) error {
	// Verify Node.js is available.
	nodeBin, err := exec.LookPath("node")
	if err != nil {
		return fmt.Errorf("node runtime requires Node.js: %w", err)
	}

	env, err := n.buildEnv(ctx, ext, provider)
	if err != nil {
		return fmt.Errorf("building runtime environment: %w", err)
	}

	cmd := exec.CommandContext(ctx, nodeBin, append([]string{ext.EntryPoint()}, args...)...)
	cmd.Dir = ext.Dir()
	cmd.Env = env
	cmd.Stdin = n.Stdin
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	cmd.Stdout = n.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = n.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("executing node extension %s: %w", ext.Name(), err)
	}
	return nil
}

// buildEnv constructs the environment for a Node.js extension. It
// inherits the current process environment. A subprocess cannot call back
// for credentials, so the API handle is resolved up front; a missing login
// only leaves the token unset.
func (n *NodeRuntime) buildEnv(ctx context.Context, ext *extension.Extension, provider api.Provider) ([]string, error) {
	env := os.Environ()
	env = setEnv(env, branding.EnvVar("EXTENSION_NAME"), ext.Name())
	env = setEnv(env, branding.EnvVar("EXTENSION_DIR"), ext.Dir())
	env = setEnv(env, branding.EnvVar("VERSION"), n.HostVersion)

	client, err := provider(ctx)
	switch {
	case errors.Is(err, api.ErrNotAuthenticated):
	case err != nil:
		return nil, err
	default:
		env = setEnv(env, branding.EnvVar("API_BASE_URL"), client.BaseURL())
		env = setEnv(env, branding.EnvVar("API_TOKEN"), client.AccessToken())
	}
	return env, nil
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
