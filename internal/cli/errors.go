package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/config"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/extkit-dev/extkit/internal/runtime"
	"github.com/extkit-dev/extkit/internal/scaffold"
	"github.com/fatih/color"
)

// CLIError is a command-line error with remediation steps. Err, when set, is
// the underlying failure and stays reachable through errors.Is.
type CLIError struct {
	Message     string
	Remediation []string
	Err         error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// hint maps an error kind to the advice printed below it.
type hint struct {
	target error
	text   string
}

var hints = []hint{
	{consent.ErrNonInteractive, "Re-run with --yes to accept without prompting."},
	{registry.ErrAlreadyInstalled, "Re-run with --overwrite to replace the installed copy."},
	{registry.ErrNotInstalled, "Run `" + branding.CLIName() + " extension list` to see installed extensions."},
	{registry.ErrNameMismatch, "Reinstall it with `" + branding.CLIName() + " extension install --overwrite PATH`."},
	{manifest.ErrInvalidName, "Names are lowercase letters, digits, and hyphens, at most 64 characters."},
	{manifest.ErrMalformed, "Fix " + manifest.FileName + " and try again."},
	{extension.ErrInvalidPath, "Point at a directory that contains " + manifest.FileName + "."},
	{extension.ErrMissingEntrypoint, "Create the file named by entry_point in " + manifest.FileName + " (default " + manifest.DefaultEntryPoint + ")."},
	{scaffold.ErrDestinationExists, "Choose a path that does not exist yet."},
	{api.ErrNotAuthenticated, "Run `" + branding.CLIName() + " config set " + config.KeyAPIToken + " <token>`."},
	{runtime.ErrUnknownRuntime, "Set runtime to \"" + manifest.RuntimeJS + "\" or \"" + manifest.RuntimeNode + "\" in " + manifest.FileName + "."},
}

// remediation returns the advice for err, if any.
func remediation(err error) []string {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Remediation
	}
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return []string{h.text}
		}
	}
	return nil
}

// printError writes err and its remediation to w. An extension's own exit
// status is not reported, since the extension already spoke for itself.
func printError(w io.Writer, err error) {
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
	for _, line := range remediation(err) {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.Faint).Sprint("Hint:"), line)
	}
}

// ExitCode maps err to a process exit status: the extension's own code when it
// exited non-zero, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *runtime.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
