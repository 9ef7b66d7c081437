package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/spf13/cobra"
)

const extensionsGroup = "extensions"

// AddExtensionCommands mounts every installed extension as a subcommand of
// root. Extensions whose name is reserved or already taken by a command name
// or alias are skipped with a warning; they stay reachable via `extension run`.
func AddExtensionCommands(root *cobra.Command, reg *registry.Registry) {
	exts, err := reg.List()
	if err != nil {
		slog.Warn("could not list installed extensions", "root", reg.Root(), "error", err)
		return
	}

	taken := make(map[string]bool)
	for _, c := range root.Commands() {
		taken[c.Name()] = true
		for _, alias := range c.Aliases {
			taken[alias] = true
		}
	}

	for _, ext := range exts {
		name := ext.Name()
		if taken[name] || manifest.IsReserved(name) {
			slog.Warn("extension name conflicts with a built-in command; run it with `"+branding.CLIName()+" extension run`",
				"name", name)
			continue
		}
		if !root.ContainsGroup(extensionsGroup) {
			root.AddGroup(&cobra.Group{ID: extensionsGroup, Title: "Installed Extensions:"})
		}
		taken[name] = true
		root.AddCommand(newExtensionCommand(ext))
	}
}

func newExtensionCommand(ext *extension.Extension) *cobra.Command {
	name := ext.Name()
	short := ext.Description()
	if short == "" {
		short = "Run the " + name + " extension"
	}
	return &cobra.Command{
		Use:                name + " [ARGS...]",
		Short:              short,
		GroupID:            extensionsGroup,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExtension(cmd, extension.FromName(name), args, false)
			if errors.Is(err, consent.ErrNonInteractive) {
				// Flags after the name belong to the extension, so --yes
				// has to go through `extension run`.
				return &CLIError{
					Message:     err.Error(),
					Err:         err,
					Remediation: []string{fmt.Sprintf("Run `%s extension run --yes %s` to grant the permissions without prompting.", branding.CLIName(), name)},
				}
			}
			return err
		},
	}
}
