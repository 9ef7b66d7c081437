package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/extkit-dev/extkit/internal/runtime"
	"github.com/extkit-dev/extkit/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	installYes               bool
	installAcceptPermissions bool
	installOverwrite         bool

	runYes bool

	listJSON bool

	newRuntime string
)

func init() {
	extensionInstallCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Accept all prompts")
	extensionInstallCmd.Flags().BoolVar(&installAcceptPermissions, "accept-permissions", false, "Grant the requested permissions without prompting")
	extensionInstallCmd.Flags().BoolVar(&installOverwrite, "overwrite", false, "Replace a different installed version without prompting")

	extensionRunCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Grant the requested permissions without prompting")
	extensionRunCmd.Flags().SetInterspersed(false)

	extensionListCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	extensionCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")

	extensionNewCmd.Flags().StringVar(&newRuntime, "runtime", manifest.RuntimeJS, "Runtime for the new extension (js or node)")

	extensionCmd.AddCommand(extensionInstallCmd)
	extensionCmd.AddCommand(extensionUninstallCmd)
	extensionCmd.AddCommand(extensionRunCmd)
	extensionCmd.AddCommand(extensionListCmd)
	extensionCmd.AddCommand(extensionNewCmd)
	rootCmd.AddCommand(extensionCmd)
}

var extensionCmd = &cobra.Command{
	Use:     "extension",
	Aliases: []string{"ext"},
	Short:   "Manage extensions",
	Long: `Install, run, and manage extensions.

An extension is a directory containing ` + manifest.FileName + ` and a script. Installed
extensions live under ~/` + branding.HomeDir() + `/extensions and are also available as
top-level commands.

Running without a subcommand lists installed extensions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionList(cmd)
	},
}

var extensionInstallCmd = &cobra.Command{
	Use:   "install PATH",
	Short: "Install an extension from a local directory",
	Long: `Install an extension from a local directory.

The permissions the extension requests are shown before installing. Pass
--accept-permissions (or --yes) when running without a terminal.

Example:
  ` + branding.CLIName() + ` extension install ./my-ext
  ` + branding.CLIName() + ` extension install --yes ~/src/my-ext`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionInstall(cmd, args[0])
	},
}

var extensionUninstallCmd = &cobra.Command{
	Use:   "uninstall NAME",
	Short: "Uninstall an extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionUninstall(cmd, args[0])
	},
}

var extensionRunCmd = &cobra.Command{
	Use:   "run PATH|NAME [ARGS...]",
	Short: "Run an extension",
	Long: `Run an extension from a local directory or by installed name.

Arguments after the extension are passed through unchanged, flags included.

Example:
  ` + branding.CLIName() + ` extension run ./my-ext --dry-run
  ` + branding.CLIName() + ` extension run my-ext hello`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "help" {
			return cmd.Help()
		}
		return runExtension(cmd, extension.ParseSource(args[0]), args[1:], runYes)
	},
}

var extensionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed extensions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionList(cmd)
	},
}

var extensionNewCmd = &cobra.Command{
	Use:   "new PATH",
	Short: "Create a new extension",
	Long: `Create a new extension in PATH. The last element of PATH is the extension
name and the directory must not exist yet.

Example:
  ` + branding.CLIName() + ` extension new my-ext
  ` + branding.CLIName() + ` extension new --runtime node ./tools/my-ext`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtensionNew(cmd, args[0], newRuntime)
	},
}

func runExtensionInstall(cmd *cobra.Command, path string) error {
	if !extension.LooksLikePath(path) {
		return &CLIError{
			Message:     fmt.Sprintf("ambiguous extension path %q", path),
			Remediation: []string{fmt.Sprintf("Use `%s extension install ./%s` to install from a local directory.", branding.CLIName(), path)},
		}
	}

	ext, err := extension.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	name := ext.Name()
	fmt.Fprintf(out, "Installing extension %s...\n", name)

	reg, err := openRegistry()
	if err != nil {
		return err
	}

	// Fail before touching the registry if consent cannot be recorded.
	grants, err := openGrants()
	if err != nil {
		return err
	}
	covered, err := grants.Covers(name, ext.Permissions())
	if err != nil {
		return err
	}
	preapproved := installAcceptPermissions || installYes

	status, prior, err := reg.Status(ext)
	if err != nil {
		return err
	}
	if status == registry.Identical {
		if !covered && (preapproved || ext.Permissions().IsAllowNone()) {
			recordGrant(grants, ext)
		}
		fmt.Fprintf(out, "✓ Extension %s already installed, nothing to do\n", name)
		return nil
	}

	gate := consent.NewGate(newPrompter(), out)
	if status == registry.Differs {
		req := consent.OverwriteRequest{Name: name, NewVersion: ext.Version()}
		if prior != nil {
			req.InstalledVersion = prior.Version()
		}
		if err := gate.ConfirmOverwrite(req, installOverwrite || installYes); err != nil {
			return err
		}
	}

	if err := gate.ConfirmPermissions(name, ext.Permissions(), preapproved); err != nil {
		return err
	}

	result, err := reg.Install(ext, true)
	if err != nil {
		return err
	}

	if ext.Runtime() == manifest.RuntimeNode {
		warning, err := registry.InstallNodeDeps(filepath.Join(reg.Root(), name))
		if err != nil {
			fmt.Fprintf(out, "  ⚠️  npm install failed: %v\n", err)
		} else if warning != "" {
			fmt.Fprintf(out, "  ⚠️  %s\n", warning)
		}
	}

	recordGrant(grants, ext)

	verb := "installed"
	if result == registry.Replaced {
		verb = "replaced"
	}
	fmt.Fprintf(out, "✓ Extension %s %s successfully\n", name, verb)

	if manifest.IsReserved(name) {
		fmt.Fprintf(cmd.ErrOrStderr(), "  ⚠️  %q is a built-in command name; run it with `%s extension run %s`\n",
			name, branding.CLIName(), name)
	}
	return nil
}

func runExtensionUninstall(cmd *cobra.Command, name string) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	if err := reg.Uninstall(name); err != nil {
		return err
	}

	if grants, err := openGrants(); err != nil {
		slog.Warn("could not open grants file", "error", err)
	} else if err := grants.Forget(name); err != nil {
		slog.Warn("could not drop permission grant", "name", name, "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Extension %s uninstalled\n", name)
	return nil
}

// runExtension resolves src, checks permissions, and hands the extension to
// its runtime. A registry extension whose recorded grant still matches its
// manifest runs without asking again.
func runExtension(cmd *cobra.Command, src extension.Source, args []string, preapproved bool) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	ext, err := reg.Resolve(src)
	if err != nil {
		return err
	}

	var grants *consent.GrantStore
	if src.Kind == extension.SourceName {
		if grants, err = openGrants(); err != nil {
			return err
		}
		if !preapproved {
			covered, err := grants.Covers(ext.Name(), ext.Permissions())
			if err != nil {
				slog.Warn("ignoring unreadable grants file", "error", err)
			}
			preapproved = covered
		}
	}

	ungranted := !preapproved && !ext.Permissions().IsAllowNone()
	gate := consent.NewGate(newPrompter(), cmd.ErrOrStderr())
	if err := gate.ConfirmPermissions(ext.Name(), ext.Permissions(), preapproved); err != nil {
		return err
	}
	if ungranted && grants != nil {
		recordGrant(grants, ext)
	}

	slog.Debug("running extension", "name", ext.Name(), "runtime", ext.Runtime(), "dir", ext.Dir())
	rt := runtime.DispatchRuntime(ext.Runtime(), runtime.Options{
		HostVersion: buildVersion,
		Stdin:       cmd.InOrStdin(),
		Stdout:      cmd.OutOrStdout(),
		Stderr:      cmd.ErrOrStderr(),
	})
	return rt.Run(cmd.Context(), ext, api.Lazy(api.FromConfig()), args)
}

// recordGrant saves the permissions the operator agreed to. The extension is
// already in place by then, so a failure only means the next run asks again.
func recordGrant(grants *consent.GrantStore, ext *extension.Extension) {
	if err := grants.Record(ext.Name(), ext.Version(), ext.Permissions()); err != nil {
		slog.Warn("could not record permission grant", "name", ext.Name(), "error", err)
	}
}

// listEntry is the JSON representation of an installed extension.
type listEntry struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Runtime     string `json:"runtime"`
	Path        string `json:"path"`
}

func runExtensionList(cmd *cobra.Command) error {
	reg, err := openRegistry()
	if err != nil {
		return err
	}
	exts, err := reg.List()
	if err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(exts))
	for _, ext := range exts {
		entries = append(entries, listEntry{
			Name:        ext.Name(),
			Version:     ext.Version(),
			Description: ext.Description(),
			Runtime:     ext.Runtime(),
			Path:        ext.Dir(),
		})
	}

	if listJSON {
		return printListJSON(cmd.OutOrStdout(), entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No extensions are currently installed.")
		return nil
	}
	return printListTable(cmd.OutOrStdout(), entries)
}

func printListTable(out io.Writer, entries []listEntry) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Version, e.Description)
	}
	return w.Flush()
}

func printListJSON(out io.Writer, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling extensions: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func runExtensionNew(cmd *cobra.Command, path, rt string) error {
	if !slices.Contains(manifest.ValidRuntimes, rt) {
		return &CLIError{
			Message:     fmt.Sprintf("unsupported runtime %q", rt),
			Remediation: []string{fmt.Sprintf("Choose one of: %s.", strings.Join(manifest.ValidRuntimes, ", "))},
		}
	}

	result, err := scaffold.New(path, rt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created extension %s in %s\n", result.Name, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(out, "    %s\n", f)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "  ⚠️  %s\n", w)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  %s extension run %s\n", branding.CLIName(), runnablePath(path))
	fmt.Fprintf(out, "  %s extension install %s\n", branding.CLIName(), runnablePath(path))
	return nil
}

// runnablePath makes path usable as an install/run argument, which must
// read as a path rather than a name.
func runnablePath(path string) string {
	if extension.LooksLikePath(path) {
		return path
	}
	return "." + string(filepath.Separator) + path
}
