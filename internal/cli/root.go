package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/extkit-dev/extkit/internal/branding"
	"github.com/extkit-dev/extkit/internal/config"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/extkit-dev/extkit/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var verbose bool

// newPrompter is swapped out in tests.
var newPrompter = func() consent.Prompter { return consent.NewTerminalPrompter() }

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs, runs, and manages extensions. Each installed extension
is also available as a top-level command: ` + branding.CLIName() + ` <name> [args...].`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		setupLogging(verbose)
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
// Errors other than an extension's exit status are printed to stderr.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	config.Load()
	setupLogging(false)

	if reg, err := openRegistry(); err != nil {
		slog.Warn("extension commands unavailable", "error", err)
	} else {
		AddExtensionCommands(rootCmd, reg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// setupLogging installs a text handler on stderr as the default logger.
func setupLogging(debug bool) {
	level := parseLevel(config.LogLevel())
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelWarn
	}
	return level
}

func openRegistry() (*registry.Registry, error) {
	root, err := userdata.GetExtensionsRoot()
	if err != nil {
		return nil, fmt.Errorf("resolving extensions directory: %w", err)
	}
	return registry.New(root), nil
}

func openGrants() (*consent.GrantStore, error) {
	path, err := userdata.GetGrantsPath()
	if err != nil {
		return nil, fmt.Errorf("resolving grants file: %w", err)
	}
	return consent.NewGrantStore(path), nil
}
