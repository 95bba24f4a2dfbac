package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/sponsormap/cmd/sponsormap/cmd/render"
	"github.com/agentstation/sponsormap/cmd/sponsormap/cmd/roster"
	"github.com/agentstation/sponsormap/cmd/sponsormap/cmd/update"
	"github.com/agentstation/sponsormap/cmd/sponsormap/cmd/version"
	"github.com/agentstation/sponsormap/internal/cmd/output"
)

// rootFlags holds the persistent flags of the root command.
type rootFlags struct {
	configFile string
	verbose    bool
	quiet      bool
	noColor    bool
	format     string
	logLevel   string
}

// Execute runs the sponsormap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sponsormap",
		Short:   "Keep sponsor listings in project docs up to date",
		Version: a.version,
		Long: `Sponsormap collects a project's sponsors from Open Collective and
GitHub Sponsors, merges them into one tiered roster ranked by lifetime
contribution, and rewrites the marked sponsor regions of the project's
markdown documents.

Set GITHUB_TOKEN to include GitHub Sponsors; without it only Open
Collective is queried.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.flags.configFile, "config", "", "config file (default is $HOME/.sponsormap.yaml)")
	flags.BoolVarP(&a.flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.flags.format, "format", "o", "", "output format: table, json, yaml, wide")
	flags.StringVar(&a.flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("sponsormap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(_ *cobra.Command, _ []string) error {
	if a.flags.configFile != "" {
		config, err := LoadConfig(a.flags.configFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	if _, err := output.ParseFormat(a.flags.format); err != nil {
		return err
	}

	a.config.UpdateFromFlags(a.flags.verbose, a.flags.quiet, a.flags.noColor, a.flags.format, a.flags.logLevel)

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger

	if a.config.ConfigFile != "" {
		a.logger.Debug().Str("file", a.config.ConfigFile).Msg("Loaded config file")
	}
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(update.NewCommand(a))
	rootCmd.AddCommand(roster.NewCommand(a))
	rootCmd.AddCommand(render.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
