// Package update implements the update command: the full sponsor pipeline.
package update

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sponsormap/internal/appcontext"
	"github.com/agentstation/sponsormap/internal/cmd/output"
	"github.com/agentstation/sponsormap/pkg/logging"
	"github.com/agentstation/sponsormap/pkg/sponsors"
	"github.com/agentstation/sponsormap/pkg/sync"
)

// Flags holds the update command flags.
type Flags struct {
	DryRun             bool
	SkipGitHub         bool
	SkipOpenCollective bool
}

// Options converts the flags into pipeline options.
func (f *Flags) Options() []sync.Option {
	opts := []sync.Option{sync.WithDryRun(f.DryRun)}
	if f.SkipGitHub {
		opts = append(opts, sync.WithSkipped(sponsors.SourceGitHub))
	}
	if f.SkipOpenCollective {
		opts = append(opts, sync.WithSkipped(sponsors.SourceOpenCollective))
	}
	return opts
}

// NewCommand creates the update command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "core",
		Short:   "Fetch sponsors and rewrite the sponsor sections of every target document",
		Args:    cobra.NoArgs,
		Long: `Update fetches sponsors from every enabled provider, keeps the records
that currently count, merges duplicates across providers, and rewrites the
region between the sponsor markers of each configured document.

A provider that fails contributes nothing and the run continues. When every
enabled provider fails, documents are left untouched. The command exits
non-zero when a document could not be patched or no provider succeeded.`,
		Example: `  sponsormap update                      # Update all documents
  sponsormap update --dry-run            # Check markers, write nothing
  sponsormap update --skip-github        # Open Collective only
  sponsormap update -o json              # Machine-readable summary`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			p, err := app.Pipeline(flags.Options()...)
			if err != nil {
				return err
			}

			result, runErr := p.Run(ctx)
			if result != nil {
				format := output.DetectFormat(app.OutputFormat())
				if err := output.FormatResult(cmd.OutOrStdout(), format, result); err != nil {
					return err
				}
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "render and check markers without writing")
	cmd.Flags().BoolVar(&flags.SkipGitHub, "skip-github", false, "do not query GitHub Sponsors")
	cmd.Flags().BoolVar(&flags.SkipOpenCollective, "skip-opencollective", false, "do not query Open Collective")

	return cmd
}
