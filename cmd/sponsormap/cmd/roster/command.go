// Package roster implements the roster command.
package roster

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/sponsormap/internal/appcontext"
	"github.com/agentstation/sponsormap/internal/cmd/output"
	"github.com/agentstation/sponsormap/pkg/logging"
)

// NewCommand creates the roster command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "roster",
		GroupID: "core",
		Short:   "Print the reconciled sponsor roster without touching any file",
		Args:    cobra.NoArgs,
		Example: `  sponsormap roster
  sponsormap roster -o wide
  sponsormap roster -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			p, err := app.Pipeline()
			if err != nil {
				return err
			}

			result, err := p.Roster(ctx)
			if err != nil {
				return err
			}
			if result.AllProvidersFailed() {
				return result.Err()
			}

			format := output.DetectFormat(app.OutputFormat())
			return output.FormatRoster(cmd.OutOrStdout(), format, result.Roster)
		},
	}
}
