// Package render implements the render command.
package render

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/sponsormap/internal/appcontext"
	"github.com/agentstation/sponsormap/pkg/logging"
	renderer "github.com/agentstation/sponsormap/pkg/render"
)

// NewCommand creates the render command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	kinds := make([]string, 0, len(renderer.Kinds()))
	for _, k := range renderer.Kinds() {
		kinds = append(kinds, string(k))
	}

	return &cobra.Command{
		Use:       "render <detailed|compact|highlight>",
		GroupID:   "core",
		Short:     "Print one rendered sponsor fragment",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		Example: `  sponsormap render detailed
  sponsormap render compact > sponsors.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := renderer.ParseKind(args[0])
			if err != nil {
				return err
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			p, err := app.Pipeline()
			if err != nil {
				return err
			}

			fragment, result, err := p.Render(ctx, kind)
			if err != nil {
				return err
			}
			if result.AllProvidersFailed() {
				return result.Err()
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
			return err
		},
	}
}
