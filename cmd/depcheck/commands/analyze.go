package commands

import (
	"github.com/spf13/cobra"

	"github.com/arcfield/sdkkit/internal/app"
)

func (c *CLI) newAnalyzeCmd() *cobra.Command {
	var opts app.Options

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Aggregate declared dependencies and validate or freeze them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Print per-requirement detail")
	cmd.Flags().BoolVar(&opts.Freeze, "freeze", false, "Freeze the current specifiers instead of validating them")
	cmd.Flags().StringVar(&opts.OutPath, "out", "", "Write an HTML report to FILE")
	cmd.Flags().StringVar(&opts.WheelDir, "wheeldir", "", "Analyze wheels in DIR instead of source packages")

	return cmd
}
