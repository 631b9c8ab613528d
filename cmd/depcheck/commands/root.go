// Package commands implements the CLI commands for the depcheck tool.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/arcfield/sdkkit/internal/app"
	"github.com/arcfield/sdkkit/internal/build"
)

// CLI represents the command line interface for depcheck.
type CLI struct {
	app     *app.App
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App) *CLI {
	rootCmd := &cobra.Command{
		Use:           "depcheck",
		Short:         "Analyze declared dependencies across a multi-package source tree",
		Long: `depcheck discovers every package in the tree, aggregates the dependency
version specifiers they declare, verifies the specifiers are consistent
across packages, and compares them to the frozen shared requirements file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "depcheck.yaml", "Path to configuration file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newAnalyzeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// SetConfigHook installs a PersistentPreRun that forwards the --config flag
// value to the given callback before any command runs.
func (c *CLI) SetConfigHook(fn func(string)) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		fn(configPath)
		return nil
	}
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
