package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "attrclean",
		Short: "A tool for cleaning tabular attribute data",
		Long: `attrclean cleans CSV and GeoJSON attribute tables: pattern-based
find-and-replace against a reference table, null-value column pruning, and
field translation through external translation services.`,
		SilenceUsage: true,
	}

	addRootFlags(rootCmd)

	// Flags are parsed during Execute, so dependencies that depend on them
	// are built in PersistentPreRun.
	rootOpts := newRootOpts()
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logger := setupLogging()
		cmd.SetContext(logger.WithContext(cmd.Context()))
		*rootOpts = *newRootOpts()
	}

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewCleanCmd(rootOpts),
		commands.NewReplaceCmd(rootOpts),
		commands.NewTranslateCmd(rootOpts),
		commands.NewFieldsCmd(rootOpts),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
