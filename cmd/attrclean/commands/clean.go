package commands

import (
	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/opts"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop null-heavy columns from the dataset",
		Long: `Clean profiles null values across the dataset's fields and drops
columns per the cleaning section of the config:
1. Remove columns that are entirely null
2. Remove columns whose null percentage exceeds the threshold
3. Save the dataset in place`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.Operator(cmd.Context())
			if err != nil {
				return err
			}
			return op.Clean(cmd.Context())
		},
	}

	return cmd
}
