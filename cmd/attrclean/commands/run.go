package commands

import (
	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/opts"
)

// NewRunCmd creates a new run command
func NewRunCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every configured step in order",
		Long: `Run executes all configured steps over one load of the dataset:
clean, then replace, then translate. The dataset is saved once after all
steps succeed, so a failing step leaves the file untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.Operator(cmd.Context())
			if err != nil {
				return err
			}
			return op.Run(cmd.Context())
		},
	}

	return cmd
}
