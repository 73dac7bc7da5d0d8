package commands

import (
	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/opts"
)

// NewReplaceCmd creates a new replace command
func NewReplaceCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replace",
		Short: "Rewrite a field using the reference dataset",
		Long: `Replace looks every value of the source field up in the reference
dataset and rewrites it:
1. Collect (find, replace) pairs from the reference dataset
2. Normalize keys per the configured pattern options
3. Rewrite matched values, applying the unmatched policy to the rest
4. Save the dataset in place`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.Operator(cmd.Context())
			if err != nil {
				return err
			}
			return op.Replace(cmd.Context())
		},
	}

	return cmd
}
