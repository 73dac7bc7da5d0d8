package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/opts"
)

// NewFieldsCmd creates a new fields command
func NewFieldsCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the null profile of the dataset's fields",
		Long: `Fields lists every field of the dataset with its null count and
null percentage, without modifying anything. Use it to pick a threshold
before running clean.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.Operator(cmd.Context())
			if err != nil {
				return err
			}

			profiles, err := op.Fields(cmd.Context())
			if err != nil {
				return err
			}

			for _, p := range profiles {
				line := fmt.Sprintf("%-30s %d/%d null (%.1f%%)", p.Field, p.NullCount, p.TotalRows, p.NullPercent())
				if p.TotalRows > 0 && p.NullCount == p.TotalRows {
					line += "  [fully null]"
				}
				cmd.Println(line)
			}
			return nil
		},
	}

	return cmd
}
