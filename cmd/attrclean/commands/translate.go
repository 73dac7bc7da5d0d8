package commands

import (
	"github.com/spf13/cobra"

	"github.com/fieldworks/attrclean/cmd/attrclean/opts"
)

// NewTranslateCmd creates a new translate command
func NewTranslateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate a field through a translation service",
		Long: `Translate fills the target field with translations of the source
field using the configured service (google, openai, deepseek, or ollama):
1. Skip rows with an empty source or an already-filled target
2. Translate batch by batch, caching repeated values
3. Save the dataset in place

API keys come from the environment (GOOGLE_API_KEY, OPENAI_API_KEY,
DEEPSEEK_API_KEY, OLLAMA_URL), never from the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := opts.Operator(cmd.Context())
			if err != nil {
				return err
			}
			return op.Translate(cmd.Context())
		},
	}

	return cmd
}
