package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/app"
	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/printers"
)

func addAssist(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Ask Gemini for commentary on the reflection being written (premium).",
		Long: options.Wrap80(`Assist sends the current book, chapter, reflection and tags to Gemini and
prints the commentary. The editor is left unchanged. Set GEMINI_API_KEY or
assist.apiKey in .gracelog.yaml.`),
		Example: `
gracelog assist
GEMINI_API_KEY=... gracelog assist --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), true)
			if err != nil {
				return output.HandleError(err)
			}
			resp, err := e.svc.Assist(cmd.Context())
			if errors.Is(err, app.ErrAssistUnavailable) {
				err = fmt.Errorf("%w: set GEMINI_API_KEY", err)
			}
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(resp)
			}
			pp := &printers.PrettyPrint{}
			pp.Assist(resp)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
