package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the journal records and where they are stored.",
		Example: `
gracelog info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config:      e.cfg,
				Persistence: e.svc.Persistence,
				Out:         cmd.OutOrStdout(),
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
