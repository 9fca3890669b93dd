package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(gracelog completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(gracelog completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// entryCompletions offers saved entry ids and dates starting with toComplete.
func entryCompletions(cmd *cobra.Command, toComplete string) []string {
	e, err := setup(cmd.Context(), false)
	if err != nil {
		return nil
	}
	entries, err := e.svc.Entries(cmd.Context())
	if err != nil {
		return nil
	}
	seen := map[string]struct{}{}
	var out []string
	for _, en := range entries {
		for _, c := range []string{en.Date.String(), en.ID} {
			if _, ok := seen[c]; ok || !strings.HasPrefix(c, toComplete) {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
