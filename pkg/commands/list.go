package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/printers"
	"tableflip.dev/gracelog/pkg/timeutil"
)

func addList(topLevel *cobra.Command) {
	var last string
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recent entries, newest first.",
		Long: `List shows the entries written within the specified window, counting today.

Examples:
  gracelog list
  gracelog list --last 3d
  gracelog list --last 1mo --show-id`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			days, label, err := timeutil.ParseWindow(last)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}

			since := e.svc.Today().AddDays(1 - days)
			entries, err := e.svc.Recent(cmd.Context(), since)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(entries)
			}
			prof, err := e.svc.Profile(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			pp := &printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount(fmt.Sprintf("Last %s (since %s)", label, since), len(entries))
			pp.Entries(prof.Locale, entries...)
			return nil
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w, 1mo)")
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
