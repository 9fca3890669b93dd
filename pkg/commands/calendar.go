package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/printers"
)

func addCalendar(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	mo := &options.MonthOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show a month with the days that have entries.",
		Example: `
gracelog calendar
gracelog calendar --month 2024-02
gracelog calendar --on 2/14 --show-id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}

			today := e.svc.Today()
			selected, err := on.GetOn(today)
			if err != nil {
				return output.HandleError(err)
			}
			if selected.IsZero() {
				selected = today
			}
			year, month, err := mo.GetMonth(selected)
			if err != nil {
				return output.HandleError(err)
			}

			view, err := e.svc.Calendar(cmd.Context(), year, month, selected)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.Print(view)
			}
			pp := &printers.PrettyPrint{ShowID: io.ShowID}
			pp.Calendar(view, today)
			return nil
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddMonthArgs(cmd, mo)
	options.AddShowIDArgs(cmd, io)
	topLevel.AddCommand(cmd)
}
