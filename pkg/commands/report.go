package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/gracelog/pkg/printers"
)

func addReport(topLevel *cobra.Command) {
	var watch bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display the writing streak, entry count and recent tags (premium)",
		Long: `Report summarises the journal: how many days in a row end today with an entry,
how many entries there are, and the most recent distinct tags.

Examples:
  gracelog report
  gracelog report --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			if err := renderReport(cmd.Context(), e); err != nil {
				return output.HandleError(err)
			}
			if !watch {
				return nil
			}

			events, err := e.svc.Watch(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			for ev := range events {
				e.log.Debug("store changed", zap.String("record", string(ev.Kind)))
				if err := e.svc.Load(cmd.Context()); err != nil {
					return output.HandleError(err)
				}
				if !output.JSON {
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				if err := renderReport(cmd.Context(), e); err != nil {
					return output.HandleError(err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep running and redraw when the journal changes")
	topLevel.AddCommand(cmd)
}

func renderReport(ctx context.Context, e *env) error {
	result, err := e.svc.Report(ctx)
	if err != nil {
		return err
	}
	if output.JSON {
		return output.Print(result)
	}
	pp := &printers.PrettyPrint{}
	pp.Report(result)
	return nil
}
