package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/printers"
	"tableflip.dev/gracelog/pkg/timeutil"
)

func addToday(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the entry being written.",
		Long: `Today shows the editor: today's entry when one exists, otherwise the unsaved
draft, otherwise a blank page at the last used reference.`,
		Example: `
gracelog today
gracelog today --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			st, err := e.svc.State(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			return printState(e, st)
		},
	}

	topLevel.AddCommand(cmd)
}

func addSave(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the entry being written as today's entry.",
		Example: `
gracelog save
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			return output.HandleError(save(cmd, e))
		},
	}

	topLevel.AddCommand(cmd)
}

func save(cmd *cobra.Command, e *env) error {
	saved, err := e.svc.Save(cmd.Context())
	if err != nil {
		return err
	}
	if output.JSON {
		return output.Print(saved)
	}
	prof, err := e.svc.Profile(cmd.Context())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", saved.Title(prof.Locale), saved.ID)
	return nil
}

func addNew(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a blank entry.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			st, err := e.svc.NewEntry(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			return printState(e, st)
		},
	}

	topLevel.AddCommand(cmd)
}

func addOpen(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "open <id|date>",
		Short: "Load an entry into the editor by id or date.",
		Example: `
gracelog open entry-V1StGXR8_Z5jdHi6B-myT
gracelog open 2024-02-28
gracelog open 2/28
`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return entryCompletions(cmd, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}

			var st editor.State
			if day, derr := parseDayArg(e, args[0]); derr == nil {
				st, err = e.svc.OpenDate(cmd.Context(), day)
			} else {
				st, err = e.svc.OpenEntry(cmd.Context(), args[0])
			}
			if err != nil {
				return output.HandleError(err)
			}
			return printState(e, st)
		},
	}

	topLevel.AddCommand(cmd)
}

func parseDayArg(e *env, s string) (timeutil.Day, error) {
	return options.ParseOn(s, e.svc.Today())
}

func printState(e *env, st editor.State) error {
	if output.JSON {
		return output.Print(st)
	}
	pp := &printers.PrettyPrint{}
	pp.Session(st, e.svc.Degraded())
	return nil
}
