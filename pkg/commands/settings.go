package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/entry"
	"tableflip.dev/gracelog/pkg/printers"
	"tableflip.dev/gracelog/pkg/scripture"
)

func addSettings(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the profile settings.",
		Example: `
gracelog settings
gracelog settings locale en
gracelog settings premium toggle
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			prof, err := e.svc.Profile(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			return printProfile(prof)
		},
	}

	cmd.AddCommand(newLocaleCmd(), newPremiumCmd())
	topLevel.AddCommand(cmd)
}

func newLocaleCmd() *cobra.Command {
	valid := make([]string, 0, 2)
	for _, l := range scripture.Locales() {
		valid = append(valid, l.String())
	}

	return &cobra.Command{
		Use:       "locale <" + strings.Join(valid, "|") + ">",
		Short:     "Set the language book names are shown in.",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			l, ok := scripture.ParseLocale(args[0])
			if !ok {
				return output.HandleError(fmt.Errorf("unknown locale %q", args[0]))
			}
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}
			prof, err := e.svc.SetLocale(cmd.Context(), l)
			if err != nil {
				return output.HandleError(err)
			}
			return printProfile(prof)
		},
	}
}

func newPremiumCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "premium <on|off|toggle>",
		Short:     "Set the subscription status.",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"on", "off", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}

			var prof entry.Profile
			switch args[0] {
			case "on":
				prof, err = e.svc.SetSubscription(cmd.Context(), entry.Premium)
			case "off":
				prof, err = e.svc.SetSubscription(cmd.Context(), entry.Free)
			case "toggle":
				prof, err = e.svc.ToggleSubscription(cmd.Context())
			default:
				err = fmt.Errorf("expected on, off or toggle, got %q", args[0])
			}
			if err != nil {
				return output.HandleError(err)
			}
			return printProfile(prof)
		},
	}
}

func printProfile(p entry.Profile) error {
	if output.JSON {
		return output.Print(p)
	}
	pp := &printers.PrettyPrint{}
	pp.Profile(p)
	return nil
}
