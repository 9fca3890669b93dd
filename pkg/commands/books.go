package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/printers"
	"tableflip.dev/gracelog/pkg/scripture"
)

func addBooks(topLevel *cobra.Command) {
	var locale string

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books of the Bible and their chapter counts.",
		Example: `
gracelog books
gracelog books --locale en
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			l, ok := scripture.ParseLocale(locale)
			if locale == "" {
				e, err := setup(cmd.Context(), false)
				if err != nil {
					return output.HandleError(err)
				}
				prof, err := e.svc.Profile(cmd.Context())
				if err != nil {
					return output.HandleError(err)
				}
				l = prof.Locale
			} else if !ok {
				return output.HandleError(fmt.Errorf("unknown locale %q", locale))
			}

			if output.JSON {
				return output.Print(scripture.Books(l))
			}
			pp := &printers.PrettyPrint{}
			pp.Books(l)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "ko or en; defaults to the profile locale")
	topLevel.AddCommand(cmd)
}

// bookCompletions offers book names of both locales starting with prefix.
func bookCompletions(prefix string) []string {
	var out []string
	for _, l := range scripture.Locales() {
		for _, b := range scripture.Books(l) {
			if strings.HasPrefix(strings.ToLower(b.Name), strings.ToLower(prefix)) {
				out = append(out, b.Name)
			}
		}
	}
	return out
}
