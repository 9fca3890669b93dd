package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gracelog/pkg/commands/options"
	"tableflip.dev/gracelog/pkg/editor"
	"tableflip.dev/gracelog/pkg/scripture"
)

func addEdit(topLevel *cobra.Command) {
	o := &options.EditOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change fields of the entry being written.",
		Long: options.Wrap80(`Edit applies the given fields to the editor in flag order: book, chapter,
verses, reflection, application, prayer, tags to add, tags to remove. Every
change is kept as the draft right away. Each run starts from today's entry
when there is one, so pass --save to keep edits to it.`),
		Example: `
gracelog edit --book 요한복음 --chapter 3 --verses 16
gracelog edit --reflection "God so loved the world" --tag love --save
echo "long reflection" | gracelog edit --reflection -
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd.Context(), false)
			if err != nil {
				return output.HandleError(err)
			}

			if o.Reflection == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return output.HandleError(err)
				}
				o.Reflection = strings.TrimRight(string(b), "\n")
			}

			edits, err := editsFor(cmd, o)
			if err != nil {
				return output.HandleError(err)
			}
			st, err := e.svc.State(cmd.Context())
			if err != nil {
				return output.HandleError(err)
			}
			for _, fn := range edits {
				if st, err = e.svc.Edit(cmd.Context(), fn); err != nil {
					return output.HandleError(err)
				}
			}

			if o.Save {
				return output.HandleError(save(cmd, e))
			}
			return printState(e, st)
		},
	}

	options.AddEditArgs(cmd, o)
	_ = cmd.RegisterFlagCompletionFunc("book", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return bookCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

// editsFor turns the changed flags into session edits, in a fixed order.
func editsFor(cmd *cobra.Command, o *options.EditOptions) ([]func(*editor.Session) editor.Effects, error) {
	changed := cmd.Flags().Changed
	var edits []func(*editor.Session) editor.Effects

	if changed("book") {
		if !scripture.Known(o.Book) {
			return nil, fmt.Errorf("unknown book %q, see gracelog books", o.Book)
		}
		book := o.Book
		edits = append(edits, func(s *editor.Session) editor.Effects {
			return s.SetBook(scripture.Translate(book, s.Locale()))
		})
	}
	if changed("chapter") {
		chapter := o.Chapter
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.SetChapter(chapter) })
	}
	if changed("verses") {
		v := o.Verses
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.SetVerseRange(v) })
	}
	if changed("reflection") {
		v := o.Reflection
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.SetReflection(v) })
	}
	if changed("application") {
		v := o.Application
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.SetApplication(v) })
	}
	if changed("prayer") {
		v := o.Prayer
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.SetPrayer(v) })
	}
	for _, tag := range o.Tags {
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.AddTag(tag) })
	}
	for _, tag := range o.Untags {
		edits = append(edits, func(s *editor.Session) editor.Effects { return s.RemoveTag(tag) })
	}
	return edits, nil
}
