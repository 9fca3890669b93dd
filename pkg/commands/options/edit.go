package options

import (
	"github.com/spf13/cobra"
)

// EditOptions carries field edits for the editor session.
type EditOptions struct {
	Book        string
	Chapter     int
	Verses      string
	Reflection  string
	Application string
	Prayer      string
	Tags        []string
	Untags      []string
	Save        bool
}

func AddEditArgs(cmd *cobra.Command, o *EditOptions) {
	cmd.Flags().StringVarP(&o.Book, "book", "b", "",
		"Book name in either locale.")
	cmd.Flags().IntVarP(&o.Chapter, "chapter", "c", 0,
		"Chapter number.")
	cmd.Flags().StringVar(&o.Verses, "verses", "",
		`Verse range, example: --verses="16-18".`)
	cmd.Flags().StringVarP(&o.Reflection, "reflection", "r", "",
		"Reflection text. Use - to read it from stdin.")
	cmd.Flags().StringVar(&o.Application, "application", "",
		"Application text.")
	cmd.Flags().StringVar(&o.Prayer, "prayer", "",
		"Prayer text.")
	cmd.Flags().StringArrayVarP(&o.Tags, "tag", "t", nil,
		"Add a tag. Repeatable.")
	cmd.Flags().StringArrayVar(&o.Untags, "untag", nil,
		"Remove a tag. Repeatable.")
	cmd.Flags().BoolVarP(&o.Save, "save", "s", false,
		"Save the entry after applying the edits.")
}
