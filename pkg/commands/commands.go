package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/gracelog/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
	global = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "gracelog",
		Short: base.Wrap80("Daily scripture journaling on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeEnv()
		},
	}

	options.AddGlobalArgs(cmd, global)
	options.AddOutputArg(cmd, output)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addToday(topLevel)
	addEdit(topLevel)
	addSave(topLevel)
	addNew(topLevel)
	addOpen(topLevel)
	addCalendar(topLevel)
	addList(topLevel)
	addReport(topLevel)
	addAssist(topLevel)
	addSettings(topLevel)
	addBooks(topLevel)
	addInfo(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addUpgrade(topLevel)
	addCompletions(topLevel)
}
