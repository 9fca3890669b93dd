package options

import (
	"github.com/spf13/cobra"
)

// GlobalOptions apply to every command.
type GlobalOptions struct {
	Verbose   bool
	Ephemeral bool
}

func AddGlobalArgs(cmd *cobra.Command, o *GlobalOptions) {
	cmd.PersistentFlags().BoolVarP(&o.Verbose, "verbose", "v", false,
		"Log debug output to stderr.")
	cmd.PersistentFlags().BoolVar(&o.Ephemeral, "ephemeral", false,
		Wrap80("Keep every record in memory for this run only. Nothing is read from or written to disk."))
}
