package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/gracelog/pkg/store"
)

// Info reports where the journal lives and which records it holds.
type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = os.Stdout
	}

	if override := os.Getenv("GRACELOG_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "GRACELOG_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "GRACELOG_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path: ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.logLevel: ", n.Config.LogLevel())
	_, _ = fmt.Fprintln(out, "Config.assistModel: ", n.Config.AssistModel())
	if n.Config.AssistAPIKey() == "" {
		_, _ = fmt.Fprintln(out, "Assist: no API key, assist is unavailable")
	} else {
		_, _ = fmt.Fprintln(out, "Assist: API key set")
	}

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	_, _ = fmt.Fprintf(out, "Records:\n")
	for _, k := range store.Kinds() {
		state := "missing"
		if n.Persistence.Has(k) {
			state = "present"
		}
		_, _ = fmt.Fprintf(out, "  %-16s %s\n", k, state)
	}
	if n.Persistence.Degraded() {
		_, _ = fmt.Fprintln(out, "Storage is unavailable, changes are kept in memory only.")
	}

	return nil
}
