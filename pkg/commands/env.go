package commands

import (
	"context"

	"go.uber.org/zap"

	"tableflip.dev/gracelog/pkg/app"
	"tableflip.dev/gracelog/pkg/assist"
	"tableflip.dev/gracelog/pkg/logging"
	"tableflip.dev/gracelog/pkg/store"
)

// env is what a command run needs: config, logger and the journal service.
type env struct {
	cfg store.Config
	log *zap.Logger
	svc *app.Service
}

var current *env

// setup loads config, logger and persistence once per process. withAssist
// also creates the Gemini client when an API key is configured.
func setup(ctx context.Context, withAssist bool) (*env, error) {
	if current == nil {
		cfg, err := store.LoadConfig()
		if err != nil {
			return nil, err
		}
		log, err := logging.New(cfg.LogLevel(), global.Verbose)
		if err != nil {
			return nil, err
		}

		var p store.Persistence
		if global.Ephemeral {
			p = store.NewMemory(log)
		} else if p, err = store.Load(cfg, log); err != nil {
			return nil, err
		}
		current = &env{
			cfg: cfg,
			log: log,
			svc: &app.Service{Persistence: p, Logger: log},
		}
	}

	e := current
	if withAssist && e.svc.Assistant == nil && e.cfg.AssistAPIKey() != "" {
		gw, err := assist.NewGenAI(ctx, e.cfg.AssistAPIKey(), e.cfg.AssistModel(), e.cfg.AssistTimeout(), e.log)
		if err != nil {
			return nil, err
		}
		e.svc.Assistant = gw
	}
	return e, nil
}

func closeEnv() {
	if current != nil && current.log != nil {
		_ = current.log.Sync()
	}
}
