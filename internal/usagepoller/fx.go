package usagepoller

import (
	"context"

	"github.com/smallbiznis/telesim/internal/config"
	"go.uber.org/fx"
)

// Module wires the usage poll worker behind the fx lifecycle.
var Module = fx.Module("usagepoller",
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, cfg config.Config, worker *Worker) {
	if !cfg.Poller.Enabled {
		return
	}

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			_ = startCtx
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			_ = stopCtx
			if cancel != nil {
				cancel()
			}
			return nil
		},
	})
}
