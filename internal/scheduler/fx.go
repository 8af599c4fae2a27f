package scheduler

import (
	"context"

	"github.com/smallbiznis/kolekta/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("debt.sweep",
	fx.Provide(newConfig),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func newConfig(cfg config.Config) Config {
	return Config{
		Schedule:  cfg.SweepSchedule,
		BatchSize: cfg.SweepBatchSize,
	}
}

func runWorker(lc fx.Lifecycle, worker *Worker) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
