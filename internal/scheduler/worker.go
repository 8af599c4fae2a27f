package scheduler

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"github.com/smallbiznis/kolekta/internal/clock"
	debtdomain "github.com/smallbiznis/kolekta/internal/debt/domain"
	"github.com/smallbiznis/kolekta/internal/events"
	"github.com/smallbiznis/kolekta/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	DebtRepo debtdomain.Repository
	Outbox   *events.Outbox
	Config   Config `optional:"true"`
}

// Worker re-runs the arrears classifier over every open debt on a cron
// schedule and persists tier transitions.
type Worker struct {
	db       *gorm.DB
	log      *zap.Logger
	clk      clock.Clock
	debtRepo debtdomain.Repository
	outbox   *events.Outbox
	cfg      Config
	schedule cron.Schedule
}

// SweepResult summarizes one pass over the open debts.
type SweepResult struct {
	Scanned      int `json:"scanned"`
	Reclassified int `json:"reclassified"`
	Failed       int `json:"failed"`
}

func NewWorker(p Params) (*Worker, error) {
	cfg := p.Config.withDefaults()
	schedule, err := cron.ParseStandard(cfg.Schedule)
	if err != nil {
		return nil, err
	}
	return &Worker{
		db:       p.DB,
		log:      p.Log.Named("debt.sweep"),
		clk:      p.Clock,
		debtRepo: p.DebtRepo,
		outbox:   p.Outbox,
		cfg:      cfg,
		schedule: schedule,
	}, nil
}

// nextWait measures the time to the next scheduled run against the
// injected clock, so the wall clock never leaks into the schedule.
func (w *Worker) nextWait() time.Duration {
	now := w.clk.Now()
	return w.schedule.Next(now).Sub(now)
}

// RunForever sleeps until the next scheduled run, sweeps, and repeats
// until the context is cancelled.
func (w *Worker) RunForever(ctx context.Context) {
	for {
		timer := time.NewTimer(w.nextWait())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := w.RunOnce(ctx); err != nil {
			w.log.Warn("reclassification sweep failed", zap.Error(err))
		}
	}
}

// RunOnce sweeps every non-terminal debt once. A failing debt is logged
// and skipped; it never aborts the rest of the batch. No lock is held
// across the sweep: each transition is one guarded statement, so a debt
// that goes terminal mid-sweep keeps its terminal tier.
func (w *Worker) RunOnce(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	started := time.Now()
	now := w.clk.Now()

	var cursor snowflake.ID
	for {
		batch, err := w.debtRepo.FetchOpenForWork(ctx, w.db, cursor, w.cfg.BatchSize)
		if err != nil {
			return result, err
		}
		if len(batch) == 0 {
			break
		}

		for _, debt := range batch {
			cursor = debt.ID
			result.Scanned++

			days, tier := debtdomain.Classify(debt.DueDate, now, debt.Tier)
			if days == debt.DaysInArrears && tier == debt.Tier {
				metrics.Sweep().IncProcessed("unchanged")
				continue
			}

			updated, err := w.debtRepo.UpdateClassification(ctx, w.db, debt.ID, days, tier, now)
			if err != nil {
				result.Failed++
				metrics.Sweep().IncProcessed("failed")
				w.log.Warn("failed to persist reclassification",
					zap.String("debt_id", debt.ID.String()),
					zap.Error(err),
				)
				continue
			}
			if !updated {
				// Went terminal between fetch and update; the terminal
				// write wins.
				metrics.Sweep().IncProcessed("unchanged")
				continue
			}

			result.Reclassified++
			metrics.Sweep().IncProcessed("reclassified")
			if tier != debt.Tier {
				w.publishTransition(ctx, debt, days, tier)
			}
		}

		if len(batch) < w.cfg.BatchSize {
			break
		}
	}

	metrics.Sweep().SetBacklog(result.Scanned)
	metrics.Sweep().ObserveDuration(time.Since(started))

	w.log.Info("reclassification sweep complete",
		zap.Int("scanned", result.Scanned),
		zap.Int("reclassified", result.Reclassified),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (w *Worker) publishTransition(ctx context.Context, debt debtdomain.OpenDebt, days int, tier debtdomain.Tier) {
	if w.outbox == nil {
		return
	}
	payload := events.DebtReclassifiedPayload{
		DebtID:        debt.ID.String(),
		FromTier:      string(debt.Tier),
		ToTier:        string(tier),
		DaysInArrears: days,
	}
	err := w.outbox.Publish(ctx, events.Event{
		Type:      events.EventDebtReclassified,
		Payload:   payload.ToMap(),
		DedupeKey: events.EventDebtReclassified + ":" + debt.ID.String() + ":" + string(tier),
	})
	if err != nil {
		w.log.Warn("outbox publish failed", zap.String("debt_id", debt.ID.String()), zap.Error(err))
	}
}
