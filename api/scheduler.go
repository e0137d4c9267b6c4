/*
scheduler.go - Background horizon maintenance

PURPOSE:
  Materialized working dates are bounded at a two-year horizon that
  moves with "today". This scheduler periodically re-runs incremental
  generation for every shift so the horizon keeps rolling forward
  without any admin action.

DESIGN:
  - One goroutine with a configurable ticker.
  - Each tick delegates to Generator.GenerateAll, which serializes
    per-shift and skips (but logs) misconfigured shifts.
  - Incremental runs that are already at the horizon are no-ops.
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/rota-engine/shift"
)

// GenerationScheduler keeps every shift materialized to the horizon.
type GenerationScheduler struct {
	Generator     *shift.Generator
	CheckInterval time.Duration
	Enabled       bool
	Log           *logrus.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGenerationScheduler(generator *shift.Generator, log *logrus.Logger) *GenerationScheduler {
	if log == nil {
		log = logrus.New()
	}
	return &GenerationScheduler{
		Generator:     generator,
		CheckInterval: 24 * time.Hour,
		Enabled:       true,
		Log:           log,
	}
}

func (gs *GenerationScheduler) Start() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if !gs.Enabled || gs.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	gs.cancel = cancel
	gs.done = make(chan struct{})

	go gs.run(ctx)
	gs.Log.WithField("interval", gs.CheckInterval.String()).Info("generation scheduler started")
}

func (gs *GenerationScheduler) run(ctx context.Context) {
	defer close(gs.done)

	ticker := time.NewTicker(gs.CheckInterval)
	defer ticker.Stop()

	// Catch up immediately on startup, then on each tick.
	gs.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gs.tick(ctx)
		}
	}
}

func (gs *GenerationScheduler) tick(ctx context.Context) {
	if err := gs.Generator.GenerateAll(ctx); err != nil && ctx.Err() == nil {
		gs.Log.WithError(err).Error("scheduled generation run failed")
	}
}

func (gs *GenerationScheduler) Stop() {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.cancel == nil {
		return
	}
	gs.cancel()
	<-gs.done
	gs.cancel = nil
	gs.Log.Info("generation scheduler stopped")
}
