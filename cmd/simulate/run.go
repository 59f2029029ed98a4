package main

import (
	"context"
	"fmt"
	"time"

	"github.com/opd-ai/go-gravidog/pkg/config"
	"github.com/opd-ai/go-gravidog/pkg/event"
	"github.com/opd-ai/go-gravidog/pkg/health"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/sandbox"
	"github.com/opd-ai/go-gravidog/pkg/world"
)

// runOptions are shared by every run of a batch.
type runOptions struct {
	config   *config.WorldConfig
	level    *sandbox.Level
	duration time.Duration
	realtime bool
}

// runResult summarizes one finished run.
type runResult struct {
	Run            int
	Steps          uint64
	Collisions     int
	Sensors        int
	GravityChanges int
	World          *world.World
}

// simulate builds the level into a fresh world and steps it for the
// configured simulated duration. With checker set, the run registers
// stability and progress checks named after it.
func simulate(ctx context.Context, run int, opts runOptions, logger *logging.Logger, checker *health.HealthChecker) (*runResult, error) {
	ctx = logging.WithCorrelationID(ctx, "")
	logger = logger.With("run", run)

	w, err := world.New(opts.config, logger, nil)
	if err != nil {
		return nil, err
	}
	if _, err := sandbox.Build(opts.level, w, logger); err != nil {
		return nil, logging.WrapError(err, "run %d", run)
	}

	res := &runResult{Run: run, World: w}
	bus := w.Bus()
	bus.Subscribe(event.Collision, func(event.Event) { res.Collisions++ })
	bus.Subscribe(event.SensorTriggered, func(event.Event) { res.Sensors++ })
	bus.Subscribe(event.GravityChanged, func(e event.Event) {
		res.GravityChanges++
		if g, ok := e.(*event.GravityEvent); ok {
			logger.Debug(ctx, "gravity changed", "old", g.Old, "new", g.New)
		}
	})

	monitor := health.NewMonitor(opts.config.Physics.SpeedLimit)
	monitor.Attach(w)
	stability := health.NewStabilityCheck(fmt.Sprintf("stability-run-%d", run), monitor)
	if checker != nil {
		checker.AddCheck(stability)
		checker.AddCheck(health.NewProgressCheck(fmt.Sprintf("progress-run-%d", run), monitor, 5*time.Second))
	}

	ts := w.Timestep()
	total := int(opts.duration / ts)

	var tick <-chan time.Time
	if opts.realtime {
		ticker := time.NewTicker(ts)
		defer ticker.Stop()
		tick = ticker.C
	}

	logger.Info(ctx, "run started",
		"bodies", w.Len(),
		"steps", total,
		"timestep", ts.String(),
	)
	for i := 0; i < total; i++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return res, err
		}

		w.Advance(ts)
		if err := stability.Check(ctx); err != nil {
			res.Steps = w.Steps()
			return res, fmt.Errorf("run %d step %d: %w", run, w.Steps(), err)
		}
	}
	res.Steps = w.Steps()

	logger.Info(ctx, "run finished",
		"steps", res.Steps,
		"collisions", res.Collisions,
		"sensor_hits", res.Sensors,
		"gravity_changes", res.GravityChanges,
		"gravity", w.Gravity(),
	)
	return res, nil
}
