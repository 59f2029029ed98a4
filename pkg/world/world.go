// Package world advances a set of bodies with a fixed time step.
package world

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/google/uuid"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/config"
	"github.com/opd-ai/go-gravidog/pkg/event"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// ErrUnknownBody is returned when an operation names a body that is not
// in the world.
var ErrUnknownBody = errors.New("body not in world")

// World owns bodies, their constraints and the gravity they fall under.
// It is not safe for concurrent use; run separate worlds on separate
// goroutines instead.
type World struct {
	ID uuid.UUID

	cfg    *config.WorldConfig
	logger *logging.Logger
	bus    *event.Bus

	env         body.Environment
	bodies      []*body.Body
	constraints []body.Constraint
	groups      body.GroupFilter

	timestep    time.Duration
	accumulator time.Duration
	steps       uint64
}

var _ ecs.System = (*World)(nil)

// New creates an empty world. A nil cfg uses config.DefaultConfig, a nil
// logger logs to stdout and a nil bus gets a private one.
func New(cfg *config.WorldConfig, logger *logging.Logger, bus *event.Bus) (*World, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world config: %w", err)
	}
	if logger == nil {
		logger = logging.NewLogger()
	}
	if bus == nil {
		bus = event.NewEventBus()
	}

	id := uuid.New()
	return &World{
		ID:       id,
		cfg:      cfg,
		logger:   logger.With("world", id.String()),
		bus:      bus,
		env:      body.Environment{Gravity: cfg.Physics.Gravity},
		timestep: cfg.Physics.Timestep(),
	}, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() *config.WorldConfig { return w.cfg }

// Bus returns the event bus the world publishes on.
func (w *World) Bus() *event.Bus { return w.bus }

// Timestep returns the fixed sub-step length.
func (w *World) Timestep() time.Duration { return w.timestep }

// Steps returns how many sub-steps have run.
func (w *World) Steps() uint64 { return w.steps }

// Environment exposes the world's gravity to body helpers such as Walk.
func (w *World) Environment() *body.Environment { return &w.env }

// Gravity returns the current gravity vector.
func (w *World) Gravity() physics.Vector2D { return w.env.Gravity }

// SetGravity replaces gravity and publishes event.GravityChanged when it
// differs from the current value.
func (w *World) SetGravity(g physics.Vector2D) {
	old := w.env.Gravity
	w.env.Gravity = g
	if old != g {
		w.bus.Publish(event.NewGravityEvent(w, old, g))
	}
}

// GroupFilter returns the filter consulted before each pair is tested.
func (w *World) GroupFilter() *body.GroupFilter { return &w.groups }

// Add places b in the world. Curves and paths are resampled at the
// configured resolution.
func (w *World) Add(b *body.Body) error {
	if b == nil {
		return fmt.Errorf("%w: nil body", physics.ErrConfiguration)
	}
	if _, ok := w.Body(b.ID()); ok {
		return fmt.Errorf("body %d already added", b.ID())
	}

	switch b.Shape().Kind() {
	case shape.KindCurve, shape.KindPath:
		b.Shape().SetResolution(w.cfg.Curves.Resolution)
	}

	w.bodies = append(w.bodies, b)
	w.logger.Debug(context.Background(), "body added", "body", b.String())
	w.bus.Publish(event.NewBodyEvent(event.BodyAdded, w, b.ID()))
	return nil
}

// RemoveBody takes the body with the given ID out of the world together
// with any constraint on it. It reports whether the body was present.
func (w *World) RemoveBody(id uint64) bool {
	idx := w.indexOf(id)
	if idx < 0 {
		return false
	}
	b := w.bodies[idx]
	w.bodies = append(w.bodies[:idx], w.bodies[idx+1:]...)

	kept := w.constraints[:0]
	for _, c := range w.constraints {
		if c.Target() != b {
			kept = append(kept, c)
		}
	}
	w.constraints = kept

	w.logger.Debug(context.Background(), "body removed", "body", b.String())
	w.bus.Publish(event.NewBodyEvent(event.BodyRemoved, w, id))
	return true
}

func (w *World) indexOf(id uint64) int {
	for i, b := range w.bodies {
		if b.ID() == id {
			return i
		}
	}
	return -1
}

// Body looks a body up by ID.
func (w *World) Body(id uint64) (*body.Body, bool) {
	if i := w.indexOf(id); i >= 0 {
		return w.bodies[i], true
	}
	return nil, false
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []*body.Body {
	return append([]*body.Body(nil), w.bodies...)
}

// Len returns the number of bodies.
func (w *World) Len() int { return len(w.bodies) }

// AddConstraint attaches c; its target must already be in the world.
func (w *World) AddConstraint(c body.Constraint) error {
	if c == nil {
		return fmt.Errorf("%w: nil constraint", physics.ErrConfiguration)
	}
	if err := w.member(c.Target()); err != nil {
		return err
	}
	w.constraints = append(w.constraints, c)
	return nil
}

func (w *World) member(b *body.Body) error {
	if b == nil {
		return fmt.Errorf("%w: constraint without a body", physics.ErrConfiguration)
	}
	if w.indexOf(b.ID()) < 0 {
		return fmt.Errorf("constraint on body %d: %w", b.ID(), ErrUnknownBody)
	}
	return nil
}

// AddSpring anchors a spring at b's current centroid.
func (w *World) AddSpring(b *body.Body, stiffness, damping float64) (*body.Spring, error) {
	if err := w.member(b); err != nil {
		return nil, err
	}
	s := body.NewSpring(b, stiffness, damping)
	if err := w.AddConstraint(s); err != nil {
		return nil, err
	}
	return s, nil
}

// AddPin pins b at anchor.
func (w *World) AddPin(b *body.Body, anchor physics.Vector2D) (*body.Pin, error) {
	if err := w.member(b); err != nil {
		return nil, err
	}
	p := body.NewPin(b, anchor)
	if err := w.AddConstraint(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Constraints returns the attached constraints.
func (w *World) Constraints() []body.Constraint {
	return append([]body.Constraint(nil), w.constraints...)
}
