package world

import (
	"time"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/event"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// Advance adds elapsed to the time bank and runs as many fixed sub-steps
// as it covers, at most MaxSubsteps when that is positive. Backlog
// beyond the cap is dropped. It returns the number of sub-steps run.
func (w *World) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		w.accumulator += elapsed
	}

	n := int(w.accumulator / w.timestep)
	if limit := w.cfg.Physics.MaxSubsteps; limit > 0 && n > limit {
		n = limit
		w.accumulator %= w.timestep
	} else {
		w.accumulator -= time.Duration(n) * w.timestep
	}

	for i := 0; i < n; i++ {
		w.Step()
	}
	return n
}

// Step runs one fixed sub-step: detection and response over every
// allowed pair in insertion order, constraint forces, integration,
// constraint settling, then gravity re-orientation and surface friction
// for bodies that reorient. It returns the number of overlapping pairs.
func (w *World) Step() int {
	for _, b := range w.bodies {
		b.ClearCollisions()
	}

	hits := 0
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if !w.groups.AllowsBodies(a, b) {
				continue
			}
			c := body.Resolve(a, b, w.logger)
			if !c.Hit {
				continue
			}
			hits++
			w.publishContact(a, b, c)
		}
	}

	for _, c := range w.constraints {
		c.Apply()
	}

	dt := w.timestep.Seconds()
	for _, b := range w.bodies {
		b.Integrate(dt, &w.env)
	}

	for _, c := range w.constraints {
		c.Settle()
	}

	old := w.env.Gravity
	for _, b := range w.bodies {
		if !b.Reorients() {
			continue
		}
		b.ReorientGravity(&w.env, w.cfg.Physics.WallNudge)
		coeff, ok := b.Friction()
		if !ok {
			coeff = w.cfg.Physics.SurfaceFriction
		}
		b.ApplySurfaceFriction(&w.env, coeff)
	}
	if !old.ApproxEqual(w.env.Gravity, physics.Epsilon) {
		w.bus.Publish(event.NewGravityEvent(w, old, w.env.Gravity))
	}

	w.steps++
	w.bus.Publish(event.NewStepEvent(w, w.steps, hits))
	return hits
}

func (w *World) publishContact(a, b *body.Body, c body.Contact) {
	switch {
	case !a.IsInteractive() || !b.IsInteractive():
		w.bus.Publish(event.NewCollisionEvent(event.SensorTriggered, w, a.ID(), b.ID(), c.MTV, c.Point))
	case c.Resolved:
		w.bus.Publish(event.NewCollisionEvent(event.Collision, w, a.ID(), b.ID(), c.MTV, c.Point))
	}
}

// Update implements ecs.System by advancing the world dt seconds.
func (w *World) Update(dt float32) {
	w.Advance(time.Duration(float64(dt) * float64(time.Second)))
}

// Remove implements ecs.System.
func (w *World) Remove(e ecs.BasicEntity) {
	w.RemoveBody(e.ID())
}

// CastRay casts from src through dst and returns the nearest hit on any
// body except the one with ID skip.
func (w *World) CastRay(src, dst physics.Vector2D, skip uint64) (physics.Vector2D, *body.Body, bool) {
	candidates := make([]*body.Body, 0, len(w.bodies))
	shapes := make([]*shape.Shape, 0, len(w.bodies))
	for _, b := range w.bodies {
		if b.ID() == skip {
			continue
		}
		candidates = append(candidates, b)
		shapes = append(shapes, b.Shape())
	}

	p, idx, ok := shape.NewRay(src, dst).CastNearest(shapes...)
	if !ok {
		return physics.Vector2D{}, nil, false
	}
	return p, candidates[idx], true
}
