package body

import (
	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Constraint adjusts a body once per step. Apply runs before integration
// and Settle after it.
type Constraint interface {
	Apply()
	Settle()
	Target() *Body
}

// Spring pulls a body back to a pivot with a restorative force
// k·(pivot − location) and damps it with −c·v.
type Spring struct {
	Body      *Body
	Pivot     physics.Vector2D
	Stiffness float64
	Damping   float64
}

// NewSpring anchors a spring at the body's current centroid and stops the
// body from rotating.
func NewSpring(b *Body, stiffness, damping float64) *Spring {
	b.SetRotatable(false)
	return &Spring{
		Body:      b,
		Pivot:     b.Centroid(),
		Stiffness: stiffness,
		Damping:   damping,
	}
}

// Apply accumulates the spring and damping forces.
func (s *Spring) Apply() {
	c := s.Body.Centroid()
	s.Body.ApplyForce(s.Pivot.Sub(c).Scale(s.Stiffness), c)
	s.Body.ApplyForce(s.Body.Velocity().Scale(-s.Damping), c)
}

// Settle does nothing for springs.
func (s *Spring) Settle() {}

// Target returns the constrained body.
func (s *Spring) Target() *Body { return s.Body }

// Pin fixes one point of a body in the world; the body may still turn
// about it.
type Pin struct {
	Body   *Body
	Anchor physics.Vector2D

	offset physics.Vector2D
	angle  float64
}

// NewPin pins b at anchor, which should lie on or inside its shape.
func NewPin(b *Body, anchor physics.Vector2D) *Pin {
	return &Pin{
		Body:   b,
		Anchor: anchor,
		offset: anchor.Sub(b.Centroid()),
		angle:  b.Angle(),
	}
}

// Apply does nothing for pins.
func (p *Pin) Apply() {}

// Settle moves the body back so the pinned point lies on the anchor and
// cancels its linear motion.
func (p *Pin) Settle() {
	rotated := p.offset.Rotate(p.Body.Angle() - p.angle)
	delta := p.Anchor.Sub(p.Body.Centroid().Add(rotated))
	p.Body.shape.Translate(delta)
	p.Body.velocity = physics.Vector2D{}
}

// Target returns the constrained body.
func (p *Pin) Target() *Body { return p.Body }
