package body

import (
	"math"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// ReorientGravity points gravity into the gravitational surface the body
// touches whose normal is most perpendicular to the current gravity.
// Ties go to the later record. When two or more gravitational surfaces
// are touched at once the body is nudged along the chosen surface, away
// from the other, so that it does not flip gravity back and forth in a
// corner. It reports whether gravity changed.
func (b *Body) ReorientGravity(env *Environment, nudge float64) bool {
	if b.static || env == nil {
		return false
	}

	gdir := env.Gravity.Normalize()
	var chosen *Collision
	var mtvs []physics.Vector2D
	best := 0.0
	for i := range b.collisions {
		c := &b.collisions[i]
		if !c.Gravitational {
			continue
		}
		if d := math.Abs(c.MTV.Normalize().Cross(gdir)); d >= best {
			chosen, best = c, d
		}
		mtvs = append(mtvs, c.MTV)
	}
	if chosen == nil {
		return false
	}

	old := env.Gravity
	env.Gravity = chosen.MTV.Normalize().Scale(-old.Length())

	if len(mtvs) >= 2 {
		other := mtvs[0]
		if other == chosen.MTV {
			other = mtvs[1]
		}
		dir := chosen.MTV.Perp().Normalize()
		if dir.Dot(other) < 0 {
			dir = dir.Negate()
		}
		m := b.Mass()
		b.ApplyImpulse(dir.Scale(math.Sqrt(m)*m*nudge), b.Centroid())
	}

	return !env.Gravity.ApproxEqual(old, physics.Epsilon)
}

// ApplySurfaceFriction opposes the velocity component across gravity
// with a force of coefficient·|g|·m, while the body touches something.
func (b *Body) ApplySurfaceFriction(env *Environment, coefficient float64) {
	if b.static || env == nil || !b.DidCollide() {
		return
	}

	across := physics.Vector2D{X: 1}
	if !env.Gravity.IsZero() {
		across = env.Gravity.Perp().Normalize()
	}
	along := across.Dot(b.velocity)
	if math.Abs(along) < physics.Epsilon {
		return
	}
	if along < 0 {
		across = across.Negate()
	}
	force := across.Scale(-coefficient * env.Gravity.Length() * b.Mass())
	b.ApplyForce(force, b.Centroid())
}

// Jump pushes the body off the last surface it touched with an impulse
// of coefficient·√m·m along that surface's normal. It reports whether a
// surface was available.
func (b *Body) Jump(coefficient float64) bool {
	if b.static || len(b.collisions) == 0 {
		return false
	}
	mtv := b.collisions[len(b.collisions)-1].MTV
	m := b.Mass()
	b.ApplyImpulse(mtv.Normalize().Scale(coefficient*math.Sqrt(m)*m), b.Centroid())
	return true
}

// Steer applies a force proportional to the difference between goal and
// the velocity component along goal, so the body accelerates toward the
// goal velocity and then coasts.
func (b *Body) Steer(goal physics.Vector2D, coefficient float64) {
	if b.static || goal.IsZero() {
		return
	}
	dv := goal.Sub(b.velocity.ProjectOnto(goal))
	b.ApplyForce(dv.Scale(b.Mass()*coefficient), b.Centroid())
}

// Walk steers the body across gravity at speed, positive to the right of
// the gravity direction and negative to the left.
func (b *Body) Walk(env *Environment, speed, coefficient float64) {
	if env == nil || env.Gravity.IsZero() {
		return
	}
	b.Steer(env.Gravity.Perp().Normalize().Scale(speed), coefficient)
}
