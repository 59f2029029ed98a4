// Package body implements rigid bodies: a shape plus mass, velocity,
// force and impulse accumulators, symplectic integration and the
// impulse based collision response.
package body

import (
	"fmt"
	"math"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// Environment holds the world-wide state a body integrates against.
type Environment struct {
	Gravity physics.Vector2D
}

// Collision is one contact recorded during the current step. MTV moved
// the owning body out of the body identified by Other.
type Collision struct {
	MTV           physics.Vector2D
	Other         uint64
	Gravitational bool
}

// Body is a rigid body backed by a single shape.
type Body struct {
	ecs.BasicEntity

	Name string

	shape       *shape.Shape
	density     float64
	restitution float64

	velocity        physics.Vector2D
	angularVelocity float64

	force          physics.Vector2D
	impulse        physics.Vector2D
	torque         float64
	angularImpulse float64

	static        bool
	interactive   bool
	rotatable     bool
	gravitational bool
	reorients     bool

	friction    float64
	hasFriction bool
	group       Group

	collisions []Collision
}

// New wraps s in a body with density 1, no restitution, interactive and
// rotatable. Curves and paths always produce static bodies; rectangles
// stay axis aligned and never rotate.
func New(s *shape.Shape) (*Body, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: body without shape", physics.ErrDegenerateGeometry)
	}
	return &Body{
		BasicEntity: ecs.NewBasic(),
		shape:       s,
		density:     1,
		interactive: true,
		rotatable:   s.Kind() != shape.KindRect,
		static:      s.IsStaticOnly(),
	}, nil
}

// MustNew is New for shapes known to be non-nil.
func MustNew(s *shape.Shape) *Body {
	b, err := New(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Shape returns the body's geometry.
func (b *Body) Shape() *shape.Shape { return b.shape }

// Location returns the shape location.
func (b *Body) Location() physics.Vector2D { return b.shape.Location() }

// SetLocation moves the body without touching its velocity.
func (b *Body) SetLocation(loc physics.Vector2D) { b.shape.SetLocation(loc) }

// Centroid returns the centre of mass.
func (b *Body) Centroid() physics.Vector2D { return b.shape.Centroid() }

// Angle returns the shape rotation in radians.
func (b *Body) Angle() float64 { return b.shape.Angle() }

// SetAngle sets the shape rotation in radians.
func (b *Body) SetAngle(angle float64) { b.shape.SetAngle(angle) }

// Density returns mass per unit area.
func (b *Body) Density() float64 { return b.density }

// SetDensity changes mass per unit area.
func (b *Body) SetDensity(d float64) { b.density = d }

// Mass is density times area.
func (b *Body) Mass() float64 {
	return b.density * b.shape.Area()
}

// MomentOfInertia returns the shape's inertia for the body's mass.
func (b *Body) MomentOfInertia() float64 {
	return b.shape.MomentOfInertia(b.Mass())
}

// Restitution returns the coefficient of restitution, 0 inelastic to 1 elastic.
func (b *Body) Restitution() float64 { return b.restitution }

// SetRestitution sets the coefficient of restitution.
func (b *Body) SetRestitution(r float64) { b.restitution = r }

// Velocity returns the linear velocity.
func (b *Body) Velocity() physics.Vector2D { return b.velocity }

// SetVelocity bypasses the accumulators. Static bodies stay at rest.
func (b *Body) SetVelocity(v physics.Vector2D) {
	if b.static {
		return
	}
	b.velocity = v
}

// AngularVelocity returns the spin in radians per second.
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// SetAngularVelocity sets the spin. Static and non-rotatable bodies
// stay at rest.
func (b *Body) SetAngularVelocity(w float64) {
	if b.static || !b.rotatable {
		return
	}
	b.angularVelocity = w
}

// VelocityAtPoint combines linear velocity and the rotation about the centroid.
func (b *Body) VelocityAtPoint(p physics.Vector2D) physics.Vector2D {
	r := p.Sub(b.Centroid())
	return b.velocity.Add(r.Perp().Scale(b.angularVelocity))
}

// IsStatic reports whether the body is immovable.
func (b *Body) IsStatic() bool { return b.static }

// SetStatic changes mobility. Curve and path bodies cannot leave the
// static state. Becoming static drops all motion.
func (b *Body) SetStatic(static bool) {
	if !static && b.shape.IsStaticOnly() {
		return
	}
	b.static = static
	if static {
		b.velocity = physics.Vector2D{}
		b.angularVelocity = 0
		b.resetAccumulators()
	}
}

// IsInteractive reports whether the body takes part in collision response.
func (b *Body) IsInteractive() bool { return b.interactive }

// SetInteractive toggles collision response; a non-interactive body is a sensor.
func (b *Body) SetInteractive(v bool) { b.interactive = v }

// IsRotatable reports whether forces and impulses may spin the body.
func (b *Body) IsRotatable() bool { return b.rotatable }

// SetRotatable toggles rotation. Rectangle bodies cannot rotate, and
// turning rotation off drops any spin.
func (b *Body) SetRotatable(v bool) {
	b.rotatable = v && b.shape.Kind() != shape.KindRect
	if !b.rotatable {
		b.angularVelocity = 0
		b.torque = 0
		b.angularImpulse = 0
	}
}

// IsGravitational reports whether touching this body can redirect gravity.
func (b *Body) IsGravitational() bool { return b.gravitational }

// SetGravitational toggles whether the body redirects gravity.
func (b *Body) SetGravitational(v bool) { b.gravitational = v }

// Reorients reports whether the body re-orients gravity from its contacts.
func (b *Body) Reorients() bool { return b.reorients }

// SetReorients marks the body as a gravity re-orienting walker.
func (b *Body) SetReorients(v bool) { b.reorients = v }

// IsVisible reports whether renderers should draw the body.
func (b *Body) IsVisible() bool { return b.shape.Style().Visible }

// SetVisible toggles rendering.
func (b *Body) SetVisible(v bool) { b.shape.SetVisible(v) }

// Friction returns the body's own surface friction coefficient, if one was set.
func (b *Body) Friction() (float64, bool) { return b.friction, b.hasFriction }

// SetFriction overrides the world surface friction for this body.
func (b *Body) SetFriction(f float64) {
	b.friction = f
	b.hasFriction = true
}

// Group returns the collision group.
func (b *Body) Group() Group { return b.group }

// SetGroup moves the body into a collision group.
func (b *Body) SetGroup(g Group) { b.group = g }

// ApplyForce accumulates a force acting at a world point until the next
// integration. Static bodies ignore it.
func (b *Body) ApplyForce(f, at physics.Vector2D) {
	if b.static {
		return
	}
	b.force = b.force.Add(f)
	if b.rotatable {
		b.torque += at.Sub(b.Centroid()).Cross(f)
	}
}

// ApplyImpulse accumulates an instantaneous impulse at a world point.
// Static bodies ignore it.
func (b *Body) ApplyImpulse(j, at physics.Vector2D) {
	if b.static {
		return
	}
	b.impulse = b.impulse.Add(j)
	if b.rotatable {
		b.angularImpulse += at.Sub(b.Centroid()).Cross(j)
	}
}

// Force returns the accumulated force.
func (b *Body) Force() physics.Vector2D { return b.force }

// Impulse returns the accumulated impulse.
func (b *Body) Impulse() physics.Vector2D { return b.impulse }

// Integrate advances the body by dt seconds in symplectic order: gravity
// is applied at the centroid, velocity is updated from the accumulated
// force and impulse, then position from the new velocity. Accumulators
// are reset afterwards. Static bodies only reset.
func (b *Body) Integrate(dt float64, env *Environment) {
	if b.static {
		b.resetAccumulators()
		return
	}

	m := b.Mass()
	if env != nil && m > 0 {
		b.ApplyForce(env.Gravity.Scale(m), b.Centroid())
	}

	if m > 0 {
		b.velocity = b.velocity.Add(b.force.Scale(dt).Add(b.impulse).Divide(m))
	}
	b.shape.Translate(b.velocity.Scale(dt))

	if inertia := b.MomentOfInertia(); inertia > 0 {
		b.angularVelocity += (b.torque*dt + b.angularImpulse) / inertia
	}
	if b.rotatable && b.angularVelocity != 0 {
		b.shape.RotateAround(b.Centroid(), b.angularVelocity*dt)
	}

	b.resetAccumulators()
}

func (b *Body) resetAccumulators() {
	b.force = physics.Vector2D{}
	b.impulse = physics.Vector2D{}
	b.torque = 0
	b.angularImpulse = 0
}

// Collisions returns the records gathered during the current step.
func (b *Body) Collisions() []Collision { return b.collisions }

// ClearCollisions forgets the current step's records.
func (b *Body) ClearCollisions() { b.collisions = b.collisions[:0] }

// DidCollide reports whether the body was resolved against anything this step.
func (b *Body) DidCollide() bool { return len(b.collisions) > 0 }

// DidCollideWith reports whether the body was resolved against other this step.
func (b *Body) DidCollideWith(other uint64) bool {
	for _, c := range b.collisions {
		if c.Other == other {
			return true
		}
	}
	return false
}

// Speed returns the magnitude of the linear velocity.
func (b *Body) Speed() float64 { return b.velocity.Length() }

// IsFinite reports whether position and motion are free of NaN and Inf.
func (b *Body) IsFinite() bool {
	return b.Location().IsFinite() && b.velocity.IsFinite() &&
		!math.IsNaN(b.angularVelocity) && !math.IsInf(b.angularVelocity, 0)
}

func (b *Body) String() string {
	if b.Name != "" {
		return fmt.Sprintf("%s(%d)", b.Name, b.ID())
	}
	return fmt.Sprintf("body(%d:%s)", b.ID(), b.shape.Kind())
}
