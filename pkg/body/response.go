package body

import (
	"context"
	"math"

	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Contact describes the outcome of Resolve. MTV moved the first body
// out of the second; Point is the estimated contact point.
type Contact struct {
	Hit      bool
	Resolved bool
	MTV      physics.Vector2D
	Point    physics.Vector2D
}

// Resolve runs detection between a and b and, when both are interactive
// and they overlap, separates them and exchanges impulses. Two static
// bodies are never tested. logger may be nil.
func Resolve(a, b *Body, logger *logging.Logger) Contact {
	if a == b || (a.static && b.static) {
		return Contact{}
	}

	if !a.shape.Collides(b.shape) {
		return Contact{}
	}
	c := Contact{Hit: true}
	if a.interactive && b.interactive {
		respond(a, b, &c, logger)
	}
	return c
}

// Collides is Resolve reduced to its detection result.
func (b *Body) Collides(other *Body, logger *logging.Logger) bool {
	return Resolve(b, other, logger).Hit
}

func respond(a, b *Body, c *Contact, logger *logging.Logger) {
	infoA, infoB := a.shape.Info(), b.shape.Info()
	if infoA == nil || infoB == nil {
		debug(logger, "collision without translation", a, b)
		return
	}
	if infoA.MTV.IsZero() || infoB.MTV.IsZero() {
		debug(logger, "collision with zero translation", a, b)
		return
	}
	poi, ok := a.shape.POI(b.shape)
	if !ok {
		debug(logger, "collision without contact point", a, b)
		return
	}

	ma, mb := a.Mass(), b.Mass()
	newA, newB := a.Location(), b.Location()
	if !a.static {
		newA = newA.Add(infoA.MTV.Scale(share(mb, ma, b.static)))
	}
	if !b.static {
		newB = newB.Add(infoB.MTV.Scale(share(ma, mb, a.static)))
	}

	// impulse uses the pre-correction geometry
	j := impulse(a, b, infoA.MTV, poi)

	a.SetLocation(newA)
	b.SetLocation(newB)

	a.ApplyImpulse(j, poi)
	b.ApplyImpulse(j.Negate(), poi)

	a.collisions = append(a.collisions, Collision{MTV: infoA.MTV, Other: b.ID(), Gravitational: b.gravitational})
	b.collisions = append(b.collisions, Collision{MTV: infoB.MTV, Other: a.ID(), Gravitational: a.gravitational})

	c.Resolved = true
	c.MTV = infoA.MTV
	c.Point = poi
}

// share is the fraction of its MTV a body moves: the partner's share of
// the total mass, or all of it against a static partner.
func share(partner, own float64, partnerStatic bool) float64 {
	if partnerStatic {
		return 1
	}
	if total := partner + own; total > 0 {
		return partner / total
	}
	return 0.5
}

// impulse returns the impulse for a; b receives the negation.
func impulse(a, b *Body, mtv, poi physics.Vector2D) physics.Vector2D {
	cor := math.Sqrt(a.restitution * b.restitution)
	n := mtv.Normalize()

	ua := a.velocity.ProjectOnto(mtv)
	ub := b.velocity.ProjectOnto(mtv)
	num := ua.Sub(ub).Scale(-(1 + cor))

	den := a.compliance(n, poi) + b.compliance(n, poi)
	if den <= 0 {
		return physics.Vector2D{}
	}
	return num.Divide(den)
}

// compliance is the body's (r⊥·n)²/I + 1/m term; static bodies add nothing.
func (b *Body) compliance(n, poi physics.Vector2D) float64 {
	if b.static {
		return 0
	}
	m := b.Mass()
	if m <= 0 {
		return 0
	}
	term := 1 / m
	if inertia := b.MomentOfInertia(); inertia > 0 {
		rPerp := b.Centroid().Sub(poi).Perp().Normalize()
		d := rPerp.Dot(n)
		term += d * d / inertia
	}
	return term
}

func debug(logger *logging.Logger, msg string, a, b *Body) {
	if logger == nil {
		return
	}
	logger.Debug(context.Background(), msg,
		"error", physics.ErrMissingCollisionData.Error(),
		"body_a", a.String(),
		"body_b", b.String(),
	)
}
