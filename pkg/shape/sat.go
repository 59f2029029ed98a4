package shape

import (
	"math"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Axis is a unit direction used for separating axis projections.
type Axis struct {
	dir physics.Vector2D
}

// NewAxis normalizes v into an axis.
func NewAxis(v physics.Vector2D) Axis {
	return Axis{dir: v.Normalize()}
}

// Direction returns the unit direction.
func (a Axis) Direction() physics.Vector2D {
	return a.dir
}

// Project returns the extent of s along the axis.
func (a Axis) Project(s *Shape) physics.Range {
	switch s.kind {
	case KindCircle:
		c := s.location.Dot(a.dir)
		return physics.Range{Min: c - s.radius, Max: c + s.radius}
	case KindRect, KindPolygon:
		return a.projectPoints(s.convexVertices())
	case KindCurve:
		return a.projectPoints(s.control[:])
	case KindCompound, KindPath:
		children := s.parts
		if s.kind == KindPath {
			children = s.curves
		}
		if len(children) == 0 {
			c := s.location.Dot(a.dir)
			return physics.Range{Min: c, Max: c}
		}
		r := a.Project(children[0])
		for _, child := range children[1:] {
			r = r.Union(a.Project(child))
		}
		return r
	}
	return physics.Range{}
}

func (a Axis) projectPoints(points []physics.Vector2D) physics.Range {
	r := physics.Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, p := range points {
		d := p.Dot(a.dir)
		r.Min = math.Min(r.Min, d)
		r.Max = math.Max(r.Max, d)
	}
	return r
}

func (a Axis) projectCircle(center physics.Vector2D, radius float64) physics.Range {
	c := center.Dot(a.dir)
	return physics.Range{Min: c - radius, Max: c + radius}
}

func isOverlapping(a, b physics.Range) bool {
	return a.Min < b.Max && b.Min < a.Max
}

// intervalMTV returns the signed distance that moves range a out of
// range b along the axis, choosing the shallower side.
func intervalMTV(a, b physics.Range) (float64, bool) {
	if !isOverlapping(a, b) {
		return 0, false
	}
	right := b.Max - a.Min
	left := a.Max - b.Min
	if right < left {
		return right, true
	}
	return -left, true
}

// edgeNormals returns the (unnormalized) left normal of every edge.
func edgeNormals(verts []physics.Vector2D) []physics.Vector2D {
	normals := make([]physics.Vector2D, len(verts))
	for i, v := range verts {
		normals[i] = verts[(i+1)%len(verts)].Sub(v).Perp()
	}
	return normals
}

// contact is the outcome of a pure pair test. mtv translates the first
// operand out of the second; the second operand takes the negation.
// resolvable is false when the shapes touch but no translation could be
// derived.
type contact struct {
	hit        bool
	resolvable bool
	mtv        physics.Vector2D
}

var miss = contact{}

func hitWith(mtv physics.Vector2D) contact {
	return contact{hit: true, resolvable: true, mtv: mtv}
}

func (c contact) flipped() contact {
	c.mtv = c.mtv.Negate()
	return c
}

// satPolygons tests two convex vertex rings.
func satPolygons(a, b []physics.Vector2D) contact {
	best := math.Inf(1)
	var mtv physics.Vector2D
	for _, set := range [2][]physics.Vector2D{a, b} {
		for _, n := range edgeNormals(set) {
			if n.IsZero() {
				continue
			}
			axis := NewAxis(n)
			d, ok := intervalMTV(axis.projectPoints(a), axis.projectPoints(b))
			if !ok {
				return miss
			}
			if math.Abs(d) < best {
				best = math.Abs(d)
				mtv = axis.dir.Scale(d)
			}
		}
	}
	if math.IsInf(best, 1) {
		return miss
	}
	return hitWith(mtv)
}

// satPolygonCircle tests a convex ring against a circle. The returned
// mtv moves the polygon.
func satPolygonCircle(verts []physics.Vector2D, center physics.Vector2D, radius float64) contact {
	axes := edgeNormals(verts)

	closest := verts[0]
	for _, v := range verts[1:] {
		if v.DistanceSquared(center) < closest.DistanceSquared(center) {
			closest = v
		}
	}
	axes = append(axes, closest.Sub(center))

	best := math.Inf(1)
	var circleMTV physics.Vector2D
	for _, n := range axes {
		if n.IsZero() {
			continue
		}
		axis := NewAxis(n)
		d, ok := intervalMTV(axis.projectCircle(center, radius), axis.projectPoints(verts))
		if !ok {
			return miss
		}
		if math.Abs(d) < best {
			best = math.Abs(d)
			circleMTV = axis.dir.Scale(d)
		}
	}
	if math.IsInf(best, 1) {
		return miss
	}
	return hitWith(circleMTV.Negate())
}

// satCircles tests two circles. The returned mtv moves the first.
func satCircles(ca physics.Vector2D, ra float64, cb physics.Vector2D, rb float64) contact {
	d := cb.Sub(ca)
	dist := d.Length()
	if dist >= ra+rb {
		return miss
	}
	dir := d.Normalize()
	if dir.IsZero() {
		dir = physics.Vector2D{Y: 1}
	}
	return hitWith(dir.Scale(dist - (ra + rb)))
}

// convexOverlaps reports whether a convex ring overlaps other, without
// computing a translation. It backs the curve hull pre-filter.
func convexOverlaps(verts []physics.Vector2D, other *Shape) bool {
	switch other.kind {
	case KindCircle:
		return satPolygonCircle(verts, other.location, other.radius).hit
	case KindRect, KindPolygon:
		return satPolygons(verts, other.convexVertices()).hit
	case KindCompound:
		for _, p := range other.parts {
			if convexOverlaps(verts, p) {
				return true
			}
		}
	}
	return false
}
