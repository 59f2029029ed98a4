package shape

import (
	"math"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Ray is a half line starting at a source and pointing through a
// destination point.
type Ray struct {
	src physics.Vector2D
	dst physics.Vector2D
	dir physics.Vector2D
}

// NewRay creates a ray from src through dst.
func NewRay(src, dst physics.Vector2D) Ray {
	return Ray{src: src, dst: dst, dir: dst.Sub(src).Normalize()}
}

// Source returns the ray origin.
func (r Ray) Source() physics.Vector2D { return r.src }

// Destination returns the point the ray was aimed through.
func (r Ray) Destination() physics.Vector2D { return r.dst }

// Direction returns the unit direction.
func (r Ray) Direction() physics.Vector2D { return r.dir }

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) physics.Vector2D {
	return r.src.Add(r.dir.Scale(t))
}

// CastEdge intersects the ray with the edge a-b and returns the distance
// along the ray. Edges the ray does not straddle, and hits behind the
// origin, report false. An end point lying exactly on the ray line
// counts as straddling.
func (r Ray) CastEdge(a, b physics.Vector2D) (float64, bool) {
	if r.dir.IsZero() {
		return 0, false
	}
	ca := a.Sub(r.src).Cross(r.dir)
	cb := b.Sub(r.src).Cross(r.dir)
	if ca*cb > 0 || (ca == 0 && cb == 0) {
		return 0, false
	}
	n := a.Sub(b).Normalize().Perp()
	denom := r.dir.Dot(n)
	if denom == 0 {
		return 0, false
	}
	t := b.Sub(r.src).Dot(n) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}

// Cast returns the first point where the ray meets s.
func (r Ray) Cast(s *Shape) (physics.Vector2D, bool) {
	t, ok := r.castDistance(s)
	if !ok {
		return physics.Vector2D{}, false
	}
	return r.At(t), true
}

// CastNearest casts against every shape and returns the hit closest to
// the origin together with the index of the shape that produced it.
func (r Ray) CastNearest(shapes ...*Shape) (physics.Vector2D, int, bool) {
	best := math.Inf(1)
	index := -1
	for i, s := range shapes {
		if s == nil {
			continue
		}
		if t, ok := r.castDistance(s); ok && t < best {
			best, index = t, i
		}
	}
	if index < 0 {
		return physics.Vector2D{}, -1, false
	}
	return r.At(best), index, true
}

func (r Ray) castDistance(s *Shape) (float64, bool) {
	switch s.kind {
	case KindCircle:
		return r.castCircle(s.location, s.radius)
	case KindRect, KindPolygon:
		return r.castRing(s.convexVertices(), true)
	case KindCurve:
		return r.castRing(s.segments, false)
	case KindCompound, KindPath:
		children := s.parts
		if s.kind == KindPath {
			children = s.curves
		}
		best := math.Inf(1)
		for _, c := range children {
			if t, ok := r.castDistance(c); ok && t < best {
				best = t
			}
		}
		return best, !math.IsInf(best, 1)
	}
	return 0, false
}

// castRing keeps the nearest edge hit; closed rings include the edge
// from the last point back to the first.
func (r Ray) castRing(points []physics.Vector2D, closed bool) (float64, bool) {
	edges := len(points) - 1
	if closed {
		edges = len(points)
	}
	best := math.Inf(1)
	for i := 0; i < edges; i++ {
		if t, ok := r.CastEdge(points[i], points[(i+1)%len(points)]); ok && t < best {
			best = t
		}
	}
	return best, !math.IsInf(best, 1)
}

// castCircle solves the chord: the entry point L - sqrt(r²-x²) from
// outside, the exit point L + sqrt(r²-x²) from inside.
func (r Ray) castCircle(center physics.Vector2D, radius float64) (float64, bool) {
	if r.dir.IsZero() {
		return 0, false
	}
	toCenter := center.Sub(r.src)
	along := toCenter.Dot(r.dir)
	x2 := toCenter.LengthSquared() - along*along
	half2 := radius*radius - x2
	if half2 < 0 {
		return 0, false
	}
	half := math.Sqrt(half2)

	if toCenter.Length() < radius {
		return along + half, true
	}
	if along <= 0 || along-half <= 0 {
		return 0, false
	}
	return along - half, true
}
