package shape

import (
	"math"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Area returns the enclosed area. Curves and paths enclose nothing.
func (s *Shape) Area() float64 {
	switch s.kind {
	case KindCircle:
		return math.Pi * s.radius * s.radius
	case KindRect:
		return 4 * s.halfSize.X * s.halfSize.Y
	case KindPolygon:
		return signedArea(s.vertices)
	case KindCompound:
		total := 0.0
		for _, p := range s.parts {
			total += p.Area()
		}
		return total
	}
	return 0
}

// Centroid returns the centre of area. Compounds weight their parts by
// area; curves use the midpoint of their end points.
func (s *Shape) Centroid() physics.Vector2D {
	switch s.kind {
	case KindCompound:
		return s.compoundCentroid()
	case KindCurve:
		return physics.Average(s.control[0], s.control[3])
	case KindPath:
		centroids := make([]physics.Vector2D, len(s.curves))
		for i, c := range s.curves {
			centroids[i] = c.Centroid()
		}
		return physics.Average(centroids...)
	}
	return s.location
}

func (s *Shape) compoundCentroid() physics.Vector2D {
	if len(s.parts) == 0 {
		return s.location
	}
	var weighted physics.Vector2D
	total := 0.0
	for _, p := range s.parts {
		a := p.Area()
		weighted = weighted.Add(p.Centroid().Scale(a))
		total += a
	}
	if total == 0 {
		centroids := make([]physics.Vector2D, len(s.parts))
		for i, p := range s.parts {
			centroids[i] = p.Centroid()
		}
		return physics.Average(centroids...)
	}
	return weighted.Divide(total)
}

// MomentOfInertia returns the moment of inertia about the centroid for
// the given mass. Curves and paths have none.
func (s *Shape) MomentOfInertia(mass float64) float64 {
	switch s.kind {
	case KindCircle:
		return 0.5 * mass * s.radius * s.radius
	case KindRect, KindPolygon:
		verts := s.convexVertices()
		c := s.Centroid()
		rel := make([]physics.Vector2D, len(verts))
		for i, v := range verts {
			rel[i] = v.Sub(c)
		}
		return polygonInertia(rel, mass)
	case KindCompound:
		total := s.Area()
		if total == 0 {
			return 0
		}
		c := s.Centroid()
		inertia := 0.0
		for _, p := range s.parts {
			m := mass * p.Area() / total
			inertia += p.MomentOfInertia(m) + m*p.Centroid().DistanceSquared(c)
		}
		return inertia
	}
	return 0
}

// Contains reports whether point lies strictly inside the shape.
func (s *Shape) Contains(point physics.Vector2D) bool {
	switch s.kind {
	case KindCircle:
		return s.location.Distance(point) < s.radius
	case KindRect:
		d := point.Sub(s.location)
		return math.Abs(d.X) < s.halfSize.X && math.Abs(d.Y) < s.halfSize.Y
	case KindPolygon:
		return polygonContains(s.vertices, point)
	case KindCompound:
		for _, p := range s.parts {
			if p.Contains(point) {
				return true
			}
		}
	}
	return false
}

// ProjectOnto projects the shape onto axis, which need not be normalized.
func (s *Shape) ProjectOnto(axis physics.Vector2D) physics.Range {
	return NewAxis(axis).Project(s)
}

func signedArea(verts []physics.Vector2D) float64 {
	sum := 0.0
	for i, v := range verts {
		sum += v.Cross(verts[(i+1)%len(verts)])
	}
	return sum / 2
}

func polygonCentroid(verts []physics.Vector2D) physics.Vector2D {
	var c physics.Vector2D
	area := 0.0
	for i, v := range verts {
		next := verts[(i+1)%len(verts)]
		cross := v.Cross(next)
		area += cross
		c = c.Add(v.Add(next).Scale(cross))
	}
	area /= 2
	if area == 0 {
		return physics.Average(verts...)
	}
	return c.Scale(1 / (6 * area))
}

// polygonInertia expects vertices relative to the centroid.
func polygonInertia(rel []physics.Vector2D, mass float64) float64 {
	numerator := 0.0
	denominator := 0.0
	for i, a := range rel {
		b := rel[(i+1)%len(rel)]
		cross := math.Abs(a.Cross(b))
		numerator += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denominator += cross
	}
	if denominator == 0 {
		return 0
	}
	return mass / 6 * numerator / denominator
}

func polygonContains(verts []physics.Vector2D, point physics.Vector2D) bool {
	for i, v := range verts {
		edge := verts[(i+1)%len(verts)].Sub(v)
		if edge.Cross(point.Sub(v)) <= 0 {
			return false
		}
	}
	return len(verts) >= 3
}
