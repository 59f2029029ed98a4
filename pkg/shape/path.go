package shape

import (
	"fmt"
	"math"

	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/poly"
)

// NewPath chains cubic curves through points laid out as
// start, ctrl, ctrl, knot, ctrl, ctrl, knot, ... Trailing points that do
// not complete a curve are ignored.
func NewPath(points ...physics.Vector2D) (*Shape, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("%w: path needs at least 4 points, got %d", physics.ErrDegenerateGeometry, len(points))
	}
	s := newShape(KindPath, points[0])
	for i := 0; i+3 < len(points); i += 3 {
		s.curves = append(s.curves, NewCurve(points[i], points[i+1], points[i+2], points[i+3]))
	}
	return s, nil
}

// NewClosedPath builds a smooth closed loop of curves through knots.
// Control handles are chosen so that first and second derivatives match
// at every knot.
func NewClosedPath(knots ...physics.Vector2D) (*Shape, error) {
	return smoothPath(knots, true)
}

// NewOpenPath is NewClosedPath without the curve joining the last knot
// back to the first.
func NewOpenPath(knots ...physics.Vector2D) (*Shape, error) {
	return smoothPath(knots, false)
}

func smoothPath(knots []physics.Vector2D, closed bool) (*Shape, error) {
	n := len(knots)
	if n < 3 {
		return nil, fmt.Errorf("%w: smooth path needs at least 3 knots, got %d", physics.ErrDegenerateGeometry, n)
	}

	rhsX := make([]float64, n)
	rhsY := make([]float64, n)
	for i, k := range knots {
		next := knots[(i+1)%n]
		rhsX[i] = 4*k.X + 2*next.X
		rhsY[i] = 4*k.Y + 2*next.Y
	}
	ax, err := poly.SolveCyclicTridiagonal(1, 4, 1, rhsX)
	if err != nil {
		return nil, err
	}
	ay, err := poly.SolveCyclicTridiagonal(1, 4, 1, rhsY)
	if err != nil {
		return nil, err
	}

	a := make([]physics.Vector2D, n)
	b := make([]physics.Vector2D, n)
	for i, k := range knots {
		a[i] = physics.Vector2D{X: ax[i], Y: ay[i]}
		b[i] = k.Scale(2).Sub(a[i])
	}

	last := n
	if !closed {
		last = n - 1
	}
	points := []physics.Vector2D{knots[0]}
	for i := 0; i < last; i++ {
		next := (i + 1) % n
		points = append(points, a[i], b[next], knots[next])
	}
	return NewPath(points...)
}

// closestCurve picks the path curve that answers queries against other:
// among curves whose hull overlaps other, the one nearest to other's
// centroid. Nil when no hull overlaps.
func (s *Shape) closestCurve(other *Shape) *Shape {
	var candidates []*Shape
	for _, c := range s.curves {
		if c.hull == nil || convexOverlaps(c.hull, other) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) <= 1 {
		if len(candidates) == 0 {
			return nil
		}
		return candidates[0]
	}

	target := other.Centroid()
	var best *Shape
	bestDist := math.Inf(1)
	for _, c := range candidates {
		p := c.Point(c.mustNearestT(target))
		if d := p.DistanceSquared(target); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
