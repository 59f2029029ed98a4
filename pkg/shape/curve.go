package shape

import (
	"fmt"
	"math"
	"sort"

	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/poly"
)

// DefaultSampleResolution is the number of polyline pieces sampled per curve.
const DefaultSampleResolution = 100

const (
	curveDegree   = 3
	rootTolerance = 1e-7
)

// bernstein5 caches the degree 2n-1 basis used by the nearest point polynomial.
var bernstein5 = func() [2 * curveDegree]poly.Polynomial {
	var basis [2 * curveDegree]poly.Polynomial
	for k := range basis {
		basis[k] = poly.Bernstein(2*curveDegree-1, k)
	}
	return basis
}()

// NewCurve creates a cubic Bézier curve from its four control points.
func NewCurve(start, ctrl1, ctrl2, end physics.Vector2D) *Shape {
	s := newShape(KindCurve, start)
	s.control = [4]physics.Vector2D{start, ctrl1, ctrl2, end}
	s.resolution = DefaultSampleResolution
	s.updateCurve()
	return s
}

// ControlPoints returns start, both control handles and end.
func (s *Shape) ControlPoints() [4]physics.Vector2D {
	return s.control
}

// SetControlPoint replaces control point i (0..3) and resamples the curve.
func (s *Shape) SetControlPoint(i int, p physics.Vector2D) {
	if s.kind != KindCurve || i < 0 || i > 3 {
		return
	}
	s.control[i] = p
	s.updateCurve()
}

// SetResolution changes how many polyline pieces a curve (or every
// curve of a path) is sampled into.
func (s *Shape) SetResolution(n int) {
	if n < 1 {
		n = 1
	}
	switch s.kind {
	case KindCurve:
		s.resolution = n
		s.updateCurve()
	case KindPath:
		for _, c := range s.curves {
			c.SetResolution(n)
		}
	}
}

func (s *Shape) updateCurve() {
	s.location = s.control[0]
	s.segments = s.segments[:0]
	for i := 0; i <= s.resolution; i++ {
		s.segments = append(s.segments, s.CasteljauPoint(float64(i)/float64(s.resolution)))
	}
	s.hull = convexHull(s.control[:])
}

// Segments returns the sampled polyline of a curve, or the joined
// polylines of a path.
func (s *Shape) Segments() []physics.Vector2D {
	switch s.kind {
	case KindCurve:
		return append([]physics.Vector2D(nil), s.segments...)
	case KindPath:
		var out []physics.Vector2D
		for i, c := range s.curves {
			pts := c.segments
			if i > 0 && len(pts) > 0 {
				pts = pts[1:]
			}
			out = append(out, pts...)
		}
		return out
	}
	return nil
}

// Hull returns the convex hull of the control points, or nil when they
// are colinear.
func (s *Shape) Hull() []physics.Vector2D {
	return append([]physics.Vector2D(nil), s.hull...)
}

// Point evaluates the curve at t with the Bernstein form.
func (s *Shape) Point(t float64) physics.Vector2D {
	u := 1 - t
	p := s.control
	return p[0].Scale(u * u * u).
		Add(p[1].Scale(3 * u * u * t)).
		Add(p[2].Scale(3 * u * t * t)).
		Add(p[3].Scale(t * t * t))
}

// CasteljauPoint evaluates the curve at t by repeated interpolation.
func (s *Shape) CasteljauPoint(t float64) physics.Vector2D {
	pts := s.control
	for n := 3; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = pts[i].Lerp(pts[i+1], t)
		}
	}
	return pts[0]
}

// Derivative returns dC/dt.
func (s *Shape) Derivative(t float64) physics.Vector2D {
	u := 1 - t
	p := s.control
	return p[0].Scale(-3 * u * u).
		Add(p[1].Scale(3*u*u - 6*u*t)).
		Add(p[2].Scale(6*u*t - 3*t*t)).
		Add(p[3].Scale(3 * t * t))
}

// SecondDerivative returns d²C/dt².
func (s *Shape) SecondDerivative(t float64) physics.Vector2D {
	u := 1 - t
	p := s.control
	return p[0].Scale(6 * u).
		Add(p[1].Scale(-12 + 18*t)).
		Add(p[2].Scale(6 - 18*t)).
		Add(p[3].Scale(6 * t))
}

// Normal returns the unit left normal at t.
func (s *Shape) Normal(t float64) physics.Vector2D {
	return s.Derivative(t).Normalize().Perp()
}

// Coefficients returns the monomial coefficients of x(t) and y(t),
// highest power first.
func (s *Shape) Coefficients() (x, y [4]float64) {
	p := s.control
	coeff := func(a, b, c, d float64) [4]float64 {
		return [4]float64{
			-a + 3*b - 3*c + d,
			3*a - 6*b + 3*c,
			-3*a + 3*b,
			a,
		}
	}
	return coeff(p[0].X, p[1].X, p[2].X, p[3].X), coeff(p[0].Y, p[1].Y, p[2].Y, p[3].Y)
}

// NearestT returns the curve parameter closest to m. The distance
// derivative (C(t)-M)·C'(t) is expanded in the degree-5 Bernstein basis
// and all of its roots are found; real roots in [0,1] and both end
// points are the candidates.
func (s *Shape) NearestT(m physics.Vector2D) (float64, error) {
	if s.kind != KindCurve {
		return 0, fmt.Errorf("%w: nearest parameter requested on %s", physics.ErrDegenerateGeometry, s.kind)
	}

	n := curveDegree
	var p poly.Polynomial
	for i := 0; i <= n; i++ {
		c := s.control[i].Sub(m)
		for j := 0; j < n; j++ {
			d := s.control[j+1].Sub(s.control[j]).Scale(float64(n))
			z := poly.Choose(n, i) * poly.Choose(n-1, j) / poly.Choose(2*n-1, i+j)
			w := c.Dot(d.Scale(z))
			p = p.Add(bernstein5[i+j].Scale(w))
		}
	}

	roots, err := poly.Roots(p)
	if err != nil {
		return 0, fmt.Errorf("nearest point on curve %d: %w", s.id, err)
	}

	candidates := append(poly.RealRootsIn(roots, 0, 1, rootTolerance), 0, 1)
	best := 0.0
	bestDist := math.Inf(1)
	for _, t := range candidates {
		if d := s.Point(t).DistanceSquared(m); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best, nil
}

// NearestPoint returns the point on the curve (or path) closest to m.
func (s *Shape) NearestPoint(m physics.Vector2D) (physics.Vector2D, error) {
	switch s.kind {
	case KindCurve:
		t, err := s.NearestT(m)
		if err != nil {
			return physics.Vector2D{}, err
		}
		return s.Point(t), nil
	case KindPath:
		var best physics.Vector2D
		bestDist := math.Inf(1)
		for _, c := range s.curves {
			p, err := c.NearestPoint(m)
			if err != nil {
				return physics.Vector2D{}, err
			}
			if d := p.DistanceSquared(m); d < bestDist {
				best, bestDist = p, d
			}
		}
		if math.IsInf(bestDist, 1) {
			return physics.Vector2D{}, fmt.Errorf("%w: empty path", physics.ErrDegenerateGeometry)
		}
		return best, nil
	}
	return physics.Vector2D{}, fmt.Errorf("%w: nearest point requested on %s", physics.ErrDegenerateGeometry, s.kind)
}

// mustNearestT escalates a solver failure. Well formed control points
// never fail, so a failure means the simulation is already corrupt.
func (s *Shape) mustNearestT(m physics.Vector2D) float64 {
	t, err := s.NearestT(m)
	if err != nil {
		logger.Error(bg, "curve root finding failed", err, "shape", s.String())
		panic(err)
	}
	return t
}

// IntersectLine returns the points where the curve crosses the segment a-b.
func (s *Shape) IntersectLine(a, b physics.Vector2D) []physics.Vector2D {
	bx, by := s.Coefficients()

	A := b.Y - a.Y
	B := a.X - b.X
	C := a.X*(a.Y-b.Y) + a.Y*(b.X-a.X)

	roots := poly.SolveCubic(
		A*bx[0]+B*by[0],
		A*bx[1]+B*by[1],
		A*bx[2]+B*by[2],
		A*bx[3]+B*by[3]+C,
	)
	sort.Float64s(roots)

	var out []physics.Vector2D
	dx, dy := b.X-a.X, b.Y-a.Y
	for _, t := range roots {
		if t < -physics.Epsilon || t > 1+physics.Epsilon {
			continue
		}
		pt := s.Point(math.Min(1, math.Max(0, t)))

		var along float64
		if math.Abs(dx) >= math.Abs(dy) {
			if dx == 0 {
				continue
			}
			along = (pt.X - a.X) / dx
		} else {
			along = (pt.Y - a.Y) / dy
		}
		if along < -physics.Epsilon || along > 1+physics.Epsilon {
			continue
		}
		out = append(out, pt)
	}
	return out
}

// curveCircle tests a curve against a circle; mtv moves the curve.
func curveCircle(cv *Shape, center physics.Vector2D, radius float64) contact {
	if cv.hull != nil && !satPolygonCircle(cv.hull, center, radius).hit {
		return miss
	}

	t := cv.mustNearestT(center)
	p := cv.Point(t)
	dist := p.Distance(center)
	if dist > radius {
		return miss
	}

	dir := center.Sub(p).Normalize()
	if dir.IsZero() {
		dir = cv.Normal(t)
	}
	return hitWith(dir.Scale(-(radius - dist)))
}

// curvePolygon tests a curve against a convex ring. The polygon is
// pushed along the curve normal at the contact; mtv moves the curve.
func curvePolygon(cv *Shape, verts []physics.Vector2D) contact {
	if cv.hull != nil && !satPolygons(cv.hull, verts).hit {
		return miss
	}

	type segment struct{ from, to physics.Vector2D }
	var pois []physics.Vector2D
	var pushOut []segment

	for i, src := range verts {
		dst := verts[(i+1)%len(verts)]
		for _, p := range cv.IntersectLine(src, dst) {
			pois = append(pois, p)
			if p.Distance(dst) < p.Distance(src) {
				pushOut = append(pushOut, segment{p, dst})
			} else {
				pushOut = append(pushOut, segment{src, p})
			}
		}
	}
	if len(pois) == 0 {
		return miss
	}

	t := cv.mustNearestT(physics.Average(pois...))
	normal := cv.Normal(t)
	closest := cv.Point(t)

	bestSide := math.Inf(1)
	var side physics.Vector2D
	for i, src := range verts {
		x, ok := physics.LineIntersect(closest, closest.Add(normal), src, verts[(i+1)%len(verts)])
		if !ok {
			continue
		}
		if d := x.DistanceSquared(closest); d < bestSide {
			bestSide, side = d, x
		}
	}
	if !math.IsInf(bestSide, 1) && side.Sub(closest).Dot(normal) < 0 {
		pushOut = append(pushOut, segment{closest, side})
	}

	depth := 0.0
	for _, seg := range pushOut {
		depth = math.Max(depth, math.Abs(seg.to.Sub(seg.from).Dot(normal)))
	}
	if depth == 0 {
		return contact{hit: true}
	}
	return hitWith(normal.Scale(-depth))
}

// curvePolygonPOI averages the edge crossings.
func curvePolygonPOI(cv *Shape, verts []physics.Vector2D) (physics.Vector2D, bool) {
	var pois []physics.Vector2D
	for i, src := range verts {
		pois = append(pois, cv.IntersectLine(src, verts[(i+1)%len(verts)])...)
	}
	if len(pois) == 0 {
		return physics.Vector2D{}, false
	}
	return physics.Average(pois...), true
}

// convexHull returns the counter-clockwise hull of points (monotone
// chain), or nil when it has no area.
func convexHull(points []physics.Vector2D) []physics.Vector2D {
	pts := append([]physics.Vector2D(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b physics.Vector2D) float64 {
		return a.Sub(o).Cross(b.Sub(o))
	}

	hull := make([]physics.Vector2D, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]

	if len(hull) < 3 || math.Abs(signedArea(hull)) < physics.Epsilon {
		return nil
	}
	return hull
}
