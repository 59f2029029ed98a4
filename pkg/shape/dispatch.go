package shape

import (
	"github.com/opd-ai/go-gravidog/pkg/physics"
)

type (
	pairFunc func(a, b *Shape) contact
	poiFunc  func(a, b *Shape) (physics.Vector2D, bool)
)

// collideTable and poiTable hold one entry for every ordered pair of
// kinds. Entries below the diagonal are the mirrored form of the ones
// above it.
var (
	collideTable [kindCount][kindCount]pairFunc
	poiTable     [kindCount][kindCount]poiFunc
)

func init() {
	set := func(a, b Kind, collide pairFunc, poi poiFunc) {
		collideTable[a][b] = collide
		poiTable[a][b] = poi
		if a != b {
			collideTable[b][a] = mirror(collide)
			poiTable[b][a] = mirrorPOI(poi)
		}
	}

	set(KindCircle, KindCircle, collideCircles, poiCircles)
	set(KindRect, KindCircle, collideConvexCircle, poiConvexCircle)
	set(KindPolygon, KindCircle, collideConvexCircle, poiConvexCircle)
	set(KindRect, KindRect, collideConvex, poiConvex)
	set(KindRect, KindPolygon, collideConvex, poiConvex)
	set(KindPolygon, KindPolygon, collideConvex, poiConvex)

	for k := Kind(0); k < kindCount; k++ {
		set(KindCompound, k, collideCompound, poiCompound)
	}

	set(KindCurve, KindCircle, collideCurveCircle, poiCurveCircle)
	set(KindCurve, KindRect, collideCurveConvex, poiCurveConvex)
	set(KindCurve, KindPolygon, collideCurveConvex, poiCurveConvex)
	set(KindCurve, KindCurve, collideNever, poiNever)

	for _, k := range []Kind{KindCircle, KindRect, KindPolygon, KindCompound} {
		set(KindPath, k, collidePath, poiPath)
	}
	set(KindPath, KindCurve, collideNever, poiNever)
	set(KindPath, KindPath, collideNever, poiNever)
}

func mirror(f pairFunc) pairFunc {
	return func(a, b *Shape) contact {
		return f(b, a).flipped()
	}
}

func mirrorPOI(f poiFunc) poiFunc {
	return func(a, b *Shape) (physics.Vector2D, bool) {
		return f(b, a)
	}
}

// Collides runs the pair algorithm for s and other. Both shapes' cached
// collision info is cleared first and, on a resolvable hit, replaced by
// mutually opposite translations.
func (s *Shape) Collides(other *Shape) bool {
	s.info, other.info = nil, nil
	if s == other {
		return false
	}
	c := collideTable[s.kind][other.kind](s, other)
	if c.hit && c.resolvable {
		s.info = &CollisionInfo{Owner: s.id, Other: other.id, MTV: c.mtv}
		other.info = &CollisionInfo{Owner: other.id, Other: s.id, MTV: c.mtv.Negate()}
	}
	return c.hit
}

// POI estimates the contact point between s and other. ok is false when
// the shapes do not touch or no point can be derived.
func (s *Shape) POI(other *Shape) (physics.Vector2D, bool) {
	if s == other {
		return physics.Vector2D{}, false
	}
	return poiTable[s.kind][other.kind](s, other)
}

func (s *Shape) collidesKind(other *Shape, k Kind) bool {
	if other.kind != k {
		return false
	}
	return s.Collides(other)
}

func (s *Shape) poiKind(other *Shape, k Kind) (physics.Vector2D, bool) {
	if other.kind != k {
		return physics.Vector2D{}, false
	}
	return s.POI(other)
}

// CollidesCircle is Collides restricted to a circle operand.
func (s *Shape) CollidesCircle(c *Shape) bool { return s.collidesKind(c, KindCircle) }

// CollidesRect is Collides restricted to a rectangle operand.
func (s *Shape) CollidesRect(r *Shape) bool { return s.collidesKind(r, KindRect) }

// CollidesPolygon is Collides restricted to a polygon operand.
func (s *Shape) CollidesPolygon(p *Shape) bool { return s.collidesKind(p, KindPolygon) }

// CollidesCompound is Collides restricted to a compound operand.
func (s *Shape) CollidesCompound(c *Shape) bool { return s.collidesKind(c, KindCompound) }

// CollidesCurve is Collides restricted to a curve operand.
func (s *Shape) CollidesCurve(c *Shape) bool { return s.collidesKind(c, KindCurve) }

// CollidesPath is Collides restricted to a path operand.
func (s *Shape) CollidesPath(p *Shape) bool { return s.collidesKind(p, KindPath) }

// POICircle is POI restricted to a circle operand.
func (s *Shape) POICircle(c *Shape) (physics.Vector2D, bool) { return s.poiKind(c, KindCircle) }

// POIRect is POI restricted to a rectangle operand.
func (s *Shape) POIRect(r *Shape) (physics.Vector2D, bool) { return s.poiKind(r, KindRect) }

// POIPolygon is POI restricted to a polygon operand.
func (s *Shape) POIPolygon(p *Shape) (physics.Vector2D, bool) { return s.poiKind(p, KindPolygon) }

// POICompound is POI restricted to a compound operand.
func (s *Shape) POICompound(c *Shape) (physics.Vector2D, bool) { return s.poiKind(c, KindCompound) }

// POICurve is POI restricted to a curve operand.
func (s *Shape) POICurve(c *Shape) (physics.Vector2D, bool) { return s.poiKind(c, KindCurve) }

// POIPath is POI restricted to a path operand.
func (s *Shape) POIPath(p *Shape) (physics.Vector2D, bool) { return s.poiKind(p, KindPath) }

func collideNever(_, _ *Shape) contact { return miss }

func poiNever(_, _ *Shape) (physics.Vector2D, bool) { return physics.Vector2D{}, false }

func collideCircles(a, b *Shape) contact {
	return satCircles(a.location, a.radius, b.location, b.radius)
}

func poiCircles(a, b *Shape) (physics.Vector2D, bool) {
	if !satCircles(a.location, a.radius, b.location, b.radius).hit {
		return physics.Vector2D{}, false
	}
	return a.location.Add(b.location.Sub(a.location).Scale(b.radius / (a.radius + b.radius))), true
}

func collideConvexCircle(p, c *Shape) contact {
	return satPolygonCircle(p.convexVertices(), c.location, c.radius)
}

func poiConvexCircle(p, c *Shape) (physics.Vector2D, bool) {
	hit := satPolygonCircle(p.convexVertices(), c.location, c.radius)
	if !hit.hit {
		return physics.Vector2D{}, false
	}
	return c.location.Add(hit.mtv.Normalize().Scale(c.radius)), true
}

func collideConvex(a, b *Shape) contact {
	return satPolygons(a.convexVertices(), b.convexVertices())
}

// poiConvex averages the vertices of each ring that lie inside the other.
func poiConvex(a, b *Shape) (physics.Vector2D, bool) {
	va, vb := a.convexVertices(), b.convexVertices()
	var inside []physics.Vector2D
	for _, v := range va {
		if polygonContains(vb, v) {
			inside = append(inside, v)
		}
	}
	for _, v := range vb {
		if polygonContains(va, v) {
			inside = append(inside, v)
		}
	}
	if len(inside) == 0 {
		return physics.Vector2D{}, false
	}
	return physics.Average(inside...), true
}

// collideCompound reports the first component that hits other.
func collideCompound(c, other *Shape) contact {
	for _, p := range c.parts {
		if hit := collideTable[p.kind][other.kind](p, other); hit.hit {
			return hit
		}
	}
	return miss
}

func poiCompound(c, other *Shape) (physics.Vector2D, bool) {
	for _, p := range c.parts {
		if poi, ok := poiTable[p.kind][other.kind](p, other); ok {
			return poi, true
		}
	}
	return physics.Vector2D{}, false
}

func collideCurveCircle(cv, c *Shape) contact {
	return curveCircle(cv, c.location, c.radius)
}

func poiCurveCircle(cv, c *Shape) (physics.Vector2D, bool) {
	if cv.hull != nil && !satPolygonCircle(cv.hull, c.location, c.radius).hit {
		return physics.Vector2D{}, false
	}
	return cv.Point(cv.mustNearestT(c.location)), true
}

func collideCurveConvex(cv, p *Shape) contact {
	return curvePolygon(cv, p.convexVertices())
}

func poiCurveConvex(cv, p *Shape) (physics.Vector2D, bool) {
	return curvePolygonPOI(cv, p.convexVertices())
}

func collidePath(path, other *Shape) contact {
	cv := path.closestCurve(other)
	if cv == nil {
		return miss
	}
	return collideTable[KindCurve][other.kind](cv, other)
}

func poiPath(path, other *Shape) (physics.Vector2D, bool) {
	cv := path.closestCurve(other)
	if cv == nil {
		return physics.Vector2D{}, false
	}
	return poiTable[KindCurve][other.kind](cv, other)
}
