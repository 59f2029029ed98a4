// Package shape implements the geometric side of the engine: a single
// tagged-union Shape covering circles, axis-aligned rectangles, convex
// polygons, compounds, cubic Bézier curves and Bézier paths, together
// with the separating axis machinery, the pairwise collision and
// contact point tables and ray casting.
package shape

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// ID identifies a shape for the lifetime of the process.
type ID uint64

var lastID atomic.Uint64

func nextID() ID {
	return ID(lastID.Add(1))
}

// Kind is the variant tag of a Shape.
type Kind uint8

// Shape variants
const (
	KindCircle Kind = iota
	KindRect
	KindPolygon
	KindCompound
	KindCurve
	KindPath
	kindCount
)

var kindNames = [kindCount]string{"circle", "rect", "polygon", "compound", "curve", "path"}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// CollisionInfo is the result of the latest detection call involving a
// shape. MTV translates Owner out of Other.
type CollisionInfo struct {
	Owner ID
	Other ID
	MTV   physics.Vector2D
}

// Shape is one geometric primitive. Only the payload fields belonging to
// its Kind are populated.
type Shape struct {
	id       ID
	kind     Kind
	location physics.Vector2D
	angle    float64
	info     *CollisionInfo
	style    Style

	// circle
	radius float64

	// rect
	halfSize physics.Vector2D

	// polygon: world vertices (CCW) and their offsets from the centroid at angle zero
	vertices []physics.Vector2D
	offsets  []physics.Vector2D

	// compound: components and their placement relative to location at angle zero
	parts       []*Shape
	partOffsets []physics.Vector2D
	partAngles  []float64

	// curve
	control    [4]physics.Vector2D
	segments   []physics.Vector2D
	hull       []physics.Vector2D
	resolution int

	// path
	curves []*Shape
}

func newShape(kind Kind, location physics.Vector2D) *Shape {
	return &Shape{
		id:       nextID(),
		kind:     kind,
		location: location,
		style:    DefaultStyle(),
	}
}

// NewCircle creates a circle centred at center.
func NewCircle(center physics.Vector2D, radius float64) *Shape {
	s := newShape(KindCircle, center)
	s.radius = math.Abs(radius)
	return s
}

// NewRect creates an axis-aligned rectangle from its minimum corner and size.
func NewRect(min, size physics.Vector2D) *Shape {
	half := physics.Vector2D{X: math.Abs(size.X) / 2, Y: math.Abs(size.Y) / 2}
	s := newShape(KindRect, min.Add(half))
	s.halfSize = half
	return s
}

// NewPolygon creates a convex polygon. Clockwise input is re-wound to
// counter-clockwise; fewer than three vertices or zero area is an error.
func NewPolygon(vertices ...physics.Vector2D) (*Shape, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", physics.ErrDegenerateGeometry, len(vertices))
	}

	verts := append([]physics.Vector2D(nil), vertices...)
	area := signedArea(verts)
	if math.Abs(area) < physics.Epsilon {
		return nil, fmt.Errorf("%w: polygon has zero area", physics.ErrDegenerateGeometry)
	}
	if area < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	centroid := polygonCentroid(verts)
	s := newShape(KindPolygon, centroid)
	s.vertices = verts
	s.offsets = make([]physics.Vector2D, len(verts))
	for i, v := range verts {
		s.offsets[i] = v.Sub(centroid)
	}
	return s, nil
}

// NewCompound groups parts around a reference location. Parts keep
// their current placement relative to that location.
func NewCompound(location physics.Vector2D, parts ...*Shape) *Shape {
	s := newShape(KindCompound, location)
	for _, p := range parts {
		if p == nil {
			continue
		}
		s.parts = append(s.parts, p)
		s.partOffsets = append(s.partOffsets, p.Location().Sub(location))
		s.partAngles = append(s.partAngles, p.Angle())
	}
	return s
}

// ID returns the shape's stable identifier.
func (s *Shape) ID() ID {
	return s.id
}

// Kind returns the variant tag.
func (s *Shape) Kind() Kind {
	return s.kind
}

// Info returns the collision info from the latest detection call, or nil.
func (s *Shape) Info() *CollisionInfo {
	return s.info
}

// ClearInfo drops any cached collision info.
func (s *Shape) ClearInfo() {
	s.info = nil
}

// Radius returns the circle radius; zero for other kinds.
func (s *Shape) Radius() float64 {
	return s.radius
}

// Size returns the rectangle dimensions; zero for other kinds.
func (s *Shape) Size() physics.Vector2D {
	return s.halfSize.Scale(2)
}

// Min returns the minimum corner of a rectangle.
func (s *Shape) Min() physics.Vector2D {
	return s.location.Sub(s.halfSize)
}

// Parts returns the components of a compound.
func (s *Shape) Parts() []*Shape {
	return s.parts
}

// Curves returns the curves of a path.
func (s *Shape) Curves() []*Shape {
	return s.curves
}

// Location returns the shape's reference point: the center for circles
// and rectangles, the centroid for polygons, the start point for curves
// and paths and the reference location for compounds.
func (s *Shape) Location() physics.Vector2D {
	return s.location
}

// SetLocation moves the shape so that Location returns loc.
func (s *Shape) SetLocation(loc physics.Vector2D) {
	switch s.kind {
	case KindCircle, KindRect:
		s.location = loc
	case KindPolygon:
		s.location = loc
		s.updateVertices()
	case KindCompound:
		s.location = loc
		s.placeParts()
	case KindCurve:
		delta := loc.Sub(s.control[0])
		for i := range s.control {
			s.control[i] = s.control[i].Add(delta)
		}
		s.updateCurve()
	case KindPath:
		delta := loc.Sub(s.location)
		for _, c := range s.curves {
			c.Translate(delta)
		}
		s.location = loc
	}
}

// Translate moves the shape by delta.
func (s *Shape) Translate(delta physics.Vector2D) {
	s.SetLocation(s.Location().Add(delta))
}

// Angle returns the rotation in radians.
func (s *Shape) Angle() float64 {
	return s.angle
}

// SetAngle sets the rotation in radians. Rectangles, curves and paths
// are never rotated.
func (s *Shape) SetAngle(angle float64) {
	switch s.kind {
	case KindCircle:
		s.angle = angle
	case KindPolygon:
		s.angle = angle
		s.updateVertices()
	case KindCompound:
		s.angle = angle
		s.placeParts()
	}
}

// Rotate adds delta radians to the rotation.
func (s *Shape) Rotate(delta float64) {
	s.SetAngle(s.angle + delta)
}

// RotateAround turns the shape by delta radians about pivot, moving its
// location along. Kinds that SetAngle ignores stay put.
func (s *Shape) RotateAround(pivot physics.Vector2D, delta float64) {
	switch s.kind {
	case KindCircle, KindPolygon, KindCompound:
		s.angle += delta
		s.SetLocation(s.location.RotateAround(pivot, delta))
	}
}

func (s *Shape) updateVertices() {
	for i, off := range s.offsets {
		s.vertices[i] = s.location.Add(off.Rotate(s.angle))
	}
}

func (s *Shape) placeParts() {
	for i, p := range s.parts {
		p.SetLocation(s.location.Add(s.partOffsets[i].Rotate(s.angle)))
		p.SetAngle(s.partAngles[i] + s.angle)
	}
}

// Vertices returns the convex outline of a rectangle or polygon in
// counter-clockwise order. Other kinds return nil.
func (s *Shape) Vertices() []physics.Vector2D {
	switch s.kind {
	case KindRect:
		return rectToPoly(s)
	case KindPolygon:
		return append([]physics.Vector2D(nil), s.vertices...)
	}
	return nil
}

// convexVertices is Vertices without the defensive copy.
func (s *Shape) convexVertices() []physics.Vector2D {
	if s.kind == KindRect {
		return rectToPoly(s)
	}
	return s.vertices
}

// rectToPoly lists rectangle corners counter-clockwise starting at the upper right.
func rectToPoly(s *Shape) []physics.Vector2D {
	min := s.location.Sub(s.halfSize)
	max := s.location.Add(s.halfSize)
	return []physics.Vector2D{
		{X: max.X, Y: max.Y},
		{X: min.X, Y: max.Y},
		{X: min.X, Y: min.Y},
		{X: max.X, Y: min.Y},
	}
}

// Bounds returns the axis-aligned bounding box.
func (s *Shape) Bounds() (min, max physics.Vector2D) {
	switch s.kind {
	case KindCircle:
		r := physics.Vector2D{X: s.radius, Y: s.radius}
		return s.location.Sub(r), s.location.Add(r)
	case KindRect:
		return s.location.Sub(s.halfSize), s.location.Add(s.halfSize)
	case KindPolygon:
		return pointBounds(s.vertices)
	case KindCurve:
		return pointBounds(s.segments)
	case KindCompound, KindPath:
		children := s.parts
		if s.kind == KindPath {
			children = s.curves
		}
		if len(children) == 0 {
			return s.location, s.location
		}
		min, max = children[0].Bounds()
		for _, c := range children[1:] {
			cmin, cmax := c.Bounds()
			min = physics.Vector2D{X: math.Min(min.X, cmin.X), Y: math.Min(min.Y, cmin.Y)}
			max = physics.Vector2D{X: math.Max(max.X, cmax.X), Y: math.Max(max.Y, cmax.Y)}
		}
		return min, max
	}
	return s.location, s.location
}

func pointBounds(points []physics.Vector2D) (min, max physics.Vector2D) {
	if len(points) == 0 {
		return
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// IsStaticOnly reports whether the shape can only belong to static bodies.
func (s *Shape) IsStaticOnly() bool {
	return s.kind == KindCurve || s.kind == KindPath
}

func (s *Shape) String() string {
	return fmt.Sprintf("%s#%d@(%.3f,%.3f)", s.kind, s.id, s.location.X, s.location.Y)
}
