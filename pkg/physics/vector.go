// pkg/physics/vector.go
package physics

import "math"

// Epsilon is the tolerance used for approximate float comparisons.
const Epsilon = 1e-9

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Divide divides the vector by a scalar value
func (v Vector2D) Divide(divisor float64) Vector2D {
	return Vector2D{
		X: v.X / divisor,
		Y: v.Y / divisor,
	}
}

// Negate returns the vector pointing the opposite way
func (v Vector2D) Negate() Vector2D {
	return Vector2D{X: -v.X, Y: -v.Y}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the same direction.
// The zero vector normalizes to itself.
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// DistanceSquared returns the squared distance between two vectors
func (v Vector2D) DistanceSquared(other Vector2D) float64 {
	return v.Sub(other).LengthSquared()
}

// Angle returns the angle of the vector in radians
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromAngle creates a vector from an angle and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: magnitude * math.Sin(angle),
	}
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of two vectors
func (v Vector2D) Cross(other Vector2D) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Perp returns the left perpendicular (-y, x)
func (v Vector2D) Perp() Vector2D {
	return Vector2D{X: -v.Y, Y: v.X}
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotateAround rotates the vector by angle about pivot
func (v Vector2D) RotateAround(pivot Vector2D, angle float64) Vector2D {
	return v.Sub(pivot).Rotate(angle).Add(pivot)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// ProjectOnto returns the projection of v onto axis.
// Projecting onto the zero vector yields the zero vector.
func (v Vector2D) ProjectOnto(axis Vector2D) Vector2D {
	denom := axis.LengthSquared()
	if denom == 0 {
		return Vector2D{}
	}
	return axis.Scale(v.Dot(axis) / denom)
}

// ProjectOntoLine returns the closest point to v on the infinite line through a and b
func (v Vector2D) ProjectOntoLine(a, b Vector2D) Vector2D {
	return v.Sub(a).ProjectOnto(b.Sub(a)).Add(a)
}

// IsZero reports whether both components are exactly zero
func (v Vector2D) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// IsFinite reports whether neither component is NaN or infinite
func (v Vector2D) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ApproxEqual compares two vectors component-wise within tolerance
func (v Vector2D) ApproxEqual(other Vector2D, tolerance float64) bool {
	return math.Abs(v.X-other.X) <= tolerance && math.Abs(v.Y-other.Y) <= tolerance
}

// Lerp linearly interpolates between v and other
func (v Vector2D) Lerp(other Vector2D, t float64) Vector2D {
	return Vector2D{
		X: v.X + (other.X-v.X)*t,
		Y: v.Y + (other.Y-v.Y)*t,
	}
}

// Average returns the mean of the given points, or the zero vector when empty
func Average(points ...Vector2D) Vector2D {
	if len(points) == 0 {
		return Vector2D{}
	}
	var sum Vector2D
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Divide(float64(len(points)))
}

// LineIntersect intersects the infinite line through a and b with the
// segment from c to d. ok is false for parallel lines or when the
// crossing falls outside the segment.
func LineIntersect(a, b, c, d Vector2D) (point Vector2D, ok bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if denom == 0 {
		return Vector2D{}, false
	}
	u := c.Sub(a).Cross(r) / denom
	if u < 0 || u > 1 {
		return Vector2D{}, false
	}
	return c.Add(s.Scale(u)), true
}

// SegmentIntersect intersects the segments a-b and c-d
func SegmentIntersect(a, b, c, d Vector2D) (point Vector2D, ok bool) {
	r := b.Sub(a)
	s := d.Sub(c)
	denom := r.Cross(s)
	if denom == 0 {
		return Vector2D{}, false
	}
	qp := c.Sub(a)
	t := qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vector2D{}, false
	}
	return a.Add(r.Scale(t)), true
}

// Range is a closed interval produced by projecting a shape onto an axis
type Range struct {
	Min float64
	Max float64
}

// Length returns the width of the range
func (r Range) Length() float64 {
	return r.Max - r.Min
}

// Union returns the smallest range covering both
func (r Range) Union(other Range) Range {
	return Range{Min: math.Min(r.Min, other.Min), Max: math.Max(r.Max, other.Max)}
}
