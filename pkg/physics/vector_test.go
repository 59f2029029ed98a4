// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector2D_Arithmetic(t *testing.T) {
	tests := []struct {
		name     string
		result   Vector2D
		expected Vector2D
	}{
		{"add", Vector2D{X: 3, Y: 4}.Add(Vector2D{X: 1, Y: 2}), Vector2D{X: 4, Y: 6}},
		{"sub", Vector2D{X: 5, Y: -3}.Sub(Vector2D{X: -2, Y: 7}), Vector2D{X: 7, Y: -10}},
		{"scale", Vector2D{X: 2, Y: -3}.Scale(2.5), Vector2D{X: 5, Y: -7.5}},
		{"divide", Vector2D{X: 6, Y: -3}.Divide(3), Vector2D{X: 2, Y: -1}},
		{"negate", Vector2D{X: 6, Y: -3}.Negate(), Vector2D{X: -6, Y: 3}},
		{"perp", Vector2D{X: 1, Y: 0}.Perp(), Vector2D{X: 0, Y: 1}},
		{"lerp_half", Vector2D{}.Lerp(Vector2D{X: 4, Y: 2}, 0.5), Vector2D{X: 2, Y: 1}},
		{"average", Average(Vector2D{X: 0, Y: 0}, Vector2D{X: 2, Y: 0}, Vector2D{X: 1, Y: 3}), Vector2D{X: 1, Y: 1}},
		{"average_empty", Average(), Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.result.ApproxEqual(tt.expected, Epsilon) {
				t.Errorf("result = %v, expected %v", tt.result, tt.expected)
			}
		})
	}
}

func TestVector2D_Length(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		expected float64
	}{
		{"three_four_five", Vector2D{X: 3, Y: 4}, 5},
		{"negative", Vector2D{X: -3, Y: -4}, 5},
		{"zero", Vector2D{}, 0},
		{"unit_x", Vector2D{X: 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.v.Length(), Epsilon)
			assert.InDelta(t, tt.expected*tt.expected, tt.v.LengthSquared(), Epsilon)
		})
	}
}

func TestVector2D_Normalize(t *testing.T) {
	v := Vector2D{X: 3, Y: 4}.Normalize()
	assert.InDelta(t, 1.0, v.Length(), Epsilon)
	assert.InDelta(t, 0.6, v.X, Epsilon)
	assert.InDelta(t, 0.8, v.Y, Epsilon)

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		assert.True(t, Vector2D{}.Normalize().IsZero())
	})
}

func TestVector2D_DotCross(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Vector2D
		dot   float64
		cross float64
	}{
		{"orthogonal", Vector2D{X: 1}, Vector2D{Y: 1}, 0, 1},
		{"reversed_orthogonal", Vector2D{Y: 1}, Vector2D{X: 1}, 0, -1},
		{"parallel", Vector2D{X: 2, Y: 2}, Vector2D{X: 1, Y: 1}, 4, 0},
		{"general", Vector2D{X: 3, Y: -1}, Vector2D{X: 2, Y: 5}, 1, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.dot, tt.a.Dot(tt.b), Epsilon)
			assert.InDelta(t, tt.cross, tt.a.Cross(tt.b), Epsilon)
		})
	}
}

func TestVector2D_Rotate(t *testing.T) {
	tests := []struct {
		name     string
		v        Vector2D
		angle    float64
		expected Vector2D
	}{
		{"quarter_turn", Vector2D{X: 1}, math.Pi / 2, Vector2D{Y: 1}},
		{"half_turn", Vector2D{X: 1, Y: 1}, math.Pi, Vector2D{X: -1, Y: -1}},
		{"no_turn", Vector2D{X: 2, Y: 3}, 0, Vector2D{X: 2, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Rotate(tt.angle)
			if !result.ApproxEqual(tt.expected, 1e-12) {
				t.Errorf("Rotate() = %v, expected %v", result, tt.expected)
			}
		})
	}

	t.Run("around_pivot", func(t *testing.T) {
		result := Vector2D{X: 2, Y: 1}.RotateAround(Vector2D{X: 1, Y: 1}, math.Pi/2)
		assert.True(t, result.ApproxEqual(Vector2D{X: 1, Y: 2}, 1e-12), "got %v", result)
	})
}

func TestVector2D_AngleFromAngle(t *testing.T) {
	v := FromAngle(math.Pi/3, 2)
	assert.InDelta(t, math.Pi/3, v.Angle(), Epsilon)
	assert.InDelta(t, 2, v.Length(), Epsilon)
}

func TestVector2D_Projection(t *testing.T) {
	t.Run("onto_axis", func(t *testing.T) {
		p := Vector2D{X: 3, Y: 4}.ProjectOnto(Vector2D{X: 2})
		assert.Equal(t, Vector2D{X: 3}, p)
	})

	t.Run("onto_zero_axis", func(t *testing.T) {
		assert.True(t, Vector2D{X: 3, Y: 4}.ProjectOnto(Vector2D{}).IsZero())
	})

	t.Run("onto_line", func(t *testing.T) {
		p := Vector2D{X: 2, Y: 5}.ProjectOntoLine(Vector2D{X: 0, Y: 1}, Vector2D{X: 4, Y: 1})
		assert.True(t, p.ApproxEqual(Vector2D{X: 2, Y: 1}, Epsilon), "got %v", p)
	})
}

func TestLineIntersect(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector2D
		c, d     Vector2D
		ok       bool
		expected Vector2D
	}{
		{"crossing", Vector2D{X: 0, Y: 0}, Vector2D{X: 1, Y: 0}, Vector2D{X: 5, Y: -1}, Vector2D{X: 5, Y: 1}, true, Vector2D{X: 5}},
		{"line_is_infinite", Vector2D{X: 0, Y: 0}, Vector2D{X: 1, Y: 0}, Vector2D{X: -5, Y: -1}, Vector2D{X: -5, Y: 1}, true, Vector2D{X: -5}},
		{"segment_misses", Vector2D{X: 0, Y: 0}, Vector2D{X: 1, Y: 0}, Vector2D{X: 5, Y: 1}, Vector2D{X: 5, Y: 2}, false, Vector2D{}},
		{"parallel", Vector2D{X: 0, Y: 0}, Vector2D{X: 1, Y: 0}, Vector2D{X: 0, Y: 1}, Vector2D{X: 1, Y: 1}, false, Vector2D{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := LineIntersect(tt.a, tt.b, tt.c, tt.d)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, p.ApproxEqual(tt.expected, Epsilon), "got %v", p)
			}
		})
	}
}

func TestSegmentIntersect(t *testing.T) {
	p, ok := SegmentIntersect(Vector2D{X: 0, Y: 0}, Vector2D{X: 2, Y: 2}, Vector2D{X: 0, Y: 2}, Vector2D{X: 2, Y: 0})
	assert.True(t, ok)
	assert.True(t, p.ApproxEqual(Vector2D{X: 1, Y: 1}, Epsilon))

	_, ok = SegmentIntersect(Vector2D{X: 0, Y: 0}, Vector2D{X: 1, Y: 1}, Vector2D{X: 0, Y: 2}, Vector2D{X: 0.9, Y: 1.1})
	assert.False(t, ok)
}

func TestVector2D_IsFinite(t *testing.T) {
	assert.True(t, Vector2D{X: 1, Y: 2}.IsFinite())
	assert.False(t, Vector2D{X: math.NaN()}.IsFinite())
	assert.False(t, Vector2D{Y: math.Inf(-1)}.IsFinite())
}

func TestRange_Union(t *testing.T) {
	r := Range{Min: 1, Max: 3}.Union(Range{Min: -2, Max: 2})
	assert.Equal(t, Range{Min: -2, Max: 3}, r)
	assert.InDelta(t, 5, r.Length(), Epsilon)
}

func BenchmarkVector2D_Normalize(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Normalize()
	}
}

func BenchmarkVector2D_Rotate(b *testing.B) {
	v := Vector2D{X: 3, Y: 4}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.Rotate(math.Pi / 4)
	}
}
