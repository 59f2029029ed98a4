package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

func TestRay_CastEdge(t *testing.T) {
	r := NewRay(vec(0, 0), vec(1, 0))

	tests := []struct {
		name     string
		a, b     physics.Vector2D
		expected float64
		hit      bool
	}{
		{"crossing", vec(2, -1), vec(2, 1), 2, true},
		{"behind", vec(-2, -1), vec(-2, 1), 0, false},
		{"not_straddling", vec(2, 1), vec(3, 2), 0, false},
		{"endpoint_on_ray", vec(2, 0), vec(3, 2), 2, true},
		{"colinear", vec(1, 0), vec(3, 0), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := r.CastEdge(tt.a, tt.b)
			assert.Equal(t, tt.hit, ok)
			assert.InDelta(t, tt.expected, d, tolerance)
		})
	}
}

func TestRay_Polygons(t *testing.T) {
	a := square(t, 0, 0, 2)
	b := square(t, 1, 0, 2)
	r := NewRay(vec(-5, 1), vec(0, 1))

	t.Run("nearest_of_overlapping", func(t *testing.T) {
		p, idx, ok := r.CastNearest(b, a)
		require.True(t, ok)
		assert.Equal(t, 1, idx)
		assertVec(t, vec(0, 1), p, tolerance)
	})

	t.Run("from_inside_hits_exit", func(t *testing.T) {
		p, ok := NewRay(vec(1, 1), vec(5, 1)).Cast(a)
		require.True(t, ok)
		assertVec(t, vec(2, 1), p, tolerance)
	})

	t.Run("pointing_away", func(t *testing.T) {
		_, ok := NewRay(vec(-5, 1), vec(-6, 1)).Cast(a)
		assert.False(t, ok)
	})

	t.Run("through_corner", func(t *testing.T) {
		p, ok := NewRay(vec(-1, -1), vec(0, 0)).Cast(a)
		require.True(t, ok)
		assertVec(t, vec(0, 0), p, 1e-9)
	})

	t.Run("rect", func(t *testing.T) {
		p, ok := r.Cast(NewRect(vec(3, 0), vec(1, 4)))
		require.True(t, ok)
		assertVec(t, vec(3, 1), p, tolerance)
	})

	t.Run("nothing", func(t *testing.T) {
		_, idx, ok := NewRay(vec(0, 10), vec(1, 10)).CastNearest(a, b, nil)
		assert.False(t, ok)
		assert.Equal(t, -1, idx)
	})
}

func TestRay_Circle(t *testing.T) {
	c := NewCircle(vec(0, 0), 1)

	tests := []struct {
		name     string
		src, dst physics.Vector2D
		expected physics.Vector2D
		hit      bool
	}{
		{"from_outside", vec(-5, 0), vec(0, 0), vec(-1, 0), true},
		{"from_center", vec(0, 0), vec(1, 0), vec(1, 0), true},
		{"from_inside_off_center", vec(0.5, 0), vec(2, 0), vec(1, 0), true},
		{"from_inside_backwards", vec(0.5, 0), vec(-2, 0), vec(-1, 0), true},
		{"passing_by", vec(-5, 3), vec(0, 3), physics.Vector2D{}, false},
		{"circle_behind", vec(5, 0), vec(10, 0), physics.Vector2D{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := NewRay(tt.src, tt.dst).Cast(c)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assertVec(t, tt.expected, p, 1e-9)
			}
		})
	}
}

func TestRay_CurvesAndCompounds(t *testing.T) {
	t.Run("curve", func(t *testing.T) {
		p, ok := NewRay(vec(0.5, 5), vec(0.5, 0)).Cast(archCurve())
		require.True(t, ok)
		assertVec(t, vec(0.5, 0.75), p, 1e-3)
	})

	t.Run("path_nearest_curve", func(t *testing.T) {
		path := twoSegmentPath(t)
		p, ok := NewRay(vec(5, 1), vec(0, 1)).Cast(path)
		require.True(t, ok)
		assertVec(t, vec(3, 1), p, 1e-9)
	})

	t.Run("compound_nearest_part", func(t *testing.T) {
		comp := NewCompound(vec(0, 0), NewCircle(vec(10, 0), 1), NewRect(vec(4, -1), vec(1, 2)))
		p, ok := NewRay(vec(0, 0), vec(1, 0)).Cast(comp)
		require.True(t, ok)
		assertVec(t, vec(4, 0), p, tolerance)
	})
}

func TestRay_Accessors(t *testing.T) {
	r := NewRay(vec(1, 1), vec(1, 4))
	assertVec(t, vec(1, 1), r.Source(), tolerance)
	assertVec(t, vec(1, 4), r.Destination(), tolerance)
	assertVec(t, vec(0, 1), r.Direction(), tolerance)
	assertVec(t, vec(1, 3), r.At(2), tolerance)
}
