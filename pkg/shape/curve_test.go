package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

func straightCurve() *Shape {
	return NewCurve(vec(0, 0), vec(1, 0), vec(2, 0), vec(3, 0))
}

func archCurve() *Shape {
	return NewCurve(vec(0, 0), vec(0, 1), vec(1, 1), vec(1, 0))
}

func TestCurve_Evaluation(t *testing.T) {
	cv := archCurve()
	assertVec(t, vec(0.5, 0.75), cv.Point(0.5), tolerance)

	for _, tt := range []float64{0, 0.1, 0.33, 0.5, 0.8, 1} {
		assertVec(t, cv.Point(tt), cv.CasteljauPoint(tt), 1e-12)
	}

	x, y := cv.Coefficients()
	assert.Equal(t, [4]float64{-2, 3, 0, 0}, x)
	assert.Equal(t, [4]float64{0, -3, 3, 0}, y)

	line := straightCurve()
	assertVec(t, vec(3, 0), line.Derivative(0.3), tolerance)
	assertVec(t, vec(0, 0), line.SecondDerivative(0.7), tolerance)
	assertVec(t, vec(0, 1), line.Normal(0.5), tolerance)
	assertVec(t, vec(1.5, 0), line.Point(0.5), tolerance)
}

func TestCurve_Hull(t *testing.T) {
	assert.Nil(t, straightCurve().Hull())

	hull := archCurve().Hull()
	require.Len(t, hull, 4)
	assert.InDelta(t, 1, signedArea(hull), tolerance)
}

func TestCurve_Sampling(t *testing.T) {
	cv := archCurve()
	assert.Len(t, cv.Segments(), DefaultSampleResolution+1)

	cv.SetResolution(10)
	segs := cv.Segments()
	require.Len(t, segs, 11)
	assertVec(t, cv.Point(0.5), segs[5], 1e-12)

	cv.SetControlPoint(3, vec(2, 0))
	assertVec(t, vec(2, 0), cv.Segments()[10], 1e-12)
}

func TestNearestPoint_StraightCurve(t *testing.T) {
	cv := straightCurve()

	tests := []struct {
		name     string
		point    physics.Vector2D
		expected physics.Vector2D
	}{
		{"on_line_near_start", vec(0.3, 0), vec(0.3, 0)},
		{"on_line_middle", vec(1.5, 0), vec(1.5, 0)},
		{"on_line_near_end", vec(2.9, 0), vec(2.9, 0)},
		{"above", vec(1.5, 2), vec(1.5, 0)},
		{"below", vec(0.75, -4), vec(0.75, 0)},
		{"beyond_end", vec(5, 1), vec(3, 0)},
		{"before_start", vec(-2, -2), vec(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := cv.NearestPoint(tt.point)
			require.NoError(t, err)
			assertVec(t, tt.expected, p, 1e-6)
		})
	}
}

func TestNearestPoint_Arch(t *testing.T) {
	cv := archCurve()
	tt, err := cv.NearestT(vec(0.5, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tt, 1e-6)

	p, err := cv.NearestPoint(vec(1.2, -0.3))
	require.NoError(t, err)
	assertVec(t, vec(1, 0), p, 1e-6)
}

func TestNearestT_WrongKind(t *testing.T) {
	_, err := NewCircle(vec(0, 0), 1).NearestT(vec(1, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, physics.ErrDegenerateGeometry))

	_, err = NewCircle(vec(0, 0), 1).NearestPoint(vec(1, 1))
	assert.Error(t, err)
}

func TestIntersectLine(t *testing.T) {
	cv := archCurve()

	t.Run("horizontal_two_crossings", func(t *testing.T) {
		pts := cv.IntersectLine(vec(-1, 0.5), vec(2, 0.5))
		require.Len(t, pts, 2)
		assert.InDelta(t, 0.5, pts[0].Y, 1e-9)
		assert.InDelta(t, 0.5, pts[1].Y, 1e-9)
		assert.InDelta(t, 1, pts[0].X+pts[1].X, 1e-9)
		assert.Less(t, pts[0].X, pts[1].X)
	})

	t.Run("vertical_single_crossing", func(t *testing.T) {
		pts := cv.IntersectLine(vec(0.5, -1), vec(0.5, 2))
		require.Len(t, pts, 1)
		assertVec(t, vec(0.5, 0.75), pts[0], 1e-9)
	})

	t.Run("segment_too_short", func(t *testing.T) {
		assert.Empty(t, cv.IntersectLine(vec(2, 0.5), vec(3, 0.5)))
	})

	t.Run("above_the_curve", func(t *testing.T) {
		assert.Empty(t, cv.IntersectLine(vec(-1, 0.9), vec(2, 0.9)))
	})
}

func TestCollides_CurveCircle(t *testing.T) {
	tests := []struct {
		name     string
		curve    *Shape
		circle   *Shape
		hit      bool
		expected physics.Vector2D
	}{
		{"touching_top", archCurve(), NewCircle(vec(0.5, 1.2), 0.5), true, vec(0, 0.05)},
		{"outside_hull", archCurve(), NewCircle(vec(0.5, 3), 0.5), false, physics.Vector2D{}},
		{"inside_hull_clear_of_curve", archCurve(), NewCircle(vec(0.5, 0.3), 0.1), false, physics.Vector2D{}},
		{"straight_curve_without_hull", straightCurve(), NewCircle(vec(1.5, 0.5), 1), true, vec(0, 0.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, tt.circle.CollidesCurve(tt.curve))
			if !tt.hit {
				assert.Nil(t, tt.circle.Info())
				return
			}
			require.NotNil(t, tt.circle.Info())
			assertVec(t, tt.expected, tt.circle.Info().MTV, 1e-6)
			assertVec(t, tt.expected.Negate(), tt.curve.Info().MTV, 1e-6)

			poi, ok := tt.curve.POI(tt.circle)
			require.True(t, ok)
			assert.InDelta(t, tt.circle.Radius()-tt.expected.Length(), poi.Distance(tt.circle.Location()), 1e-6)
		})
	}
}

func TestCollides_CurvePolygon(t *testing.T) {
	t.Run("straddling_the_crest", func(t *testing.T) {
		cv := archCurve()
		box := NewRect(vec(0.4, 0.7), vec(0.2, 0.2))
		require.True(t, box.CollidesCurve(cv))
		require.NotNil(t, box.Info())
		assertVec(t, vec(0, 0.05), box.Info().MTV, 1e-6)
		assertVec(t, vec(0, -0.05), cv.Info().MTV, 1e-6)

		poi, ok := box.POI(cv)
		require.True(t, ok)
		assert.InDelta(t, 0.5, poi.X, 1e-6)
	})

	t.Run("outside_hull", func(t *testing.T) {
		cv := archCurve()
		box := square(t, 3, 3, 1)
		assert.False(t, cv.Collides(box))
		_, ok := cv.POI(box)
		assert.False(t, ok)
	})

	t.Run("vertex_touching_leaves_no_translation", func(t *testing.T) {
		cv := NewCurve(vec(0, 0), vec(1, 0), vec(2, 0), vec(3, 0))
		tri := mustPolygon(t, vec(1.5, 0), vec(2.5, 1), vec(0.5, 1))
		require.True(t, cv.Collides(tri))
		assert.Nil(t, cv.Info())
		assert.Nil(t, tri.Info())

		poi, ok := cv.POI(tri)
		require.True(t, ok)
		assertVec(t, vec(1.5, 0), poi, 1e-6)
	})

	t.Run("inside_hull_under_curve", func(t *testing.T) {
		cv := archCurve()
		box := square(t, 0.45, 0.1, 0.1)
		assert.False(t, cv.Collides(box))
	})
}

func TestConvexHull(t *testing.T) {
	hull := convexHull([]physics.Vector2D{vec(0, 0), vec(2, 0), vec(1, 1), vec(2, 2), vec(0, 2)})
	require.Len(t, hull, 4)
	assert.InDelta(t, 4, signedArea(hull), tolerance)

	assert.Nil(t, convexHull([]physics.Vector2D{vec(0, 0), vec(1, 1), vec(2, 2), vec(3, 3)}))
}
