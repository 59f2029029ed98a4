package poly

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

func TestPolynomial_Eval(t *testing.T) {
	tests := []struct {
		name     string
		p        Polynomial
		x        float64
		expected float64
	}{
		{"constant", Polynomial{4}, 10, 4},
		{"linear", Polynomial{1, 2}, 3, 7},
		{"cubic", Polynomial{-6, 11, -6, 1}, 2, 0},
		{"empty", Polynomial{}, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Eval(tt.x); got != tt.expected {
				t.Errorf("Eval(%v) = %v, expected %v", tt.x, got, tt.expected)
			}
		})
	}
}

func TestPolynomial_Algebra(t *testing.T) {
	p := Polynomial{1, 1}  // 1 + t
	q := Polynomial{-1, 1} // -1 + t

	assert.Equal(t, Polynomial{-1, 0, 1}, p.Mul(q))
	assert.Equal(t, Polynomial{0, 2}, p.Add(q))
	assert.Equal(t, Polynomial{3, 3}, p.Scale(3))
	assert.Equal(t, Polynomial{1, 2, 1}, p.Pow(2))
	assert.Equal(t, Polynomial{2, 2}, p.Pow(2).Derivative())
	assert.Equal(t, 2, p.Pow(2).Degree())
	assert.Equal(t, -1, Polynomial{0, 0}.Degree())
}

func TestPolynomial_Trim(t *testing.T) {
	p := Polynomial{1, 2, 1e-18, -1e-17}
	assert.Equal(t, Polynomial{1, 2}, p.Trim(1e-10))
	assert.Empty(t, Polynomial{0, 0}.Trim(1e-10))
}

func TestChoose(t *testing.T) {
	tests := []struct {
		n, k     int
		expected float64
	}{
		{5, 0, 1}, {5, 1, 5}, {5, 2, 10}, {5, 3, 10}, {5, 5, 1}, {3, 2, 3}, {2, 3, 0}, {4, -1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Choose(tt.n, tt.k), "C(%d,%d)", tt.n, tt.k)
	}
}

func TestBernstein_PartitionOfUnity(t *testing.T) {
	for _, n := range []int{1, 3, 5} {
		sum := Polynomial{}
		for i := 0; i <= n; i++ {
			sum = sum.Add(Bernstein(n, i))
		}
		for _, x := range []float64{0, 0.25, 0.5, 0.9, 1} {
			assert.InDelta(t, 1.0, sum.Eval(x), 1e-12, "n=%d t=%v", n, x)
		}
	}

	assert.InDelta(t, 3*0.5*0.25, Bernstein(3, 1).Eval(0.5), 1e-12)
}

func TestRoots(t *testing.T) {
	t.Run("three_real_roots", func(t *testing.T) {
		roots, err := Roots(Polynomial{-6, 11, -6, 1})
		require.NoError(t, err)
		found := RealRootsIn(roots, -10, 10, 1e-7)
		require.Len(t, found, 3)
		assert.InDelta(t, 1, found[0], 1e-9)
		assert.InDelta(t, 2, found[1], 1e-9)
		assert.InDelta(t, 3, found[2], 1e-9)
	})

	t.Run("complex_pair_filtered", func(t *testing.T) {
		roots, err := Roots(Polynomial{1, 0, 1}) // t^2 + 1
		require.NoError(t, err)
		assert.Len(t, roots, 2)
		assert.Empty(t, RealRootsIn(roots, -10, 10, 1e-7))
	})

	t.Run("interval_filter", func(t *testing.T) {
		roots, err := Roots(Polynomial{-6, 11, -6, 1})
		require.NoError(t, err)
		assert.Len(t, RealRootsIn(roots, 0, 1.5, 1e-7), 1)
	})

	t.Run("noisy_leading_terms_trimmed", func(t *testing.T) {
		roots, err := Roots(Polynomial{-4.5, 9, 1e-16, -2e-16, 1e-17, 3e-17})
		require.NoError(t, err)
		found := RealRootsIn(roots, 0, 1, 1e-7)
		require.Len(t, found, 1)
		assert.InDelta(t, 0.5, found[0], 1e-9)
	})

	t.Run("constant_has_no_roots", func(t *testing.T) {
		roots, err := Roots(Polynomial{3})
		require.NoError(t, err)
		assert.Empty(t, roots)
	})

	t.Run("non_finite_fails", func(t *testing.T) {
		_, err := Roots(Polynomial{math.NaN(), 1})
		require.Error(t, err)
		assert.True(t, errors.Is(err, physics.ErrRootFinding))
	})
}

func TestSolveCubic(t *testing.T) {
	tests := []struct {
		name       string
		a, b, c, d float64
		expected   []float64
	}{
		{"three_distinct", 1, -6, 11, -6, []float64{1, 2, 3}},
		{"single_real", 1, 0, 0, -8, []float64{2}},
		{"double_root", 1, 0, -3, 2, []float64{-2, 1}},
		{"triple_root", 1, -3, 3, -1, []float64{1}},
		{"scaled_leading", 2, -12, 22, -12, []float64{1, 2, 3}},
		{"degenerate_to_quadratic", 0, 1, -3, 2, []float64{1, 2}},
		{"degenerate_to_linear", 0, 0, 2, -1, []float64{0.5}},
		{"no_equation", 0, 0, 0, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots := SolveCubic(tt.a, tt.b, tt.c, tt.d)
			sort.Float64s(roots)
			require.Len(t, roots, len(tt.expected), "roots = %v", roots)
			for i := range roots {
				assert.InDelta(t, tt.expected[i], roots[i], 1e-6)
			}
		})
	}
}

func TestSolveQuadratic(t *testing.T) {
	roots := SolveQuadratic(1, 0, -4)
	sort.Float64s(roots)
	require.Len(t, roots, 2)
	assert.InDelta(t, -2, roots[0], 1e-12)
	assert.InDelta(t, 2, roots[1], 1e-12)

	assert.Empty(t, SolveQuadratic(1, 0, 4))
	assert.Len(t, SolveQuadratic(1, -2, 1), 1)
}

func TestSolveCyclicTridiagonal(t *testing.T) {
	rhs := []float64{6, 12, 18, 24, 30}
	x, err := SolveCyclicTridiagonal(1, 4, 1, rhs)
	require.NoError(t, err)
	require.Len(t, x, len(rhs))

	n := len(rhs)
	for i := range rhs {
		got := x[(i-1+n)%n] + 4*x[i] + x[(i+1)%n]
		assert.InDelta(t, rhs[i], got, 1e-9, "row %d", i)
	}
}
