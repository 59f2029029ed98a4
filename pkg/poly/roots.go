package poly

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

const (
	// trimTolerance is relative to the largest coefficient.
	trimTolerance = 1e-10
	// equationEpsilon decides when a discriminant or coefficient counts as zero.
	equationEpsilon = 1e-9
)

// Roots returns all complex roots of p as eigenvalues of its companion
// matrix. Constant and zero polynomials have no roots. A failed
// decomposition returns an error wrapping physics.ErrRootFinding.
func Roots(p Polynomial) ([]complex128, error) {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient in %v", physics.ErrRootFinding, p)
		}
	}

	p = p.Trim(trimTolerance)
	n := len(p) - 1
	if n < 1 {
		return nil, nil
	}

	lead := p[n]
	companion := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		companion.Set(i, i-1, 1)
	}
	for i := 0; i < n; i++ {
		companion.Set(i, n-1, -p[i]/lead)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition of degree %d companion matrix", physics.ErrRootFinding, n)
	}
	return eig.Values(nil), nil
}

// RealRootsIn filters roots to real values (imaginary part within tol)
// lying in [lo, hi], returned in ascending order.
func RealRootsIn(roots []complex128, lo, hi, tol float64) []float64 {
	var out []float64
	for _, r := range roots {
		if math.Abs(imag(r)) > tol || cmplx.IsNaN(r) {
			continue
		}
		x := real(r)
		if x < lo-tol || x > hi+tol {
			continue
		}
		out = append(out, math.Min(hi, math.Max(lo, x)))
	}
	sort.Float64s(out)
	return out
}

func isZero(x float64) bool {
	return x > -equationEpsilon && x < equationEpsilon
}

// SolveLinear returns the root of b*t + c = 0, if any.
func SolveLinear(b, c float64) []float64 {
	if isZero(b) {
		return nil
	}
	return []float64{-c / b}
}

// SolveQuadratic returns the real roots of a*t^2 + b*t + c = 0.
func SolveQuadratic(a, b, c float64) []float64 {
	if isZero(a) {
		return SolveLinear(b, c)
	}
	disc := b*b - 4*a*c
	switch {
	case isZero(disc):
		return []float64{-b / (2 * a)}
	case disc < 0:
		return nil
	}
	sq := math.Sqrt(disc)
	q := -0.5 * (b + math.Copysign(sq, b))
	r1 := q / a
	if q == 0 {
		return []float64{r1}
	}
	return []float64{r1, c / q}
}

// SolveCubic returns the real roots of a*t^3 + b*t^2 + c*t + d = 0 using
// Cardano's formula: the trigonometric branch when there are three
// distinct real roots, radicals otherwise. A vanishing leading
// coefficient falls back to the quadratic and linear cases.
func SolveCubic(a, b, c, d float64) []float64 {
	scale := math.Max(math.Abs(b), math.Max(math.Abs(c), math.Abs(d)))
	if a == 0 || math.Abs(a) <= equationEpsilon*scale {
		return SolveQuadratic(b, c, d)
	}

	// normal form t^3 + A t^2 + B t + C = 0
	A := b / a
	B := c / a
	C := d / a

	// substitute t = y - A/3 to eliminate the quadric term: y^3 + 3p y + 2q = 0
	sqA := A * A
	p := (-sqA/3 + B) / 3
	q := (2*A*sqA/27 - A*B/3 + C) / 2

	cbp := p * p * p
	D := q*q + cbp

	var roots []float64
	switch {
	case isZero(D):
		if isZero(q) {
			roots = []float64{0}
		} else {
			u := math.Cbrt(-q)
			roots = []float64{2 * u, -u}
		}
	case D < 0:
		phi := math.Acos(clamp(-q/math.Sqrt(-cbp), -1, 1)) / 3
		t := 2 * math.Sqrt(-p)
		roots = []float64{
			t * math.Cos(phi),
			-t * math.Cos(phi+math.Pi/3),
			-t * math.Cos(phi-math.Pi/3),
		}
	default:
		sqrtD := math.Sqrt(D)
		u := math.Cbrt(sqrtD - q)
		v := -math.Cbrt(sqrtD + q)
		roots = []float64{u + v}
	}

	sub := A / 3
	for i := range roots {
		roots[i] -= sub
	}
	return roots
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}

// SolveCyclicTridiagonal solves the n×n system whose rows are
// lower*x[i-1] + diag*x[i] + upper*x[i+1] = rhs[i] with wrap-around
// indices, as needed for closed spline control points.
func SolveCyclicTridiagonal(lower, diag, upper float64, rhs []float64) ([]float64, error) {
	n := len(rhs)
	if n == 0 {
		return nil, nil
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+diag)
		prev := (i - 1 + n) % n
		next := (i + 1) % n
		a.Set(i, prev, a.At(i, prev)+lower)
		a.Set(i, next, a.At(i, next)+upper)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), rhs...))); err != nil {
		return nil, fmt.Errorf("%w: cyclic tridiagonal solve: %v", physics.ErrDegenerateGeometry, err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}
