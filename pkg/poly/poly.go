// Package poly implements the small amount of polynomial algebra the
// curve code needs: Bernstein bases, closed-form low degree solvers and
// an all-roots finder built on companion matrix eigenvalues.
package poly

import (
	"math"
)

// Polynomial holds coefficients in ascending order: p[i] multiplies t^i.
type Polynomial []float64

// Degree returns the index of the highest non-zero coefficient, or -1 for the zero polynomial.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}

// Eval evaluates the polynomial at t using Horner's rule.
func (p Polynomial) Eval(t float64) float64 {
	result := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		result = result*t + p[i]
	}
	return result
}

// Add returns p + q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	out := make(Polynomial, n)
	for i := range p {
		out[i] += p[i]
	}
	for i := range q {
		out[i] += q[i]
	}
	return out
}

// Mul returns p * q.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return Polynomial{}
	}
	out := make(Polynomial, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// Scale returns k * p.
func (p Polynomial) Scale(k float64) Polynomial {
	out := make(Polynomial, len(p))
	for i, c := range p {
		out[i] = c * k
	}
	return out
}

// Pow returns p raised to a non-negative integer power.
func (p Polynomial) Pow(n int) Polynomial {
	out := Polynomial{1}
	for i := 0; i < n; i++ {
		out = out.Mul(p)
	}
	return out
}

// Derivative returns dp/dt.
func (p Polynomial) Derivative() Polynomial {
	if len(p) <= 1 {
		return Polynomial{}
	}
	out := make(Polynomial, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = float64(i) * p[i]
	}
	return out
}

// Trim drops leading coefficients whose magnitude is at most tol times
// the largest coefficient. Rounding noise left over from basis changes
// would otherwise blow up the companion matrix.
func (p Polynomial) Trim(tol float64) Polynomial {
	largest := 0.0
	for _, c := range p {
		largest = math.Max(largest, math.Abs(c))
	}
	if largest == 0 {
		return Polynomial{}
	}
	end := len(p)
	for end > 0 && math.Abs(p[end-1]) <= tol*largest {
		end--
	}
	return append(Polynomial(nil), p[:end]...)
}

// Choose returns the binomial coefficient C(n, k).
func Choose(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return math.Round(result)
}

// Bernstein returns the Bernstein basis polynomial B(n,i)(t) = C(n,i) t^i (1-t)^(n-i).
func Bernstein(n, i int) Polynomial {
	if i < 0 || i > n {
		return Polynomial{}
	}
	t := Polynomial{0, 1}
	u := Polynomial{1, -1}
	return t.Pow(i).Mul(u.Pow(n - i)).Scale(Choose(n, i))
}
