// Package unity computes roots of unity and the cyclotomic polynomials whose
// zeros they are.
package unity

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// RootSet is an ordered set of points on the unit circle. Consecutive roots
// are adjacent vertices of the inscribed polygon.
type RootSet struct {
	N     int
	Roots []complex128
}

// ComputeRoots returns the n-th roots of unity e^{2πik/n} for k = 0..n-1.
func ComputeRoots(n int) (RootSet, error) {
	if n < 1 {
		return RootSet{}, numeric.InvalidArgument("compute roots", "n", float64(n), "must be >= 1")
	}
	roots := make([]complex128, n)
	for k := range roots {
		roots[k] = root(k, n)
	}
	return RootSet{N: n, Roots: roots}, nil
}

// PrimitiveRoots returns the roots e^{2πik/n} with gcd(k, n) = 1, the zeros
// of the n-th cyclotomic polynomial.
func PrimitiveRoots(n int) (RootSet, error) {
	if n < 1 {
		return RootSet{}, numeric.InvalidArgument("primitive roots", "n", float64(n), "must be >= 1")
	}
	var roots []complex128
	for k := 0; k < n; k++ {
		if gcd(k, n) == 1 {
			roots = append(roots, root(k, n))
		}
	}
	return RootSet{N: n, Roots: roots}, nil
}

func root(k, n int) complex128 {
	sin, cos := math.Sincos(2 * math.Pi * float64(k) / float64(n))
	return complex(cos, sin)
}

// Points splits the roots into real and imaginary coordinates.
func (s RootSet) Points() (xs, ys []float64) {
	xs = make([]float64, len(s.Roots))
	ys = make([]float64, len(s.Roots))
	for i, r := range s.Roots {
		xs[i], ys[i] = real(r), imag(r)
	}
	return xs, ys
}

// Polygon returns the closed vertex path through the roots in order.
func (s RootSet) Polygon() (xs, ys []float64) {
	xs, ys = s.Points()
	if len(xs) == 0 {
		return xs, ys
	}
	return append(xs, xs[0]), append(ys, ys[0])
}

// Sum adds all roots.
func (s RootSet) Sum() complex128 {
	xs, ys := s.Points()
	return complex(floats.Sum(xs), floats.Sum(ys))
}

// Totient returns Euler's φ(n), the number of primitive n-th roots of unity.
func Totient(n int) (int, error) {
	if n < 1 {
		return 0, numeric.InvalidArgument("totient", "n", float64(n), "must be >= 1")
	}
	phi := n
	m := n
	for p := 2; p*p <= m; p++ {
		if m%p != 0 {
			continue
		}
		for m%p == 0 {
			m /= p
		}
		phi -= phi / p
	}
	if m > 1 {
		phi -= phi / m
	}
	return phi, nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
