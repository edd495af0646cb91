// Package lambertw evaluates the Lambert W function, the inverse of
// f(w) = w·e^w, on its real branches and on arbitrary complex branches.
package lambertw

import (
	"math"
	"math/cmplx"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

const (
	maxIter = 64
	tol     = 1e-14

	// branchPointBand is the distance from -1/e inside which the
	// branch-point series alone is already exact to double precision.
	branchPointBand = 1e-6

	// logArgLimit bounds ln(x) for which e^x is still formed explicitly.
	logArgLimit = 700
)

// BranchPoint is -1/e, the common end point of the two real branches.
var BranchPoint = -1 / math.E

// Solvers, replaceable in tests.
var (
	refine  = halley
	bracket = numeric.Brent
)

// W0 returns the principal branch W₀(x) for x >= -1/e.
func W0(x float64) (float64, error) {
	const op = "lambert w0"
	switch {
	case math.IsNaN(x):
		return 0, numeric.InvalidArgument(op, "x", x, "is NaN")
	case math.IsInf(x, 1):
		return math.Inf(1), nil
	case x == 0:
		return 0, nil
	}
	d := x - BranchPoint
	if d < -1e-16 {
		return 0, numeric.InvalidArgument(op, "x", x, "is below -1/e")
	}
	if d <= 0 {
		return -1, nil
	}
	if d < branchPointBand {
		return branchSeries(d, 1), nil
	}

	w, ok := refine(complex(x, 0), complex(seedW0(x), 0))
	if ok {
		return real(w), nil
	}

	// Halley stalled; bracket W₀ on [-1, hi] where w·e^w - x changes sign.
	hi := 1.0
	if x > math.E {
		hi = math.Log(x)
	}
	root, err := bracket(func(w float64) float64 { return w*math.Exp(w) - x }, -1, hi, 1e-15)
	if err != nil {
		return 0, &numeric.DivergenceError{Op: op, Arg: x, Iterations: maxIter}
	}
	return root, nil
}

// Wm1 returns the lower real branch W₋₁(x) for -1/e <= x < 0.
func Wm1(x float64) (float64, error) {
	const op = "lambert w-1"
	if math.IsNaN(x) || x >= 0 {
		return 0, numeric.InvalidArgument(op, "x", x, "must be in [-1/e, 0)")
	}
	d := x - BranchPoint
	if d < -1e-16 {
		return 0, numeric.InvalidArgument(op, "x", x, "is below -1/e")
	}
	if d <= 0 {
		return -1, nil
	}
	if d < branchPointBand {
		return branchSeries(d, -1), nil
	}

	var seed float64
	if x < -0.25 {
		seed = branchSeries(d, -1)
	} else {
		l1 := math.Log(-x)
		seed = l1 - math.Log(-l1)
	}
	w, ok := refine(complex(x, 0), complex(seed, 0))
	if ok {
		return real(w), nil
	}

	// W₋₁ lies in (-inf, -1]; w·e^w - x is negative at -1 and positive far out.
	lo := -2.0
	for lo*math.Exp(lo) < x {
		lo *= 2
	}
	root, err := bracket(func(w float64) float64 { return w*math.Exp(w) - x }, lo, -1, 1e-15)
	if err != nil {
		return 0, &numeric.DivergenceError{Op: op, Arg: x, Iterations: maxIter}
	}
	return root, nil
}

// Branch returns W_k(z) on the complex plane.
func Branch(z complex128, k int) (complex128, error) {
	const op = "lambert w"
	if cmplx.IsNaN(z) || cmplx.IsInf(z) {
		return 0, numeric.InvalidArgument(op, "|z|", cmplx.Abs(z), "must be finite")
	}
	if z == 0 {
		if k == 0 {
			return 0, nil
		}
		return 0, numeric.InvalidArgument(op, "k", float64(k), "W_k(0) is unbounded for k != 0")
	}
	if imag(z) == 0 {
		x := real(z)
		switch {
		case k == 0 && x >= BranchPoint:
			w, err := W0(x)
			return complex(w, 0), err
		case k == -1 && x >= BranchPoint && x < 0:
			w, err := Wm1(x)
			return complex(w, 0), err
		}
	}

	var seed complex128
	switch {
	case k == 0 && cmplx.Abs(z-complex(BranchPoint, 0)) < 0.3:
		p := cmplx.Sqrt(2 * (math.E*z + 1))
		seed = -1 + p - p*p/3 + 11*p*p*p/72
	case k == 0 && cmplx.Abs(z) <= 10:
		l := cmplx.Log(1 + z)
		seed = l * (1 - cmplx.Log(1+l)/(2+l))
	default:
		// Fritsch
		l1 := cmplx.Log(z) + complex(0, 2*math.Pi*float64(k))
		seed = l1 - cmplx.Log(l1)
	}
	w, ok := refine(z, seed)
	if !ok {
		return 0, &numeric.DivergenceError{Op: op, Arg: cmplx.Abs(z), Iterations: maxIter}
	}
	return w, nil
}

// W0Log returns W₀(e^logX). It never forms e^logX when that would overflow.
func W0Log(logX float64) (float64, error) {
	const op = "lambert w0 log"
	switch {
	case math.IsNaN(logX):
		return 0, numeric.InvalidArgument(op, "log x", logX, "is NaN")
	case math.IsInf(logX, -1):
		return 0, nil
	case math.IsInf(logX, 1):
		return math.Inf(1), nil
	case logX < logArgLimit:
		return W0(math.Exp(logX))
	}

	// Newton on g(w) = w + ln(w) - logX; w > 1 here so g' = 1 + 1/w is safe.
	w := logX - math.Log(logX)
	for i := 0; i < maxIter; i++ {
		g := w + math.Log(w) - logX
		dw := g / (1 + 1/w)
		w -= dw
		if math.Abs(dw) <= tol*(1+math.Abs(w)) {
			return w, nil
		}
	}
	return 0, &numeric.DivergenceError{Op: op, Arg: logX, Iterations: maxIter}
}

// Derivative returns dW₀/dx = W/(x(1+W)); W₀'(0) = 1.
func Derivative(x float64) (float64, error) {
	if x == 0 {
		return 1, nil
	}
	w, err := W0(x)
	if err != nil {
		return 0, err
	}
	if w == -1 {
		return math.Inf(1), nil
	}
	return w / (x * (1 + w)), nil
}

// halley solves w·e^w = z from w, returning false when it fails to settle
// within maxIter steps.
func halley(z, w complex128) (complex128, bool) {
	for i := 0; i < maxIter; i++ {
		e := cmplx.Exp(w)
		f := w*e - z
		if f == 0 {
			return w, true
		}
		den := e*(w+1) - (w+2)*f/(2*(w+1))
		if den == 0 || cmplx.IsNaN(den) || cmplx.IsInf(den) {
			return w, false
		}
		dw := f / den
		w2 := w - dw
		if cmplx.Abs(dw) <= tol*(1+cmplx.Abs(w2)) {
			return w2, true
		}
		w = w2
	}
	return w, false
}

// seedW0 returns a starting point for Halley on the principal branch.
func seedW0(x float64) float64 {
	switch {
	case x < -0.32:
		return branchSeries(x-BranchPoint, 1)
	case x <= math.E:
		// Winitzki
		l := math.Log1p(x)
		return l * (1 - math.Log1p(l)/(2+l))
	default:
		l1 := math.Log(x)
		return l1 - math.Log(l1)
	}
}

// branchSeries expands W around the branch point, d = x + 1/e. sign selects
// the principal (+1) or lower (-1) branch.
func branchSeries(d, sign float64) float64 {
	p := sign * math.Sqrt(2*math.E*d)
	return -1 + p*(1+p*(-1.0/3+p*(11.0/72+p*(-43.0/540+p*(769.0/17280+p*(-221.0/8505))))))
}
