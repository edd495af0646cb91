package numeric

import (
	"math"
)

const (
	brentMaxIter = 100
	brentEps     = 1e-15
)

// Brent finds a root of f on [a, b] by the Brent–Dekker method. f(a) and
// f(b) must have opposite signs (or one of them must be zero).
func Brent(f func(float64) float64, a, b, tol float64) (float64, error) {
	const op = "brent"
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, InvalidArgument(op, "f(a)", fa, "NaN in initial bracket")
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if fa*fb > 0 {
		return 0, InvalidArgument(op, "f(a)*f(b)", fa*fb, "root not bracketed")
	}
	c, fc := a, fa
	d, e := b-a, b-a
	for i := 0; i < brentMaxIter; i++ {
		if fb*fc > 0 {
			c, fc = a, fa
			d, e = b-a, b-a
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*brentEps*math.Abs(b) + 0.5*tol
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		var p, q float64
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			s := fb / fa
			if a != c && fa != fc {
				// inverse quadratic
				r := fb / fc
				t := fa / fc
				p = s * (2*xm*r*(r-t) - (b-a)*(t-1))
				q = (r - 1) * (t - 1) * (s - 1)
			} else {
				// secant
				p = 2 * xm * s
				q = 1 - s
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e, d = d, p/q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else {
			b += math.Copysign(tol1, xm)
		}
		fb = f(b)
	}
	return b, &DivergenceError{Op: op, Arg: b, Iterations: brentMaxIter}
}
