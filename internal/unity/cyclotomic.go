package unity

import (
	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// MaxCyclotomicOrder bounds n for Cyclotomic.
const MaxCyclotomicOrder = 4096

// Cyclotomic returns the integer coefficients of the n-th cyclotomic
// polynomial Φ_n, lowest power first. Φ_n is obtained by dividing xⁿ - 1 by
// Φ_d for every proper divisor d of n.
func Cyclotomic(n int) ([]int64, error) {
	if n < 1 || n > MaxCyclotomicOrder {
		return nil, numeric.InvalidArgument("cyclotomic", "n", float64(n), "must be in [1, 4096]")
	}
	memo := make(map[int][]int64)
	return cyclotomic(n, memo), nil
}

func cyclotomic(n int, memo map[int][]int64) []int64 {
	if c, ok := memo[n]; ok {
		return c
	}
	// xⁿ - 1
	poly := make([]int64, n+1)
	poly[0], poly[n] = -1, 1
	for d := 1; d < n; d++ {
		if n%d == 0 {
			poly = divideMonic(poly, cyclotomic(d, memo))
		}
	}
	memo[n] = poly
	return poly
}

// divideMonic returns num / den for a monic den that divides num exactly.
func divideMonic(num, den []int64) []int64 {
	rem := append([]int64(nil), num...)
	dd := len(den) - 1
	q := make([]int64, len(num)-dd)
	for i := len(q) - 1; i >= 0; i-- {
		c := rem[i+dd]
		q[i] = c
		if c == 0 {
			continue
		}
		for j := 0; j <= dd; j++ {
			rem[i+j] -= c * den[j]
		}
	}
	return q
}
