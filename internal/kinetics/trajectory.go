package kinetics

import (
	"fmt"
	"math"

	"github.com/Robaina/JupyterNotebooks/internal/lambertw"
	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// DefaultQSSAThreshold is the assumption ratio below which a trajectory is
// reported as satisfying the quasi-steady-state assumption.
const DefaultQSSAThreshold = 0.1

var w0Log = lambertw.W0Log

// Trajectory holds the concentrations and flux sampled at Times.
type Trajectory struct {
	Params Parameters `json:"params" yaml:"params"`
	S0     float64    `json:"s0" yaml:"s0"`
	Ratio  float64    `json:"assumption_ratio" yaml:"assumption_ratio"`

	Times []float64 `json:"t" yaml:"t"`
	S     []float64 `json:"s" yaml:"s"`
	ES    []float64 `json:"es" yaml:"es"`
	E     []float64 `json:"e" yaml:"e"`
	P     []float64 `json:"p" yaml:"p"`
	V     []float64 `json:"v" yaml:"v"`
}

// QSSAValid reports whether the assumption ratio is below threshold.
func (tr Trajectory) QSSAValid(threshold float64) bool {
	return tr.Ratio < threshold
}

// Len returns the number of samples.
func (tr Trajectory) Len() int {
	return len(tr.Times)
}

// EvaluateTrajectory samples the closed-form solution at each of times,
// which must be non-negative and strictly increasing.
func EvaluateTrajectory(p Parameters, s0 float64, times []float64) (Trajectory, error) {
	const op = "evaluate trajectory"
	if err := p.validate(op); err != nil {
		return Trajectory{}, err
	}
	if err := nonNegative(op, "s0", s0); err != nil {
		return Trajectory{}, err
	}
	if err := numeric.ValidateTimes(times); err != nil {
		return Trajectory{}, fmt.Errorf("%s: %w", op, err)
	}

	n := len(times)
	tr := Trajectory{
		Params: p,
		S0:     s0,
		Ratio:  p.E0 / (p.KM + s0),
		Times:  append([]float64(nil), times...),
		S:      make([]float64, n),
		ES:     make([]float64, n),
		E:      make([]float64, n),
		P:      make([]float64, n),
		V:      make([]float64, n),
	}

	logRatio := math.Log(s0 / p.KM)
	for i, t := range times {
		w, err := w0Log(logRatio + (s0-p.Vmax*t)/p.KM)
		if err != nil {
			return Trajectory{}, fmt.Errorf("%s at t=%g: %w", op, t, err)
		}
		s := p.KM * w
		// rounding in W can lift S by an ulp between close samples
		if i > 0 && s > tr.S[i-1] {
			s = tr.S[i-1]
		}
		es := p.E0 * s / (p.KM + s) * -math.Expm1(-(p.KM+s)*p.K1*t)

		tr.S[i] = s
		tr.ES[i] = es
		tr.E[i] = p.E0 - es
		tr.P[i] = s0 - s - es
		tr.V[i] = p.Vmax * s / (p.KM + s)
	}
	return tr, nil
}

// ConversionTime returns the time at which fraction of the initial
// substrate has been consumed, from the integrated rate law
// t = (S₀ - S + K_M·ln(S₀/S))/V_max.
func ConversionTime(p Parameters, s0, fraction float64) (float64, error) {
	const op = "conversion time"
	if err := p.validate(op); err != nil {
		return 0, err
	}
	if p.Vmax == 0 {
		return 0, numeric.InvalidArgument(op, "vmax", p.Vmax, "must be > 0 for substrate to be consumed")
	}
	if err := positive(op, "s0", s0); err != nil {
		return 0, err
	}
	if math.IsNaN(fraction) || fraction < 0 || fraction >= 1 {
		return 0, numeric.InvalidArgument(op, "fraction", fraction, "must be in [0, 1)")
	}
	s := (1 - fraction) * s0
	return (s0 - s - p.KM*math.Log1p(-fraction)) / p.Vmax, nil
}
