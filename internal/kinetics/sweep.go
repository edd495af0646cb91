package kinetics

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

// Sweepable parameter names.
const (
	ParamK1      = "k1"
	ParamKMinus1 = "k_minus1"
	ParamKCat    = "k_cat"
	ParamE0      = "e0"
	ParamS0      = "s0"
	ParamKM      = "km"
	ParamVmax    = "vmax"
)

// SweepParams lists the names accepted by SweepSpec.Param. km and vmax are
// varied on the derived parameters with k₁ and E₀ taken from Base.
var SweepParams = []string{ParamK1, ParamKMinus1, ParamKCat, ParamE0, ParamS0, ParamKM, ParamVmax}

// SweepSpec describes a one-parameter sensitivity scan around Base.
type SweepSpec struct {
	Base     RateConstants
	S0       float64
	Times    []float64
	Param    string
	Values   []float64
	Parallel int // 0 uses GOMAXPROCS
}

// SweepResult is the trajectory obtained for one swept value. Constants is
// Base unchanged when km or vmax is swept.
type SweepResult struct {
	Value      float64
	Constants  RateConstants
	Trajectory Trajectory
}

// Sweep evaluates one trajectory per value in spec.Values. Results keep the
// order of spec.Values; the first failure cancels the remaining work.
func Sweep(ctx context.Context, spec SweepSpec) ([]SweepResult, error) {
	const op = "sweep"
	if !isSweepParam(spec.Param) {
		return nil, fmt.Errorf("%s: %w: unknown parameter %q (want one of %v)",
			op, numeric.ErrInvalidArgument, spec.Param, SweepParams)
	}
	if len(spec.Values) == 0 {
		return nil, numeric.InvalidArgument(op, "len(values)", 0, "must be non-empty")
	}
	if err := numeric.ValidateTimes(spec.Times); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	limit := spec.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	results := make([]SweepResult, len(spec.Values))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, v := range spec.Values {
		i, v := i, v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rc, p, s0, err := spec.apply(v)
			if err != nil {
				return fmt.Errorf("%s %s=%g: %w", op, spec.Param, v, err)
			}
			tr, err := EvaluateTrajectory(p, s0, spec.Times)
			if err != nil {
				return fmt.Errorf("%s %s=%g: %w", op, spec.Param, v, err)
			}
			results[i] = SweepResult{Value: v, Constants: rc, Trajectory: tr}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s SweepSpec) apply(v float64) (RateConstants, Parameters, float64, error) {
	rc, s0 := s.Base, s.S0
	switch s.Param {
	case ParamKM, ParamVmax:
		base, err := DeriveParameters(rc)
		if err != nil {
			return rc, Parameters{}, s0, err
		}
		if s.Param == ParamKM {
			base.KM = v
		} else {
			base.Vmax = v
		}
		p, err := NewParameters(base.KM, base.Vmax, base.K1, base.E0)
		return rc, p, s0, err
	case ParamK1:
		rc.K1 = v
	case ParamKMinus1:
		rc.KMinus1 = v
	case ParamKCat:
		rc.KCat = v
	case ParamE0:
		rc.E0 = v
	case ParamS0:
		s0 = v
	}
	p, err := DeriveParameters(rc)
	return rc, p, s0, err
}

func isSweepParam(name string) bool {
	for _, p := range SweepParams {
		if p == name {
			return true
		}
	}
	return false
}
