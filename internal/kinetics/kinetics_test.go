package kinetics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Robaina/JupyterNotebooks/internal/numeric"
)

var notebookConstants = RateConstants{K1: 5.5, KMinus1: 0.01, KCat: 30, E0: 0.5}

func mustDerive(t *testing.T, rc RateConstants) Parameters {
	t.Helper()
	p, err := DeriveParameters(rc)
	require.NoError(t, err)
	return p
}

func mustGrid(t *testing.T, tFinal, dt float64) []float64 {
	t.Helper()
	grid, err := numeric.UniformGrid(tFinal, dt)
	require.NoError(t, err)
	return grid
}

func TestDeriveParameters(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	assert.InDelta(t, 5.4564, p.KM, 1e-4)
	assert.Equal(t, 15.0, p.Vmax)
	assert.Equal(t, 5.5, p.K1)
	assert.Equal(t, 0.5, p.E0)
}

func TestDeriveParameters_Invalid(t *testing.T) {
	cases := map[string]RateConstants{
		"zero k1":       {K1: 0, KMinus1: 0.01, KCat: 30, E0: 0.5},
		"negative k1":   {K1: -1, KMinus1: 0.01, KCat: 30, E0: 0.5},
		"negative kcat": {K1: 1, KMinus1: 0.01, KCat: -30, E0: 0.5},
		"negative e0":   {K1: 1, KMinus1: 0.01, KCat: 30, E0: -0.5},
		"zero km":       {K1: 1, KMinus1: 0, KCat: 0, E0: 0.5},
		"nan k1":        {K1: math.NaN(), KMinus1: 0.01, KCat: 30, E0: 0.5},
	}
	for name, rc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DeriveParameters(rc)
			assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
		})
	}
}

func TestNewParameters(t *testing.T) {
	p, err := NewParameters(2, 3, 1, 0.1)
	require.NoError(t, err)
	assert.Equal(t, Parameters{KM: 2, Vmax: 3, K1: 1, E0: 0.1}, p)

	_, err = NewParameters(0, 3, 1, 0.1)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
	_, err = NewParameters(2, 3, 0, 0.1)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
}

func TestEvaluateTrajectory_Invariants(t *testing.T) {
	cases := []struct {
		name string
		rc   RateConstants
		s0   float64
	}{
		{"notebook", notebookConstants, 10},
		{"substrate poor", RateConstants{K1: 1, KMinus1: 1, KCat: 1, E0: 0.01}, 0.1},
		{"substrate rich", RateConstants{K1: 10, KMinus1: 0.5, KCat: 2, E0: 1}, 5000},
		{"no substrate", notebookConstants, 0},
		{"no enzyme", RateConstants{K1: 2, KMinus1: 1, KCat: 3, E0: 0}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := mustDerive(t, tc.rc)
			tr, err := EvaluateTrajectory(p, tc.s0, mustGrid(t, 5, 0.005))
			require.NoError(t, err)
			require.Equal(t, 1001, tr.Len())

			assert.InDelta(t, tc.s0, tr.S[0], 1e-6, "S(0) = S0")
			for i := range tr.Times {
				assert.InDelta(t, p.E0, tr.E[i]+tr.ES[i], 1e-6, "conservation at t=%g", tr.Times[i])
				assert.False(t, math.IsNaN(tr.S[i]) || math.IsNaN(tr.P[i]) || math.IsNaN(tr.V[i]))
				if i > 0 {
					assert.LessOrEqual(t, tr.S[i], tr.S[i-1], "S increased at t=%g", tr.Times[i])
				}
			}
		})
	}
}

func TestEvaluateTrajectory_Formulae(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	s0 := 10.0
	tr, err := EvaluateTrajectory(p, s0, []float64{0, 0.25, 1})
	require.NoError(t, err)

	assert.Equal(t, 0.0, tr.ES[0])
	assert.Equal(t, p.E0, tr.E[0])
	assert.InDelta(t, 0, tr.P[0], 1e-9)

	for i, tt := range tr.Times {
		s := tr.S[i]
		// S solves the integrated rate law K_M·ln(S/S0) + S - S0 = -V_max·t.
		assert.InDelta(t, -p.Vmax*tt, p.KM*math.Log(s/s0)+s-s0, 1e-9)

		es := p.E0 * s / (p.KM + s) * (1 - math.Exp(-(p.KM+s)*p.K1*tt))
		assert.InDelta(t, es, tr.ES[i], 1e-12)
		assert.InDelta(t, s0-s-es, tr.P[i], 1e-12)
		assert.InDelta(t, p.Vmax*s/(p.KM+s), tr.V[i], 1e-12)
	}
}

func TestEvaluateTrajectory_CopiesTimes(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	times := []float64{0, 1, 2}
	tr, err := EvaluateTrajectory(p, 1, times)
	require.NoError(t, err)

	times[0] = 42
	assert.Equal(t, 0.0, tr.Times[0])
}

func TestEvaluateTrajectory_Invalid(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	grid := []float64{0, 1}

	cases := []struct {
		name  string
		p     Parameters
		s0    float64
		times []float64
	}{
		{"zero km", Parameters{KM: 0, Vmax: 1, K1: 1, E0: 1}, 1, grid},
		{"negative km", Parameters{KM: -2, Vmax: 1, K1: 1, E0: 1}, 1, grid},
		{"negative e0", Parameters{KM: 2, Vmax: 1, K1: 1, E0: -1}, 1, grid},
		{"negative s0", p, -1, grid},
		{"empty times", p, 1, nil},
		{"negative time", p, 1, []float64{-1, 0}},
		{"non increasing", p, 1, []float64{0, 2, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateTrajectory(tc.p, tc.s0, tc.times)
			require.Error(t, err)
			assert.True(t, errors.Is(err, numeric.ErrInvalidArgument))
			assert.False(t, errors.Is(err, numeric.ErrNumericDivergence))
		})
	}
}

func TestEvaluateTrajectory_Divergence(t *testing.T) {
	saved := w0Log
	t.Cleanup(func() { w0Log = saved })
	calls := 0
	w0Log = func(logX float64) (float64, error) {
		calls++
		if calls == 3 {
			return 0, &numeric.DivergenceError{Op: "lambert w0 log", Arg: logX, Iterations: 64}
		}
		return saved(logX)
	}

	p := mustDerive(t, notebookConstants)
	tr, err := EvaluateTrajectory(p, 10, []float64{0, 0.5, 1, 1.5})
	require.Error(t, err)
	assert.ErrorIs(t, err, numeric.ErrNumericDivergence)
	assert.NotErrorIs(t, err, numeric.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "t=1")
	assert.Zero(t, tr.Len())
}

func TestAssumptionRatio(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	r, err := AssumptionRatio(p, 10)
	require.NoError(t, err)
	assert.InDelta(t, 0.5/(p.KM+10), r, 1e-15)

	tr, err := EvaluateTrajectory(p, 10, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, r, tr.Ratio)
	assert.True(t, tr.QSSAValid(DefaultQSSAThreshold))
	assert.False(t, tr.QSSAValid(0.01))

	_, err = AssumptionRatio(p, -1)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
}

func TestConversionTime(t *testing.T) {
	p := mustDerive(t, notebookConstants)
	s0 := 10.0

	half, err := ConversionTime(p, s0, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, (s0/2+p.KM*math.Ln2)/p.Vmax, half, 1e-12)

	tr, err := EvaluateTrajectory(p, s0, []float64{0, half})
	require.NoError(t, err)
	assert.InDelta(t, s0/2, tr.S[1], 1e-9)

	zero, err := ConversionTime(p, s0, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)

	for _, f := range []float64{-0.1, 1, math.NaN()} {
		_, err := ConversionTime(p, s0, f)
		assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
	}

	noEnzyme := mustDerive(t, RateConstants{K1: 1, KMinus1: 1, KCat: 1, E0: 0})
	_, err = ConversionTime(noEnzyme, s0, 0.5)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
}

func TestSweep_PreservesOrder(t *testing.T) {
	values := []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2}
	results, err := Sweep(context.Background(), SweepSpec{
		Base:     notebookConstants,
		S0:       10,
		Times:    mustGrid(t, 2, 0.05),
		Param:    ParamE0,
		Values:   values,
		Parallel: 3,
	})
	require.NoError(t, err)
	require.Len(t, results, len(values))

	for i, r := range results {
		assert.Equal(t, values[i], r.Value)
		assert.Equal(t, values[i], r.Constants.E0)
		assert.Equal(t, values[i]*notebookConstants.KCat, r.Trajectory.Params.Vmax)
		if i > 0 {
			last := r.Trajectory.Len() - 1
			assert.LessOrEqual(t, r.Trajectory.S[last], results[i-1].Trajectory.S[last],
				"more enzyme should not leave more substrate")
		}
	}
}

func TestSweep_S0(t *testing.T) {
	results, err := Sweep(context.Background(), SweepSpec{
		Base:   notebookConstants,
		Times:  []float64{0, 1},
		Param:  ParamS0,
		Values: []float64{1, 5},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1, results[0].Trajectory.S[0], 1e-9)
	assert.InDelta(t, 5, results[1].Trajectory.S[0], 1e-9)
	assert.Equal(t, notebookConstants, results[1].Constants)
}

func TestSweep_EveryParam(t *testing.T) {
	base := mustDerive(t, notebookConstants)
	cases := []struct {
		param string
		value float64
		check func(t *testing.T, r SweepResult)
	}{
		{ParamK1, 2, func(t *testing.T, r SweepResult) { assert.Equal(t, 2.0, r.Constants.K1) }},
		{ParamKMinus1, 4, func(t *testing.T, r SweepResult) { assert.Equal(t, 4.0, r.Constants.KMinus1) }},
		{ParamKCat, 10, func(t *testing.T, r SweepResult) { assert.Equal(t, 5.0, r.Trajectory.Params.Vmax) }},
		{ParamE0, 1, func(t *testing.T, r SweepResult) { assert.Equal(t, 30.0, r.Trajectory.Params.Vmax) }},
		{ParamS0, 3, func(t *testing.T, r SweepResult) { assert.InDelta(t, 3, r.Trajectory.S[0], 1e-9) }},
		{ParamKM, 2.5, func(t *testing.T, r SweepResult) {
			assert.Equal(t, Parameters{KM: 2.5, Vmax: base.Vmax, K1: base.K1, E0: base.E0}, r.Trajectory.Params)
			assert.Equal(t, notebookConstants, r.Constants)
		}},
		{ParamVmax, 7, func(t *testing.T, r SweepResult) {
			assert.Equal(t, Parameters{KM: base.KM, Vmax: 7, K1: base.K1, E0: base.E0}, r.Trajectory.Params)
		}},
	}
	require.Len(t, cases, len(SweepParams))
	for _, tc := range cases {
		t.Run(tc.param, func(t *testing.T) {
			results, err := Sweep(context.Background(), SweepSpec{
				Base:   notebookConstants,
				S0:     10,
				Times:  []float64{0, 0.5, 1},
				Param:  tc.param,
				Values: []float64{tc.value},
			})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tc.value, results[0].Value)
			tc.check(t, results[0])
		})
	}

	_, err := Sweep(context.Background(), SweepSpec{
		Base: notebookConstants, S0: 10, Times: []float64{0, 1},
		Param: ParamKM, Values: []float64{0},
	})
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)
}

func TestSweep_Errors(t *testing.T) {
	base := SweepSpec{
		Base:   notebookConstants,
		S0:     10,
		Times:  []float64{0, 1},
		Param:  ParamK1,
		Values: []float64{1, -1},
	}

	_, err := Sweep(context.Background(), base)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)

	unknown := base
	unknown.Param = "temperature"
	_, err = Sweep(context.Background(), unknown)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)

	empty := base
	empty.Values = nil
	_, err = Sweep(context.Background(), empty)
	assert.ErrorIs(t, err, numeric.ErrInvalidArgument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := base
	ok.Values = []float64{1, 2}
	_, err = Sweep(ctx, ok)
	assert.ErrorIs(t, err, context.Canceled)
}
