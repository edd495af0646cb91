package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Robaina/JupyterNotebooks/internal/kinetics"
	"github.com/Robaina/JupyterNotebooks/internal/numeric"
	"github.com/Robaina/JupyterNotebooks/internal/render"
)

// KineticsFlags are the parameter flags shared by kinetics and sweep.
type KineticsFlags struct {
	K1, KMinus1, KCat, E0 float64
	S0, TFinal, DT        float64
}

func (f *KineticsFlags) bind(cmd *cobra.Command) {
	d := DefaultConfig().Kinetics
	cmd.Flags().Float64Var(&f.K1, "k1", d.K1, "association rate constant k₁")
	cmd.Flags().Float64Var(&f.KMinus1, "k-minus1", d.KMinus1, "dissociation rate constant k₋₁")
	cmd.Flags().Float64Var(&f.KCat, "k-cat", d.KCat, "catalytic rate constant k_cat")
	cmd.Flags().Float64Var(&f.E0, "e0", d.E0, "total enzyme concentration E₀")
	cmd.Flags().Float64Var(&f.S0, "s0", d.S0, "initial substrate concentration S₀")
	cmd.Flags().Float64Var(&f.TFinal, "t-final", d.TFinal, "end of the time grid")
	cmd.Flags().Float64Var(&f.DT, "dt", d.DT, "time grid step")
}

// resolve merges explicitly set flags over the configured values.
func (f *KineticsFlags) resolve(cmd *cobra.Command, cfg KineticsConfig) KineticsConfig {
	overrideFloat(cmd, "k1", &cfg.K1, f.K1)
	overrideFloat(cmd, "k-minus1", &cfg.KMinus1, f.KMinus1)
	overrideFloat(cmd, "k-cat", &cfg.KCat, f.KCat)
	overrideFloat(cmd, "e0", &cfg.E0, f.E0)
	overrideFloat(cmd, "s0", &cfg.S0, f.S0)
	overrideFloat(cmd, "t-final", &cfg.TFinal, f.TFinal)
	overrideFloat(cmd, "dt", &cfg.DT, f.DT)
	return cfg
}

// KineticsOptions holds flags for the kinetics command.
type KineticsOptions struct {
	*RootOptions
	SinkOptions
	KineticsFlags
	QSSAThreshold float64
	Full          bool
	TimesCSV      string
}

// Sample is the state of the reaction at one time.
type Sample struct {
	T  float64 `json:"t" yaml:"t"`
	S  float64 `json:"s" yaml:"s"`
	ES float64 `json:"es" yaml:"es"`
	E  float64 `json:"e" yaml:"e"`
	P  float64 `json:"p" yaml:"p"`
	V  float64 `json:"v" yaml:"v"`
}

func sampleAt(tr kinetics.Trajectory, i int) Sample {
	return Sample{T: tr.Times[i], S: tr.S[i], ES: tr.ES[i], E: tr.E[i], P: tr.P[i], V: tr.V[i]}
}

// KineticsReport is the result of the kinetics command.
type KineticsReport struct {
	Constants          kinetics.RateConstants `json:"constants" yaml:"constants"`
	Params             kinetics.Parameters    `json:"params" yaml:"params"`
	S0                 float64                `json:"s0" yaml:"s0"`
	AssumptionRatio    float64                `json:"assumption_ratio" yaml:"assumption_ratio"`
	QSSAThreshold      float64                `json:"qssa_threshold" yaml:"qssa_threshold"`
	QSSAValid          bool                   `json:"qssa_valid" yaml:"qssa_valid"`
	HalfConversionTime *float64               `json:"half_conversion_time,omitempty" yaml:"half_conversion_time,omitempty"`
	Samples            int                    `json:"samples" yaml:"samples"`
	Final              Sample                 `json:"final" yaml:"final"`
	Trajectory         *kinetics.Trajectory   `json:"trajectory,omitempty" yaml:"trajectory,omitempty"`
}

func (r KineticsReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "K_M   = %.6f\n", r.Params.KM)
	fmt.Fprintf(&b, "V_max = %.6f\n", r.Params.Vmax)
	fmt.Fprintf(&b, "E0/(K_M+S0) = %.6f", r.AssumptionRatio)
	if r.QSSAValid {
		fmt.Fprintf(&b, " (quasi-steady-state assumption holds, < %g)\n", r.QSSAThreshold)
	} else {
		fmt.Fprintf(&b, " (warning: quasi-steady-state assumption questionable, >= %g)\n", r.QSSAThreshold)
	}
	if r.HalfConversionTime != nil {
		fmt.Fprintf(&b, "t_1/2 = %.6f\n", *r.HalfConversionTime)
	}
	fmt.Fprintf(&b, "%d samples; at t = %.6f: S = %.6f, ES = %.6f, E = %.6f, P = %.6f, v = %.6f",
		r.Samples, r.Final.T, r.Final.S, r.Final.ES, r.Final.E, r.Final.P, r.Final.V)
	return b.String()
}

// NewKineticsCommand creates the kinetics command.
func NewKineticsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KineticsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "kinetics",
		Short: "Evaluate the closed-form Michaelis–Menten time course",
		Long: `Evaluate substrate S, complex ES, free enzyme E, product P and flux v
on a uniform time grid using S(t) = K_M·W₀((S₀/K_M)·exp((S₀ - V_max·t)/K_M)).

Parameters are the elementary rate constants k₁, k₋₁, k_cat and the total
enzyme E₀; K_M and V_max are derived from them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKinetics(opts, cmd)
		},
	}

	opts.KineticsFlags.bind(cmd)
	cmd.Flags().Float64Var(&opts.QSSAThreshold, "qssa-threshold", kinetics.DefaultQSSAThreshold,
		"assumption ratio below which the quasi-steady-state assumption is reported valid")
	cmd.Flags().BoolVar(&opts.Full, "full", false, "include the full trajectory in json/yaml output")
	cmd.Flags().StringVar(&opts.TimesCSV, "times-csv", "", "read sample times from the t column of this CSV instead of --t-final/--dt")
	cmd.Flags().StringVar(&opts.CSVOut, "csv-out", "", "write the trajectory to this CSV file")
	cmd.Flags().StringVar(&opts.PlotOut, "plot-out", "", "render the trajectory to this image (png, svg, pdf)")

	return cmd
}

func runKinetics(opts *KineticsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg := opts.KineticsFlags.resolve(cmd, opts.Config.Kinetics)
	overrideFloat(cmd, "qssa-threshold", &cfg.QSSAThreshold, opts.QSSAThreshold)

	params, err := kinetics.DeriveParameters(cfg.RateConstants)
	if err != nil {
		return formatter.FailComputation(err)
	}
	times, err := opts.times(cfg)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return formatter.Fail(ErrCodeIO, ExitCommandError, err)
		}
		return formatter.FailComputation(err)
	}
	tr, err := kinetics.EvaluateTrajectory(params, cfg.S0, times)
	if err != nil {
		return formatter.FailComputation(err)
	}
	opts.Logger.Debug("evaluated trajectory",
		"km", params.KM, "vmax", params.Vmax, "s0", cfg.S0, "samples", tr.Len())

	report := KineticsReport{
		Constants:       cfg.RateConstants,
		Params:          params,
		S0:              cfg.S0,
		AssumptionRatio: tr.Ratio,
		QSSAThreshold:   cfg.QSSAThreshold,
		QSSAValid:       tr.QSSAValid(cfg.QSSAThreshold),
		Samples:         tr.Len(),
		Final:           sampleAt(tr, tr.Len()-1),
	}
	if params.Vmax > 0 && cfg.S0 > 0 {
		half, err := kinetics.ConversionTime(params, cfg.S0, 0.5)
		if err != nil {
			return formatter.FailComputation(err)
		}
		report.HalfConversionTime = &half
	}
	if !report.QSSAValid {
		opts.Logger.Warn("quasi-steady-state assumption questionable",
			"ratio", tr.Ratio, "threshold", cfg.QSSAThreshold)
	}
	if opts.Full {
		report.Trajectory = &tr
	}

	table, err := render.NewTable([]string{"t", "S", "ES", "E", "P", "v"}, tr.Times, tr.S, tr.ES, tr.E, tr.P, tr.V)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, ExitFailure, err)
	}
	if err := opts.SinkOptions.emit(opts.Logger, table, trajectoryFigure(tr)); err != nil {
		return formatter.Fail(ErrCodeIO, ExitFailure, err)
	}
	return formatter.Success(report)
}

func (o *KineticsOptions) times(cfg KineticsConfig) ([]float64, error) {
	if o.TimesCSV == "" {
		return numeric.UniformGrid(cfg.TFinal, cfg.DT)
	}
	f, err := os.Open(o.TimesCSV)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	times, err := render.ReadColumn(f, "t")
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", o.TimesCSV, numeric.ErrInvalidArgument, err)
	}
	return times, nil
}

func trajectoryFigure(tr kinetics.Trajectory) render.Figure {
	return render.Figure{
		Title: fmt.Sprintf("Michaelis–Menten closed form (K_M = %.3f, V_max = %.3f, S0 = %g)",
			tr.Params.KM, tr.Params.Vmax, tr.S0),
		XLabel: "t",
		YLabel: "concentration / flux",
		Series: []render.Series{
			{Label: "S", X: tr.Times, Y: tr.S},
			{Label: "ES", X: tr.Times, Y: tr.ES},
			{Label: "E", X: tr.Times, Y: tr.E},
			{Label: "P", X: tr.Times, Y: tr.P},
			{Label: "v", X: tr.Times, Y: tr.V},
		},
	}
}
