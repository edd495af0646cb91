package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Robaina/JupyterNotebooks/internal/kinetics"
	"github.com/Robaina/JupyterNotebooks/internal/numeric"
	"github.com/Robaina/JupyterNotebooks/internal/render"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	SinkOptions
	KineticsFlags
	Param    string
	Values   []float64
	Parallel int
}

// SweepRow summarises one swept value.
type SweepRow struct {
	Value              float64  `json:"value" yaml:"value"`
	KM                 float64  `json:"km" yaml:"km"`
	Vmax               float64  `json:"vmax" yaml:"vmax"`
	AssumptionRatio    float64  `json:"assumption_ratio" yaml:"assumption_ratio"`
	HalfConversionTime *float64 `json:"half_conversion_time,omitempty" yaml:"half_conversion_time,omitempty"`
	Final              Sample   `json:"final" yaml:"final"`
}

// SweepReport is the result of the sweep command.
type SweepReport struct {
	Param string     `json:"param" yaml:"param"`
	Rows  []SweepRow `json:"rows" yaml:"rows"`
}

func (r SweepReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %12s %12s %12s %12s %12s\n", r.Param, "K_M", "V_max", "ratio", "t_1/2", "S(end)")
	for _, row := range r.Rows {
		half := "-"
		if row.HalfConversionTime != nil {
			half = fmt.Sprintf("%.6f", *row.HalfConversionTime)
		}
		fmt.Fprintf(&b, "%12g %12.6f %12.6f %12.6f %12s %12.6f\n",
			row.Value, row.KM, row.Vmax, row.AssumptionRatio, half, row.Final.S)
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}
	d := DefaultConfig().Sweep

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Scan one kinetic parameter and compare substrate curves",
		Long: fmt.Sprintf(`Evaluate the Michaelis–Menten time course once per value of a single
parameter, holding the others fixed. Trajectories are evaluated concurrently.

Parameters: %s`, strings.Join(kinetics.SweepParams, ", ")),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	opts.KineticsFlags.bind(cmd)
	cmd.Flags().StringVar(&opts.Param, "param", d.Param, "parameter to sweep")
	cmd.Flags().Float64SliceVar(&opts.Values, "values", d.Values, "comma-separated parameter values")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "maximum concurrent evaluations (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.CSVOut, "csv-out", "", "write S(t) for every value to this CSV file")
	cmd.Flags().StringVar(&opts.PlotOut, "plot-out", "", "render S(t) curves to this image (png, svg, pdf)")

	return cmd
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg := opts.KineticsFlags.resolve(cmd, opts.Config.Kinetics)
	sc := opts.Config.Sweep
	overrideString(cmd, "param", &sc.Param, opts.Param)
	overrideFloats(cmd, "values", &sc.Values, opts.Values)
	overrideInt(cmd, "parallel", &sc.Parallel, opts.Parallel)

	times, err := numeric.UniformGrid(cfg.TFinal, cfg.DT)
	if err != nil {
		return formatter.FailComputation(err)
	}
	results, err := kinetics.Sweep(cmd.Context(), kinetics.SweepSpec{
		Base:     cfg.RateConstants,
		S0:       cfg.S0,
		Times:    times,
		Param:    sc.Param,
		Values:   sc.Values,
		Parallel: sc.Parallel,
	})
	if err != nil {
		return formatter.FailComputation(err)
	}
	opts.Logger.Debug("sweep finished", "param", sc.Param, "values", len(sc.Values), "samples", len(times))

	report := SweepReport{Param: sc.Param, Rows: make([]SweepRow, len(results))}
	columns := []string{"t"}
	data := [][]float64{times}
	fig := render.Figure{
		Title:  fmt.Sprintf("Substrate S(t) for varying %s", sc.Param),
		XLabel: "t",
		YLabel: "S",
	}
	for i, res := range results {
		tr := res.Trajectory
		row := SweepRow{
			Value:           res.Value,
			KM:              tr.Params.KM,
			Vmax:            tr.Params.Vmax,
			AssumptionRatio: tr.Ratio,
			Final:           sampleAt(tr, tr.Len()-1),
		}
		if tr.Params.Vmax > 0 && tr.S0 > 0 {
			half, err := kinetics.ConversionTime(tr.Params, tr.S0, 0.5)
			if err != nil {
				return formatter.FailComputation(err)
			}
			row.HalfConversionTime = &half
		}
		report.Rows[i] = row

		label := fmt.Sprintf("%s=%g", sc.Param, res.Value)
		columns = append(columns, "S["+label+"]")
		data = append(data, tr.S)
		fig.Series = append(fig.Series, render.Series{Label: label, X: tr.Times, Y: tr.S})
	}

	table, err := render.NewTable(columns, data...)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, ExitFailure, err)
	}
	if err := opts.SinkOptions.emit(opts.Logger, table, fig); err != nil {
		return formatter.Fail(ErrCodeIO, ExitFailure, err)
	}
	return formatter.Success(report)
}
