package cli

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Robaina/JupyterNotebooks/internal/render"
	"github.com/Robaina/JupyterNotebooks/internal/unity"
)

// circleResolution is the number of vertices used to draw the unit circle.
const circleResolution = 256

// RootsOptions holds flags for the roots command.
type RootsOptions struct {
	*RootOptions
	SinkOptions
	N          int
	Primitive  bool
	Cyclotomic bool
}

// RootPoint is one root in command output.
type RootPoint struct {
	Index int     `json:"index" yaml:"index"`
	Re    float64 `json:"re" yaml:"re"`
	Im    float64 `json:"im" yaml:"im"`
}

// RootsReport is the result of the roots command.
type RootsReport struct {
	N          int         `json:"n" yaml:"n"`
	Primitive  bool        `json:"primitive" yaml:"primitive"`
	Roots      []RootPoint `json:"roots" yaml:"roots"`
	Cyclotomic []int64     `json:"cyclotomic,omitempty" yaml:"cyclotomic,omitempty"`
}

func (r RootsReport) String() string {
	var b strings.Builder
	kind := "roots"
	if r.Primitive {
		kind = "primitive roots"
	}
	fmt.Fprintf(&b, "%d %s of unity for n = %d\n", len(r.Roots), kind, r.N)
	for _, p := range r.Roots {
		fmt.Fprintf(&b, "  %3d  % .12f  % .12f\n", p.Index, p.Re, p.Im)
	}
	if r.Cyclotomic != nil {
		fmt.Fprintf(&b, "Φ_%d(x) = %s\n", r.N, formatPolynomial(r.Cyclotomic))
	}
	return strings.TrimRight(b.String(), "\n")
}

// NewRootsCommand creates the roots command.
func NewRootsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RootsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Compute the n-th roots of unity",
		Long: `Compute the n-th roots of unity e^{2πik/n}, k = 0..n-1, ordered so that
consecutive roots are adjacent vertices of the inscribed polygon.

With --primitive only the zeros of the n-th cyclotomic polynomial are kept;
--cyclotomic also prints its coefficients.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoots(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.N, "n", DefaultConfig().Roots.N, "order of the roots")
	cmd.Flags().BoolVar(&opts.Primitive, "primitive", false, "only primitive roots")
	cmd.Flags().BoolVar(&opts.Cyclotomic, "cyclotomic", false, "print the cyclotomic polynomial coefficients")
	cmd.Flags().StringVar(&opts.CSVOut, "csv-out", "", "write roots to this CSV file")
	cmd.Flags().StringVar(&opts.PlotOut, "plot-out", "", "render roots to this image (png, svg, pdf)")

	return cmd
}

func runRoots(opts *RootsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	n := opts.Config.Roots.N
	overrideInt(cmd, "n", &n, opts.N)

	compute := unity.ComputeRoots
	if opts.Primitive {
		compute = unity.PrimitiveRoots
	}
	set, err := compute(n)
	if err != nil {
		return formatter.FailComputation(err)
	}
	opts.Logger.Debug("computed roots", "n", n, "count", len(set.Roots), "primitive", opts.Primitive)

	report := RootsReport{N: n, Primitive: opts.Primitive, Roots: make([]RootPoint, len(set.Roots))}
	for i, r := range set.Roots {
		report.Roots[i] = RootPoint{Index: rootIndex(r, n), Re: real(r), Im: imag(r)}
	}
	if opts.Cyclotomic {
		coeffs, err := unity.Cyclotomic(n)
		if err != nil {
			return formatter.FailComputation(err)
		}
		report.Cyclotomic = coeffs
	}

	table, fig, err := rootsOutputs(set, report)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, ExitFailure, err)
	}
	if err := opts.SinkOptions.emit(opts.Logger, table, fig); err != nil {
		return formatter.Fail(ErrCodeIO, ExitFailure, err)
	}
	return formatter.Success(report)
}

func rootsOutputs(set unity.RootSet, report RootsReport) (render.Table, render.Figure, error) {
	xs, ys := set.Points()
	ks := make([]float64, len(report.Roots))
	for i, p := range report.Roots {
		ks[i] = float64(p.Index)
	}
	table, err := render.NewTable([]string{"k", "re", "im"}, ks, xs, ys)
	if err != nil {
		return render.Table{}, render.Figure{}, err
	}

	circle, err := unity.ComputeRoots(circleResolution)
	if err != nil {
		return render.Table{}, render.Figure{}, err
	}
	cx, cy := circle.Polygon()
	px, py := set.Polygon()
	fig := render.Figure{
		Title:  fmt.Sprintf("Roots of unity, n = %d", set.N),
		XLabel: "Re",
		YLabel: "Im",
		Square: true,
		Series: []render.Series{
			{Label: "unit circle", X: cx, Y: cy},
			{Label: "polygon", X: px, Y: py},
			{Label: "roots", X: xs, Y: ys, Points: true},
		},
	}
	return table, fig, nil
}

// rootIndex recovers k from e^{2πik/n}.
func rootIndex(r complex128, n int) int {
	k := int(math.Round(cmplx.Phase(r) * float64(n) / (2 * math.Pi)))
	return ((k % n) + n) % n
}

// formatPolynomial prints coefficients (lowest power first) highest power first.
func formatPolynomial(coeffs []int64) string {
	var terms []string
	for i := len(coeffs) - 1; i >= 0; i-- {
		c := coeffs[i]
		if c == 0 {
			continue
		}
		var mono string
		switch i {
		case 0:
			mono = ""
		case 1:
			mono = "x"
		default:
			mono = fmt.Sprintf("x^%d", i)
		}
		abs := c
		if abs < 0 {
			abs = -abs
		}
		term := mono
		if abs != 1 || i == 0 {
			term = fmt.Sprintf("%d%s", abs, mono)
		}
		switch {
		case len(terms) == 0 && c < 0:
			terms = append(terms, "-"+term)
		case len(terms) == 0:
			terms = append(terms, term)
		case c < 0:
			terms = append(terms, "- "+term)
		default:
			terms = append(terms, "+ "+term)
		}
	}
	return strings.Join(terms, " ")
}
