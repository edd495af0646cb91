package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named curve or point cloud.
type Series struct {
	Label  string
	X, Y   []float64
	Points bool // scatter instead of line
}

// Figure is everything a sink needs to draw one chart.
type Figure struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
	Square bool // equal axis extents, e.g. for the unit circle
}

// Sink consumes figures.
type Sink interface {
	Render(fig Figure) error
}

// PlotSink saves figures with gonum/plot. The file extension of Path picks
// the format (png, svg, pdf, ...).
type PlotSink struct {
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewPlotSink returns a PlotSink with a 6×4 inch canvas.
func NewPlotSink(path string) *PlotSink {
	return &PlotSink{Path: path, Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

// Render implements Sink.
func (s *PlotSink) Render(fig Figure) error {
	if len(fig.Series) == 0 {
		return fmt.Errorf("render %s: figure %q has no series", s.Path, fig.Title)
	}
	if ext := strings.TrimPrefix(filepath.Ext(s.Path), "."); ext == "" {
		return fmt.Errorf("render %s: missing file extension", s.Path)
	}

	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Add(plotter.NewGrid())

	var lines, points []interface{}
	for _, sr := range fig.Series {
		xys, err := toXYs(sr)
		if err != nil {
			return fmt.Errorf("render %s: %w", s.Path, err)
		}
		if sr.Points {
			points = append(points, sr.Label, xys)
		} else {
			lines = append(lines, sr.Label, xys)
		}
	}
	if len(lines) > 0 {
		if err := plotutil.AddLines(p, lines...); err != nil {
			return fmt.Errorf("render %s: %w", s.Path, err)
		}
	}
	if len(points) > 0 {
		if err := plotutil.AddScatters(p, points...); err != nil {
			return fmt.Errorf("render %s: %w", s.Path, err)
		}
	}

	w, h := s.Width, s.Height
	if fig.Square {
		h = w
		lo := min(p.X.Min, p.Y.Min)
		hi := max(p.X.Max, p.Y.Max)
		p.X.Min, p.Y.Min = lo, lo
		p.X.Max, p.Y.Max = hi, hi
	}
	if err := p.Save(w, h, s.Path); err != nil {
		return fmt.Errorf("render %s: %w", s.Path, err)
	}
	return nil
}

func toXYs(sr Series) (plotter.XYs, error) {
	if len(sr.X) != len(sr.Y) {
		return nil, fmt.Errorf("series %q: %d x values for %d y values", sr.Label, len(sr.X), len(sr.Y))
	}
	xys := make(plotter.XYs, len(sr.X))
	for i := range sr.X {
		xys[i] = plotter.XY{X: sr.X[i], Y: sr.Y[i]}
	}
	return xys, nil
}
