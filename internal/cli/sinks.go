package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Robaina/JupyterNotebooks/internal/render"
)

// SinkOptions are the per-command output file flags.
type SinkOptions struct {
	CSVOut  string
	PlotOut string
}

// emit writes the table and figure to the requested files.
func (s SinkOptions) emit(logger *slog.Logger, table render.Table, fig render.Figure) error {
	return s.emitTo(logger, table, fig, render.NewPlotSink(s.PlotOut))
}

// emitTo is emit with the figure going to plots when PlotOut is set.
func (s SinkOptions) emitTo(logger *slog.Logger, table render.Table, fig render.Figure, plots render.Sink) error {
	if s.CSVOut != "" {
		if err := writeCSV(s.CSVOut, table); err != nil {
			return err
		}
		logger.Info("wrote csv", "path", s.CSVOut, "rows", table.Rows())
	}
	if s.PlotOut != "" {
		if err := plots.Render(fig); err != nil {
			return err
		}
		logger.Info("wrote plot", "path", s.PlotOut, "series", len(fig.Series))
	}
	return nil
}

func writeCSV(path string, table render.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(f, render.DefaultPrecision); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
