// Package render turns computed series into CSV tables and plot files.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
)

// DefaultPrecision is the number of decimals written to CSV cells.
const DefaultPrecision = 12

// Table is a set of equally long named columns.
type Table struct {
	Columns []string
	Data    [][]float64 // Data[j] is column j
}

// NewTable builds a table from name/column pairs.
func NewTable(columns []string, data ...[]float64) (Table, error) {
	if len(columns) != len(data) {
		return Table{}, fmt.Errorf("table: %d column names for %d columns", len(columns), len(data))
	}
	for j := 1; j < len(data); j++ {
		if len(data[j]) != len(data[0]) {
			return Table{}, fmt.Errorf("table: column %q has %d rows, want %d", columns[j], len(data[j]), len(data[0]))
		}
	}
	return Table{Columns: columns, Data: data}, nil
}

// Rows returns the number of rows.
func (t Table) Rows() int {
	if len(t.Data) == 0 {
		return 0
	}
	return len(t.Data[0])
}

// WriteCSV writes a header line followed by one record per row.
func (t Table) WriteCSV(w io.Writer, precision int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	rec := make([]string, len(t.Columns))
	for i := 0; i < t.Rows(); i++ {
		for j := range t.Data {
			rec[j] = formatCell(t.Data[j][i], precision)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatCell prints v with fixed precision; values that round to zero are
// written without a sign.
func formatCell(v float64, precision int) string {
	if math.Abs(v) < 0.5*math.Pow10(-precision) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
