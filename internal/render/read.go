package render

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadColumn reads one numeric column from CSV. If the first record has a
// cell equal to name (case-insensitive) it is treated as a header and that
// column is used; otherwise the first column is read and the first record
// is data.
func ReadColumn(r io.Reader, name string) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		col    = 0
		first  = true
		values []float64
		line   int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) == 0 {
			continue
		}
		if first {
			first = false
			if idx := headerIndex(rec, name); idx >= 0 {
				col = idx
				continue
			}
		}
		if col >= len(rec) {
			return nil, fmt.Errorf("line %d: missing column %d", line, col+1)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New("no numeric rows found")
	}
	return values, nil
}

func headerIndex(rec []string, name string) int {
	for i, c := range rec {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return i
		}
	}
	return -1
}
