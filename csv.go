package goalfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// table is a CSV file whose first record names the columns.
type table struct {
	columns map[string]int
	rows    [][]string
}

// readRecords reads every CSV record of r, rows may have different lengths.
func readRecords(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			// line 1 is the header.
			return nil, &ValidationError{Row: max(perr.StartLine-1, 0), Err: perr.Err}
		}
		return nil, err
	}
	return records, nil
}

// newTable indexes the header of records and checks that every required column is there.
func newTable(records [][]string, required []string) (*table, error) {
	if len(records) == 0 {
		return nil, &ValidationError{Err: ErrEmptyFile}
	}
	t := &table{columns: make(map[string]int), rows: records[1:]}
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, exists := t.columns[name]; !exists {
			t.columns[name] = i
		}
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Err: fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))}
	}
	return t, nil
}

// cell returns the trimmed value of column 'col' in row, "" when absent.
func (t *table) cell(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// blank reports whether every cell of row is empty.
func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// each calls f for every non blank data row, stopping at the first error.
// Errors are reported with the 1-based data row number.
func (t *table) each(f func(row []string) error) error {
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		if err := f(row); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Row = i + 1
				return verr
			}
			return &ValidationError{Row: i + 1, Err: err}
		}
	}
	return nil
}

// cellError attaches a column to err.
func cellError(col string, err error) error {
	return &ValidationError{Column: col, Err: err}
}

// writeRecords writes the header and the records as CSV.
func writeRecords(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}
