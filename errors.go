package goalfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record matches a reference.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a reference matches more than one record.
	ErrAmbiguous = errors.New("ambiguous reference")
	// ErrEmptyFile is returned when importing a file without even a header.
	ErrEmptyFile = errors.New("file is empty")
	// ErrMissingColumns is returned when required columns are absent.
	ErrMissingColumns = errors.New("missing required columns")
)

// ValidationError reports the first invalid cell of an import.
type ValidationError struct {
	Row    int    // 1-based data row, 0 for file level errors
	Column string // empty when the whole row is invalid
	Err    error
}

func (e *ValidationError) Error() string {
	switch {
	case e.Row == 0 && e.Column == "":
		return e.Err.Error()
	case e.Row == 0:
		return fmt.Sprintf("column %q: %v", e.Column, e.Err)
	case e.Column == "":
		return fmt.Sprintf("error processing row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("error processing row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }
