package table

import "fmt"

// MissingColumnError reports a column the pipeline needs but the file lacks.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing column %q", e.Column)
	}
	return fmt.Sprintf("%s: missing column %q", e.Table, e.Column)
}

// ValueError reports a cell that could not be read as a number.
// Row is the 1-based data row, not counting the header.
type ValueError struct {
	Column string
	Row    int
	Value  string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("column %q row %d: %q is not a number", e.Column, e.Row, e.Value)
}
