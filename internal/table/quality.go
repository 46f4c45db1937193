package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	naKey    = "\x00"
	fieldSep = "\x1f"
)

// MissingCount is the number of missing cells across all columns.
func MissingCount(df dataframe.DataFrame) int {
	n := 0
	for _, c := range Columns(df) {
		n += ColumnMissing(c)
	}
	return n
}

// ColumnMissing is the number of missing cells in s.
func ColumnMissing(s series.Series) int {
	n := 0
	for i := 0; i < s.Len(); i++ {
		if s.Elem(i).IsNA() {
			n++
		}
	}
	return n
}

// RowKey encodes row i over cols so that two rows share a key exactly when
// every field is equal. Missing equals missing and differs from "".
func RowKey(cols []series.Series, i int) string {
	var b strings.Builder
	for j, c := range cols {
		if j > 0 {
			b.WriteString(fieldSep)
		}
		e := c.Elem(i)
		if e.IsNA() {
			b.WriteString(naKey)
			continue
		}
		b.WriteString(e.String())
	}
	return b.String()
}

// DuplicateMask marks every row that repeats an earlier row field for field.
func DuplicateMask(df dataframe.DataFrame) []bool {
	cols := Columns(df)
	seen := make(map[string]struct{}, df.Nrow())
	mask := make([]bool, df.Nrow())
	for i := range mask {
		k := RowKey(cols, i)
		if _, ok := seen[k]; ok {
			mask[i] = true
			continue
		}
		seen[k] = struct{}{}
	}
	return mask
}

// DuplicateCount is the number of rows that repeat an earlier row.
func DuplicateCount(df dataframe.DataFrame) int {
	n := 0
	for _, dup := range DuplicateMask(df) {
		if dup {
			n++
		}
	}
	return n
}

// Float reads row i of s as a number. ok is false when the cell is missing.
func Float(s series.Series, i int) (v float64, ok bool, err error) {
	e := s.Elem(i)
	if e.IsNA() {
		return 0, false, nil
	}
	raw := e.String()
	v, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if perr != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false, &ValueError{Column: s.Name, Row: i + 1, Value: raw}
	}
	return v, true, nil
}

// Floats reads every row of the named column. Missing cells are skipped by
// the caller through the returned present mask.
func Floats(df dataframe.DataFrame, col string) (vals []float64, present []bool, err error) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, nil, &MissingColumnError{Column: col}
	}
	vals = make([]float64, s.Len())
	present = make([]bool, s.Len())
	for i := range vals {
		v, ok, err := Float(s, i)
		if err != nil {
			return nil, nil, err
		}
		vals[i], present[i] = v, ok
	}
	return vals, present, nil
}

// Strings returns the text of every row of the named column and a mask of
// which cells are present.
func Strings(df dataframe.DataFrame, col string) (vals []string, present []bool, err error) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, nil, &MissingColumnError{Column: col}
	}
	vals = make([]string, s.Len())
	present = make([]bool, s.Len())
	for i := range vals {
		e := s.Elem(i)
		if e.IsNA() {
			continue
		}
		vals[i], present[i] = e.String(), true
	}
	return vals, present, nil
}
