// Package table reads and writes the survey CSV files as gota data frames.
//
// Every column is loaded as a string series; numeric interpretation is left
// to the aggregators. A cell is missing when its element reports IsNA.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
)

// DefaultNAValues are the raw cell texts treated as missing on read.
var DefaultNAValues = []string{"", "NA", "N/A", "NaN", "null"}

// ReadOptions controls how delimited files are parsed.
type ReadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// NAValues overrides DefaultNAValues when non-nil. The literal text
	// "NaN" is always read as missing by the string series, even when it
	// is left out of this list.
	NAValues []string
}

func (o ReadOptions) naValues() []string {
	if o.NAValues == nil {
		return DefaultNAValues
	}
	return o.NAValues
}

// ReadFile loads a CSV file with a header row.
func ReadFile(path string, opt ReadOptions) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	df, err := Read(f, opt)
	if err != nil {
		return df, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return df, nil
}

// Read parses CSV text with a header row into an all-string data frame.
// A header without records yields a frame with the header's columns and
// no rows.
func Read(r io.Reader, opt ReadOptions) (dataframe.DataFrame, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", err)
	}
	df := dataframe.ReadCSV(bytes.NewReader(data),
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(opt.naValues()),
	)
	if df.Err != nil {
		if empty, ok := headerOnly(data, delim); ok {
			return empty, nil
		}
		return df, fmt.Errorf("parse csv: %w", df.Err)
	}
	return df, nil
}

// headerOnly builds an empty frame when data holds exactly one record.
func headerOnly(data []byte, delim rune) (dataframe.DataFrame, bool) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil || len(records) != 1 {
		return dataframe.DataFrame{}, false
	}
	cols := make([]series.Series, len(records[0]))
	for i, name := range records[0] {
		cols[i] = series.New([]string{}, series.String, name)
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return df, false
	}
	return df, true
}

// WriteFile persists df as CSV with a header row and no index column.
// The file is replaced atomically.
func WriteFile(path string, df dataframe.DataFrame) error {
	var buf bytes.Buffer
	if err := Encode(&buf, df); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Encode writes df as CSV. Missing cells become empty fields.
func Encode(w io.Writer, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("encode csv: %w", df.Err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(df.Names()); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	cols := Columns(df)
	rec := make([]string, len(cols))
	for i := 0; i < df.Nrow(); i++ {
		for j, c := range cols {
			rec[j] = Cell(c, i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

// Columns returns the series of df in column order.
func Columns(df dataframe.DataFrame) []series.Series {
	names := df.Names()
	out := make([]series.Series, len(names))
	for i := range names {
		out[i] = df.Col(names[i])
	}
	return out
}

// Cell returns the text of row i in s, or "" when the cell is missing.
func Cell(s series.Series, i int) string {
	e := s.Elem(i)
	if e.IsNA() {
		return ""
	}
	return e.String()
}

// HasColumn reports whether df contains a column named name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns returns a *MissingColumnError for the first absent column.
func RequireColumns(df dataframe.DataFrame, table string, cols ...string) error {
	for _, c := range cols {
		if !HasColumn(df, c) {
			return &MissingColumnError{Table: table, Column: c}
		}
	}
	return nil
}
