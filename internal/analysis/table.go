// Package analysis profiles delimited datasets: shape, per-column kinds,
// missing and unique counts, numeric ranges and duplicate rows.
package analysis

import (
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

// Column kinds.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindText        = "text"
	KindEmpty       = "empty"
)

// Options controls profiling.
type Options struct {
	// Delimiter for CSV. If 0, it is chosen from the file extension.
	Delimiter rune
	// NAValues overrides the default missing markers.
	NAValues []string
	// TopValues is how many frequent values to list per categorical column.
	TopValues int
	// GroupBy computes numeric means per value of this column.
	GroupBy string
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{TopValues: 5}
}

// Report is a markdown-friendly profile of a tabular dataset.
type Report struct {
	Name       string
	Rows       int
	Cols       int
	Missing    int
	Duplicates int
	Columns    []ColumnSummary
	Groups     []GroupResult
	Warnings   []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Categorical stats
	TopValues []ValueCount
}

// ValueCount is a value and how often it occurs.
type ValueCount struct {
	Value string
	Count int
}

// GroupResult holds numeric means for one value of the group-by column.
type GroupResult struct {
	Key   string
	Size  int
	Means map[string]float64
}

// ProfileFile reads path through the table layer and profiles it.
func ProfileFile(path string, opt Options) (*Report, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	df, err := table.ReadFile(path, table.ReadOptions{Delimiter: delim, NAValues: opt.NAValues})
	if err != nil {
		return nil, err
	}
	return Profile(df, filepath.Base(path), opt)
}

// Profile computes a Report for df.
func Profile(df dataframe.DataFrame, name string, opt Options) (*Report, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, df.Err)
	}
	if opt.TopValues <= 0 {
		opt.TopValues = DefaultOptions().TopValues
	}
	rep := &Report{
		Name:       name,
		Rows:       df.Nrow(),
		Cols:       df.Ncol(),
		Missing:    table.MissingCount(df),
		Duplicates: table.DuplicateCount(df),
	}
	numeric := map[string][]float64{}
	present := map[string][]bool{}
	for _, col := range df.Names() {
		cs, vals, ok := summarize(df, col, opt.TopValues)
		rep.Columns = append(rep.Columns, cs)
		if cs.Kind == KindNumeric {
			numeric[col], present[col] = vals, ok
		}
	}
	if rep.Duplicates > 0 {
		rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d rows repeat an earlier row", rep.Duplicates))
	}
	if opt.GroupBy != "" {
		groups, err := groupMeans(df, opt.GroupBy, numeric, present)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}
	return rep, nil
}

func summarize(df dataframe.DataFrame, col string, topN int) (ColumnSummary, []float64, []bool) {
	cs := ColumnSummary{Name: col}
	texts, present, _ := table.Strings(df, col)
	counts := map[string]int{}
	vals := make([]float64, len(texts))
	isNumeric := true
	var nums []float64
	for i, s := range texts {
		if !present[i] {
			cs.Missing++
			continue
		}
		cs.NonNull++
		counts[s]++
		if !isNumeric {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			isNumeric = false
			continue
		}
		vals[i] = v
		nums = append(nums, v)
	}
	cs.Unique = len(counts)

	switch {
	case cs.NonNull == 0:
		cs.Kind = KindEmpty
	case isNumeric:
		cs.Kind = KindNumeric
		sorted := append([]float64(nil), nums...)
		sort.Float64s(sorted)
		cs.Min, cs.Max = sorted[0], sorted[len(sorted)-1]
		if len(nums) > 1 {
			cs.Mean, cs.Std = stat.MeanStdDev(nums, nil)
		} else {
			cs.Mean = nums[0]
		}
	case cs.Unique <= categoricalLimit(cs.NonNull):
		cs.Kind = KindCategorical
	default:
		cs.Kind = KindText
	}
	if cs.Kind == KindCategorical || cs.Kind == KindText {
		cs.TopValues = top(counts, topN)
	}
	if cs.Kind != KindNumeric {
		return cs, nil, nil
	}
	return cs, vals, present
}

// categoricalLimit is the unique-value ceiling for a categorical column.
func categoricalLimit(nonNull int) int {
	limit := nonNull / 10
	if limit < 20 {
		limit = 20
	}
	return limit
}

func top(counts map[string]int, n int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func groupMeans(df dataframe.DataFrame, by string, numeric map[string][]float64, present map[string][]bool) ([]GroupResult, error) {
	keys, keyOK, err := table.Strings(df, by)
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(numeric))
	for c := range numeric {
		if c != by {
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)

	accs := make(map[string]*stats.Accumulator, len(cols))
	sizes := stats.NewAccumulator()
	for _, c := range cols {
		accs[c] = stats.NewAccumulator()
	}
	for i, k := range keys {
		if !keyOK[i] {
			continue
		}
		sizes.Add(k, 1)
		for _, c := range cols {
			if present[c][i] {
				accs[c].Add(k, numeric[c][i])
			}
		}
	}
	var out []GroupResult
	for _, k := range sizes.Labels() {
		g := GroupResult{Key: k, Size: len(sizes.Values(k)), Means: map[string]float64{}}
		for _, c := range cols {
			if m, ok := stats.Mean(accs[c].Values(k)); ok {
				g.Means[c] = m
			}
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func sniffDelimiter(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}
