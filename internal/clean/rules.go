// Package clean applies the fixed per-dataset cleaning rules.
package clean

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/healthsurvey-cli/internal/dataset"
	"github.com/KaramelBytes/healthsurvey-cli/internal/table"
)

// Rule is one deterministic fix-up applied to a whole table.
type Rule struct {
	Name     string
	Issue    string
	Solution string
	// Columns the rule reads or writes; empty means every column.
	Columns []string

	apply func(df dataframe.DataFrame) (dataframe.DataFrame, int, error)
}

// Apply runs the rule and returns the new table and the number of cells or
// rows it changed.
func (r Rule) Apply(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
	if err := table.RequireColumns(df, "", r.Columns...); err != nil {
		return df, 0, err
	}
	return r.apply(df)
}

// CellRule rewrites every cell of column for which match is true to the
// literal to. Other cells, including missing ones, pass through.
func CellRule(name, column string, match func(series.Element) bool, to string) Rule {
	return Rule{
		Name:    name,
		Columns: []string{column},
		apply: func(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
			s := df.Col(column)
			vals := make([]interface{}, s.Len())
			changed := 0
			for i := range vals {
				e := s.Elem(i)
				switch {
				case match(e):
					vals[i] = to
					changed++
				case e.IsNA():
					vals[i] = nil
				default:
					vals[i] = e.String()
				}
			}
			if changed == 0 {
				return df, 0, nil
			}
			out := df.Mutate(series.New(vals, series.String, column))
			if out.Err != nil {
				return df, 0, fmt.Errorf("rewrite %s: %w", column, out.Err)
			}
			return out, changed, nil
		},
	}
}

// FillMissing sets every missing cell of column to value.
func FillMissing(column, value string) Rule {
	r := CellRule("fill-missing", column, series.Element.IsNA, value)
	r.Issue = fmt.Sprintf("%s column has missing values", column)
	r.Solution = fmt.Sprintf("Fill with %q", value)
	return r
}

// ReplaceValue rewrites cells of column equal to from.
func ReplaceValue(column, from, to string) Rule {
	r := CellRule("replace-value", column, func(e series.Element) bool {
		return !e.IsNA() && e.String() == from
	}, to)
	r.Issue = fmt.Sprintf("Inconsistent naming in %s (%q vs %q)", column, to, from)
	r.Solution = fmt.Sprintf("Merge %q into %q", from, to)
	return r
}

// DropDuplicates removes rows that repeat an earlier row field for field,
// keeping first occurrences in their original order.
func DropDuplicates() Rule {
	return Rule{
		Name:     "drop-duplicates",
		Issue:    "Dataset may contain duplicate records",
		Solution: "Remove every row identical to an earlier row",
		apply: func(df dataframe.DataFrame) (dataframe.DataFrame, int, error) {
			mask := table.DuplicateMask(df)
			keep := make([]int, 0, len(mask))
			for i, dup := range mask {
				if !dup {
					keep = append(keep, i)
				}
			}
			dropped := len(mask) - len(keep)
			if dropped == 0 {
				return df, 0, nil
			}
			out := df.Subset(keep)
			if out.Err != nil {
				return df, 0, fmt.Errorf("drop duplicates: %w", out.Err)
			}
			return out, dropped, nil
		},
	}
}

// Rules returns the fixed rule list for a dataset.
func Rules(id dataset.ID) []Rule {
	switch id {
	case dataset.Sleep:
		fill := FillMissing(dataset.ColSleepDisorder, "None")
		fill.Solution = `Fill with "None" (no sleep disorder)`
		return []Rule{
			fill,
			ReplaceValue(dataset.ColBMICategory, "Normal Weight", "Normal"),
		}
	case dataset.Diabetes:
		d := DropDuplicates()
		d.Issue = "Dataset contains duplicate records"
		return []Rule{d}
	case dataset.Heart:
		return []Rule{DropDuplicates()}
	default:
		return nil
	}
}

// RuleResult records what one rule did.
type RuleResult struct {
	Rule     string
	Issue    string
	Solution string
	Affected int
}

// Apply runs rules in order without touching the input table.
func Apply(df dataframe.DataFrame, rules []Rule) (dataframe.DataFrame, []RuleResult, error) {
	results := make([]RuleResult, 0, len(rules))
	cur := df
	for _, r := range rules {
		next, n, err := r.Apply(cur)
		if err != nil {
			return df, results, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		cur = next
		results = append(results, RuleResult{Rule: r.Name, Issue: r.Issue, Solution: r.Solution, Affected: n})
	}
	return cur, results, nil
}
