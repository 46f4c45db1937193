// Package export writes computed statistics to an XLSX workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/healthsurvey-cli/internal/diabetes"
	"github.com/KaramelBytes/healthsurvey-cli/internal/insight"
	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
)

const maxSheetName = 31

// Sheet is one table of the workbook. Nil cells stay empty.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// GroupedSheet lays a grouped statistic out as Group, Value, Records rows.
func GroupedSheet(name string, g stats.Grouped) Sheet {
	s := Sheet{Name: name, Header: []string{"Group", g.Name, "Records", "Status"}}
	for _, b := range g.Buckets {
		var v any
		status := "ok"
		if b.Valid {
			v = b.Value
		} else {
			status = "no data"
		}
		s.Rows = append(s.Rows, []any{b.Label, v, b.Count, status})
	}
	return s
}

// InsightSheets returns one sheet per cross-dataset statistic.
func InsightSheets(r insight.Report) []Sheet {
	var out []Sheet
	for _, g := range r.Age.All() {
		out = append(out, GroupedSheet("Age - "+g.Name, g))
	}
	for _, g := range r.BMI.All() {
		out = append(out, GroupedSheet("BMI - "+g.Name, g))
	}
	return out
}

// DiabetesSheets returns the per-stage table and the overview.
func DiabetesSheets(r diabetes.Report) []Sheet {
	stages := Sheet{
		Name:   "Diabetes Stages",
		Header: []string{"Stage", "Name", "Records", "Mean BMI", "Mean PhysActivity", "Mean Age", "BMI Q1", "BMI Median", "BMI Q3", "BMI Outliers"},
	}
	for _, s := range r.Stages {
		row := []any{s.Value, s.Name, s.Count, value(r.BMI, s.Label), value(r.PhysActivity, s.Label), value(r.Age, s.Label)}
		if s.HasBMI {
			row = append(row, s.BMI.Q1, s.BMI.Median, s.BMI.Q3, s.BMI.OutlierCount)
		} else {
			row = append(row, nil, nil, nil, nil)
		}
		stages.Rows = append(stages.Rows, row)
	}
	ov := r.Overview
	overview := Sheet{
		Name:   "Diabetes Overview",
		Header: []string{"Measure", "Value"},
		Rows: [][]any{
			{"Total Records", ov.Total},
			{"Diabetes Prevalence", optional(ov.Prevalence, ov.Total > ov.Unstaged)},
			{"Average BMI", optional(ov.MeanBMI, ov.HasBMI)},
			{"Average Age", optional(ov.MeanAge, ov.HasAge)},
		},
	}
	return []Sheet{stages, overview}
}

func optional(v float64, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func value(g stats.Grouped, label string) any {
	if v, ok := g.Value(label); ok {
		return v
	}
	return nil
}

// WriteWorkbook saves sheets to path in order.
func WriteWorkbook(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("write workbook: no sheets")
	}
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]bool{}
	for i, s := range sheets {
		name := sheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeSheet(f, name, s); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, name string, s Sheet) error {
	for i, h := range s.Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("sheet %q header: %w", name, err)
		}
	}
	for r, row := range s.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("sheet %q cell %s: %w", name, cell, err)
			}
		}
	}
	return nil
}

// sheetName strips characters XLSX forbids, truncates to the length limit
// and makes the name unique within the workbook.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, name)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		clean = "Sheet"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}
	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		base := clean
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = base + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
