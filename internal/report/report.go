// Package report prints pipeline results as console tables.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/healthsurvey-cli/internal/clean"
	"github.com/KaramelBytes/healthsurvey-cli/internal/diabetes"
	"github.com/KaramelBytes/healthsurvey-cli/internal/insight"
	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
)

// NoData is printed for buckets without records.
const NoData = "no data"

// Writer renders results to an output stream.
type Writer struct {
	w     io.Writer
	p     *message.Printer
	title cases.Caser
}

// New returns a Writer using English number formatting.
func New(w io.Writer) *Writer {
	return &Writer{
		w:     w,
		p:     message.NewPrinter(language.English),
		title: cases.Title(language.English),
	}
}

func (rw *Writer) heading(s string) {
	fmt.Fprintf(rw.w, "\n%s\n%s\n", s, strings.Repeat("-", len(s)))
}

func (rw *Writer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(rw.w)
	t.SetStyle(table.StyleLight)
	return t
}

func (rw *Writer) count(n int) string { return rw.p.Sprintf("%d", n) }

// Clean prints before/after figures and the rules applied per dataset.
func (rw *Writer) Clean(results []clean.Result) {
	for i, r := range results {
		rw.heading(fmt.Sprintf("%d. %s Dataset", i+1, rw.title.String(string(r.Dataset.ID))))

		t := rw.newTable()
		t.AppendHeader(table.Row{"", "Records", "Columns", "Missing", "Duplicates"})
		t.AppendRow(table.Row{"Original", rw.count(r.Before.Rows), r.Before.Cols, rw.count(r.Before.Missing), rw.count(r.Before.Duplicates)})
		t.AppendRow(table.Row{"Cleaned", rw.count(r.After.Rows), r.After.Cols, rw.count(r.After.Missing), rw.count(r.After.Duplicates)})
		t.Render()

		if len(r.Rules) > 0 {
			rt := rw.newTable()
			rt.AppendHeader(table.Row{"Rule", "Issue", "Solution", "Affected"})
			for _, rr := range r.Rules {
				rt.AppendRow(table.Row{rr.Rule, rr.Issue, rr.Solution, rw.count(rr.Affected)})
			}
			rt.Render()
		}
	}
}

// Insights prints every grouped statistic of the cross-dataset report.
func (rw *Writer) Insights(r insight.Report) {
	fmt.Fprintln(rw.w, "Datasets loaded:")
	fmt.Fprintf(rw.w, "- Diabetes dataset: %s records\n", rw.count(r.Counts.Diabetes))
	fmt.Fprintf(rw.w, "- Heart dataset: %s records\n", rw.count(r.Counts.Heart))
	fmt.Fprintf(rw.w, "- Sleep dataset: %s records\n", rw.count(r.Counts.Sleep))

	rw.heading("INSIGHT 1: How Age Affects Health Across All Conditions")
	for _, g := range r.Age.All() {
		rw.Grouped(g.Name+" by Age Group", g)
	}
	rw.heading("INSIGHT 2: BMI Affects Multiple Health Conditions")
	for _, g := range r.BMI.All() {
		rw.Grouped(g.Name+" by BMI", g)
	}
	if r.BMI.OutOfRange > 0 {
		fmt.Fprintf(rw.w, "⚠ %s diabetes records had a BMI outside (0, 100] and were not binned\n", rw.count(r.BMI.OutOfRange))
	}
}

// Grouped prints one statistic as a bucket table.
func (rw *Writer) Grouped(caption string, g stats.Grouped) {
	t := rw.newTable()
	t.SetTitle(caption)
	t.AppendHeader(table.Row{"Group", "Value", "Records"})
	for _, b := range g.Buckets {
		t.AppendRow(table.Row{b.Label, FormatValue(g.Name, b), rw.count(b.Count)})
	}
	t.Render()
}

// Diabetes prints the per-stage summary and the dataset overview.
func (rw *Writer) Diabetes(r diabetes.Report) {
	rw.heading("Average Values by Diabetes Stage")
	t := rw.newTable()
	t.AppendHeader(table.Row{"Stage", "", "Records", "BMI", "PhysActivity", "Age", "BMI median", "BMI IQR", "BMI outliers"})
	for _, s := range r.Stages {
		row := table.Row{s.Label, s.Name, rw.count(s.Count),
			mean(r.BMI, s.Label), mean(r.PhysActivity, s.Label), mean(r.Age, s.Label)}
		if s.HasBMI {
			row = append(row, fmt.Sprintf("%.1f", s.BMI.Median), fmt.Sprintf("%.1f", s.BMI.IQR()), rw.count(s.BMI.OutlierCount))
		} else {
			row = append(row, NoData, NoData, NoData)
		}
		t.AppendRow(row)
	}
	t.Render()

	ov := r.Overview
	rw.heading("Dataset Overview")
	fmt.Fprintf(rw.w, "• Total Records: %s\n", rw.count(ov.Total))
	if ov.Total > ov.Unstaged {
		fmt.Fprintf(rw.w, "• Diabetes Prevalence: %.1f%%\n", ov.Prevalence*100)
	} else {
		fmt.Fprintf(rw.w, "• Diabetes Prevalence: %s\n", NoData)
	}
	fmt.Fprintf(rw.w, "• Average BMI: %s\n", overviewMean(ov.MeanBMI, ov.HasBMI))
	fmt.Fprintf(rw.w, "• Average Age: %s\n", overviewMean(ov.MeanAge, ov.HasAge))
	if ov.Unstaged > 0 {
		fmt.Fprintf(rw.w, "⚠ %s records have no diabetes stage\n", rw.count(ov.Unstaged))
	}
}

func overviewMean(v float64, ok bool) string {
	if !ok {
		return NoData
	}
	return fmt.Sprintf("%.1f", v)
}

func mean(g stats.Grouped, label string) string {
	v, ok := g.Value(label)
	if !ok {
		return NoData
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatValue renders a bucket value the way each statistic reads best.
func FormatValue(name string, b stats.Bucket) string {
	if !b.Valid {
		return NoData
	}
	switch name {
	case insight.HeartDiseaseRate, insight.SleepDisorderRate:
		return fmt.Sprintf("%.1f%%", b.Value*100)
	case insight.StressLevel:
		return fmt.Sprintf("%.1f/10", b.Value)
	default:
		return fmt.Sprintf("%.2f", b.Value)
	}
}
