package insight

import (
	"github.com/KaramelBytes/healthsurvey-cli/internal/charts"
	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
)

// Chart file names written by the aggregator.
const (
	AgeChartFile = "age_health_risks.png"
	BMIChartFile = "bmi_health_connection.png"
)

// Overlay returns each age statistic scaled to its own maximum, aligned on
// labels. Only the chart uses it.
func (a AgeStats) Overlay() (labels []string, lines []stats.Grouped) {
	lines = []stats.Grouped{
		a.DiabetesRisk.Normalize(),
		a.HeartDiseaseRate.Normalize(),
		a.Stress.Normalize(),
	}
	seen := map[string]bool{}
	for _, g := range lines {
		for _, l := range g.Labels() {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	return labels, lines
}

// AgeFigure is the 2x2 age panel set: three bar charts and a normalized overlay.
func AgeFigure(r Report, panelWidth, panelHeight int) charts.Figure {
	labels, norm := r.Age.Overlay()
	lines := []charts.Line{
		{Name: "Diabetes Risk", Color: charts.Red},
		{Name: "Heart Disease", Color: charts.DarkRed},
		{Name: "Stress Level", Color: charts.Blue},
	}
	for i, g := range norm {
		lines[i].Points = aligned(labels, g)
	}

	return charts.Figure{
		Title:       "Age and Health Risks",
		Cols:        2,
		Rows:        2,
		PanelWidth:  panelWidth,
		PanelHeight: panelHeight,
		Panels: []charts.Panel{
			charts.BarPanel{Title: "Diabetes Risk Increases with Age", YLabel: "Average Diabetes Stage", Points: charts.FromGrouped(r.Age.DiabetesRisk), Color: charts.Red},
			charts.BarPanel{Title: "Heart Disease Rate Increases with Age", YLabel: "Share with Heart Disease", Points: charts.FromGrouped(r.Age.HeartDiseaseRate), Color: charts.DarkRed, Percent: true},
			charts.BarPanel{Title: "Stress Levels by Age Group", YLabel: "Average Stress Level", Points: charts.FromGrouped(r.Age.Stress), Color: charts.Blue},
			charts.LinePanel{Title: "All Health Risks by Age", YLabel: "Normalized Risk Level", Labels: labels, Lines: lines},
		},
	}
}

// BMIFigure is the 1x3 BMI panel set.
func BMIFigure(r Report, panelWidth, panelHeight int) charts.Figure {
	return charts.Figure{
		Title:       "BMI and Health Outcomes",
		Cols:        3,
		Rows:        1,
		PanelWidth:  panelWidth,
		PanelHeight: panelHeight,
		Panels: []charts.Panel{
			charts.BarPanel{Title: "BMI vs Diabetes Risk", YLabel: "Average Diabetes Stage", Points: charts.FromGrouped(r.BMI.DiabetesRisk), Color: charts.Red},
			charts.BarPanel{Title: "BMI vs Sleep Disorders", YLabel: "Share with Sleep Disorders", Points: charts.FromGrouped(r.BMI.SleepDisorderRate), Color: charts.Purple, Percent: true},
			charts.BarPanel{Title: "BMI vs Stress Levels", YLabel: "Average Stress Level", Points: charts.FromGrouped(r.BMI.Stress), Color: charts.Orange},
		},
	}
}

func aligned(labels []string, g stats.Grouped) []charts.Point {
	out := make([]charts.Point, len(labels))
	for i, l := range labels {
		v, ok := g.Value(l)
		out[i] = charts.Point{Label: l, Value: v, Valid: ok}
	}
	return out
}
