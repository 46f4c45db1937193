package diabetes

import "github.com/KaramelBytes/healthsurvey-cli/internal/charts"

// ChartFile is the file name of the diabetes figure.
const ChartFile = "diabetes_health_insights.png"

const stageAxis = "Diabetes Stage (0=No, 1=Prediabetes, 2=Diabetes)"

// Figure is the 1x3 panel set: BMI box plot, mean activity and mean age.
func Figure(r Report, panelWidth, panelHeight int) charts.Figure {
	boxes := make([]charts.BoxItem, len(r.Stages))
	for i, s := range r.Stages {
		boxes[i] = charts.BoxItem{Label: s.Label, Box: s.BMI, Valid: s.HasBMI}
	}
	return charts.Figure{
		Title:       "Diabetes Health Insights",
		Cols:        3,
		Rows:        1,
		PanelWidth:  panelWidth,
		PanelHeight: panelHeight,
		Panels: []charts.Panel{
			charts.BoxPanel{Title: "BMI Distribution by Diabetes Stage", XLabel: stageAxis, YLabel: "BMI", Items: boxes, Color: charts.Blue},
			charts.BarPanel{Title: "Physical Activity by Diabetes Stage", YLabel: "Average Physical Activity", Points: charts.FromGrouped(r.PhysActivity), Color: charts.Blue},
			charts.BarPanel{Title: "Average Age by Diabetes Stage", YLabel: "Average Age", Points: charts.FromGrouped(r.Age), Color: charts.Red},
		},
	}
}
