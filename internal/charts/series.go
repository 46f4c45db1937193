package charts

import (
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
)

// gapLineSeries draws points at x = index and breaks the line at invalid points.
type gapLineSeries struct {
	name   string
	points []Point
	color  drawing.Color
}

func (s gapLineSeries) GetName() string             { return s.name }
func (s gapLineSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s gapLineSeries) Validate() error             { return nil }

func (s gapLineSeries) GetStyle() gochart.Style {
	return gochart.Style{StrokeColor: s.color, StrokeWidth: 2, DotColor: s.color, DotWidth: 4}
}

func (s gapLineSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	px := func(i int, v float64) (int, int) {
		return canvasBox.Left + xrange.Translate(float64(i)), canvasBox.Bottom - yrange.Translate(v)
	}

	r.SetStrokeColor(s.color)
	r.SetStrokeWidth(2)
	open := false
	for i, p := range s.points {
		if !p.Valid {
			if open {
				r.Stroke()
			}
			open = false
			continue
		}
		x, y := px(i, p.Value)
		if open {
			r.LineTo(x, y)
		} else {
			r.MoveTo(x, y)
			open = true
		}
	}
	if open {
		r.Stroke()
	}

	r.SetFillColor(s.color)
	r.SetStrokeWidth(1)
	for i, p := range s.points {
		if !p.Valid {
			continue
		}
		x, y := px(i, p.Value)
		r.Circle(4, x, y)
		r.FillStroke()
	}
}

// FromGrouped converts a grouped statistic to points in bucket order.
func FromGrouped(g stats.Grouped) []Point {
	out := make([]Point, len(g.Buckets))
	for i, b := range g.Buckets {
		out[i] = Point{Label: b.Label, Value: b.Value, Valid: b.Valid}
	}
	return out
}

// BoxItem is one labelled box of a BoxPanel.
type BoxItem struct {
	Label string
	Box   stats.Box
	Valid bool
}

// boxSeries draws one box and whisker per item at x = index. Outliers are
// drawn once per distinct value.
type boxSeries struct {
	items []BoxItem
	color drawing.Color
}

func (s boxSeries) GetName() string             { return "BMI" }
func (s boxSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s boxSeries) Validate() error             { return nil }

func (s boxSeries) GetStyle() gochart.Style {
	return gochart.Style{StrokeColor: s.color, FillColor: withAlpha(s.color, 90), StrokeWidth: 1.5}
}

func (s boxSeries) Render(r gochart.Renderer, canvasBox gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	y := func(v float64) int { return canvasBox.Bottom - yrange.Translate(v) }
	x := func(v float64) int { return canvasBox.Left + xrange.Translate(v) }

	for i, it := range s.items {
		if !it.Valid {
			continue
		}
		b := it.Box
		cx := float64(i)
		left, right := x(cx-0.3), x(cx+0.3)
		capL, capR := x(cx-0.15), x(cx+0.15)
		mid := x(cx)

		r.SetFillColor(withAlpha(s.color, 90))
		r.SetStrokeColor(s.color)
		r.SetStrokeWidth(1.5)
		r.MoveTo(left, y(b.Q3))
		r.LineTo(right, y(b.Q3))
		r.LineTo(right, y(b.Q1))
		r.LineTo(left, y(b.Q1))
		r.Close()
		r.FillStroke()

		r.SetStrokeColor(Orange)
		r.SetStrokeWidth(2)
		r.MoveTo(left, y(b.Median))
		r.LineTo(right, y(b.Median))
		r.Stroke()

		r.SetStrokeColor(s.color)
		r.SetStrokeWidth(1.5)
		r.MoveTo(mid, y(b.Q3))
		r.LineTo(mid, y(b.WhiskerHigh))
		r.MoveTo(capL, y(b.WhiskerHigh))
		r.LineTo(capR, y(b.WhiskerHigh))
		r.MoveTo(mid, y(b.Q1))
		r.LineTo(mid, y(b.WhiskerLow))
		r.MoveTo(capL, y(b.WhiskerLow))
		r.LineTo(capR, y(b.WhiskerLow))
		r.Stroke()

		r.SetFillColor(drawing.Color{})
		r.SetStrokeWidth(1)
		seen := make(map[float64]bool, len(b.Outliers))
		for _, o := range b.Outliers {
			if seen[o] {
				continue
			}
			seen[o] = true
			r.Circle(3, mid, y(o))
			r.Stroke()
		}
	}
}
