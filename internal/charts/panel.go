// Package charts renders the survey figures as multi-panel PNG images.
package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Panel is one cell of a Figure.
type Panel interface {
	Render(width, height int) (image.Image, error)
}

// Point is a labelled value. Invalid points are drawn as "no data".
type Point struct {
	Label string
	Value float64
	Valid bool
}

// Palette used by the survey figures.
var (
	Red       = drawing.Color{R: 214, G: 69, B: 65, A: 255}
	DarkRed   = drawing.Color{R: 139, G: 0, B: 0, A: 255}
	Blue      = drawing.Color{R: 52, G: 101, B: 164, A: 255}
	Purple    = drawing.Color{R: 128, G: 0, B: 128, A: 255}
	Orange    = drawing.Color{R: 255, G: 140, B: 0, A: 255}
	Green     = drawing.Color{R: 46, G: 139, B: 87, A: 255}
	lightGray = drawing.Color{R: 200, G: 200, B: 200, A: 255}
)

var panelPadding = gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}

// BarPanel is a vertical bar chart over labelled values.
type BarPanel struct {
	Title  string
	YLabel string
	Points []Point
	Color  drawing.Color
	// Percent renders y ticks as percentages of 1.
	Percent bool
}

func (p BarPanel) Render(width, height int) (image.Image, error) {
	hi, ok := maxValid(p.Points)
	if !ok {
		return Placeholder(width, height, p.Title, "no data"), nil
	}
	top := axisTop(hi)

	slot := (width - 80) / len(p.Points)
	if slot < 10 {
		slot = 10
	}
	barWidth := slot * 3 / 5
	bars := make([]gochart.Value, 0, len(p.Points))
	for _, pt := range p.Points {
		v := pt.Value
		label := pt.Label
		style := gochart.Style{FillColor: withAlpha(p.Color, 180), StrokeColor: p.Color, StrokeWidth: 1}
		if !pt.Valid {
			v = 0
			label += " (no data)"
			style.FillColor = lightGray
			style.StrokeColor = lightGray
		}
		bars = append(bars, gochart.Value{Label: label, Value: v, Style: style})
	}

	bc := gochart.BarChart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: panelPadding},
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		YAxis: gochart.YAxis{
			Name:           p.YLabel,
			Range:          &gochart.ContinuousRange{Min: 0, Max: top},
			ValueFormatter: tickFormatter(p.Percent),
		},
		Bars: bars,
	}
	return renderPNG(bc.Render, p.Title)
}

// Line is one named series of a LinePanel. Points align with the panel labels.
type Line struct {
	Name   string
	Points []Point
	Color  drawing.Color
}

// LinePanel overlays several series on a shared categorical x axis. Invalid
// points leave a gap in their line.
type LinePanel struct {
	Title  string
	YLabel string
	Labels []string
	Lines  []Line
}

func (p LinePanel) Render(width, height int) (image.Image, error) {
	hi := math.Inf(-1)
	for _, l := range p.Lines {
		if m, ok := maxValid(l.Points); ok && m > hi {
			hi = m
		}
	}
	if math.IsInf(hi, -1) || len(p.Labels) == 0 {
		return Placeholder(width, height, p.Title, "no data"), nil
	}

	series := make([]gochart.Series, 0, len(p.Lines))
	for _, l := range p.Lines {
		series = append(series, gapLineSeries{name: l.Name, points: l.Points, color: l.Color})
	}
	ch := gochart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: panelPadding},
		XAxis:      categoryAxis(p.Labels),
		YAxis: gochart.YAxis{
			Name:  p.YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: axisTop(hi)},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return renderPNG(ch.Render, p.Title)
}

// categoryAxis places labels at 0..n-1 with half a slot of padding on both
// sides. The blank edge ticks fix the axis range.
func categoryAxis(labels []string) gochart.XAxis {
	n := len(labels)
	ticks := make([]gochart.Tick, 0, n+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5, Label: ""})
	for i, l := range labels {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: l})
	}
	ticks = append(ticks, gochart.Tick{Value: float64(n) - 0.5, Label: ""})
	return gochart.XAxis{
		Ticks: ticks,
		Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
	}
}

func renderPNG(render func(gochart.RendererProvider, io.Writer) error, title string) (image.Image, error) {
	var buf bytes.Buffer
	if err := render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %q: %w", title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", title, err)
	}
	return img, nil
}

func maxValid(points []Point) (float64, bool) {
	hi, ok := 0.0, false
	for _, p := range points {
		if !p.Valid {
			continue
		}
		if !ok || p.Value > hi {
			hi = p.Value
		}
		ok = true
	}
	return hi, ok
}

// axisTop leaves headroom above the tallest value.
func axisTop(hi float64) float64 {
	if hi <= 0 {
		return 1
	}
	return hi * 1.15
}

func withAlpha(c drawing.Color, a uint8) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: a}
}

func tickFormatter(percent bool) gochart.ValueFormatter {
	if percent {
		return func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f%%", f*100)
			}
			return ""
		}
	}
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return fmt.Sprintf("%.2f", f)
		}
		return ""
	}
}
