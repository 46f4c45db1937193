package charts

import (
	"image"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// BoxPanel draws one box plot per item on a shared y axis.
type BoxPanel struct {
	Title  string
	XLabel string
	YLabel string
	Items  []BoxItem
	Color  drawing.Color
}

func (p BoxPanel) Render(width, height int) (image.Image, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	labels := make([]string, len(p.Items))
	for i, it := range p.Items {
		labels[i] = it.Label
		if !it.Valid {
			labels[i] += " (no data)"
			continue
		}
		lo = math.Min(lo, math.Min(it.Box.Min, it.Box.WhiskerLow))
		hi = math.Max(hi, math.Max(it.Box.Max, it.Box.WhiskerHigh))
	}
	if math.IsInf(lo, 1) {
		return Placeholder(width, height, p.Title, "no data"), nil
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}

	xaxis := categoryAxis(labels)
	xaxis.Name = p.XLabel
	ch := gochart.Chart{
		Title:      p.Title,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: panelPadding},
		XAxis:      xaxis,
		YAxis: gochart.YAxis{
			Name:           p.YLabel,
			Range:          &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad},
			ValueFormatter: tickFormatter(false),
		},
		Series: []gochart.Series{boxSeries{items: p.Items, color: p.Color}},
	}
	return renderPNG(ch.Render, p.Title)
}
