package charts

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/healthsurvey-cli/internal/stats"
)

type solidPanel struct{ c color.RGBA }

func (p solidPanel) Render(w, h int) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.c), image.Point{}, draw.Src)
	return img, nil
}

func TestFigureLayout(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	f := Figure{Title: "Grid", Cols: 2, Rows: 2, PanelWidth: 50, PanelHeight: 40,
		Panels: []Panel{solidPanel{red}, solidPanel{blue}, solidPanel{blue}}}
	img, err := f.Render()
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, titleBand+80, img.Bounds().Dy())

	assert.Equal(t, red, color.RGBAModel.Convert(img.At(10, titleBand+10)))
	assert.Equal(t, blue, color.RGBAModel.Convert(img.At(60, titleBand+10)))
	assert.Equal(t, blue, color.RGBAModel.Convert(img.At(10, titleBand+50)))
	// unused cell stays white
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBAModel.Convert(img.At(60, titleBand+50)))
}

func TestFigureRejectsBadGrid(t *testing.T) {
	_, err := Figure{Cols: 1, Rows: 1, PanelWidth: 10, PanelHeight: 10,
		Panels: []Panel{solidPanel{}, solidPanel{}}}.Render()
	assert.Error(t, err)

	_, err = Figure{Cols: 0, Rows: 1, PanelWidth: 10, PanelHeight: 10}.Render()
	assert.Error(t, err)

	_, err = Figure{Cols: 1, Rows: 1}.Render()
	assert.Error(t, err)
}

func TestPanelsWithoutDataUsePlaceholder(t *testing.T) {
	panels := []Panel{
		BarPanel{Title: "empty", Points: []Point{{Label: "a"}, {Label: "b"}}},
		BarPanel{Title: "none"},
		LinePanel{Title: "flat", Labels: []string{"a"}, Lines: []Line{{Name: "x", Points: []Point{{Label: "a"}}}}},
		BoxPanel{Title: "box", Items: []BoxItem{{Label: "0"}}},
	}
	for _, p := range panels {
		img, err := p.Render(120, 80)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 120, 80), img.Bounds())
	}
}

func TestRenderRealPanels(t *testing.T) {
	box, ok := stats.BoxOf([]float64{21, 22, 23, 24, 25, 60})
	require.True(t, ok)
	f := Figure{Title: "Survey", Cols: 3, Rows: 1, PanelWidth: 400, PanelHeight: 300, Panels: []Panel{
		BarPanel{Title: "Bars", YLabel: "Mean", Color: Red, Points: []Point{
			{Label: "Young", Value: 0.2, Valid: true},
			{Label: "Middle", Valid: false},
			{Label: "Senior", Value: 0.5, Valid: true},
		}},
		LinePanel{Title: "Lines", Labels: []string{"a", "b", "c"}, Lines: []Line{
			{Name: "one", Color: Blue, Points: []Point{{Value: 1, Valid: true}, {}, {Value: 0.5, Valid: true}}},
			{Name: "two", Color: Green, Points: []Point{{Value: 0.3, Valid: true}, {Value: 1, Valid: true}, {Value: 0.8, Valid: true}}},
		}},
		BoxPanel{Title: "Box", YLabel: "BMI", Color: Blue, Items: []BoxItem{
			{Label: "0", Box: box, Valid: true},
			{Label: "1"},
		}},
	}}
	path := filepath.Join(t.TempDir(), "charts", "figure.png")
	require.NoError(t, f.Save(path))

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	img, err := png.Decode(fh)
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())
	assert.Equal(t, 300+titleBand, img.Bounds().Dy())
}
