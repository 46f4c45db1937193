package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/KaramelBytes/healthsurvey-cli/internal/utils"
)

const titleBand = 30

// Figure lays panels out on a grid, row by row, under an optional title.
type Figure struct {
	Title       string
	Cols        int
	Rows        int
	PanelWidth  int
	PanelHeight int
	Panels      []Panel
}

// Render draws every panel and composes them into one image.
func (f Figure) Render() (image.Image, error) {
	if f.Cols <= 0 || f.Rows <= 0 {
		return nil, fmt.Errorf("figure %q: invalid grid %dx%d", f.Title, f.Rows, f.Cols)
	}
	if len(f.Panels) > f.Cols*f.Rows {
		return nil, fmt.Errorf("figure %q: %d panels do not fit a %dx%d grid", f.Title, len(f.Panels), f.Rows, f.Cols)
	}
	if f.PanelWidth <= 0 || f.PanelHeight <= 0 {
		return nil, fmt.Errorf("figure %q: invalid panel size %dx%d", f.Title, f.PanelWidth, f.PanelHeight)
	}
	top := 0
	if f.Title != "" {
		top = titleBand
	}
	canvas := image.NewRGBA(image.Rect(0, 0, f.Cols*f.PanelWidth, top+f.Rows*f.PanelHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	if f.Title != "" {
		drawText(canvas, f.Title, image.Rect(0, 0, canvas.Bounds().Dx(), titleBand))
	}
	for i, p := range f.Panels {
		img, err := p.Render(f.PanelWidth, f.PanelHeight)
		if err != nil {
			return nil, fmt.Errorf("figure %q panel %d: %w", f.Title, i+1, err)
		}
		x := (i % f.Cols) * f.PanelWidth
		y := top + (i/f.Cols)*f.PanelHeight
		dst := image.Rect(x, y, x+f.PanelWidth, y+f.PanelHeight)
		draw.Draw(canvas, dst, img, img.Bounds().Min, draw.Over)
	}
	return canvas, nil
}

// Save renders the figure and writes it as a PNG file.
func (f Figure) Save(path string) error {
	img, err := f.Render()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Placeholder is a blank panel carrying a title and a short message.
func Placeholder(width, height int, title, msg string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	if title != "" {
		drawText(img, title, image.Rect(0, 0, width, titleBand))
	}
	drawText(img, msg, img.Bounds())
	return img
}

// drawText centers text inside r using the 7x13 bitmap face.
func drawText(dst *image.RGBA, text string, r image.Rectangle) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := r.Min.X + (r.Dx()-tw)/2
	if x < r.Min.X+4 {
		x = r.Min.X + 4
	}
	y := r.Min.Y + (r.Dy()+face.Metrics().Ascent.Ceil())/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
