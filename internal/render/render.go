// Package render rasterizes the visible part of a grid snapshot into RGBA
// pixels under a viewport state.
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/view"
)

// Palette colors dead cells, off-grid area and each live color category.
type Palette struct {
	Dead       color.RGBA
	Background color.RGBA
	Live       [6]color.RGBA
}

func DefaultPalette() Palette {
	return Palette{
		Dead:       color.RGBA{R: 12, G: 12, B: 16, A: 255},
		Background: color.RGBA{A: 255},
		Live: [6]color.RGBA{
			grid.White:  {R: 235, G: 235, B: 235, A: 255},
			grid.Red:    {R: 230, G: 70, B: 60, A: 255},
			grid.Green:  {R: 80, G: 210, B: 100, A: 255},
			grid.Blue:   {R: 70, G: 130, B: 240, A: 255},
			grid.Yellow: {R: 240, G: 220, B: 70, A: 255},
			grid.Purple: {R: 170, G: 90, B: 220, A: 255},
		},
	}
}

// Cell returns the color for a cell value.
func (p Palette) Cell(v float32) color.RGBA {
	c, alive := grid.Category(v)
	if !alive {
		return p.Dead
	}
	return p.Live[c]
}

// Frame is a snapshot plus its dimensions.
type Frame struct {
	Cells  []float32
	Width  int
	Height int
}

// At returns the cell under screen pixel (px, py), or false when the pixel
// shows area outside the grid.
func (f Frame) At(st view.State, px, py int) (float32, bool) {
	x := int(math.Floor((float64(px) + st.Offset.X) / st.Zoom))
	y := int(math.Floor((float64(py) + st.Offset.Y) / st.Zoom))
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0, false
	}
	return f.Cells[y*f.Width+x], true
}

// Fill writes a w×h RGBA image of f into buf, which must hold w*h*4 bytes.
func Fill(buf []byte, w, h int, f Frame, st view.State, p Palette) {
	for py := 0; py < h; py++ {
		row := buf[py*w*4 : (py+1)*w*4]
		for px := 0; px < w; px++ {
			c := p.Background
			if v, ok := f.At(st, px, py); ok {
				c = p.Cell(v)
			}
			base := px * 4
			row[base+0] = c.R
			row[base+1] = c.G
			row[base+2] = c.B
			row[base+3] = c.A
		}
	}
}

// Image renders f into a new w×h image.
func Image(w, h int, f Frame, st view.State, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	Fill(img.Pix, w, h, f, st, p)
	return img
}
