package grid

import "github.com/san-kum/lifelab/internal/patterns"

// Seed returns the deterministic generation-0 contents: a glider at a
// quarter of each axis and a Gosper gun at (w/5, h/2), on grids larger
// than 10 cells on both axes.
func Seed(width, height int) []float32 {
	cells := make([]float32, width*height)
	if width <= 10 || height <= 10 {
		return cells
	}
	place(cells, width, height, patterns.Glider, width/4, height/4, White.Value())
	place(cells, width, height, patterns.GosperGun, width/5, height/2, White.Value())
	return cells
}

func place(cells []float32, width, height int, p patterns.Pattern, x, y int, v float32) {
	for _, c := range p.Cells {
		cx, cy := x+c.DX, y+c.DY
		if cx < 0 || cy < 0 || cx >= width || cy >= height {
			continue
		}
		cells[cy*width+cx] = v
	}
}
