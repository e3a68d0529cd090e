package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/render"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// GridToSVG draws every live cell of f as a scale×scale square. Runs of
// same-colored cells on a row share one rect.
func GridToSVG(f render.Frame, scale float64, p render.Palette) string {
	if len(f.Cells) < f.Width*f.Height || f.Width <= 0 || f.Height <= 0 {
		return ""
	}

	width := float64(f.Width) * scale
	height := float64(f.Height) * scale

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(p.Dead))

	for y := 0; y < f.Height; y++ {
		row := f.Cells[y*f.Width : (y+1)*f.Width]
		for x := 0; x < f.Width; {
			c, alive := grid.Category(row[x])
			if !alive {
				x++
				continue
			}
			start := x
			for x < f.Width {
				next, ok := grid.Category(row[x])
				if !ok || next != c {
					break
				}
				x++
			}
			fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(start)*scale, float64(y)*scale, float64(x-start)*scale, scale, hex(p.Live[c]))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PopulationToSVG plots a population series as a polyline.
func PopulationToSVG(generations []uint64, population []int, width, height int, strokeColor string) string {
	n := min(len(generations), len(population))
	if n < 2 {
		return ""
	}

	minX, maxX := float64(generations[0]), float64(generations[n-1])
	minY, maxY := float64(population[0]), float64(population[0])
	for _, p := range population[:n] {
		minY = min(minY, float64(p))
		maxY = max(maxY, float64(p))
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := 0; i < n; i++ {
		x := (float64(generations[i]) - minX) / rangeX * float64(width)
		y := float64(height) - (float64(population[i])-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
