package grid

import "github.com/san-kum/lifelab/internal/patterns"

// Paint fills the (2r+1) square centered on (cx, cy). Nothing is painted
// when the center lies outside the grid.
func (s *Store) Paint(cx, cy, radius int, v float32) {
	if !s.Initialized() || !s.InBounds(cx, cy) {
		return
	}
	radius = max(radius, 0)
	for y := cy - radius; y <= cy+radius; y++ {
		s.writeSpan(cx-radius, cx+radius, y, v)
	}
}

// Stamp writes p's cells relative to (x, y). An origin outside the grid
// skips the stamp; cells hanging off the edge are dropped.
func (s *Store) Stamp(p patterns.Pattern, x, y int, v float32) {
	if !s.Initialized() || !s.InBounds(x, y) {
		return
	}
	for _, c := range p.Cells {
		s.WriteCell(x+c.DX, y+c.DY, v)
	}
}

// Clear kills every cell within radius of (cx, cy).
func (s *Store) Clear(cx, cy, radius int) {
	s.disc(cx, cy, radius, func(x, y int) {
		s.WriteCell(x, y, 0)
	})
}

// RandomFill sets cells within radius of (cx, cy) alive with probability
// density. The choice depends only on the coordinates and seed; cells not
// chosen keep their value.
func (s *Store) RandomFill(cx, cy, radius int, density float64, seed uint32, v float32) {
	s.disc(cx, cy, radius, func(x, y int) {
		if fillHash(x, y, seed) < density {
			s.WriteCell(x, y, v)
		}
	})
}

// ClearAll kills every cell of the current generation.
func (s *Store) ClearAll() {
	if !s.Initialized() {
		return
	}
	s.Input().Write(0, make([]float32, s.Cells()))
	s.revision++
}

func (s *Store) disc(cx, cy, radius int, fn func(x, y int)) {
	if !s.Initialized() {
		return
	}
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			x, y := cx+dx, cy+dy
			if s.InBounds(x, y) {
				fn(x, y)
			}
		}
	}
}

func fillHash(x, y int, seed uint32) float64 {
	h := uint32(x)*17 + uint32(y)*31 + seed*43
	return float64(h%1000) / 1000
}
