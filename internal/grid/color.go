package grid

import (
	"fmt"
	"math"
	"strings"
)

// Color is the category a live cell value encodes.
type Color int

const (
	White Color = iota
	Red
	Green
	Blue
	Yellow
	Purple
)

var colorNames = [...]string{"white", "red", "green", "blue", "yellow", "purple"}

// Value is the float written into the grid for a live cell of this color.
func (c Color) Value() float32 {
	if c == White {
		return 1
	}
	return float32(c) + 2
}

func (c Color) String() string {
	if c < White || c > Purple {
		return fmt.Sprintf("color(%d)", int(c))
	}
	return colorNames[c]
}

func Colors() []Color {
	return []Color{White, Red, Green, Blue, Yellow, Purple}
}

func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Color(i), nil
		}
	}
	return White, fmt.Errorf("grid: unknown color %q", s)
}

// Category maps a cell value back to its color. Dead cells report false.
func Category(v float32) (Color, bool) {
	if v <= 0.5 {
		return White, false
	}
	r := math.Round(float64(v))
	if r < 3 {
		return White, true
	}
	if r > 7 {
		return Purple, true
	}
	return Color(r - 2), true
}
