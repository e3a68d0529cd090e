package tui

import (
	"strings"

	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/view"
)

// Braille patterns are 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille characters, each showing 2x4 dots. Every
// character also remembers the color of the last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	tint          [][]int8
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		tint:   make([][]int8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.tint[i] = make([]int8, w)
	}
	c.Clear()
	return c
}

// DotWidth and DotHeight are the canvas size in dots, which is the surface
// size the session sees.
func (c *Canvas) DotWidth() int  { return c.Width * 2 }
func (c *Canvas) DotHeight() int { return c.Height * 4 }

// Set lights dot (x, y).
func (c *Canvas) Set(x, y int, col grid.Color) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] |= pixelMap[y%4][x%2]
	c.tint[row][cell] = int8(col)
}

func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] &^= pixelMap[y%4][x%2]
	if c.Grid[row][cell] == blank {
		c.tint[row][cell] = -1
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.tint[i][j] = -1
		}
	}
}

// Tint returns the color of character (col, row), false when it is empty.
func (c *Canvas) Tint(col, row int) (grid.Color, bool) {
	t := c.tint[row][col]
	return grid.Color(t), t >= 0
}

// Draw clears the canvas and lights one dot per screen pixel showing a live
// cell.
func (c *Canvas) Draw(f render.Frame, st view.State) {
	c.Clear()
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			v, ok := f.At(st, x, y)
			if !ok {
				continue
			}
			if col, alive := grid.Category(v); alive {
				c.Set(x, y, col)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
