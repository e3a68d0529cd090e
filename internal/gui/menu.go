// Package gui hosts a session in a raylib window. The grid evaluates on the
// OpenGL backend when the window's context supports compute shaders.
package gui

import (
	"github.com/san-kum/lifelab/internal/input"
	"github.com/san-kum/lifelab/internal/view"
)

const (
	menuItemWidth  = 160
	menuItemHeight = 22
)

// MenuItem is one entry of the tool menu in screen pixels.
type MenuItem struct {
	Mode       input.Mode
	X, Y, W, H float64
}

func (it MenuItem) Contains(p view.Vec) bool {
	return p.X >= it.X && p.X < it.X+it.W && p.Y >= it.Y && p.Y < it.Y+it.H
}

// MenuLayout stacks one item per mode below the click position, shifted to
// stay inside a screenW×screenH window.
func MenuLayout(pos view.Vec, screenW, screenH float64) []MenuItem {
	modes := input.Modes()
	h := float64(len(modes) * menuItemHeight)
	x := min(pos.X, screenW-menuItemWidth)
	y := min(pos.Y, screenH-h)
	x, y = max(x, 0), max(y, 0)

	items := make([]MenuItem, len(modes))
	for i, m := range modes {
		items[i] = MenuItem{
			Mode: m,
			X:    x,
			Y:    y + float64(i*menuItemHeight),
			W:    menuItemWidth,
			H:    menuItemHeight,
		}
	}
	return items
}

// MenuHit returns the mode under p, if any.
func MenuHit(items []MenuItem, p view.Vec) (input.Mode, bool) {
	for _, it := range items {
		if it.Contains(p) {
			return it.Mode, true
		}
	}
	return 0, false
}
