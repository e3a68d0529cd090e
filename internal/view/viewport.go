// Package view maps between screen pixels and grid cells under a pan/zoom
// viewport that never shows area outside the grid.
package view

import (
	"math"

	"github.com/apex/log"
)

const (
	DefaultMinZoom  = 1.0
	DefaultMaxZoom  = 16.0
	DefaultZoomStep = 1.2

	// zoomEpsilon is the smallest zoom change that is applied.
	zoomEpsilon = 1e-6
)

// Vec is a 2-D point or displacement in pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) LenSq() float64      { return v.X*v.X + v.Y*v.Y }
func (v Vec) Len() float64        { return math.Sqrt(v.LenSq()) }

// State is the part of a viewport a renderer needs.
type State struct {
	Zoom   float64
	Offset Vec
}

type Limits struct {
	MinZoom float64
	MaxZoom float64
	Step    float64
}

func DefaultLimits() Limits {
	return Limits{MinZoom: DefaultMinZoom, MaxZoom: DefaultMaxZoom, Step: DefaultZoomStep}
}

// Viewport holds zoom and offset. Offset is the world-pixel position of the
// top-left screen corner; on each axis it stays within
// [0, max(0, grid*zoom - screen)].
type Viewport struct {
	limits Limits
	log    log.Interface

	zoom   float64
	offset Vec

	screenW, screenH float64
	gridW, gridH     float64
}

func New(limits Limits, logger log.Interface) *Viewport {
	if logger == nil {
		logger = log.Log
	}
	if limits.MinZoom <= 0 {
		limits.MinZoom = DefaultMinZoom
	}
	if limits.MaxZoom < limits.MinZoom {
		limits.MaxZoom = limits.MinZoom
	}
	if limits.Step <= 1 {
		limits.Step = DefaultZoomStep
	}
	return &Viewport{limits: limits, log: logger, zoom: limits.MinZoom}
}

func (v *Viewport) Zoom() float64  { return v.zoom }
func (v *Viewport) Offset() Vec    { return v.offset }
func (v *Viewport) Limits() Limits { return v.limits }
func (v *Viewport) Current() State { return State{Zoom: v.zoom, Offset: v.offset} }

func (v *Viewport) ScreenSize() (float64, float64) { return v.screenW, v.screenH }

// Center is the geometric center of the screen.
func (v *Viewport) Center() Vec { return Vec{v.screenW / 2, v.screenH / 2} }

// SetViewportSize records the screen size in pixels and reclamps.
func (v *Viewport) SetViewportSize(w, h int) {
	v.screenW, v.screenH = float64(max(w, 0)), float64(max(h, 0))
	v.clamp()
}

// SetGridSize records the grid size in cells and reclamps.
func (v *Viewport) SetGridSize(w, h int) {
	v.gridW, v.gridH = float64(max(w, 0)), float64(max(h, 0))
	v.clamp()
}

func (v *Viewport) Reset() {
	v.zoom = v.limits.MinZoom
	v.offset = Vec{}
}

func (v *Viewport) ScreenToWorld(p Vec) Vec {
	return p.Add(v.offset).Scale(1 / v.zoom)
}

func (v *Viewport) WorldToScreen(w Vec) Vec {
	return w.Scale(v.zoom).Sub(v.offset)
}

// ScreenToCell returns the cell under a screen point. The result may lie
// outside the grid; edits ignore such cells.
func (v *Viewport) ScreenToCell(p Vec) (int, int) {
	w := v.ScreenToWorld(p)
	return int(math.Floor(w.X)), int(math.Floor(w.Y))
}

// ZoomBy zooms one step in (delta > 0) or out (delta < 0) keeping the world
// point under anchor fixed, then reclamps. It reports whether the zoom
// changed.
func (v *Viewport) ZoomBy(delta float64, anchor Vec) bool {
	if delta == 0 {
		return false
	}
	factor := v.limits.Step
	if delta < 0 {
		factor = 1 / v.limits.Step
	}
	return v.zoomTo(v.zoom*factor, anchor)
}

// SetZoomExact sets the zoom anchored at the screen center.
func (v *Viewport) SetZoomExact(zoom float64) bool {
	return v.zoomTo(zoom, v.Center())
}

func (v *Viewport) zoomTo(zoom float64, anchor Vec) bool {
	if math.IsNaN(zoom) {
		return false
	}
	zoom = clampf(zoom, v.limits.MinZoom, v.limits.MaxZoom)
	if math.Abs(zoom-v.zoom) < zoomEpsilon {
		return false
	}

	world := v.ScreenToWorld(anchor)
	old := v.zoom
	v.zoom = zoom
	v.offset = world.Scale(zoom).Sub(anchor)
	v.clamp()

	v.log.WithFields(log.Fields{
		"from": old,
		"to":   zoom,
	}).Debug("zoom")
	return true
}

// PanBy moves the content with a drag of d screen pixels.
func (v *Viewport) PanBy(d Vec) {
	v.offset = v.offset.Sub(d)
	v.clamp()
}

// MaxOffset is the largest offset on each axis for the current zoom.
func (v *Viewport) MaxOffset() Vec {
	return Vec{
		X: math.Max(0, v.gridW*v.zoom-v.screenW),
		Y: math.Max(0, v.gridH*v.zoom-v.screenH),
	}
}

func (v *Viewport) clamp() {
	m := v.MaxOffset()
	v.offset.X = clampf(v.offset.X, 0, m.X)
	v.offset.Y = clampf(v.offset.Y, 0, m.Y)
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
