//go:build gui

package gui

import (
	"errors"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/view"
)

// storageBinder is implemented by backends whose buffers a draw can read in
// place.
type storageBinder interface {
	BindStorage(b compute.Buffer, binding uint32) bool
}

// cellShader draws the grid from the device buffer of the latest
// generation, so presenting a frame needs no readback.
type cellShader struct {
	binder storageBinder
	shader rl.Shader

	locGrid    int32
	locScreen  int32
	locView    int32
	locPalette int32
}

func newCellShader(binder storageBinder, p render.Palette) (*cellShader, error) {
	sh := rl.LoadShaderFromMemory(cellVertexShader, cellFragmentShader)
	c := &cellShader{
		binder:     binder,
		shader:     sh,
		locGrid:    rl.GetShaderLocation(sh, "gridSize"),
		locScreen:  rl.GetShaderLocation(sh, "screenSize"),
		locView:    rl.GetShaderLocation(sh, "viewState"),
		locPalette: rl.GetShaderLocation(sh, "palette"),
	}
	// raylib substitutes its default shader when compilation fails.
	if sh.ID == 0 || c.locGrid < 0 || c.locView < 0 {
		rl.UnloadShader(sh)
		return nil, errors.New("gui: cell shader did not compile")
	}

	pal := paletteUniform(p)
	rl.SetShaderValueV(sh, c.locPalette, pal, rl.ShaderUniformVec4, int32(len(pal)/4))
	return c, nil
}

// draw shades a w×h screen from cells. It reports false when the buffer
// cannot be bound, leaving the caller to rasterize instead.
func (c *cellShader) draw(cells compute.Buffer, gridW, gridH, w, h int, st view.State) bool {
	if !c.binder.BindStorage(cells, cellBinding) {
		return false
	}
	rl.SetShaderValue(c.shader, c.locGrid, []float32{float32(gridW), float32(gridH)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(c.shader, c.locScreen, []float32{float32(w), float32(h)}, rl.ShaderUniformVec2)
	rl.SetShaderValue(c.shader, c.locView, viewUniform(st), rl.ShaderUniformVec3)

	rl.BeginShaderMode(c.shader)
	rl.DrawRectangle(0, 0, int32(w), int32(h), rl.White)
	rl.EndShaderMode()
	return true
}

func (c *cellShader) unload() {
	rl.UnloadShader(c.shader)
}
