package gui

import (
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/view"
)

// cellBinding is the storage binding the draw reads cells from. The compute
// passes own bindings 1 and 2.
const cellBinding = 4

// Cells are looked up exactly as render.Frame.At does, so a shaded frame
// matches a rasterized one pixel for pixel.
const cellVertexShader = `#version 430
in vec3 vertexPosition;
uniform mat4 mvp;

void main() {
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const cellFragmentShader = `#version 430
layout(std430, binding = 4) readonly buffer Cells {
    float cells[];
};

uniform vec2 gridSize;
uniform vec2 screenSize;
uniform vec3 viewState;
uniform vec4 palette[8];

out vec4 finalColor;

void main() {
    vec2 px = floor(vec2(gl_FragCoord.x, screenSize.y - gl_FragCoord.y));
    ivec2 cell = ivec2(floor((px + viewState.yz) / viewState.x));
    ivec2 size = ivec2(gridSize);
    if (cell.x < 0 || cell.y < 0 || cell.x >= size.x || cell.y >= size.y) {
        finalColor = palette[1];
        return;
    }

    float v = cells[cell.y * size.x + cell.x];
    if (v <= 0.5) {
        finalColor = palette[0];
        return;
    }
    float r = floor(v + 0.5);
    int c = int(clamp(r - 2.0, 0.0, 5.0));
    if (r < 3.0) {
        c = 0;
    }
    finalColor = palette[2 + c];
}
`

// paletteUniform packs p as the shader's palette array: dead, background,
// then the live colors, each as normalized RGBA.
func paletteUniform(p render.Palette) []float32 {
	out := make([]float32, 0, 4*(2+len(p.Live)))
	add := func(r, g, b, a uint8) {
		out = append(out, float32(r)/255, float32(g)/255, float32(b)/255, float32(a)/255)
	}
	add(p.Dead.R, p.Dead.G, p.Dead.B, p.Dead.A)
	add(p.Background.R, p.Background.G, p.Background.B, p.Background.A)
	for _, c := range p.Live {
		add(c.R, c.G, c.B, c.A)
	}
	return out
}

func viewUniform(st view.State) []float32 {
	return []float32{float32(st.Zoom), float32(st.Offset.X), float32(st.Offset.Y)}
}
