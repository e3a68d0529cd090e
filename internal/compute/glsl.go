package compute

import (
	_ "embed"
	"strings"
	"text/template"
)

// ThresholdSource is the canonical parameterized program: survive on a
// neighbor count in [survival_min, survival_max], birth on birth_count.
//
//go:embed shaders/threshold.comp
var ThresholdSource string

var tableTmpl = template.Must(template.New("table").Parse(`#version 430
layout(local_size_x = {{.Size}}, local_size_y = {{.Size}}) in;

// {{.Rule}}
const uint BIRTH_MASK = {{.Birth}}u;
const uint SURVIVE_MASK = {{.Survive}}u;

layout(std140, binding = 0) uniform SimParams {
    uint width;
    uint height;
    float lucky_chance;
    uint seed;
    uint enable_lucky;
    float paint;
};

layout(std430, binding = 1) readonly buffer InputGrid {
    float cells_in[];
};

layout(std430, binding = 2) writeonly buffer OutputGrid {
    float cells_out[];
};

bool lucky(uint x, uint y) {
    uint h = x * 374761393u + y * 668265263u + seed * 2246822519u;
    h = (h ^ (h >> 13u)) * 1274126177u;
    h ^= h >> 16u;
    return float(h % 10000u) / 10000.0 < lucky_chance;
}

void main() {
    uint x = gl_GlobalInvocationID.x;
    uint y = gl_GlobalInvocationID.y;
    if (x >= width || y >= height) {
        return;
    }

    int w = int(width);
    int h = int(height);
    uint n = 0u;
    for (int dy = -1; dy <= 1; dy++) {
        for (int dx = -1; dx <= 1; dx++) {
            if (dx == 0 && dy == 0) {
                continue;
            }
            int nx = (int(x) + dx + w) % w;
            int ny = (int(y) + dy + h) % h;
            if (cells_in[ny * w + nx] > 0.5) {
                n++;
            }
        }
    }

    float cur = cells_in[y * width + x];
    float next = 0.0;
    if (cur > 0.5) {
        if (((SURVIVE_MASK >> n) & 1u) != 0u) {
            next = cur;
        } else if (enable_lucky != 0u && lucky(x, y)) {
            next = cur;
        }
    } else if (((BIRTH_MASK >> n) & 1u) != 0u) {
        next = paint;
    }
    cells_out[y * width + x] = next;
}
`))

// TableProgram renders a GLSL compute program evaluating t. The result has
// no GameRules block, so it is not parameterized.
func TableProgram(t Table) (string, error) {
	birth, survive := t.Masks()
	var b strings.Builder
	err := tableTmpl.Execute(&b, struct {
		Size    int
		Rule    string
		Birth   uint32
		Survive uint32
	}{WorkgroupSize, t.String(), birth, survive})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func isThreshold(source string) bool {
	return strings.TrimSpace(source) == strings.TrimSpace(ThresholdSource)
}
