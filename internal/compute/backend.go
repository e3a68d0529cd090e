package compute

import (
	"fmt"
	"strings"
)

// WorkgroupSize is the edge length of one dispatch tile.
const WorkgroupSize = 8

type Backend interface {
	Name() string
	Available() bool
	Alloc(n int) (Buffer, error)
	Compile(source string) (Kernel, error)
	Submit(passes []Pass) error
	Cleanup()
}

// Buffer is one device-resident region of float32 cells.
type Buffer interface {
	Len() int
	Write(offset int, data []float32)
	// Read blocks until all submitted work touching the buffer has finished.
	Read(dst []float32) error
	Release()
}

// Kernel is a compiled cell-update program.
type Kernel interface {
	// Parameterized reports whether the kernel reads the rule uniform block.
	Parameterized() bool
	Source() string
	Release()
}

// Pass is one generation: read In, write Out.
type Pass struct {
	Kernel Kernel
	In     Buffer
	Out    Buffer
	Params SimParams
	Rules  RuleParams
}

// Groups returns the dispatch size covering a width x height grid.
func Groups(width, height int) (int, int) {
	return (width + WorkgroupSize - 1) / WorkgroupSize, (height + WorkgroupSize - 1) / WorkgroupSize
}

func validatePass(p Pass) error {
	if p.Kernel == nil || p.In == nil || p.Out == nil {
		return fmt.Errorf("compute: incomplete pass")
	}
	n := int(p.Params.Width) * int(p.Params.Height)
	if p.In.Len() != n || p.Out.Len() != n {
		return fmt.Errorf("%w: want %d cells, in=%d out=%d", ErrBufferSize, n, p.In.Len(), p.Out.Len())
	}
	return nil
}

// Select returns the backend registered under name. "auto" prefers the GPU
// when one is usable.
func Select(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return AutoSelectBackend(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "opengl", "gl", "gpu":
		gl := NewOpenGLBackend()
		if !gl.Available() {
			return nil, fmt.Errorf("%w: %s", ErrUnavailable, gl.Name())
		}
		return gl, nil
	default:
		return nil, fmt.Errorf("compute: unknown backend %q", name)
	}
}

func AutoSelectBackend() Backend {
	gl := NewOpenGLBackend()
	if gl.Available() {
		return gl
	}
	return NewCPUBackend()
}
