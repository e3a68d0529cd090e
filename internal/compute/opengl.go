//go:build gui

package compute

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// OpenGLBackend runs kernels as GL 4.3 compute shaders. It must be created
// and used on the goroutine that owns the current GL context.
type OpenGLBackend struct {
	simUBO      uint32
	rulesUBO    uint32
	initialized bool
	initErr     error
}

func NewOpenGLBackend() *OpenGLBackend {
	c := &OpenGLBackend{}
	c.init()
	return c
}

func (c *OpenGLBackend) init() {
	if err := gl.Init(); err != nil {
		c.initErr = fmt.Errorf("%w: failed to init opengl: %v", ErrUnavailable, err)
		return
	}

	var major, minor int32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	if major < 4 || (major == 4 && minor < 3) {
		c.initErr = fmt.Errorf("%w: opengl %d.%d has no compute shaders", ErrUnavailable, major, minor)
		return
	}

	gl.GenBuffers(1, &c.simUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.simUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, SimParamsSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 0, c.simUBO)

	gl.GenBuffers(1, &c.rulesUBO)
	gl.BindBuffer(gl.UNIFORM_BUFFER, c.rulesUBO)
	gl.BufferData(gl.UNIFORM_BUFFER, RuleParamsSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, 3, c.rulesUBO)

	c.initialized = true
}

func (c *OpenGLBackend) Name() string    { return "opengl" }
func (c *OpenGLBackend) Available() bool { return c.initialized }

func (c *OpenGLBackend) Cleanup() {
	if !c.initialized {
		return
	}
	gl.DeleteBuffers(1, &c.simUBO)
	gl.DeleteBuffers(1, &c.rulesUBO)
	c.initialized = false
}

func (c *OpenGLBackend) Alloc(n int) (Buffer, error) {
	if !c.initialized {
		return nil, c.initErr
	}
	if n <= 0 {
		return nil, fmt.Errorf("compute: cannot allocate %d cells", n)
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, id)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, n*4, nil, gl.DYNAMIC_COPY)
	if code := gl.GetError(); code == gl.OUT_OF_MEMORY {
		gl.DeleteBuffers(1, &id)
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfMemory, n*4)
	}

	zero := make([]float32, n)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, 0, n*4, gl.Ptr(zero))
	return &glBuffer{id: id, n: n}, nil
}

// Compile accepts raw GLSL and B/S rulestrings, which are rendered into
// GLSL first.
func (c *OpenGLBackend) Compile(source string) (Kernel, error) {
	if !c.initialized {
		return nil, c.initErr
	}

	glsl := source
	if t, err := ParseRulestring(source); err == nil {
		if glsl, err = TableProgram(t); err != nil {
			return nil, err
		}
	}

	program, err := createComputeProgram(glsl)
	if err != nil {
		return nil, err
	}
	return &glKernel{
		program:       program,
		source:        source,
		parameterized: strings.Contains(glsl, "GameRules"),
	}, nil
}

// Submit checks every pass before recording any dispatch, so a rejected
// batch leaves all buffers untouched.
func (c *OpenGLBackend) Submit(passes []Pass) error {
	if !c.initialized {
		return c.initErr
	}
	type job struct {
		kernel  *glKernel
		in, out uint32
	}
	jobs := make([]job, len(passes))
	for i, p := range passes {
		if err := validatePass(p); err != nil {
			return err
		}
		k, ok := p.Kernel.(*glKernel)
		if !ok {
			return fmt.Errorf("compute: pass %d: kernel %T was not compiled by the opengl backend", i, p.Kernel)
		}
		in, ok := p.In.(*glBuffer)
		if !ok {
			return fmt.Errorf("compute: pass %d: input %T is not an opengl buffer", i, p.In)
		}
		out, ok := p.Out.(*glBuffer)
		if !ok {
			return fmt.Errorf("compute: pass %d: output %T is not an opengl buffer", i, p.Out)
		}
		jobs[i] = job{kernel: k, in: in.id, out: out.id}
	}

	for i, j := range jobs {
		p := passes[i]
		gl.UseProgram(j.kernel.program)

		sp := p.Params.Bytes()
		gl.BindBuffer(gl.UNIFORM_BUFFER, c.simUBO)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(sp), gl.Ptr(sp))
		if j.kernel.parameterized {
			rp := p.Rules.Bytes()
			gl.BindBuffer(gl.UNIFORM_BUFFER, c.rulesUBO)
			gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(rp), gl.Ptr(rp))
		}

		gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 1, j.in)
		gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, 2, j.out)

		gx, gy := Groups(int(p.Params.Width), int(p.Params.Height))
		gl.DispatchCompute(uint32(gx), uint32(gy), 1)
		gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)
	}
	return nil
}

// BindStorage binds b at a shader storage binding point so a draw can read
// cells straight from device memory, ordered after every submitted pass.
// It reports false for buffers this backend did not allocate.
func (c *OpenGLBackend) BindStorage(b Buffer, binding uint32) bool {
	buf, ok := b.(*glBuffer)
	if !c.initialized || !ok || buf.id == 0 {
		return false
	}
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT)
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, binding, buf.id)
	return true
}

type glKernel struct {
	program       uint32
	source        string
	parameterized bool
}

func (k *glKernel) Parameterized() bool { return k.parameterized }
func (k *glKernel) Source() string      { return k.source }

func (k *glKernel) Release() {
	if k.program != 0 {
		gl.DeleteProgram(k.program)
		k.program = 0
	}
}

type glBuffer struct {
	id uint32
	n  int
}

func (b *glBuffer) Len() int { return b.n }

func (b *glBuffer) Write(offset int, data []float32) {
	if offset < 0 || offset >= b.n || len(data) == 0 {
		return
	}
	if offset+len(data) > b.n {
		data = data[:b.n-offset]
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.BufferSubData(gl.SHADER_STORAGE_BUFFER, offset*4, len(data)*4, gl.Ptr(data))
}

func (b *glBuffer) Read(dst []float32) error {
	if len(dst) != b.n {
		return fmt.Errorf("%w: read %d into %d", ErrBufferSize, b.n, len(dst))
	}
	gl.MemoryBarrier(gl.BUFFER_UPDATE_BARRIER_BIT)
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.id)
	gl.GetBufferSubData(gl.SHADER_STORAGE_BUFFER, 0, b.n*4, gl.Ptr(dst))
	return nil
}

func (b *glBuffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func createComputeProgram(source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &CompileError{Backend: "opengl", Log: strings.TrimRight(log, "\x00")}
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, shader)
	gl.LinkProgram(program)
	gl.DeleteShader(shader)

	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &CompileError{Backend: "opengl", Log: "link: " + strings.TrimRight(log, "\x00")}
	}

	return program, nil
}
