package compute

import (
	"fmt"
	"runtime"
	"sync"
)

// CPUBackend evaluates kernels on the host with the same 8x8 tiling a GPU
// dispatch uses. Tiles of one pass run on worker goroutines and join before
// the next pass starts.
type CPUBackend struct {
	workers  int
	maxBytes int64

	mu   sync.Mutex
	used int64
}

type CPUOption func(*CPUBackend)

// WithWorkers bounds the goroutines used per pass.
func WithWorkers(n int) CPUOption {
	return func(c *CPUBackend) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMemoryLimit makes Alloc fail with ErrOutOfMemory past limit bytes.
func WithMemoryLimit(limit int64) CPUOption {
	return func(c *CPUBackend) { c.maxBytes = limit }
}

func NewCPUBackend(opts ...CPUOption) *CPUBackend {
	c := &CPUBackend{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}

func (c *CPUBackend) Alloc(n int) (Buffer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("compute: cannot allocate %d cells", n)
	}
	size := int64(n) * 4

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.maxBytes > 0 && c.used+size > c.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrOutOfMemory, size, c.used, c.maxBytes)
	}
	c.used += size
	return &cpuBuffer{owner: c, data: make([]float32, n)}, nil
}

func (c *CPUBackend) release(size int64) {
	c.mu.Lock()
	c.used -= size
	c.mu.Unlock()
}

// Compile accepts the canonical threshold program and B/S rulestrings.
func (c *CPUBackend) Compile(source string) (Kernel, error) {
	if isThreshold(source) {
		return &cpuKernel{source: source, threshold: true}, nil
	}
	t, err := ParseRulestring(source)
	if err != nil {
		return nil, &CompileError{
			Backend: c.Name(),
			Log:     "unsupported program: the cpu backend runs the threshold program or a B/S rulestring",
		}
	}
	return &cpuKernel{source: source, table: t}, nil
}

// Submit checks every pass before running any, so a rejected batch leaves
// all buffers untouched.
func (c *CPUBackend) Submit(passes []Pass) error {
	type job struct {
		kernel  *cpuKernel
		in, out []float32
	}
	jobs := make([]job, len(passes))
	for i, p := range passes {
		if err := validatePass(p); err != nil {
			return err
		}
		k, ok := p.Kernel.(*cpuKernel)
		if !ok {
			return fmt.Errorf("compute: pass %d: kernel %T was not compiled by the cpu backend", i, p.Kernel)
		}
		in, ok := p.In.(*cpuBuffer)
		if !ok {
			return fmt.Errorf("compute: pass %d: input %T is not a cpu buffer", i, p.In)
		}
		out, ok := p.Out.(*cpuBuffer)
		if !ok {
			return fmt.Errorf("compute: pass %d: output %T is not a cpu buffer", i, p.Out)
		}
		jobs[i] = job{kernel: k, in: in.data, out: out.data}
	}

	for i, j := range jobs {
		c.dispatch(j.kernel, j.in, j.out, passes[i].Params, passes[i].Rules)
	}
	return nil
}

func (c *CPUBackend) dispatch(k *cpuKernel, in, out []float32, sp SimParams, rp RuleParams) {
	w, h := int(sp.Width), int(sp.Height)
	gx, gy := Groups(w, h)

	parallelFor(gx*gy, c.workers, func(start, end int) {
		for tile := start; tile < end; tile++ {
			x0 := (tile % gx) * WorkgroupSize
			y0 := (tile / gx) * WorkgroupSize
			for y := y0; y < y0+WorkgroupSize && y < h; y++ {
				for x := x0; x < x0+WorkgroupSize && x < w; x++ {
					out[y*w+x] = k.cell(in, w, h, x, y, sp, rp)
				}
			}
		}
	})
}

type cpuKernel struct {
	source    string
	threshold bool
	table     Table
}

func (k *cpuKernel) Parameterized() bool { return k.threshold }
func (k *cpuKernel) Source() string      { return k.source }
func (k *cpuKernel) Release()            {}

func (k *cpuKernel) cell(in []float32, w, h, x, y int, sp SimParams, rp RuleParams) float32 {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		ny := (y + dy + h) % h
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx := (x + dx + w) % w
			if in[ny*w+nx] > 0.5 {
				n++
			}
		}
	}

	cur := in[y*w+x]
	if cur > 0.5 {
		if k.survives(n, rp) {
			return cur
		}
		if sp.EnableLucky != 0 && luckyHit(uint32(x), uint32(y), sp.Seed, sp.LuckyChance) {
			return cur
		}
		return 0
	}
	if k.born(n, rp) {
		return sp.Paint
	}
	return 0
}

func (k *cpuKernel) survives(n int, rp RuleParams) bool {
	if k.threshold {
		return uint32(n) >= rp.SurvivalMin && uint32(n) <= rp.SurvivalMax
	}
	return k.table.Survive[n]
}

func (k *cpuKernel) born(n int, rp RuleParams) bool {
	if k.threshold {
		return uint32(n) == rp.BirthCount
	}
	return k.table.Birth[n]
}

type cpuBuffer struct {
	owner    *CPUBackend
	data     []float32
	released bool
}

func (b *cpuBuffer) Len() int { return len(b.data) }

// Write ignores the part of data that falls outside the buffer.
func (b *cpuBuffer) Write(offset int, data []float32) {
	if offset < 0 || offset >= len(b.data) {
		return
	}
	copy(b.data[offset:], data)
}

func (b *cpuBuffer) Read(dst []float32) error {
	if len(dst) != len(b.data) {
		return fmt.Errorf("%w: read %d into %d", ErrBufferSize, len(b.data), len(dst))
	}
	copy(dst, b.data)
	return nil
}

func (b *cpuBuffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.owner.release(int64(len(b.data)) * 4)
	b.data = nil
}
