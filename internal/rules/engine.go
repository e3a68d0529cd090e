package rules

import (
	"fmt"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/grid"
)

// Engine holds the active program and the uniforms it runs with.
type Engine struct {
	backend compute.Backend
	log     log.Interface
	active  Program
	spec    Spec

	paint       float32
	luckyOn     bool
	luckyChance float32
}

// NewEngine compiles the threshold program with Conway's rule.
func NewEngine(backend compute.Backend, logger log.Interface) (*Engine, error) {
	if logger == nil {
		logger = log.Log
	}
	e := &Engine{
		backend:     backend,
		log:         logger,
		spec:        Conway,
		paint:       grid.White.Value(),
		luckyChance: 0.1,
	}
	if err := e.Load(compute.ThresholdSource); err != nil {
		return nil, err
	}
	return e, nil
}

// Compile builds a program without activating it.
func (e *Engine) Compile(source string) (Program, error) {
	k, err := e.backend.Compile(source)
	if err != nil {
		e.log.WithError(err).WithField("backend", e.backend.Name()).Error("rule program rejected")
		return nil, err
	}
	return wrap(k), nil
}

// Load compiles source and swaps it in. On failure the active program is
// untouched.
func (e *Engine) Load(source string) error {
	p, err := e.Compile(source)
	if err != nil {
		return err
	}
	e.Swap(p)
	return nil
}

// Swap activates p and releases the previous program.
func (e *Engine) Swap(p Program) {
	prev := e.active
	e.active = p
	if prev != nil {
		prev.Kernel().Release()
	}
	e.log.WithFields(log.Fields{
		"program":       Describe(p),
		"parameterized": p.Parameterized(),
	}).Info("rule program active")
}

// SetParameters changes the threshold rule. It never approximates: a
// program that cannot read the parameters yields ErrNotParameterized.
func (e *Engine) SetParameters(spec Spec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if e.active == nil || !e.active.Parameterized() {
		return fmt.Errorf("%w: %s", ErrNotParameterized, Describe(e.active))
	}
	e.spec = spec
	e.log.WithField("rule", spec.String()).Info("rule parameters updated")
	return nil
}

func (e *Engine) Active() Program { return e.active }

// Spec returns the threshold rule and whether the active program uses it.
func (e *Engine) Spec() (Spec, bool) {
	return e.spec, e.active != nil && e.active.Parameterized()
}

// Rule is a printable name for whatever rule is running.
func (e *Engine) Rule() string {
	if spec, ok := e.Spec(); ok {
		return spec.Rulestring()
	}
	return Describe(e.active)
}

// SetPaint sets the value newborn cells receive.
func (e *Engine) SetPaint(v float32) { e.paint = v }

// SetLucky toggles the lucky rule: a live cell that would die survives with
// probability chance.
func (e *Engine) SetLucky(enabled bool, chance float64) error {
	if chance < 0 || chance > 1 {
		return fmt.Errorf("%w: lucky chance %.3f outside [0,1]", ErrInvalidSpec, chance)
	}
	e.luckyOn = enabled
	e.luckyChance = float32(chance)
	return nil
}

func (e *Engine) Lucky() (bool, float64) { return e.luckyOn, float64(e.luckyChance) }

// Apply advances g by one generation.
func (e *Engine) Apply(g *grid.Store) error {
	return e.ApplyBatch(g, 1)
}

// ApplyBatch records n passes into one submission, advancing g between
// them so each pass reads what the previous one wrote.
func (e *Engine) ApplyBatch(g *grid.Store, n int) error {
	if n <= 0 {
		return nil
	}
	if !g.Initialized() {
		return fmt.Errorf("rules: grid not initialized")
	}
	if e.active == nil {
		return ErrNoProgram
	}

	passes := make([]compute.Pass, n)
	for i := range passes {
		passes[i] = compute.Pass{
			Kernel: e.active.Kernel(),
			In:     g.Input(),
			Out:    g.Output(),
			Params: e.simParams(g),
			Rules:  e.spec.Uniform(),
		}
		g.Advance()
	}

	if err := e.backend.Submit(passes); err != nil {
		g.Rewind(uint64(n))
		return fmt.Errorf("rules: submit %d passes: %w", n, err)
	}
	return nil
}

func (e *Engine) simParams(g *grid.Store) compute.SimParams {
	sp := compute.SimParams{
		Width:       uint32(g.Width()),
		Height:      uint32(g.Height()),
		LuckyChance: e.luckyChance,
		Seed:        uint32(g.Generation()),
		Paint:       e.paint,
	}
	if e.luckyOn {
		sp.EnableLucky = 1
	}
	return sp
}

// Release frees the active program.
func (e *Engine) Release() {
	if e.active != nil {
		e.active.Kernel().Release()
		e.active = nil
	}
}
