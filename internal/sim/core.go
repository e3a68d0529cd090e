package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/rules"
)

// Core is the simulation without any presentation: grid, rules and clock.
// It is not safe for concurrent use.
type Core struct {
	Grid  *grid.Store
	Rules *rules.Engine
	Clock *Clock

	log       log.Interface
	metrics   []Metric
	observers []Observer
}

func New(backend compute.Backend, rate int, logger log.Interface) (*Core, error) {
	if logger == nil {
		logger = log.Log
	}
	engine, err := rules.NewEngine(backend, logger)
	if err != nil {
		return nil, err
	}
	clock, err := NewClock(rate)
	if err != nil {
		engine.Release()
		return nil, err
	}
	return &Core{
		Grid:  grid.New(backend, logger),
		Rules: engine,
		Clock: clock,
		log:   logger,
	}, nil
}

func (c *Core) AddMetric(m Metric)     { c.metrics = append(c.metrics, m) }
func (c *Core) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Core) Initialize(width, height int) error {
	if err := c.Grid.Initialize(width, height); err != nil {
		return err
	}
	c.Clock.Reset()
	return nil
}

// Resize reallocates and reseeds the grid. A zero dimension is a no-op that
// reports grid.ErrZeroDimension.
func (c *Core) Resize(width, height int) error {
	if err := c.Grid.Resize(width, height); err != nil {
		return err
	}
	c.Clock.Reset()
	return nil
}

// Tick runs the generations due after elapsed seconds as one submission.
func (c *Core) Tick(elapsed float64) (int, error) {
	n := c.Clock.Tick(elapsed)
	if err := c.Step(n); err != nil {
		return 0, err
	}
	return n, nil
}

// Step runs n generations now, regardless of the clock.
func (c *Core) Step(n int) error {
	return c.Rules.ApplyBatch(c.Grid, n)
}

func (c *Core) LiveCount() (int, error) {
	return c.Grid.LiveCount()
}

// Run advances cfg.Generations generations, sampling the population after
// every cfg.SampleEvery of them. Cancellation is checked between batches.
func (c *Core) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be positive, got %d", cfg.Generations)
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}
	if !c.Grid.Initialized() {
		return nil, fmt.Errorf("sim: grid not initialized")
	}

	samples := cfg.Generations/cfg.SampleEvery + 2
	result := &Result{
		Rule:        c.Rules.Rule(),
		Width:       c.Grid.Width(),
		Height:      c.Grid.Height(),
		Generations: make([]uint64, 0, samples),
		Population:  make([]int, 0, samples),
		Metrics:     make(map[string]float64),
	}

	for _, m := range c.metrics {
		m.Reset()
	}

	start := time.Now()
	if err := c.sample(result); err != nil {
		return result, err
	}

	for done := 0; done < cfg.Generations; {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(start)
			return result, ctx.Err()
		default:
		}

		n := min(cfg.SampleEvery, cfg.Generations-done)
		if err := c.Step(n); err != nil {
			return result, err
		}
		done += n

		if err := c.sample(result); err != nil {
			return result, err
		}
	}
	result.Elapsed = time.Since(start)

	for _, m := range c.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	c.log.WithFields(log.Fields{
		"generations": cfg.Generations,
		"final":       result.Final(),
		"elapsed":     result.Elapsed,
	}).Debug("run complete")
	return result, nil
}

func (c *Core) sample(result *Result) error {
	pop, err := c.Grid.LiveCount()
	if err != nil {
		return err
	}
	gen := c.Grid.Generation()
	result.Generations = append(result.Generations, gen)
	result.Population = append(result.Population, pop)

	for _, m := range c.metrics {
		m.Observe(gen, pop)
	}
	for _, o := range c.observers {
		o.OnGeneration(gen, pop)
	}
	return nil
}

func (c *Core) Release() {
	c.Rules.Release()
	c.Grid.Release()
}
