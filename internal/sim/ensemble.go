package sim

import (
	"context"
	"sync"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
)

// Ensemble runs the same starting grid under several rule presets, one
// core and backend per preset.
type Ensemble struct {
	Width, Height int
	Presets       []string
	// Setup prepares each core's grid after initialization. Nil keeps the
	// default seed.
	Setup   func(*Core) error
	Metrics func() []Metric
	Logger  log.Interface
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, len(e.Presets))
	errs := make([]error, len(e.Presets))

	var wg sync.WaitGroup
	for i, preset := range e.Presets {
		wg.Add(1)
		go func(idx int, preset string) {
			defer wg.Done()
			results[idx], errs[idx] = e.runOne(ctx, preset, cfg)
		}(i, preset)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, preset string, cfg RunConfig) (*Result, error) {
	core, err := New(compute.NewCPUBackend(), MinRate, e.Logger)
	if err != nil {
		return nil, err
	}
	defer core.Release()

	if err := core.Rules.ApplyPreset(preset); err != nil {
		return nil, err
	}
	if err := core.Initialize(e.Width, e.Height); err != nil {
		return nil, err
	}
	if e.Setup != nil {
		if err := e.Setup(core); err != nil {
			return nil, err
		}
	}
	if e.Metrics != nil {
		for _, m := range e.Metrics() {
			core.AddMetric(m)
		}
	}

	result, err := core.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.Rule = preset
	return result, nil
}
