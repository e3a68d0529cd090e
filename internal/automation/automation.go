// Package automation replays scripted edits and runs against a simulation
// core, and runs batches of random soups.
package automation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/analysis"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/patterns"
	"github.com/san-kum/lifelab/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of edits, rule changes and runs on one
// grid.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Width       int            `yaml:"width"`
	Height      int            `yaml:"height"`
	Preset      string         `yaml:"preset"`
	Empty       bool           `yaml:"empty"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one action. Which fields matter depends on Action:
//
//	stamp      pattern, x, y, color
//	paint      x, y, radius, color
//	clear      x, y, radius
//	fill       x, y, radius, density, seed, color
//	clear-all
//	preset     preset
//	rule       rule (e.g. "B36/S23")
//	step       generations
//	run        generations, sample_every, save_as
type ScenarioStep struct {
	Action      string  `yaml:"action"`
	Pattern     string  `yaml:"pattern"`
	X           int     `yaml:"x"`
	Y           int     `yaml:"y"`
	Radius      int     `yaml:"radius"`
	Color       string  `yaml:"color"`
	Density     float64 `yaml:"density"`
	Seed        uint32  `yaml:"seed"`
	Preset      string  `yaml:"preset"`
	Rule        string  `yaml:"rule"`
	Generations int     `yaml:"generations"`
	SampleEvery int     `yaml:"sample_every"`
	SaveAs      string  `yaml:"save_as"`
}

// RunRecord is the result of one run step.
type RunRecord struct {
	Step   int
	Name   string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Width <= 0 || scenario.Height <= 0 {
		return nil, fmt.Errorf("scenario %q: width and height must be positive", scenario.Name)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// RunScenario initializes core to the scenario's size and executes every
// step in order. Records are returned for the run steps completed before
// any error.
func RunScenario(ctx context.Context, scenario *Scenario, core *sim.Core, logger log.Interface) ([]RunRecord, error) {
	if logger == nil {
		logger = log.Log
	}
	if scenario.Preset != "" {
		if err := core.Rules.ApplyPreset(scenario.Preset); err != nil {
			return nil, err
		}
	}
	if err := core.Initialize(scenario.Width, scenario.Height); err != nil {
		return nil, err
	}
	if scenario.Empty {
		core.Grid.ClearAll()
	}

	records := make([]RunRecord, 0)
	for i, step := range scenario.Steps {
		select {
		case <-ctx.Done():
			return records, ctx.Err()
		default:
		}

		logger.WithFields(log.Fields{
			"step":   i + 1,
			"of":     len(scenario.Steps),
			"action": step.Action,
		}).Info("scenario step")

		rec, err := runStep(ctx, core, step)
		if err != nil {
			return records, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		if rec != nil {
			rec.Step = i + 1
			records = append(records, *rec)
		}
	}
	return records, nil
}

func runStep(ctx context.Context, core *sim.Core, step ScenarioStep) (*RunRecord, error) {
	g := core.Grid
	switch strings.ToLower(step.Action) {
	case "stamp":
		p, err := patterns.Lookup(step.Pattern)
		if err != nil {
			return nil, err
		}
		v, err := colorValue(step.Color)
		if err != nil {
			return nil, err
		}
		g.Stamp(p, step.X, step.Y, v)
	case "paint":
		v, err := colorValue(step.Color)
		if err != nil {
			return nil, err
		}
		g.Paint(step.X, step.Y, step.Radius, v)
	case "clear":
		g.Clear(step.X, step.Y, step.Radius)
	case "fill":
		v, err := colorValue(step.Color)
		if err != nil {
			return nil, err
		}
		density := step.Density
		if density <= 0 {
			density = 0.5
		}
		g.RandomFill(step.X, step.Y, step.Radius, density, step.Seed, v)
	case "clear-all":
		g.ClearAll()
	case "preset":
		return nil, core.Rules.ApplyPreset(step.Preset)
	case "rule":
		return nil, core.Rules.SetRule(step.Rule)
	case "step":
		return nil, core.Step(max(step.Generations, 1))
	case "run":
		result, err := core.Run(ctx, sim.RunConfig{
			Generations: step.Generations,
			SampleEvery: step.SampleEvery,
		})
		if err != nil {
			return nil, err
		}
		return &RunRecord{Name: step.SaveAs, Result: result}, nil
	default:
		return nil, fmt.Errorf("unknown action %q", step.Action)
	}
	return nil, nil
}

func colorValue(name string) (float32, error) {
	if name == "" {
		return grid.White.Value(), nil
	}
	c, err := grid.ParseColor(name)
	if err != nil {
		return 0, err
	}
	return c.Value(), nil
}

// SoupConfig describes a batch of random-soup trials: each trial clears the
// grid, fills it at Density with its own seed and runs Generations.
type SoupConfig struct {
	Density     float64
	Trials      int
	Generations int
	Seed        uint32
}

type SoupResult struct {
	Trial   int
	Seed    uint32
	Initial int
	Final   int
	Extinct bool
	// Period is the exact period of the population tail, 0 if none.
	Period int
}

// RunSoups runs cfg.Trials soups, each on a fresh core from newCore.
func RunSoups(ctx context.Context, cfg SoupConfig, newCore analysis.Factory, logger log.Interface) ([]SoupResult, error) {
	if cfg.Trials <= 0 || cfg.Generations <= 0 {
		return nil, fmt.Errorf("soups: trials and generations must be positive")
	}
	if cfg.Density <= 0 || cfg.Density > 1 {
		return nil, fmt.Errorf("soups: density %v outside (0, 1]", cfg.Density)
	}
	if logger == nil {
		logger = log.Log
	}

	results := make([]SoupResult, 0, cfg.Trials)
	for trial := 0; trial < cfg.Trials; trial++ {
		seed := cfg.Seed + uint32(trial)
		res, err := runSoup(ctx, cfg, newCore, seed)
		if err != nil {
			return results, err
		}
		res.Trial = trial
		results = append(results, res)

		if (trial+1)%10 == 0 {
			logger.WithField("done", trial+1).WithField("of", cfg.Trials).Info("soups")
		}
	}
	return results, nil
}

func runSoup(ctx context.Context, cfg SoupConfig, newCore analysis.Factory, seed uint32) (SoupResult, error) {
	core, err := newCore()
	if err != nil {
		return SoupResult{}, err
	}
	defer core.Release()

	g := core.Grid
	g.ClearAll()
	w, h := g.Width(), g.Height()
	g.RandomFill(w/2, h/2, max(w, h), cfg.Density, seed, grid.White.Value())

	result, err := core.Run(ctx, sim.RunConfig{Generations: cfg.Generations, SampleEvery: 1})
	if err != nil {
		return SoupResult{}, err
	}

	final := result.Final()
	return SoupResult{
		Seed:    seed,
		Initial: result.Population[0],
		Final:   final,
		Extinct: final == 0,
		Period:  analysis.ExactPeriod(result.Population, cfg.Generations/4),
	}, nil
}

// SoupStats counts extinct, periodic and still-changing soups.
func SoupStats(results []SoupResult) (extinct, periodic, active int) {
	for _, r := range results {
		switch {
		case r.Extinct:
			extinct++
		case r.Period > 0:
			periodic++
		default:
			active++
		}
	}
	return
}
