package app

import (
	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/config"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/sim"
)

// NewCore builds a headless core with the rule, paint and clock settings of
// cfg. The grid is not allocated until Initialize.
func NewCore(backend compute.Backend, cfg *config.Config, logger log.Interface) (*sim.Core, error) {
	if logger == nil {
		logger = log.Log
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	core, err := sim.New(backend, cfg.Simulation.StepsPerSecond, logger)
	if err != nil {
		return nil, err
	}
	core.Clock.SetMaxSteps(cfg.Simulation.MaxStepsPerTick)

	if err := configureRules(core, cfg); err != nil {
		core.Release()
		return nil, err
	}
	return core, nil
}

func configureRules(core *sim.Core, cfg *config.Config) error {
	if cfg.Rules.Spec != "" {
		if err := core.Rules.SetRule(cfg.Rules.Spec); err != nil {
			return err
		}
	} else if err := core.Rules.ApplyPreset(cfg.Rules.Preset); err != nil {
		return err
	}

	paint, err := grid.ParseColor(cfg.Rules.Paint)
	if err != nil {
		return err
	}
	core.Rules.SetPaint(paint.Value())

	return core.Rules.SetLucky(cfg.Rules.Lucky, cfg.Rules.LuckyChance)
}
