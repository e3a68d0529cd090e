package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth           = 512
	DefaultHeight          = 512
	DefaultBackend         = "auto"
	DefaultStepsPerSecond  = 30
	DefaultMaxStepsPerTick = 100
	DefaultPreset          = "conway"
	DefaultPaint           = "white"
	DefaultLuckyChance     = 0.1

	DefaultMinZoom  = 1.0
	DefaultMaxZoom  = 16.0
	DefaultZoomStep = 1.2

	DefaultDragThreshold = 3.0
	DefaultSlowSpeed     = 10.0
	DefaultFastSpeed     = 500.0
	DefaultMinFireRate   = 5.0
	DefaultMaxFireRate   = 1000.0
	DefaultBrushRadius   = 3
	DefaultClearRadius   = 15
	DefaultFillRadius    = 20
	DefaultFillDensity   = 0.4

	DefaultCountInterval = 1.0
	DefaultFPSWindow     = 60
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Rules      RulesConfig      `yaml:"rules"`
	View       ViewConfig       `yaml:"view"`
	Input      InputConfig      `yaml:"input"`
	Stats      StatsConfig      `yaml:"stats"`
}

type GridConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Backend string `yaml:"backend"`
	Workers int    `yaml:"workers"`
}

type SimulationConfig struct {
	StepsPerSecond  int  `yaml:"steps_per_second"`
	MaxStepsPerTick int  `yaml:"max_steps_per_tick"`
	Paused          bool `yaml:"paused"`
}

type RulesConfig struct {
	Preset string `yaml:"preset"`
	// Spec overrides Preset with a rule such as "S2-3/B3" or "B36/S23".
	Spec        string  `yaml:"spec,omitempty"`
	Paint       string  `yaml:"paint"`
	Lucky       bool    `yaml:"lucky"`
	LuckyChance float64 `yaml:"lucky_chance"`
}

type ViewConfig struct {
	MinZoom  float64 `yaml:"min_zoom"`
	MaxZoom  float64 `yaml:"max_zoom"`
	ZoomStep float64 `yaml:"zoom_step"`
}

type InputConfig struct {
	Mode          string  `yaml:"mode"`
	DragThreshold float64 `yaml:"drag_threshold"`
	SlowSpeed     float64 `yaml:"slow_speed"`
	FastSpeed     float64 `yaml:"fast_speed"`
	MinFireRate   float64 `yaml:"min_fire_rate"`
	MaxFireRate   float64 `yaml:"max_fire_rate"`
	BrushRadius   int     `yaml:"brush_radius"`
	ClearRadius   int     `yaml:"clear_radius"`
	FillRadius    int     `yaml:"fill_radius"`
	FillDensity   float64 `yaml:"fill_density"`
}

type StatsConfig struct {
	Show bool `yaml:"show"`
	// CountInterval is the minimum seconds between live-count readbacks.
	CountInterval float64 `yaml:"count_interval"`
	FPSWindow     int     `yaml:"fps_window"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Backend: DefaultBackend,
		},
		Simulation: SimulationConfig{
			StepsPerSecond:  DefaultStepsPerSecond,
			MaxStepsPerTick: DefaultMaxStepsPerTick,
		},
		Rules: RulesConfig{
			Preset:      DefaultPreset,
			Paint:       DefaultPaint,
			LuckyChance: DefaultLuckyChance,
		},
		View: ViewConfig{
			MinZoom:  DefaultMinZoom,
			MaxZoom:  DefaultMaxZoom,
			ZoomStep: DefaultZoomStep,
		},
		Input: InputConfig{
			Mode:          "paint",
			DragThreshold: DefaultDragThreshold,
			SlowSpeed:     DefaultSlowSpeed,
			FastSpeed:     DefaultFastSpeed,
			MinFireRate:   DefaultMinFireRate,
			MaxFireRate:   DefaultMaxFireRate,
			BrushRadius:   DefaultBrushRadius,
			ClearRadius:   DefaultClearRadius,
			FillRadius:    DefaultFillRadius,
			FillDensity:   DefaultFillDensity,
		},
		Stats: StatsConfig{
			CountInterval: DefaultCountInterval,
			FPSWindow:     DefaultFPSWindow,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks ranges only; names such as the preset or backend are
// resolved by the packages that use them.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width <= 0 || c.Grid.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case c.Grid.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalid, c.Grid.Workers)
	case c.Simulation.StepsPerSecond < 1 || c.Simulation.StepsPerSecond > 100000:
		return fmt.Errorf("%w: steps_per_second %d", ErrInvalid, c.Simulation.StepsPerSecond)
	case c.Simulation.MaxStepsPerTick < 1:
		return fmt.Errorf("%w: max_steps_per_tick %d", ErrInvalid, c.Simulation.MaxStepsPerTick)
	case c.Rules.LuckyChance < 0 || c.Rules.LuckyChance > 1:
		return fmt.Errorf("%w: lucky_chance %.3f", ErrInvalid, c.Rules.LuckyChance)
	case c.View.MinZoom <= 0 || c.View.MaxZoom < c.View.MinZoom:
		return fmt.Errorf("%w: zoom range [%g, %g]", ErrInvalid, c.View.MinZoom, c.View.MaxZoom)
	case c.View.ZoomStep <= 1:
		return fmt.Errorf("%w: zoom_step %g", ErrInvalid, c.View.ZoomStep)
	case c.Input.DragThreshold < 0:
		return fmt.Errorf("%w: drag_threshold %g", ErrInvalid, c.Input.DragThreshold)
	case c.Input.FastSpeed <= c.Input.SlowSpeed:
		return fmt.Errorf("%w: fast_speed must exceed slow_speed", ErrInvalid)
	case c.Input.MinFireRate <= 0 || c.Input.MaxFireRate < c.Input.MinFireRate:
		return fmt.Errorf("%w: fire rates [%g, %g]", ErrInvalid, c.Input.MinFireRate, c.Input.MaxFireRate)
	case c.Input.BrushRadius < 0 || c.Input.ClearRadius < 0 || c.Input.FillRadius < 0:
		return fmt.Errorf("%w: negative radius", ErrInvalid)
	case c.Input.FillDensity < 0 || c.Input.FillDensity > 1:
		return fmt.Errorf("%w: fill_density %g", ErrInvalid, c.Input.FillDensity)
	case c.Stats.CountInterval < 0:
		return fmt.Errorf("%w: count_interval %g", ErrInvalid, c.Stats.CountInterval)
	case c.Stats.FPSWindow < 1:
		return fmt.Errorf("%w: fps_window %d", ErrInvalid, c.Stats.FPSWindow)
	}
	return nil
}
