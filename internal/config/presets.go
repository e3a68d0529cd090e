package config

import "sort"

// Presets are partial configs keyed by rule preset, then variant. Only the
// grid, simulation and rules sections are taken from them.
var Presets = map[string]map[string]*Config{
	"conway": {
		"small": {
			Grid:       GridConfig{Width: 128, Height: 128},
			Simulation: SimulationConfig{StepsPerSecond: 10},
		},
		"large": {
			Grid:       GridConfig{Width: 2048, Height: 2048},
			Simulation: SimulationConfig{StepsPerSecond: 60},
		},
		"turbo": {
			Grid:       GridConfig{Width: 1024, Height: 1024},
			Simulation: SimulationConfig{StepsPerSecond: 6000},
		},
		"lucky": {
			Grid:       GridConfig{Width: 512, Height: 512},
			Simulation: SimulationConfig{StepsPerSecond: 30},
			Rules:      RulesConfig{Lucky: true, LuckyChance: 0.05},
		},
	},
	"highlife": {
		"replicator": {
			Grid:       GridConfig{Width: 256, Height: 256},
			Simulation: SimulationConfig{StepsPerSecond: 20},
		},
	},
	"day-and-night": {
		"default": {
			Grid:       GridConfig{Width: 512, Height: 512},
			Simulation: SimulationConfig{StepsPerSecond: 30},
		},
	},
	"maze": {
		"slow": {
			Grid:       GridConfig{Width: 256, Height: 256},
			Simulation: SimulationConfig{StepsPerSecond: 5},
		},
	},
}

// GetPreset returns the default config with the preset applied, or nil.
func GetPreset(rule, name string) *Config {
	variants, ok := Presets[rule]
	if !ok {
		return nil
	}
	p, ok := variants[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	cfg.Rules.Preset = rule
	if p.Grid.Width > 0 {
		cfg.Grid.Width = p.Grid.Width
	}
	if p.Grid.Height > 0 {
		cfg.Grid.Height = p.Grid.Height
	}
	if p.Simulation.StepsPerSecond > 0 {
		cfg.Simulation.StepsPerSecond = p.Simulation.StepsPerSecond
	}
	if p.Rules.Lucky {
		cfg.Rules.Lucky = true
		cfg.Rules.LuckyChance = p.Rules.LuckyChance
	}
	return cfg
}

func ListPresets(rule string) []string {
	variants, ok := Presets[rule]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListRules() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
