package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/lifelab/internal/compute"
)

// Preset is a named rule. Threshold presets keep the parameterized program
// and set its uniforms; the others swap in a rulestring program.
type Preset struct {
	Name        string
	Description string
	Spec        *Spec
	Rulestring  string
}

func threshold(s Spec) *Spec { return &s }

var Presets = map[string]Preset{
	"conway": {
		Name: "conway", Description: "B3/S23, the classic",
		Spec: threshold(Conway),
	},
	"highlife": {
		Name: "highlife", Description: "B36/S23, has a replicator",
		Rulestring: "B36/S23",
	},
	"day-and-night": {
		Name: "day-and-night", Description: "B3678/S34678, symmetric under inversion",
		Rulestring: "B3678/S34678",
	},
	"seeds": {
		Name: "seeds", Description: "B2/S, every live cell dies",
		Rulestring: "B2/S",
	},
	"2x2": {
		Name: "2x2", Description: "B36/S125, block-based replicators",
		Rulestring: "B36/S125",
	},
	"life-without-death": {
		Name: "life-without-death", Description: "B3/S012345678, cells never die",
		Spec: threshold(Spec{SurvivalMin: 0, SurvivalMax: 8, BirthCount: 3}),
	},
	"maze": {
		Name: "maze", Description: "B3/S12345, grows maze corridors",
		Spec: threshold(Spec{SurvivalMin: 1, SurvivalMax: 5, BirthCount: 3}),
	},
	"mazectric": {
		Name: "mazectric", Description: "B3/S1234, longer maze corridors",
		Spec: threshold(Spec{SurvivalMin: 1, SurvivalMax: 4, BirthCount: 3}),
	},
}

func GetPreset(name string) (Preset, error) {
	p, ok := Presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownPreset, name, strings.Join(ListPresets(), ", "))
	}
	return p, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset activates a preset, recompiling only when the program kind
// changes.
func (e *Engine) ApplyPreset(name string) error {
	p, err := GetPreset(name)
	if err != nil {
		return err
	}
	if p.Spec != nil {
		if e.active == nil || !e.active.Parameterized() {
			if err := e.Load(compute.ThresholdSource); err != nil {
				return err
			}
		}
		return e.SetParameters(*p.Spec)
	}
	return e.Load(p.Rulestring)
}

// SetRule accepts a threshold spec ("S2-3/B3", "B3/S23") or any other
// rulestring, which is compiled as its own program.
func (e *Engine) SetRule(text string) error {
	if spec, err := ParseSpec(text); err == nil {
		if e.active == nil || !e.active.Parameterized() {
			if err := e.Load(compute.ThresholdSource); err != nil {
				return err
			}
		}
		return e.SetParameters(spec)
	}
	return e.Load(text)
}
