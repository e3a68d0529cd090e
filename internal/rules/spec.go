package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/lifelab/internal/compute"
)

var (
	// ErrInvalidSpec indicates counts outside 0..8 or an inverted survival range.
	ErrInvalidSpec = errors.New("rules: invalid rule parameters")

	// ErrNotParameterized indicates the active program has no rule uniforms.
	ErrNotParameterized = errors.New("rules: active program is not parameterized")

	// ErrUnknownPreset indicates a preset name with no entry.
	ErrUnknownPreset = errors.New("rules: unknown preset")

	// ErrNoProgram indicates the engine was released or never loaded one.
	ErrNoProgram = errors.New("rules: no active program")
)

// Spec is the threshold rule: a live cell survives with a neighbor count in
// [SurvivalMin, SurvivalMax], a dead cell is born with exactly BirthCount.
type Spec struct {
	SurvivalMin int `yaml:"survival_min" json:"survival_min"`
	SurvivalMax int `yaml:"survival_max" json:"survival_max"`
	BirthCount  int `yaml:"birth_count" json:"birth_count"`
}

// Conway is B3/S23.
var Conway = Spec{SurvivalMin: 2, SurvivalMax: 3, BirthCount: 3}

func (s Spec) Validate() error {
	for _, v := range []int{s.SurvivalMin, s.SurvivalMax, s.BirthCount} {
		if v < 0 || v > 8 {
			return fmt.Errorf("%w: %s: counts must be in 0..8", ErrInvalidSpec, s)
		}
	}
	if s.SurvivalMin > s.SurvivalMax {
		return fmt.Errorf("%w: %s: survival_min exceeds survival_max", ErrInvalidSpec, s)
	}
	return nil
}

// String renders the spec as "S2-3/B3".
func (s Spec) String() string {
	return fmt.Sprintf("S%d-%d/B%d", s.SurvivalMin, s.SurvivalMax, s.BirthCount)
}

// Rulestring renders the equivalent B/S rulestring.
func (s Spec) Rulestring() string {
	var b strings.Builder
	fmt.Fprintf(&b, "B%d/S", s.BirthCount)
	for n := s.SurvivalMin; n <= s.SurvivalMax; n++ {
		fmt.Fprintf(&b, "%d", n)
	}
	return b.String()
}

func (s Spec) Uniform() compute.RuleParams {
	return compute.RuleParams{
		SurvivalMin: uint32(s.SurvivalMin),
		SurvivalMax: uint32(s.SurvivalMax),
		BirthCount:  uint32(s.BirthCount),
	}
}

// ParseSpec reads "S2-3/B3" or a single-birth rulestring whose survival
// counts are contiguous, such as "B3/S23".
func ParseSpec(text string) (Spec, error) {
	var s Spec
	if _, err := fmt.Sscanf(strings.ToUpper(strings.TrimSpace(text)), "S%d-%d/B%d", &s.SurvivalMin, &s.SurvivalMax, &s.BirthCount); err == nil {
		return s, s.Validate()
	}

	t, err := compute.ParseRulestring(text)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, text)
	}
	spec, ok := FromTable(t)
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q is not a single-birth, contiguous-survival rule", ErrInvalidSpec, text)
	}
	return spec, nil
}

// FromTable reports whether t is expressible as a threshold spec.
func FromTable(t compute.Table) (Spec, bool) {
	birth := -1
	for n, ok := range t.Birth {
		if ok {
			if birth >= 0 {
				return Spec{}, false
			}
			birth = n
		}
	}
	lo, hi := -1, -1
	for n, ok := range t.Survive {
		if !ok {
			continue
		}
		if lo < 0 {
			lo = n
		} else if n != hi+1 {
			return Spec{}, false
		}
		hi = n
	}
	if birth < 0 || lo < 0 {
		return Spec{}, false
	}
	return Spec{SurvivalMin: lo, SurvivalMax: hi, BirthCount: birth}, true
}
