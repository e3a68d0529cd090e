package analysis

import (
	"context"
	"strings"

	"github.com/san-kum/lifelab/internal/rules"
)

// SweepPoint holds the distinct populations seen under one rule after the
// transient.
type SweepPoint struct {
	Spec   rules.Spec
	Values []int
}

// RuleSweep runs each spec from the same starting grid, discards transient
// generations, then records the distinct populations over the next record
// generations. A settled still life yields one value, an oscillator a few,
// chaotic growth many.
func RuleSweep(ctx context.Context, newCore Factory, specs []rules.Spec, transient, record int) ([]SweepPoint, error) {
	results := make([]SweepPoint, 0, len(specs))

	for _, spec := range specs {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		point, err := sweepOne(newCore, spec, transient, record)
		if err != nil {
			return results, err
		}
		results = append(results, point)
	}
	return results, nil
}

func sweepOne(newCore Factory, spec rules.Spec, transient, record int) (SweepPoint, error) {
	core, err := newCore()
	if err != nil {
		return SweepPoint{}, err
	}
	defer core.Release()

	if err := core.Rules.SetParameters(spec); err != nil {
		return SweepPoint{}, err
	}
	if err := core.Step(transient); err != nil {
		return SweepPoint{}, err
	}

	values := make([]int, 0, 16)
	seen := make(map[int]bool)
	for i := 0; i < record; i++ {
		if err := core.Step(1); err != nil {
			return SweepPoint{}, err
		}
		pop, err := core.LiveCount()
		if err != nil {
			return SweepPoint{}, err
		}
		if !seen[pop] {
			seen[pop] = true
			values = append(values, pop)
		}
	}
	return SweepPoint{Spec: spec, Values: values}, nil
}

// BirthSweep lists every spec with the given survival range and a birth
// count from 1 to 8.
func BirthSweep(survivalMin, survivalMax int) []rules.Spec {
	specs := make([]rules.Spec, 0, 8)
	for b := 1; b <= 8; b++ {
		specs = append(specs, rules.Spec{SurvivalMin: survivalMin, SurvivalMax: survivalMax, BirthCount: b})
	}
	return specs
}

// SweepToASCII plots each spec as a column and its populations as dots.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minVal, maxVal, found := 0, 0, false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal, found = v, v, true
				continue
			}
			minVal, maxVal = min(minVal, v), max(maxVal, v)
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := min(i*width/len(data), width-1)
		for _, v := range p.Values {
			row := height - 1 - (v-minVal)*(height-1)/(maxVal-minVal)
			canvas[row][col] = '•'
		}
	}

	var b strings.Builder
	for _, row := range canvas {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
