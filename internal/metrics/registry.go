package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/lifelab/internal/sim"
)

// DefaultStabilityThreshold is the relative change still counted as stable.
const DefaultStabilityThreshold = 0.01

var registry = map[string]func() sim.Metric{
	"peak":       func() sim.Metric { return NewPeak() },
	"mean":       func() sim.Metric { return NewMean() },
	"growth":     func() sim.Metric { return NewGrowth() },
	"stagnation": func() sim.Metric { return NewStagnation() },
	"stability":  func() sim.Metric { return NewStability(DefaultStabilityThreshold) },
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func New(name string) (sim.Metric, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("metrics: unknown metric %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

// All returns a fresh instance of every metric.
func All() []sim.Metric {
	out := make([]sim.Metric, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name]())
	}
	return out
}
