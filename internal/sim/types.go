package sim

import "time"

// Metric accumulates a statistic over sampled generations.
type Metric interface {
	Name() string
	Observe(generation uint64, population int)
	Value() float64
	Reset()
}

type Observer interface {
	OnGeneration(generation uint64, population int)
}

type RunConfig struct {
	Generations int
	// SampleEvery is the number of generations per submission; the
	// population is read back after each one.
	SampleEvery int
}

type Result struct {
	Rule        string
	Width       int
	Height      int
	Generations []uint64
	Population  []int
	Metrics     map[string]float64
	Elapsed     time.Duration
}

// Final is the last sampled population.
func (r *Result) Final() int {
	if len(r.Population) == 0 {
		return 0
	}
	return r.Population[len(r.Population)-1]
}

// Series returns the population as float64 for plotting and analysis.
func (r *Result) Series() []float64 {
	out := make([]float64, len(r.Population))
	for i, p := range r.Population {
		out[i] = float64(p)
	}
	return out
}
