package metrics

import "math"

// Stability is the fraction of samples whose population is within
// threshold (relative) of the previous sample.
type Stability struct {
	name      string
	threshold float64
	stable    int
	samples   int
	prev      int
	hasPrev   bool
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(generation uint64, population int) {
	if s.hasPrev {
		s.samples++
		ref := math.Max(float64(s.prev), 1)
		if math.Abs(float64(population-s.prev))/ref <= s.threshold {
			s.stable++
		}
	}
	s.prev, s.hasPrev = population, true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return float64(s.stable) / float64(s.samples)
}

func (s *Stability) Reset() {
	s.stable = 0
	s.samples = 0
	s.hasPrev = false
}
