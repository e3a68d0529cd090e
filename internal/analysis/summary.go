package analysis

import "github.com/san-kum/lifelab/internal/sim"

// maxExactPeriod bounds the exact period search.
const maxExactPeriod = 120

type Summary struct {
	Samples int
	Initial int
	Final   int
	Peak    int
	Min     int
	Mean    float64
	// Period is the exact repeat length of the population tail in samples,
	// 0 if none was found.
	Period int
	// SpectralPeriod and SpectralPower come from DominantPeriod.
	SpectralPeriod float64
	SpectralPower  float64
}

func Summarize(r *sim.Result) Summary {
	var s Summary
	if r == nil || len(r.Population) == 0 {
		return s
	}

	s.Samples = len(r.Population)
	s.Initial = r.Population[0]
	s.Final = r.Final()
	s.Peak, s.Min = s.Initial, s.Initial

	total := 0
	for _, p := range r.Population {
		s.Peak = max(s.Peak, p)
		s.Min = min(s.Min, p)
		total += p
	}
	s.Mean = float64(total) / float64(s.Samples)
	s.Period = ExactPeriod(r.Population, maxExactPeriod)
	s.SpectralPeriod, s.SpectralPower = DominantPeriod(r.Series())
	return s
}
