package metrics

type Peak struct {
	peak int
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(generation uint64, population int) {
	p.peak = max(p.peak, population)
}

func (p *Peak) Value() float64 { return float64(p.peak) }
func (p *Peak) Reset()         { p.peak = 0 }

type Mean struct {
	sum     float64
	samples int
}

func NewMean() *Mean { return &Mean{} }

func (m *Mean) Name() string { return "mean" }

func (m *Mean) Observe(generation uint64, population int) {
	m.sum += float64(population)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Growth is the final population over the first one.
type Growth struct {
	first, last int
	started     bool
}

func NewGrowth() *Growth { return &Growth{} }

func (g *Growth) Name() string { return "growth" }

func (g *Growth) Observe(generation uint64, population int) {
	if !g.started {
		g.first, g.started = population, true
	}
	g.last = population
}

func (g *Growth) Value() float64 {
	if g.first == 0 {
		return 0
	}
	return float64(g.last) / float64(g.first)
}

func (g *Growth) Reset() { *g = Growth{} }

// Stagnation is the generation from which the population stopped changing,
// or -1 while it is still changing.
type Stagnation struct {
	since   uint64
	prev    int
	started bool
	changed bool
}

func NewStagnation() *Stagnation { return &Stagnation{} }

func (s *Stagnation) Name() string { return "stagnation" }

func (s *Stagnation) Observe(generation uint64, population int) {
	if !s.started || population != s.prev {
		s.since = generation
		s.changed = s.started
	} else {
		s.changed = false
	}
	s.prev, s.started = population, true
}

func (s *Stagnation) Value() float64 {
	if !s.started || s.changed {
		return -1
	}
	return float64(s.since)
}

func (s *Stagnation) Reset() { *s = Stagnation{} }
