package app

import "time"

// FPSMeter averages the last N frame times.
type FPSMeter struct {
	times []float64
	next  int
	last  time.Time
	fps   float64
}

func NewFPSMeter(window int) *FPSMeter {
	if window < 1 {
		window = 1
	}
	return &FPSMeter{times: make([]float64, window)}
}

// Frame records a frame presented at now. The first call only starts the
// meter.
func (m *FPSMeter) Frame(now time.Time) {
	if m.last.IsZero() {
		m.last = now
		return
	}
	m.Record(now.Sub(m.last).Seconds())
	m.last = now
}

// Record adds one frame time in seconds.
func (m *FPSMeter) Record(dt float64) {
	m.times[m.next] = dt
	m.next = (m.next + 1) % len(m.times)

	var total float64
	n := 0
	for _, t := range m.times {
		if t > 0 {
			total += t
			n++
		}
	}
	if n > 0 {
		m.fps = float64(n) / total
	}
}

func (m *FPSMeter) FPS() float64 { return m.fps }
