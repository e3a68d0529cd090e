package sim

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestClockTotals(t *testing.T) {
	tests := []struct {
		name  string
		rate  int
		ticks []float64
		want  int
	}{
		{"one second in one tick", 60, []float64{1.0}, 60},
		{"sixty frames", 60, repeat(1.0/60, 60), 60},
		{"uneven frames", 60, []float64{0.25, 0.1, 0.4, 0.25}, 60},
		{"sub-step frames", 60, repeat(1.0/240, 240), 60},
		{"fast rate", 1000, repeat(0.01, 100), 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClock(tt.rate)
			if err != nil {
				t.Fatal(err)
			}
			total := 0
			for _, dt := range tt.ticks {
				total += c.Tick(dt)
			}
			if total != tt.want {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}

func TestClockCapDropsBacklog(t *testing.T) {
	c, _ := NewClock(1000)
	if n := c.Tick(5); n != MaxStepsPerTick {
		t.Errorf("n = %d, want %d", n, MaxStepsPerTick)
	}
	if c.Accumulated() != 0 {
		t.Errorf("accumulator = %v after cap, want 0", c.Accumulated())
	}
	if n := c.Tick(0); n != 0 {
		t.Errorf("backlog replayed: n = %d", n)
	}
}

func TestClockLongStallCaps(t *testing.T) {
	c, _ := NewClock(MaxRate)
	for _, dt := range []float64{1e18, math.MaxFloat64} {
		if n := c.Tick(dt); n != MaxStepsPerTick {
			t.Errorf("Tick(%g) = %d, want %d", dt, n, MaxStepsPerTick)
		}
		if c.Accumulated() != 0 {
			t.Errorf("accumulator = %v after Tick(%g)", c.Accumulated(), dt)
		}
		if n := c.Tick(1.0 / MaxRate); n != 1 {
			t.Errorf("tick after Tick(%g) = %d, want 1", dt, n)
		}
	}
}

func TestClockCustomCap(t *testing.T) {
	c, _ := NewClock(100)
	c.SetMaxSteps(3)
	if n := c.Tick(1); n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
	c.SetMaxSteps(0)
	if c.MaxSteps() != 3 {
		t.Errorf("cap changed to %d", c.MaxSteps())
	}
}

func TestClockIgnoresBadElapsed(t *testing.T) {
	c, _ := NewClock(60)
	c.Tick(0.5 / 60)
	before := c.Accumulated()

	for _, dt := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if n := c.Tick(dt); n != 0 {
			t.Errorf("Tick(%v) = %d", dt, n)
		}
	}
	if c.Accumulated() != before {
		t.Errorf("accumulator moved from %v to %v", before, c.Accumulated())
	}
}

func TestClockRateRange(t *testing.T) {
	for _, rate := range []int{0, -5, MaxRate + 1} {
		if _, err := NewClock(rate); !errors.Is(err, ErrRateOutOfRange) {
			t.Errorf("rate %d: got %v", rate, err)
		}
	}
	for _, rate := range []int{MinRate, 60, MaxRate} {
		if _, err := NewClock(rate); err != nil {
			t.Errorf("rate %d: %v", rate, err)
		}
	}

	c, _ := NewClock(60)
	if err := c.SetRate(0); err == nil {
		t.Error("expected error")
	}
	if c.Rate() != 60 {
		t.Errorf("rate changed to %d on error", c.Rate())
	}
}

func TestClockAdvance(t *testing.T) {
	c, _ := NewClock(10)
	start := time.Unix(1000, 0)

	if n := c.Advance(start); n != 0 {
		t.Errorf("first advance = %d, want 0", n)
	}
	if n := c.Advance(start.Add(time.Second)); n != 10 {
		t.Errorf("advance = %d, want 10", n)
	}

	c.Reset()
	if n := c.Advance(start.Add(5 * time.Second)); n != 0 {
		t.Errorf("advance after reset = %d, want 0", n)
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
