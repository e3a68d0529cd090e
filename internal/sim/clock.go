package sim

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	MinRate = 1
	MaxRate = 100000

	// MaxStepsPerTick bounds the generations one tick may run.
	MaxStepsPerTick = 100

	// stepEpsilon absorbs float error when the accumulator sits on a step
	// boundary.
	stepEpsilon = 1e-9
)

var ErrRateOutOfRange = errors.New("sim: steps per second out of range")

// Clock turns elapsed wall time into a whole number of generations at a
// fixed rate. Time that does not fill a step carries over to the next tick.
type Clock struct {
	rate     int
	interval float64
	maxSteps int
	acc      float64
	last     time.Time
}

func NewClock(rate int) (*Clock, error) {
	c := &Clock{maxSteps: MaxStepsPerTick}
	if err := c.SetRate(rate); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Clock) SetRate(rate int) error {
	if rate < MinRate || rate > MaxRate {
		return fmt.Errorf("%w: %d (allowed %d..%d)", ErrRateOutOfRange, rate, MinRate, MaxRate)
	}
	c.rate = rate
	c.interval = 1 / float64(rate)
	return nil
}

// SetMaxSteps changes the per-tick cap; values below 1 are ignored.
func (c *Clock) SetMaxSteps(n int) {
	if n >= 1 {
		c.maxSteps = n
	}
}

func (c *Clock) Rate() int            { return c.rate }
func (c *Clock) Interval() float64    { return c.interval }
func (c *Clock) Accumulated() float64 { return c.acc }
func (c *Clock) MaxSteps() int        { return c.maxSteps }

// Tick adds elapsed seconds and returns the generations now due. When more
// than the cap are due the cap is returned and the backlog is dropped.
// Negative, NaN and infinite durations count as zero.
func (c *Clock) Tick(elapsed float64) int {
	if elapsed < 0 || math.IsNaN(elapsed) || math.IsInf(elapsed, 0) {
		elapsed = 0
	}
	c.acc += elapsed

	// compared as a float: a long stall overflows int
	due := math.Floor(c.acc/c.interval + stepEpsilon)
	if due > float64(c.maxSteps) {
		c.acc = 0
		return c.maxSteps
	}
	n := int(due)
	c.acc -= float64(n) * c.interval
	if c.acc < 0 {
		c.acc = 0
	}
	return n
}

// Advance ticks by the wall time since the previous call. The first call
// only records the timestamp.
func (c *Clock) Advance(now time.Time) int {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	elapsed := now.Sub(c.last).Seconds()
	c.last = now
	return c.Tick(elapsed)
}

// Reset clears the accumulator and the timestamp.
func (c *Clock) Reset() {
	c.acc = 0
	c.last = time.Time{}
}
