package input

import "time"

const (
	DefaultSlowSpeed = 10.0
	DefaultFastSpeed = 500.0
	DefaultMinRate   = 5.0
	DefaultMaxRate   = 1000.0
)

// ThrottleConfig pins the delay curve: at or below SlowSpeed px/s a tool
// fires at most MinRate times a second, at or above FastSpeed at most
// MaxRate times.
type ThrottleConfig struct {
	SlowSpeed float64
	FastSpeed float64
	MinRate   float64
	MaxRate   float64
}

func DefaultThrottleConfig() ThrottleConfig {
	return ThrottleConfig{
		SlowSpeed: DefaultSlowSpeed,
		FastSpeed: DefaultFastSpeed,
		MinRate:   DefaultMinRate,
		MaxRate:   DefaultMaxRate,
	}
}

// Throttle gates drag-driven tool actions with one timer per mode.
type Throttle struct {
	cfg  ThrottleConfig
	last map[Mode]time.Time
}

func NewThrottle(cfg ThrottleConfig) *Throttle {
	def := DefaultThrottleConfig()
	if cfg.SlowSpeed < 0 || cfg.FastSpeed <= cfg.SlowSpeed {
		cfg.SlowSpeed, cfg.FastSpeed = def.SlowSpeed, def.FastSpeed
	}
	if cfg.MinRate <= 0 || cfg.MaxRate < cfg.MinRate {
		cfg.MinRate, cfg.MaxRate = def.MinRate, def.MaxRate
	}
	return &Throttle{cfg: cfg, last: make(map[Mode]time.Time)}
}

func (t *Throttle) Config() ThrottleConfig { return t.cfg }

// Delay is the minimum seconds between actions at a drag speed in px/s.
// The delay, not the rate, is interpolated linearly between the pins.
func (t *Throttle) Delay(speed float64) float64 {
	maxDelay := 1 / t.cfg.MinRate
	minDelay := 1 / t.cfg.MaxRate

	switch {
	case speed <= t.cfg.SlowSpeed:
		return maxDelay
	case speed >= t.cfg.FastSpeed:
		return minDelay
	}
	f := (speed - t.cfg.SlowSpeed) / (t.cfg.FastSpeed - t.cfg.SlowSpeed)
	return maxDelay - f*(maxDelay-minDelay)
}

// Allow reports whether mode may fire at now, and if so records now as its
// last trigger. A mode that never fired is always allowed.
func (t *Throttle) Allow(mode Mode, now time.Time, speed float64) bool {
	if last, ok := t.last[mode]; ok && now.Sub(last).Seconds() < t.Delay(speed) {
		return false
	}
	t.last[mode] = now
	return true
}

// Last returns when mode last fired.
func (t *Throttle) Last(mode Mode) (time.Time, bool) {
	ts, ok := t.last[mode]
	return ts, ok
}

func (t *Throttle) Reset() {
	clear(t.last)
}
