package input

import (
	"fmt"
	"strings"

	"github.com/san-kum/lifelab/internal/patterns"
)

// Mode is the tool the left button applies.
type Mode int

const (
	ModePaint Mode = iota
	ModeGlider
	ModeLWSS
	ModePulsar
	ModeGosperGun
	ModePentadecathlon
	ModeSimkinGun
	ModeClear
	ModeRandomFill
)

var modeNames = [...]string{
	ModePaint:          "paint",
	ModeGlider:         "glider",
	ModeLWSS:           "lwss",
	ModePulsar:         "pulsar",
	ModeGosperGun:      "gosper",
	ModePentadecathlon: "pentadecathlon",
	ModeSimkinGun:      "simkin",
	ModeClear:          "clear",
	ModeRandomFill:     "fill",
}

var modePatterns = map[Mode]patterns.Pattern{
	ModeGlider:         patterns.Glider,
	ModeLWSS:           patterns.LWSS,
	ModePulsar:         patterns.Pulsar,
	ModeGosperGun:      patterns.GosperGun,
	ModePentadecathlon: patterns.Pentadecathlon,
	ModeSimkinGun:      patterns.SimkinGun,
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// Pattern returns the pattern a stamp mode places.
func (m Mode) Pattern() (patterns.Pattern, bool) {
	p, ok := modePatterns[m]
	return p, ok
}

func Modes() []Mode {
	out := make([]Mode, len(modeNames))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("input: unknown mode %q", s)
}
