package compute

import (
	"fmt"
	"strings"
)

// Table is a life-like rule as per-count birth and survival flags.
type Table struct {
	Birth   [9]bool
	Survive [9]bool
}

// ParseRulestring accepts "B3/S23" (either order, any case) and the bare
// "23/3" survival/birth form.
func ParseRulestring(s string) (Table, error) {
	var t Table
	src := strings.ToUpper(strings.TrimSpace(s))
	parts := strings.Split(src, "/")
	if len(parts) != 2 {
		return t, fmt.Errorf("%w: %q", ErrRulestring, s)
	}

	bare := !strings.ContainsAny(src, "BS")
	for i, part := range parts {
		var dst *[9]bool
		switch {
		case bare && i == 0:
			dst = &t.Survive
		case bare:
			dst = &t.Birth
		case strings.HasPrefix(part, "B"):
			dst = &t.Birth
		case strings.HasPrefix(part, "S"):
			dst = &t.Survive
		default:
			return t, fmt.Errorf("%w: %q", ErrRulestring, s)
		}
		digits := strings.TrimLeft(part, "BS")
		for _, r := range digits {
			if r < '0' || r > '8' {
				return t, fmt.Errorf("%w: %q", ErrRulestring, s)
			}
			dst[r-'0'] = true
		}
	}
	return t, nil
}

func (t Table) String() string {
	var b strings.Builder
	b.WriteByte('B')
	for n, ok := range t.Birth {
		if ok {
			b.WriteByte(byte('0' + n))
		}
	}
	b.WriteString("/S")
	for n, ok := range t.Survive {
		if ok {
			b.WriteByte(byte('0' + n))
		}
	}
	return b.String()
}

// Masks packs the flags as bit n set for count n.
func (t Table) Masks() (birth, survive uint32) {
	for n := 0; n < 9; n++ {
		if t.Birth[n] {
			birth |= 1 << n
		}
		if t.Survive[n] {
			survive |= 1 << n
		}
	}
	return birth, survive
}
