package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/sim"
)

// Factory builds a configured, initialized core. Two calls must produce
// identical grids.
type Factory func() (*sim.Core, error)

type DamageResult struct {
	// Distance[t] is the number of cells whose alive state differs after t
	// generations.
	Distance []int
	// Rate is ln(d(T)/d(0))/T; positive when the perturbation spreads.
	Rate float64
	// Healed is true when the perturbation died out.
	Healed bool
}

// DamageSpreading runs two copies of a grid, one with cell (x, y) flipped,
// and measures how far their states drift apart.
func DamageSpreading(ctx context.Context, newCore Factory, x, y, generations int) (*DamageResult, error) {
	if generations <= 0 {
		return nil, fmt.Errorf("analysis: generations must be positive, got %d", generations)
	}

	a, err := newCore()
	if err != nil {
		return nil, err
	}
	defer a.Release()
	b, err := newCore()
	if err != nil {
		return nil, err
	}
	defer b.Release()

	if !b.Grid.InBounds(x, y) {
		return nil, fmt.Errorf("analysis: perturbation (%d, %d) outside %dx%d grid", x, y, b.Grid.Width(), b.Grid.Height())
	}
	cells, err := b.Grid.Snapshot()
	if err != nil {
		return nil, err
	}
	flipped := float32(1)
	if _, alive := grid.Category(cells[b.Grid.Index(x, y)]); alive {
		flipped = 0
	}
	b.Grid.WriteCell(x, y, flipped)

	result := &DamageResult{Distance: make([]int, 0, generations+1)}
	d, err := distance(a, b)
	if err != nil {
		return nil, err
	}
	result.Distance = append(result.Distance, d)

	for t := 0; t < generations; t++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := a.Step(1); err != nil {
			return result, err
		}
		if err := b.Step(1); err != nil {
			return result, err
		}
		d, err := distance(a, b)
		if err != nil {
			return result, err
		}
		result.Distance = append(result.Distance, d)
	}

	final := result.Distance[len(result.Distance)-1]
	if final == 0 {
		result.Healed = true
		result.Rate = math.Inf(-1)
		return result, nil
	}
	result.Rate = math.Log(float64(final)/float64(result.Distance[0])) / float64(generations)
	return result, nil
}

func distance(a, b *sim.Core) (int, error) {
	ca, err := a.Grid.Snapshot()
	if err != nil {
		return 0, err
	}
	cb, err := b.Grid.Snapshot()
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range ca {
		if (ca[i] > 0.5) != (cb[i] > 0.5) {
			n++
		}
	}
	return n, nil
}
