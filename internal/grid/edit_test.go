package grid

import (
	"testing"

	"github.com/san-kum/lifelab/internal/patterns"
)

func emptyStore(t *testing.T, w, h int) *Store {
	t.Helper()
	s := newStore(t, w, h)
	s.ClearAll()
	return s
}

func TestPaintSquareBrush(t *testing.T) {
	s := emptyStore(t, 20, 20)
	s.Paint(10, 10, 3, Red.Value())

	if n, _ := s.LiveCount(); n != 49 {
		t.Errorf("radius 3 brush painted %d cells, want 49", n)
	}
	cells := snapshot(t, s)
	if cells[s.Index(7, 7)] != 3 || cells[s.Index(13, 13)] != 3 {
		t.Error("brush corners should be painted red")
	}
	if cells[s.Index(6, 10)] != 0 {
		t.Error("brush should not extend past its radius")
	}
}

func TestPaintClipsAtEdge(t *testing.T) {
	s := emptyStore(t, 20, 20)
	s.Paint(0, 0, 2, 1)
	if n, _ := s.LiveCount(); n != 9 {
		t.Errorf("corner brush painted %d cells, want 9", n)
	}

	s.Paint(-1, 5, 2, 1)
	if n, _ := s.LiveCount(); n != 9 {
		t.Error("brush centered off-grid should paint nothing")
	}
}

func TestStamp(t *testing.T) {
	s := emptyStore(t, 40, 40)
	s.Stamp(patterns.Glider, 5, 5, 1)
	if n, _ := s.LiveCount(); n != 5 {
		t.Errorf("glider stamp = %d cells", n)
	}

	s.Stamp(patterns.Glider, 40, 5, 1)
	if n, _ := s.LiveCount(); n != 5 {
		t.Error("stamp with an off-grid origin should be skipped")
	}

	s.Stamp(patterns.Block, 39, 39, 1)
	if n, _ := s.LiveCount(); n != 6 {
		t.Errorf("stamp at the edge should drop cells past it, got %d live", n)
	}
}

func TestClearDisc(t *testing.T) {
	s := emptyStore(t, 20, 20)
	s.Paint(10, 10, 5, 1)
	s.Clear(10, 10, 2)

	cells := snapshot(t, s)
	if cells[s.Index(12, 10)] != 0 || cells[s.Index(10, 8)] != 0 {
		t.Error("cells at distance 2 should be cleared")
	}
	if cells[s.Index(12, 12)] != 1 {
		t.Error("diagonal at distance sqrt(8) is outside the disc")
	}
	if n, _ := s.LiveCount(); n != 121-13 {
		t.Errorf("live = %d, want %d", n, 121-13)
	}
}

func TestRandomFillDeterministic(t *testing.T) {
	a := emptyStore(t, 64, 64)
	b := emptyStore(t, 64, 64)
	a.RandomFill(32, 32, 20, 0.4, 7, 1)
	b.RandomFill(32, 32, 20, 0.4, 7, 1)

	ca, cb := snapshot(t, a), snapshot(t, b)
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatal("same seed should fill the same cells")
		}
	}

	n, _ := a.LiveCount()
	if n == 0 {
		t.Fatal("fill produced no cells")
	}
	// 1257 cells lie in the disc
	if frac := float64(n) / 1257; frac < 0.2 || frac > 0.6 {
		t.Errorf("fill density %.2f far from 0.4", frac)
	}
}

func TestRandomFillKeepsUnchosenCells(t *testing.T) {
	s := emptyStore(t, 16, 16)
	s.Paint(8, 8, 3, Blue.Value())
	s.RandomFill(8, 8, 3, 0, 1, 1)

	if n, _ := s.LiveCount(); n != 49 {
		t.Errorf("zero density fill should not kill cells, live = %d", n)
	}
}
