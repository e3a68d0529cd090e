package patterns

import "testing"

func TestCatalogCounts(t *testing.T) {
	tests := []struct {
		name  string
		cells int
	}{
		{"blinker", 3},
		{"toad", 6},
		{"block", 4},
		{"glider", 5},
		{"lwss", 9},
		{"pulsar", 48},
		{"gosper", 36},
		{"pentadecathlon", 12},
		{"simkin", 43},
	}
	for _, tt := range tests {
		p, err := Lookup(tt.name)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(p.Cells) != tt.cells {
			t.Errorf("%s: %d cells, want %d", tt.name, len(p.Cells), tt.cells)
		}
	}
}

func TestCellsAreUnique(t *testing.T) {
	for _, name := range Names() {
		p, _ := Lookup(name)
		seen := map[Offset]bool{}
		for _, c := range p.Cells {
			if seen[c] {
				t.Errorf("%s: duplicate cell %+v", name, c)
			}
			seen[c] = true
		}
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	if _, err := Lookup(" Glider "); err != nil {
		t.Errorf("expected glider, got %v", err)
	}
	if _, err := Lookup("spaceship"); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestBounds(t *testing.T) {
	minX, minY, maxX, maxY := Pentadecathlon.Bounds()
	if minX != 1 || minY != -1 || maxX != 10 || maxY != 1 {
		t.Errorf("got %d,%d %d,%d", minX, minY, maxX, maxY)
	}
}
