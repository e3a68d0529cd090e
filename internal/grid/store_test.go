package grid

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/patterns"
)

var quiet = &log.Logger{Handler: discard.Default, Level: log.ErrorLevel}

func newStore(t *testing.T, w, h int) *Store {
	t.Helper()
	s := New(compute.NewCPUBackend(), quiet)
	if err := s.Initialize(w, h); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return s
}

func snapshot(t *testing.T, s *Store) []float32 {
	t.Helper()
	cells, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return cells
}

func TestInitializeAllocatesEqualBuffers(t *testing.T) {
	s := newStore(t, 100, 60)
	if s.Input().Len() != 6000 || s.Output().Len() != 6000 {
		t.Errorf("buffer lengths %d/%d, want 6000", s.Input().Len(), s.Output().Len())
	}
	if s.Generation() != 0 {
		t.Errorf("generation = %d", s.Generation())
	}
	if s.Input() == s.Output() {
		t.Error("input and output must be distinct buffers")
	}
}

func TestParitySelection(t *testing.T) {
	s := newStore(t, 16, 16)
	a, b := s.Input(), s.Output()

	s.Advance()
	if s.Input() != b || s.Output() != a {
		t.Error("odd generation should read the second buffer")
	}
	s.Advance()
	if s.Input() != a || s.Output() != b {
		t.Error("even generation should read the first buffer")
	}
}

func TestSeedPattern(t *testing.T) {
	s := newStore(t, 100, 60)
	want := len(patterns.Glider.Cells) + len(patterns.GosperGun.Cells)
	if n, _ := s.LiveCount(); n != want {
		t.Errorf("seeded live count = %d, want %d", n, want)
	}

	cells := snapshot(t, s)
	if cells[s.Index(25+2, 15)] != 1 {
		t.Error("expected glider cell at (27, 15)")
	}

	small := newStore(t, 10, 40)
	if n, _ := small.LiveCount(); n != 0 {
		t.Errorf("grids of 10 or fewer columns start empty, got %d", n)
	}
}

func TestResizeZeroIsNoOp(t *testing.T) {
	s := newStore(t, 32, 24)
	s.WriteCell(1, 1, 1)
	s.Advance()
	before := snapshot(t, s)

	for _, dims := range [][2]int{{0, 24}, {32, 0}, {0, 0}} {
		err := s.Resize(dims[0], dims[1])
		if !errors.Is(err, ErrZeroDimension) {
			t.Fatalf("Resize(%v): expected ErrZeroDimension, got %v", dims, err)
		}
	}
	if s.Width() != 32 || s.Height() != 24 || s.Generation() != 1 {
		t.Errorf("state changed: %dx%d gen %d", s.Width(), s.Height(), s.Generation())
	}
	after := snapshot(t, s)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("cells changed on zero resize")
		}
	}
}

func TestResizeResets(t *testing.T) {
	s := newStore(t, 32, 24)
	s.Advance()
	s.Advance()
	s.Advance()

	if err := s.Resize(50, 40); err != nil {
		t.Fatal(err)
	}
	if s.Generation() != 0 || s.Cells() != 2000 {
		t.Errorf("after resize: gen %d, cells %d", s.Generation(), s.Cells())
	}
	if s.Input().Len() != s.Output().Len() {
		t.Error("buffers differ in length after resize")
	}
}

func TestResizeOutOfMemoryKeepsGrid(t *testing.T) {
	s := New(compute.NewCPUBackend(compute.WithMemoryLimit(4*1000)), quiet)
	if err := s.Initialize(20, 20); err != nil {
		t.Fatal(err)
	}
	err := s.Resize(100, 100)
	if !errors.Is(err, compute.ErrOutOfMemory) {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
	if s.Width() != 20 || !s.Initialized() {
		t.Error("failed resize should keep the previous grid")
	}
}

func TestWriteCellOutOfRange(t *testing.T) {
	s := newStore(t, 8, 8)
	before := snapshot(t, s)

	s.WriteCell(-1, 0, 1)
	s.WriteCell(0, -1, 1)
	s.WriteCell(8, 0, 1)
	s.WriteCell(0, 8, 1)

	after := snapshot(t, s)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("out-of-range write changed cell %d", i)
		}
	}

	s.WriteCell(3, 4, 5)
	if got := snapshot(t, s)[s.Index(3, 4)]; got != 5 {
		t.Errorf("cell (3,4) = %v, want 5", got)
	}
}

func TestWriteCellTargetsInput(t *testing.T) {
	s := newStore(t, 8, 8)
	s.Advance()
	s.WriteCell(2, 2, 1)

	got := make([]float32, 64)
	_ = s.Input().Read(got)
	if got[s.Index(2, 2)] != 1 {
		t.Error("write should land in the buffer the next pass reads")
	}
	_ = s.Output().Read(got)
	if got[s.Index(2, 2)] != 0 {
		t.Error("write should not touch the output buffer")
	}
}

func TestColorValues(t *testing.T) {
	want := map[Color]float32{White: 1, Red: 3, Green: 4, Blue: 5, Yellow: 6, Purple: 7}
	for c, v := range want {
		if c.Value() != v {
			t.Errorf("%s = %v, want %v", c, c.Value(), v)
		}
		got, alive := Category(v)
		if !alive || got != c {
			t.Errorf("Category(%v) = %s, %v", v, got, alive)
		}
	}
	if _, alive := Category(0.5); alive {
		t.Error("0.5 is dead")
	}
	if c, err := ParseColor("Yellow"); err != nil || c != Yellow {
		t.Errorf("ParseColor: %v %v", c, err)
	}
}

func TestRevisionTracksContentChanges(t *testing.T) {
	s := newStore(t, 16, 16)
	rev := s.Revision()

	_ = snapshot(t, s)
	if _, err := s.LiveCount(); err != nil {
		t.Fatal(err)
	}
	if s.Revision() != rev {
		t.Error("readback changed the revision")
	}

	changes := []struct {
		name string
		fn   func()
	}{
		{"write", func() { s.WriteCell(1, 1, 1) }},
		{"paint", func() { s.Paint(8, 8, 2, 1) }},
		{"clear", func() { s.ClearAll() }},
		{"advance", func() { s.Advance() }},
		{"rewind", func() { s.Rewind(1) }},
		{"resize", func() { _ = s.Resize(20, 20) }},
	}
	for _, c := range changes {
		c.fn()
		if s.Revision() == rev {
			t.Errorf("%s left revision at %d", c.name, rev)
		}
		rev = s.Revision()
	}

	s.WriteCell(-1, 0, 1)
	if s.Revision() != rev {
		t.Error("ignored write changed the revision")
	}
}
