package rules

import (
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/patterns"
)

var quiet = &log.Logger{Handler: discard.Default, Level: log.ErrorLevel}

func setup(t *testing.T, w, h int) (*Engine, *grid.Store) {
	t.Helper()
	backend := compute.NewCPUBackend()
	e, err := NewEngine(backend, quiet)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	g := grid.New(backend, quiet)
	if err := g.Initialize(w, h); err != nil {
		t.Fatalf("grid: %v", err)
	}
	g.ClearAll()
	return e, g
}

func alive(t *testing.T, g *grid.Store) map[[2]int]bool {
	t.Helper()
	cells, err := g.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	out := map[[2]int]bool{}
	for i, v := range cells {
		if v > 0.5 {
			out[[2]int{i % g.Width(), i / g.Width()}] = true
		}
	}
	return out
}

func TestGliderTranslates(t *testing.T) {
	e, g := setup(t, 20, 20)
	g.Stamp(patterns.Glider, 5, 5, 1)
	start := alive(t, g)

	if err := e.ApplyBatch(g, 4); err != nil {
		t.Fatal(err)
	}
	if g.Generation() != 4 {
		t.Errorf("generation = %d, want 4", g.Generation())
	}

	got := alive(t, g)
	if len(got) != len(start) {
		t.Fatalf("glider has %d cells after 4 steps, want %d", len(got), len(start))
	}
	for c := range start {
		if !got[[2]int{c[0] + 1, c[1] + 1}] {
			t.Errorf("expected %v shifted by (1,1)", c)
		}
	}
}

func TestGliderWrapsAround(t *testing.T) {
	e, g := setup(t, 8, 8)
	g.Stamp(patterns.Glider, 0, 0, 1)
	start := alive(t, g)

	// 8 diagonal cells on an 8x8 torus brings it home
	if err := e.ApplyBatch(g, 32); err != nil {
		t.Fatal(err)
	}
	got := alive(t, g)
	if len(got) != len(start) {
		t.Fatalf("%d cells, want %d", len(got), len(start))
	}
	for c := range start {
		if !got[c] {
			t.Errorf("missing %v after a full lap", c)
		}
	}
}

func TestBlinkerPeriod(t *testing.T) {
	e, g := setup(t, 10, 10)
	g.Stamp(patterns.Blinker, 5, 5, 1)
	start := alive(t, g)

	_ = e.Apply(g)
	mid := alive(t, g)
	if mid[[2]int{5, 4}] || !mid[[2]int{4, 5}] || !mid[[2]int{6, 5}] {
		t.Errorf("blinker should be horizontal after one step: %v", mid)
	}

	_ = e.Apply(g)
	end := alive(t, g)
	if len(end) != 3 {
		t.Fatalf("%d cells", len(end))
	}
	for c := range start {
		if !end[c] {
			t.Errorf("blinker should return after two steps, missing %v", c)
		}
	}
}

func TestEmptyGridStaysEmpty(t *testing.T) {
	e, g := setup(t, 16, 16)
	if err := e.ApplyBatch(g, 10); err != nil {
		t.Fatal(err)
	}
	if n, _ := g.LiveCount(); n != 0 {
		t.Errorf("empty grid grew %d cells", n)
	}
}

func TestBatchMatchesSingleSteps(t *testing.T) {
	e1, g1 := setup(t, 40, 30)
	e2, g2 := setup(t, 40, 30)
	for _, g := range []*grid.Store{g1, g2} {
		g.Stamp(patterns.GosperGun, 1, 1, 1)
		g.RandomFill(30, 20, 6, 0.4, 3, 1)
	}

	if err := e1.ApplyBatch(g1, 7); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 7; i++ {
		if err := e2.Apply(g2); err != nil {
			t.Fatal(err)
		}
	}

	a, _ := g1.Snapshot()
	b, _ := g2.Snapshot()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("batch and single-step results differ at cell %d", i)
		}
	}
}

func TestFailedCompileKeepsProgram(t *testing.T) {
	e, g := setup(t, 10, 10)
	before := e.Active()

	err := e.Load("not a program")
	if !errors.Is(err, compute.ErrCompile) {
		t.Fatalf("expected ErrCompile, got %v", err)
	}
	if e.Active() != before {
		t.Error("active program replaced after failed compile")
	}

	g.Stamp(patterns.Blinker, 5, 5, 1)
	if err := e.Apply(g); err != nil {
		t.Fatalf("engine unusable after failed compile: %v", err)
	}
}

func TestSetParametersRequiresThreshold(t *testing.T) {
	e, _ := setup(t, 10, 10)

	if err := e.SetParameters(Spec{SurvivalMin: 2, SurvivalMax: 3, BirthCount: 6}); err != nil {
		t.Fatalf("threshold program should accept parameters: %v", err)
	}
	if spec, ok := e.Spec(); !ok || spec.BirthCount != 6 {
		t.Errorf("spec = %+v, %v", spec, ok)
	}

	if err := e.Load("B36/S23"); err != nil {
		t.Fatal(err)
	}
	err := e.SetParameters(Conway)
	if !errors.Is(err, ErrNotParameterized) {
		t.Fatalf("expected ErrNotParameterized, got %v", err)
	}
	if _, ok := e.Spec(); ok {
		t.Error("a rulestring program does not use the spec")
	}
}

func TestSetParametersValidates(t *testing.T) {
	e, _ := setup(t, 10, 10)
	bad := []Spec{
		{SurvivalMin: 4, SurvivalMax: 3, BirthCount: 3},
		{SurvivalMin: 2, SurvivalMax: 9, BirthCount: 3},
		{SurvivalMin: -1, SurvivalMax: 3, BirthCount: 3},
	}
	for _, s := range bad {
		if err := e.SetParameters(s); !errors.Is(err, ErrInvalidSpec) {
			t.Errorf("%+v: expected ErrInvalidSpec, got %v", s, err)
		}
	}
	if spec, _ := e.Spec(); spec != Conway {
		t.Errorf("rejected spec changed the rule to %+v", spec)
	}
}

func TestParameterChangeAltersBehavior(t *testing.T) {
	e, g := setup(t, 10, 10)
	g.WriteCell(5, 5, 1)

	// a lone cell dies under Conway but not under S0-8
	if err := e.SetParameters(Spec{SurvivalMin: 0, SurvivalMax: 8, BirthCount: 3}); err != nil {
		t.Fatal(err)
	}
	_ = e.Apply(g)
	if !alive(t, g)[[2]int{5, 5}] {
		t.Error("S0-8 should keep a lone cell")
	}
}

func TestHighLifePreset(t *testing.T) {
	e, g := setup(t, 10, 10)
	if err := e.ApplyPreset("highlife"); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]int{{4, 4}, {5, 4}, {6, 4}, {4, 6}, {5, 6}, {6, 6}} {
		g.WriteCell(p[0], p[1], 1)
	}
	_ = e.Apply(g)
	if !alive(t, g)[[2]int{5, 5}] {
		t.Error("HighLife should give birth on six neighbors")
	}

	if err := e.ApplyPreset("conway"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Spec(); !ok {
		t.Error("conway preset should restore the threshold program")
	}
	if err := e.ApplyPreset("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPaintValueForNewborns(t *testing.T) {
	e, g := setup(t, 10, 10)
	e.SetPaint(grid.Green.Value())
	g.Stamp(patterns.Blinker, 5, 5, 1)
	_ = e.Apply(g)

	cells, _ := g.Snapshot()
	if v := cells[g.Index(4, 5)]; v != grid.Green.Value() {
		t.Errorf("newborn = %v, want green", v)
	}
	if v := cells[g.Index(5, 5)]; v != 1 {
		t.Errorf("survivor = %v, want its original 1", v)
	}
}

func TestSetLuckyBounds(t *testing.T) {
	e, _ := setup(t, 10, 10)
	if err := e.SetLucky(true, 1.5); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("expected ErrInvalidSpec, got %v", err)
	}
	if err := e.SetLucky(true, 0.25); err != nil {
		t.Fatal(err)
	}
	if on, chance := e.Lucky(); !on || chance != 0.25 {
		t.Errorf("lucky = %v %v", on, chance)
	}
}

func TestSetRule(t *testing.T) {
	e, _ := setup(t, 10, 10)

	if err := e.SetRule("B36/S23"); err != nil {
		t.Fatal(err)
	}
	if _, ok := e.Spec(); ok {
		t.Error("a multi-birth rule needs its own program")
	}

	if err := e.SetRule("S1-5/B3"); err != nil {
		t.Fatal(err)
	}
	if spec, ok := e.Spec(); !ok || spec.SurvivalMax != 5 {
		t.Errorf("spec = %+v, %v", spec, ok)
	}

	if err := e.SetRule("not a rule"); err == nil {
		t.Error("expected error")
	}
	if e.Rule() != "B3/S12345" {
		t.Errorf("failed rule change replaced %q", e.Rule())
	}
}

func TestReleasedEngine(t *testing.T) {
	e, g := setup(t, 10, 10)
	e.Release()

	if err := e.Apply(g); !errors.Is(err, ErrNoProgram) {
		t.Errorf("apply after release: %v", err)
	}
	if g.Generation() != 0 {
		t.Errorf("generation = %d after refused apply", g.Generation())
	}

	if err := e.SetRule("B3/S23"); err != nil {
		t.Fatalf("set rule after release: %v", err)
	}
	if err := e.Apply(g); err != nil {
		t.Errorf("apply after reload: %v", err)
	}
	e.Release()

	if err := e.SetRule("B36/S23"); err != nil {
		t.Fatalf("rulestring after release: %v", err)
	}
	if e.Rule() != "B36/S23" {
		t.Errorf("rule = %q", e.Rule())
	}
	e.Release()
}
