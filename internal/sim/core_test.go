package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/patterns"
)

var quiet = &log.Logger{Handler: discard.Default, Level: log.ErrorLevel}

type countMetric struct {
	observed int
	last     int
}

func (m *countMetric) Name() string              { return "count" }
func (m *countMetric) Observe(_ uint64, pop int) { m.observed++; m.last = pop }
func (m *countMetric) Value() float64            { return float64(m.observed) }
func (m *countMetric) Reset()                    { m.observed = 0 }

type recorder struct{ gens []uint64 }

func (r *recorder) OnGeneration(gen uint64, _ int) { r.gens = append(r.gens, gen) }

func newBlinkerCore(t *testing.T, rate int) *Core {
	t.Helper()
	c, err := New(compute.NewCPUBackend(), rate, quiet)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Release)
	if err := c.Initialize(16, 16); err != nil {
		t.Fatal(err)
	}
	c.Grid.ClearAll()
	c.Grid.Stamp(patterns.Blinker, 6, 6, 1)
	return c
}

func TestCoreTickFollowsClock(t *testing.T) {
	c := newBlinkerCore(t, 60)

	total := 0
	for step := 0; step < 30; step++ {
		n, err := c.Tick(1.0 / 60)
		if err != nil {
			t.Fatal(err)
		}
		total += n
	}
	if total != 30 {
		t.Errorf("steps = %d, want 30", total)
	}
	if c.Grid.Generation() != 30 {
		t.Errorf("generation = %d, want 30", c.Grid.Generation())
	}

	live, err := c.LiveCount()
	if err != nil {
		t.Fatal(err)
	}
	if live != 3 {
		t.Errorf("blinker population = %d, want 3", live)
	}
}

func TestCoreTickZeroSteps(t *testing.T) {
	c := newBlinkerCore(t, 1)
	n, err := c.Tick(0.1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || c.Grid.Generation() != 0 {
		t.Errorf("n = %d, generation = %d", n, c.Grid.Generation())
	}
}

func TestCoreRun(t *testing.T) {
	c := newBlinkerCore(t, 60)
	m := &countMetric{}
	r := &recorder{}
	c.AddMetric(m)
	c.AddObserver(r)

	result, err := c.Run(context.Background(), RunConfig{Generations: 10, SampleEvery: 4})
	if err != nil {
		t.Fatal(err)
	}

	want := []uint64{0, 4, 8, 10}
	if len(result.Generations) != len(want) {
		t.Fatalf("samples = %v, want %v", result.Generations, want)
	}
	for i := range want {
		if result.Generations[i] != want[i] || r.gens[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, result.Generations[i], want[i])
		}
	}
	if result.Final() != 3 {
		t.Errorf("final = %d, want 3", result.Final())
	}
	if result.Metrics["count"] != 4 {
		t.Errorf("metric = %v, want 4", result.Metrics["count"])
	}
	if result.Rule != "B3/S23" {
		t.Errorf("rule = %q", result.Rule)
	}
}

func TestCoreRunCancelled(t *testing.T) {
	c := newBlinkerCore(t, 60)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := c.Run(ctx, RunConfig{Generations: 100})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if len(result.Population) != 1 {
		t.Errorf("samples = %d, want only generation 0", len(result.Population))
	}
}

func TestCoreRunValidates(t *testing.T) {
	c, err := New(compute.NewCPUBackend(), 60, quiet)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Release()

	if _, err := c.Run(context.Background(), RunConfig{Generations: 5}); err == nil {
		t.Error("expected error for uninitialized grid")
	}
	if err := c.Initialize(8, 8); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Run(context.Background(), RunConfig{}); err == nil {
		t.Error("expected error for zero generations")
	}
}

func TestNewRejectsRate(t *testing.T) {
	if _, err := New(compute.NewCPUBackend(), 0, quiet); !errors.Is(err, ErrRateOutOfRange) {
		t.Errorf("err = %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	e := &Ensemble{
		Width:   24,
		Height:  24,
		Presets: []string{"conway", "highlife", "seeds"},
		Setup: func(c *Core) error {
			c.Grid.ClearAll()
			c.Grid.Stamp(patterns.Blinker, 10, 10, 1)
			return nil
		},
		Metrics: func() []Metric { return []Metric{&countMetric{}} },
		Logger:  quiet,
	}

	results, err := e.Run(context.Background(), RunConfig{Generations: 6, SampleEvery: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for i, r := range results {
		if r.Rule != e.Presets[i] {
			t.Errorf("result %d rule = %s, want %s", i, r.Rule, e.Presets[i])
		}
		if len(r.Population) != 4 {
			t.Errorf("%s: %d samples, want 4", r.Rule, len(r.Population))
		}
	}
	if results[0].Final() != 3 || results[1].Final() != 3 {
		t.Errorf("blinker should survive under conway and highlife")
	}
	// B2/S has no survivors; the blinker's middle cell is gone after one step.
	if results[2].Population[1] == 3 {
		t.Errorf("seeds population unchanged: %v", results[2].Population)
	}
}

func TestEnsembleUnknownPreset(t *testing.T) {
	e := &Ensemble{Width: 8, Height: 8, Presets: []string{"conway", "nope"}, Logger: quiet}
	if _, err := e.Run(context.Background(), RunConfig{Generations: 1}); err == nil {
		t.Error("expected error")
	}
}
