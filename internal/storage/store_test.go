package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/lifelab/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Rule:        "B3/S23",
		Width:       32,
		Height:      16,
		Generations: []uint64{0, 5, 10},
		Population:  []int{12, 9, 7},
		Metrics:     map[string]float64{"peak": 12},
		Elapsed:     1500 * time.Microsecond,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := sim.RunConfig{Generations: 10, SampleEvery: 5}
	runID, err := st.Save("Conway", "cpu", cfg, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Rule != "B3/S23" {
		t.Errorf("expected rule B3/S23, got %q", meta.Rule)
	}
	if meta.Final != 7 {
		t.Errorf("expected final 7, got %d", meta.Final)
	}
	if meta.SampleEvery != 5 || meta.Generations != 10 {
		t.Errorf("run config not stored: %+v", meta)
	}
	if meta.Metrics["peak"] != 12 {
		t.Errorf("expected peak 12, got %f", meta.Metrics["peak"])
	}

	gens, pops, err := st.LoadPopulation(runID)
	if err != nil {
		t.Fatalf("load population failed: %v", err)
	}
	if len(gens) != 3 || len(pops) != 3 {
		t.Fatalf("expected 3 samples, got %d/%d", len(gens), len(pops))
	}
	if gens[2] != 10 || pops[1] != 9 {
		t.Errorf("unexpected series: %v %v", gens, pops)
	}

	_, res, err := st.LoadResult(runID)
	if err != nil {
		t.Fatalf("load result failed: %v", err)
	}
	if res.Final() != 7 || res.Width != 32 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Elapsed != 1500*time.Microsecond {
		t.Errorf("elapsed = %v", res.Elapsed)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"conway", "highlife"} {
		if _, err := st.Save(name, "cpu", sim.RunConfig{Generations: 10}, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "conway" {
		t.Errorf("expected oldest first, got %q", runs[0].Name)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("day and night", "cpu", sim.RunConfig{Generations: 10}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "population.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"":              "run",
		"Conway":        "conway",
		"day and night": "day-and-night",
		"B3/S23":        "b3-s23",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, "conway", sampleResult()); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Samples != 3 || data.Rule != "B3/S23" {
		t.Errorf("unexpected export: %+v", data)
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "conway", sampleResult()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("export file not created")
	}
}
