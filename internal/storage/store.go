package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/lifelab/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	populationFile = "population.csv"
)

// Store keeps one directory per recorded run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Rule        string             `json:"rule"`
	Backend     string             `json:"backend"`
	Timestamp   time.Time          `json:"timestamp"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Generations int                `json:"generations"`
	SampleEvery int                `json:"sample_every"`
	Final       int                `json:"final"`
	ElapsedMS   float64            `json:"elapsed_ms"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes the run's metadata and population series. name is usually the
// preset the run was started from.
func (s *Store) Save(name, backend string, cfg sim.RunConfig, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", slug(name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Name:        name,
		Rule:        result.Rule,
		Backend:     backend,
		Timestamp:   now,
		Width:       result.Width,
		Height:      result.Height,
		Generations: cfg.Generations,
		SampleEvery: cfg.SampleEvery,
		Final:       result.Final(),
		ElapsedMS:   float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:     result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, populationFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"generation", "population"}); err != nil {
		return "", err
	}
	for i, gen := range result.Generations {
		row := []string{
			strconv.FormatUint(gen, 10),
			strconv.Itoa(result.Population[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadPopulation reads back the sampled generations and populations of a run.
func (s *Store) LoadPopulation(runID string) ([]uint64, []int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, populationFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 2

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []uint64{}, []int{}, nil
	}

	gens := make([]uint64, 0, len(records)-1)
	pops := make([]int, 0, len(records)-1)
	for _, record := range records[1:] {
		gen, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("storage: bad generation %q: %w", record[0], err)
		}
		pop, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, nil, fmt.Errorf("storage: bad population %q: %w", record[1], err)
		}
		gens = append(gens, gen)
		pops = append(pops, pop)
	}

	return gens, pops, nil
}

// LoadResult rebuilds a sim.Result from a stored run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *sim.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	gens, pops, err := s.LoadPopulation(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &sim.Result{
		Rule:        meta.Rule,
		Width:       meta.Width,
		Height:      meta.Height,
		Generations: gens,
		Population:  pops,
		Metrics:     meta.Metrics,
		Elapsed:     time.Duration(meta.ElapsedMS * float64(time.Millisecond)),
	}, nil
}

func slug(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "run"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, name)
}
