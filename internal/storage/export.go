package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/lifelab/internal/sim"
)

type ExportData struct {
	Name        string             `json:"name"`
	Rule        string             `json:"rule"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Samples     int                `json:"samples"`
	Generations []uint64           `json:"generations"`
	Population  []int              `json:"population"`
	Metrics     map[string]float64 `json:"metrics"`
	ElapsedMS   float64            `json:"elapsed_ms"`
}

func newExportData(name string, result *sim.Result) ExportData {
	return ExportData{
		Name:        name,
		Rule:        result.Rule,
		Width:       result.Width,
		Height:      result.Height,
		Samples:     len(result.Population),
		Generations: result.Generations,
		Population:  result.Population,
		Metrics:     result.Metrics,
		ElapsedMS:   float64(result.Elapsed.Microseconds()) / 1000,
	}
}

// WriteJSON encodes the run as indented JSON.
func WriteJSON(w io.Writer, name string, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(name, result))
}

func ExportJSON(path, name string, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, name, result)
}
