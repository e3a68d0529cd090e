package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifelab/internal/analysis"
	"github.com/san-kum/lifelab/internal/export"
	"github.com/san-kum/lifelab/internal/metrics"
	"github.com/san-kum/lifelab/internal/sim"
	"github.com/san-kum/lifelab/internal/storage"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	generations, _ := cmd.Flags().GetInt("generations")

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	core, err := newCore(cfg)
	if err != nil {
		return err
	}
	defer core.Release()

	for _, name := range metricNames {
		m, err := metrics.New(name)
		if err != nil {
			return err
		}
		core.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	runCfg := sim.RunConfig{Generations: generations, SampleEvery: sampleEvery}
	logger.WithField("rule", core.Rules.Rule()).
		WithField("size", fmt.Sprintf("%dx%d", cfg.Grid.Width, cfg.Grid.Height)).
		Info("running")

	result, err := core.Run(ctx, runCfg)
	if err != nil {
		return err
	}

	name := runName
	if name == "" {
		name = result.Rule
	}
	runID, err := st.Save(name, core.Grid.Backend().Name(), runCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("rule: %s  grid: %dx%d\n", result.Rule, result.Width, result.Height)
	fmt.Printf("final population: %d\n", result.Final())
	fmt.Printf("elapsed: %v (%.0f gen/s)\n", result.Elapsed.Round(time.Millisecond),
		float64(generations)/result.Elapsed.Seconds())

	if len(result.Metrics) > 0 {
		fmt.Println()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "METRIC\tVALUE")
		for _, name := range metrics.Names() {
			if v, ok := result.Metrics[name]; ok {
				fmt.Fprintf(w, "%s\t%.4f\n", name, v)
			}
		}
		return w.Flush()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRULE\tGRID\tGENERATIONS\tFINAL\tTIME")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			r.ID, r.Rule, r.Width, r.Height, r.Generations, r.Final,
			r.Timestamp.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	if len(result.Population) == 0 {
		return fmt.Errorf("no data to plot")
	}

	graph := asciigraph.Plot(result.Series(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("population (%s)", meta.Rule)),
	)
	fmt.Println(graph)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Population) < 4 {
		return fmt.Errorf("run %s has too few samples", meta.ID)
	}

	s := analysis.Summarize(result)
	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("rule: %s  samples: %d (every %d generations)\n\n", meta.Rule, s.Samples, meta.SampleEvery)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "initial\t%d\n", s.Initial)
	fmt.Fprintf(w, "final\t%d\n", s.Final)
	fmt.Fprintf(w, "peak\t%d\n", s.Peak)
	fmt.Fprintf(w, "min\t%d\n", s.Min)
	fmt.Fprintf(w, "mean\t%.1f\n", s.Mean)
	if s.Period > 0 {
		fmt.Fprintf(w, "period\t%d samples\n", s.Period)
	} else {
		fmt.Fprintf(w, "period\tnone\n")
	}
	if s.SpectralPeriod > 0 {
		fmt.Fprintf(w, "spectral period\t%.2f samples (%.0f%% of power)\n", s.SpectralPeriod, 100*s.SpectralPower)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	ps := analysis.PowerSpectrum(result.Series())
	if len(ps) > 2 {
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
		fmt.Println()
	}

	points := analysis.ReturnMap(result.Series(), 1)
	fmt.Println("return map p(t) vs p(t+1)")
	fmt.Print(analysis.PointsToASCII(points, 60, 20))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return storage.WriteJSON(os.Stdout, meta.Name, result)
	}
	if err := storage.ExportJSON(out, meta.Name, result); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	gens, pops, err := st.LoadPopulation(args[0])
	if err != nil {
		return err
	}

	if len(pops) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"generation", "population"}); err != nil {
		return err
	}
	for i := range pops {
		row := []string{strconv.FormatUint(gens[i], 10), strconv.Itoa(pops[i])}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	gens, pops, err := st.LoadPopulation(args[0])
	if err != nil {
		return err
	}

	svg := export.PopulationToSVG(gens, pops, 800, 300, "#e6463c")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		_, err := fmt.Print(svg)
		return err
	}
	return os.WriteFile(out, []byte(svg), 0o644)
}
