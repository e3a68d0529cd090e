package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifelab/internal/analysis"
	"github.com/san-kum/lifelab/internal/app"
	"github.com/san-kum/lifelab/internal/automation"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/config"
	"github.com/san-kum/lifelab/internal/export"
	"github.com/san-kum/lifelab/internal/metrics"
	"github.com/san-kum/lifelab/internal/patterns"
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/rules"
	"github.com/san-kum/lifelab/internal/sim"
	"github.com/san-kum/lifelab/internal/storage"
	"github.com/san-kum/lifelab/internal/view"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func snapshotGrid(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	generations, _ := cmd.Flags().GetInt("generations")
	out, _ := cmd.Flags().GetString("out")

	core, err := newCore(cfg)
	if err != nil {
		return err
	}
	defer core.Release()

	if err := core.Step(generations); err != nil {
		return err
	}
	cells, err := core.Grid.Snapshot()
	if err != nil {
		return err
	}

	f := render.Frame{Cells: cells, Width: core.Grid.Width(), Height: core.Grid.Height()}
	svg := export.GridToSVG(f, svgScale, render.DefaultPalette())
	if err := os.WriteFile(out, []byte(svg), 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (generation %d, %s)\n", out, core.Grid.Generation(), core.Rules.Rule())
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	if frames <= 0 || every <= 0 {
		return fmt.Errorf("frames and every must be positive")
	}

	core, err := newCore(cfg)
	if err != nil {
		return err
	}
	defer core.Release()

	w, h := core.Grid.Width(), core.Grid.Height()
	rec := export.NewRecorder(w, h, render.DefaultPalette())
	identity := view.State{Zoom: 1}
	cells := make([]float32, core.Grid.Cells())

	for i := 0; i < frames; i++ {
		if i > 0 {
			if err := core.Step(every); err != nil {
				return err
			}
		}
		if err := core.Grid.SnapshotInto(cells); err != nil {
			return err
		}
		rec.Capture(render.Frame{Cells: cells, Width: w, Height: h}, identity)
	}

	if err := rec.Save(out); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames)\n", out, rec.Frames())
	return nil
}

func benchBackend(cmd *cobra.Command, args []string) error {
	generations, _ := cmd.Flags().GetInt("generations")
	if generations <= 0 {
		return fmt.Errorf("generations must be positive")
	}

	sizes := []int{128, 256, 512, 1024}
	workerCounts := []int{1, runtime.NumCPU()}

	fmt.Printf("benchmarking cpu backend (%d generations)\n\n", generations)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tWORKERS\tTIME\tGEN/SEC\tCELLS/SEC")

	for _, size := range sizes {
		for _, n := range workerCounts {
			cfg := config.DefaultConfig()
			cfg.Grid.Width, cfg.Grid.Height = size, size

			core, err := app.NewCore(compute.NewCPUBackend(compute.WithWorkers(n)), cfg, logger)
			if err != nil {
				return err
			}
			if err := core.Initialize(size, size); err != nil {
				core.Release()
				return err
			}

			start := time.Now()
			err = core.Step(generations)
			elapsed := time.Since(start)
			core.Release()
			if err != nil {
				return err
			}

			genPerSec := float64(generations) / elapsed.Seconds()
			fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.0f\t%.3g\n",
				size, size, n, elapsed.Round(time.Microsecond), genPerSec, genPerSec*float64(size*size))
		}
	}
	return w.Flush()
}

func comparePresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	generations, _ := cmd.Flags().GetInt("generations")

	ens := &sim.Ensemble{
		Width:   cfg.Grid.Width,
		Height:  cfg.Grid.Height,
		Presets: args,
		Setup: func(core *sim.Core) error {
			return prepareGrid(core, cfg)
		},
		Metrics: metrics.All,
		Logger:  logger,
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := ens.Run(ctx, sim.RunConfig{Generations: generations, SampleEvery: 1})
	if err != nil {
		return err
	}

	fmt.Printf("comparing presets on %dx%d for %d generations\n\n", cfg.Grid.Width, cfg.Grid.Height, generations)
	fmt.Printf("%-16s  %-10s  %8s  %8s  %10s  %10s  %8s\n", "preset", "rule", "final", "peak", "mean", "stagnation", "time_ms")
	fmt.Println(strings.Repeat("-", 82))

	for i, r := range results {
		fmt.Printf("%-16s  %-10s  %8d  %8.0f  %10.1f  %10.0f  %8.2f\n",
			args[i], ruleOf(args[i]), r.Final(), r.Metrics["peak"], r.Metrics["mean"], r.Metrics["stagnation"],
			float64(r.Elapsed.Microseconds())/1000)
	}
	return nil
}

func ruleOf(preset string) string {
	p, err := rules.GetPreset(preset)
	if err != nil {
		return "?"
	}
	if p.Spec != nil {
		return p.Spec.Rulestring()
	}
	return p.Rulestring
}

func sweepRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	specs := analysis.BirthSweep(survivalMin, survivalMax)
	if len(specs) == 0 {
		return fmt.Errorf("no rules for survival range %d-%d", survivalMin, survivalMax)
	}

	ctx, cancel := signalContext()
	defer cancel()

	points, err := analysis.RuleSweep(ctx, func() (*sim.Core, error) { return newCore(cfg) }, specs, transient, record)
	if err != nil {
		return err
	}

	fmt.Printf("birth sweep for S%d-%d on %dx%d\n\n", survivalMin, survivalMax, cfg.Grid.Width, cfg.Grid.Height)
	fmt.Print(analysis.SweepToASCII(points, 64, 16))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tDISTINCT\tMIN\tMAX")
	for _, p := range points {
		lo, hi := 0, 0
		for i, v := range p.Values {
			if i == 0 || v < lo {
				lo = v
			}
			if i == 0 || v > hi {
				hi = v
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", p.Spec.Rulestring(), len(p.Values), lo, hi)
	}
	return w.Flush()
}

func damageSpreading(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	generations, _ := cmd.Flags().GetInt("generations")

	x, y := cellX, cellY
	if x < 0 {
		x = cfg.Grid.Width / 2
	}
	if y < 0 {
		y = cfg.Grid.Height / 2
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := analysis.DamageSpreading(ctx, func() (*sim.Core, error) { return newCore(cfg) }, x, y, generations)
	if err != nil {
		return err
	}

	series := make([]float64, len(res.Distance))
	for i, d := range res.Distance {
		series[i] = float64(d)
	}
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("hamming distance after flipping (%d, %d)", x, y)),
	))
	fmt.Println()
	fmt.Printf("spreading rate: %.4f per generation\n", res.Rate)
	if res.Healed {
		fmt.Println("perturbation healed")
	}
	return nil
}

func runSoups(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	density, _ := cmd.Flags().GetFloat64("density")
	generations, _ := cmd.Flags().GetInt("generations")

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSoups(ctx, automation.SoupConfig{
		Density:     density,
		Trials:      trials,
		Generations: generations,
		Seed:        seed,
	}, func() (*sim.Core, error) { return newCore(cfg) }, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tINITIAL\tFINAL\tOUTCOME")
	for _, r := range results {
		outcome := "active"
		switch {
		case r.Extinct:
			outcome = "extinct"
		case r.Period > 0:
			outcome = fmt.Sprintf("period %d", r.Period)
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\n", r.Trial, r.Seed, r.Initial, r.Final, outcome)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	extinct, periodic, active := automation.SoupStats(results)
	fmt.Printf("\n%d soups: %d extinct, %d periodic, %d active\n", len(results), extinct, periodic, active)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	core, err := app.NewCore(headlessBackend(cfg), cfg, logger)
	if err != nil {
		return err
	}
	defer core.Release()

	ctx, cancel := signalContext()
	defer cancel()

	records, err := automation.RunScenario(ctx, scenario, core, logger)
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRULE\tSAMPLES\tFINAL\tSAVED")
	for _, rec := range records {
		saved := "-"
		if rec.Name != "" {
			gens := len(rec.Result.Population) - 1
			id, err := st.Save(rec.Name, core.Grid.Backend().Name(), sim.RunConfig{Generations: gens, SampleEvery: 1}, rec.Result)
			if err != nil {
				return err
			}
			saved = id
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", rec.Step, rec.Result.Rule, len(rec.Result.Population), rec.Result.Final(), saved)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		variants := config.ListPresets(args[0])
		if len(variants) == 0 {
			fmt.Printf("no config variants for rule: %s\n", args[0])
			return nil
		}
		fmt.Printf("variants for %s:\n", args[0])
		for _, v := range variants {
			p := config.GetPreset(args[0], v)
			fmt.Printf("  %-10s %dx%d at %d gen/s\n", v, p.Grid.Width, p.Grid.Height, p.Simulation.StepsPerSecond)
		}
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tRULE\tVARIANTS\tDESCRIPTION")
	for _, name := range rules.ListPresets() {
		p, err := rules.GetPreset(name)
		if err != nil {
			return err
		}
		variants := strings.Join(config.ListPresets(name), ",")
		if variants == "" {
			variants = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, ruleOf(name), variants, p.Description)
	}
	return w.Flush()
}

func listPatterns(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATTERN\tCELLS\tSIZE\tDESCRIPTION")
	for _, name := range patterns.Names() {
		p, err := patterns.Lookup(name)
		if err != nil {
			return err
		}
		minX, minY, maxX, maxY := p.Bounds()
		fmt.Fprintf(w, "%s\t%d\t%dx%d\t%s\n", p.Name, len(p.Cells), maxX-minX+1, maxY-minY+1, p.Description)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
