package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/discard"
	logjson "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/san-kum/lifelab/internal/app"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/config"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/gui"
	"github.com/san-kum/lifelab/internal/metrics"
	"github.com/san-kum/lifelab/internal/patterns"
	"github.com/san-kum/lifelab/internal/sim"
	"github.com/san-kum/lifelab/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string
	logFile    string

	// Grid and rule overrides shared by most commands.
	width       int
	height      int
	rule        string
	variant     string
	paint       string
	backendName string
	workers     int
	rate        int

	// Starting grid
	fillDensity float64
	seed        uint32
	patternName string

	sampleEvery int
	runName     string
	metricNames []string

	theme      string
	frameRate  int
	recordPath string
	svgScale   float64
	frames     int
	every      int

	survivalMin int
	survivalMax int
	transient   int
	record      int
	cellX       int
	cellY       int
	trials      int
)

var logger log.Interface = log.Log

func main() {
	rootCmd := &cobra.Command{
		Use:               "lifelab",
		Short:             "cellular automaton lab",
		Annotations:       map[string]string{"interactive": "true"},
		PersistentPreRunE: setupLogging,
		RunE:              runTUI,
		SilenceUsage:      true,
	}
	addGridFlags(rootCmd)
	addViewFlags(rootCmd)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lifelab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "cli", "log format (cli, text, json)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addGridFlags(runCmd)
	addSeedFlags(runCmd)
	runCmd.Flags().Int("generations", 1000, "generations to run")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 1, "generations between population samples")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: rule)")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", metrics.Names(), "metrics to record")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot population of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "period and spectrum analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run population to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run population chart to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringP("out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "run a grid and write its final state as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshotGrid,
	}
	addGridFlags(snapshotCmd)
	addSeedFlags(snapshotCmd)
	snapshotCmd.Flags().Int("generations", 100, "generations to run")
	snapshotCmd.Flags().Float64Var(&svgScale, "scale", 4, "pixels per cell")
	snapshotCmd.Flags().StringP("out", "o", "grid.svg", "output file")

	recordCmd := &cobra.Command{
		Use:   "record [preset]",
		Short: "record a headless run as an animated GIF",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordGIF,
	}
	addGridFlags(recordCmd)
	addSeedFlags(recordCmd)
	recordCmd.Flags().IntVar(&frames, "frames", 100, "frames to capture")
	recordCmd.Flags().IntVar(&every, "every", 1, "generations per frame")
	recordCmd.Flags().StringP("out", "o", "lifelab.gif", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the cpu backend",
		RunE:  benchBackend,
	}
	benchCmd.Flags().Int("generations", 100, "generations per measurement")

	compareCmd := &cobra.Command{
		Use:   "compare [preset1] [preset2] ...",
		Short: "run the same grid under several presets",
		Args:  cobra.MinimumNArgs(2),
		RunE:  comparePresets,
	}
	addGridFlags(compareCmd)
	addSeedFlags(compareCmd)
	compareCmd.Flags().Int("generations", 500, "generations to run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep birth counts for a survival range",
		RunE:  sweepRules,
	}
	addGridFlags(sweepCmd)
	addSeedFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&survivalMin, "survival-min", 2, "minimum neighbours to survive")
	sweepCmd.Flags().IntVar(&survivalMax, "survival-max", 3, "maximum neighbours to survive")
	sweepCmd.Flags().IntVar(&transient, "transient", 200, "generations discarded before recording")
	sweepCmd.Flags().IntVar(&record, "record", 100, "generations recorded")

	damageCmd := &cobra.Command{
		Use:   "damage",
		Short: "measure how a single flipped cell spreads",
		RunE:  damageSpreading,
	}
	addGridFlags(damageCmd)
	addSeedFlags(damageCmd)
	damageCmd.Flags().Int("generations", 200, "generations to run")
	damageCmd.Flags().IntVar(&cellX, "x", -1, "cell to flip (default center)")
	damageCmd.Flags().IntVar(&cellY, "y", -1, "cell to flip (default center)")

	soupsCmd := &cobra.Command{
		Use:   "soups",
		Short: "run random soups and report how they end",
		RunE:  runSoups,
	}
	addGridFlags(soupsCmd)
	soupsCmd.Flags().IntVar(&trials, "trials", 20, "number of soups")
	soupsCmd.Flags().Float64("density", 0.4, "initial density")
	soupsCmd.Flags().Uint32Var(&seed, "seed", 1, "first soup seed")
	soupsCmd.Flags().Int("generations", 500, "generations per soup")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	addGridFlags(scriptCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [rule]",
		Short: "list rule presets, or config variants for one rule",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "list stampable patterns",
		RunE:  listPatterns,
	}

	tuiCmd := &cobra.Command{
		Use:         "tui",
		Short:       "interactive terminal view",
		Annotations: map[string]string{"interactive": "true"},
		RunE:        runTUI,
	}
	addGridFlags(tuiCmd)
	addViewFlags(tuiCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "interactive window with gpu compute",
		RunE:  runGUI,
	}
	addGridFlags(guiCmd)
	guiCmd.Flags().StringVar(&recordPath, "record-out", "lifelab.gif", "where recordings are written")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the effective config to a file",
			Args:  cobra.ExactArgs(1),
			RunE:  initConfig,
		},
		&cobra.Command{
			Use:   "show",
			Short: "print the effective config",
			RunE:  showConfig,
		},
	)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		snapshotCmd, recordCmd, benchCmd, compareCmd, sweepCmd, damageCmd, soupsCmd, scriptCmd,
		presetsCmd, patternsCmd, tuiCmd, guiCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "grid width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "grid height")
	cmd.Flags().StringVar(&rule, "rule", "", `rule such as "S2-3/B3" or "B36/S23" (overrides the preset)`)
	cmd.Flags().StringVar(&variant, "variant", "", "config preset variant for the rule")
	cmd.Flags().StringVar(&paint, "paint", config.DefaultPaint, "paint color")
	cmd.Flags().StringVar(&backendName, "backend", config.DefaultBackend, "compute backend (auto, cpu, opengl)")
	cmd.Flags().IntVar(&workers, "workers", 0, "cpu workers (0 = all cores)")
	cmd.Flags().IntVar(&rate, "rate", config.DefaultStepsPerSecond, "generations per second")
}

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&fillDensity, "fill", 0, "start from a random soup of this density")
	cmd.Flags().Uint32Var(&seed, "seed", 1, "soup seed")
	cmd.Flags().StringVar(&patternName, "pattern", "", "start from a single pattern at the center")
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	cmd.Flags().StringVar(&recordPath, "record-out", "lifelab.gif", "where recordings are written")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		out = f
	case cmd.Annotations["interactive"] == "true":
		// Anything on stderr would tear the alternate screen.
		logger = &log.Logger{Handler: discard.Default, Level: level}
		return nil
	}

	var h log.Handler
	switch strings.ToLower(logFormat) {
	case "cli":
		h = cli.New(out)
	case "text":
		h = text.New(out)
	case "json":
		h = logjson.New(out)
	default:
		return fmt.Errorf("unknown log format: %s", logFormat)
	}
	logger = &log.Logger{Handler: h, Level: level}
	return nil
}

// loadConfig layers the config sources: defaults, then the preset variant,
// then the config file, then any flag set on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	preset := config.DefaultPreset
	if len(args) > 0 {
		preset = args[0]
	}

	if variant != "" {
		cfg = config.GetPreset(preset, variant)
		if cfg == nil {
			return nil, fmt.Errorf("unknown variant: %s (available: %v)", variant, config.ListPresets(preset))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Rules.Preset = preset
		cfg.Rules.Spec = ""
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Grid.Width = width
	}
	if flags.Changed("height") {
		cfg.Grid.Height = height
	}
	if flags.Changed("rule") {
		cfg.Rules.Spec = rule
	}
	if flags.Changed("paint") {
		cfg.Rules.Paint = paint
	}
	if flags.Changed("backend") {
		cfg.Grid.Backend = backendName
	}
	if flags.Changed("workers") {
		cfg.Grid.Workers = workers
	}
	if flags.Changed("rate") {
		cfg.Simulation.StepsPerSecond = rate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// headlessBackend always picks the cpu: gpu compute needs the context of an
// open window.
func headlessBackend(cfg *config.Config) compute.Backend {
	switch strings.ToLower(cfg.Grid.Backend) {
	case "", "auto", "cpu":
	default:
		logger.WithField("backend", cfg.Grid.Backend).Warn("headless commands run on the cpu backend")
	}
	return compute.NewCPUBackend(compute.WithWorkers(cfg.Grid.Workers))
}

// newCore returns an initialized core with the starting grid the seed flags
// ask for.
func newCore(cfg *config.Config) (*sim.Core, error) {
	core, err := app.NewCore(headlessBackend(cfg), cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := core.Initialize(cfg.Grid.Width, cfg.Grid.Height); err != nil {
		core.Release()
		return nil, err
	}
	if err := prepareGrid(core, cfg); err != nil {
		core.Release()
		return nil, err
	}
	return core, nil
}

func prepareGrid(core *sim.Core, cfg *config.Config) error {
	if fillDensity <= 0 && patternName == "" {
		return nil
	}
	if fillDensity > 1 {
		return fmt.Errorf("fill density %v outside (0, 1]", fillDensity)
	}

	c, err := grid.ParseColor(cfg.Rules.Paint)
	if err != nil {
		return err
	}

	g := core.Grid
	w, h := g.Width(), g.Height()
	g.ClearAll()
	if fillDensity > 0 {
		g.RandomFill(w/2, h/2, max(w, h), fillDensity, seed, c.Value())
	}
	if patternName != "" {
		p, err := patterns.Lookup(patternName)
		if err != nil {
			return err
		}
		minX, minY, maxX, maxY := p.Bounds()
		g.Stamp(p, w/2-(minX+maxX)/2, h/2-(minY+maxY)/2, c.Value())
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	session, err := app.NewSession(headlessBackend(cfg), cfg, logger)
	if err != nil {
		return err
	}
	defer session.Release()

	return tui.Run(session, tui.Options{
		Theme:      theme,
		FrameRate:  frameRate,
		RecordPath: recordPath,
	}, logger)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return gui.Run(cfg, gui.Options{Title: "lifelab", RecordPath: recordPath}, logger)
}
