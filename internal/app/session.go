// Package app joins the simulation core with the presentation state a host
// window needs: viewport, pointer tracking, statistics and menus.
package app

import (
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/config"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/input"
	"github.com/san-kum/lifelab/internal/patterns"
	"github.com/san-kum/lifelab/internal/rules"
	"github.com/san-kum/lifelab/internal/sim"
	"github.com/san-kum/lifelab/internal/view"
)

// Menu is the context menu requested by a right click.
type Menu struct {
	Open bool
	Pos  view.Vec
}

// Session is owned by a single goroutine, the host's frame loop.
type Session struct {
	core    *sim.Core
	view    *view.Viewport
	tracker *input.Tracker
	fps     *FPSMeter
	log     log.Interface

	paint       grid.Color
	brush       int
	clearRadius int
	fillRadius  int
	fillDensity float64

	paused bool
	menu   Menu

	showStats     bool
	countInterval time.Duration
	lastCount     time.Time
	liveCount     int
	countRev      uint64
	hasCount      bool
}

func NewSession(backend compute.Backend, cfg *config.Config, logger log.Interface) (*Session, error) {
	if logger == nil {
		logger = log.Log
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	core, err := NewCore(backend, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		core: core,
		view: view.New(view.Limits{
			MinZoom: cfg.View.MinZoom,
			MaxZoom: cfg.View.MaxZoom,
			Step:    cfg.View.ZoomStep,
		}, logger),
		tracker: input.NewTracker(input.Config{
			DragThreshold: cfg.Input.DragThreshold,
			Throttle: input.ThrottleConfig{
				SlowSpeed: cfg.Input.SlowSpeed,
				FastSpeed: cfg.Input.FastSpeed,
				MinRate:   cfg.Input.MinFireRate,
				MaxRate:   cfg.Input.MaxFireRate,
			},
		}, logger),
		fps:           NewFPSMeter(cfg.Stats.FPSWindow),
		log:           logger,
		brush:         cfg.Input.BrushRadius,
		clearRadius:   cfg.Input.ClearRadius,
		fillRadius:    cfg.Input.FillRadius,
		fillDensity:   cfg.Input.FillDensity,
		paused:        cfg.Simulation.Paused,
		showStats:     cfg.Stats.Show,
		countInterval: time.Duration(cfg.Stats.CountInterval * float64(time.Second)),
	}

	if err := s.configure(cfg); err != nil {
		core.Release()
		return nil, err
	}
	return s, nil
}

func (s *Session) configure(cfg *config.Config) error {
	paint, err := grid.ParseColor(cfg.Rules.Paint)
	if err != nil {
		return err
	}
	s.paint = paint

	mode, err := input.ParseMode(cfg.Input.Mode)
	if err != nil {
		return err
	}
	s.tracker.SetMode(mode)
	return nil
}

func (s *Session) Core() *sim.Core         { return s.core }
func (s *Session) View() *view.Viewport    { return s.view }
func (s *Session) Tracker() *input.Tracker { return s.tracker }
func (s *Session) FPS() float64            { return s.fps.FPS() }
func (s *Session) Menu() Menu              { return s.menu }
func (s *Session) CloseMenu()              { s.menu = Menu{} }
func (s *Session) Paused() bool            { return s.paused }
func (s *Session) SetPaused(p bool)        { s.paused = p }
func (s *Session) TogglePause()            { s.paused = !s.paused }
func (s *Session) Mode() input.Mode        { return s.tracker.Mode() }
func (s *Session) SetMode(m input.Mode)    { s.tracker.SetMode(m) }
func (s *Session) PaintColor() grid.Color  { return s.paint }
func (s *Session) BrushRadius() int        { return s.brush }
func (s *Session) CurrentView() view.State { return s.view.Current() }
func (s *Session) StatsShown() bool        { return s.showStats }

// Initialize allocates a width×height grid shown on a surface of the same
// size.
func (s *Session) Initialize(width, height int) error {
	if err := s.core.Initialize(width, height); err != nil {
		return err
	}
	s.view.SetGridSize(width, height)
	s.view.SetViewportSize(width, height)
	s.view.Reset()
	s.invalidateCount()
	return nil
}

// Resize follows the surface: the grid is reallocated and reseeded at the
// new size. A zero dimension changes nothing.
func (s *Session) Resize(width, height int) error {
	if err := s.core.Resize(width, height); err != nil {
		return err
	}
	s.view.SetGridSize(width, height)
	s.view.SetViewportSize(width, height)
	s.invalidateCount()
	return nil
}

// HandleSurfaceError recovers from transient presentation failures by
// reconfiguring at the current size. It reports whether the frame should be
// skipped; errors it cannot recover from are returned.
func (s *Session) HandleSurfaceError(err error) (bool, error) {
	switch {
	case err == nil:
		return false, nil
	case errors.Is(err, ErrSurfaceLost), errors.Is(err, ErrSurfaceOutdated):
		s.log.WithError(err).Warn("surface lost, reconfiguring")
		if rerr := s.Resize(s.core.Grid.Width(), s.core.Grid.Height()); rerr != nil {
			return true, rerr
		}
		return true, nil
	case errors.Is(err, ErrSurfaceTimeout):
		s.log.WithError(err).Warn("surface timeout, skipping frame")
		return true, nil
	}
	return false, err
}

func (s *Session) LoadRuleProgram(source string) error {
	if err := s.core.Rules.Load(source); err != nil {
		return err
	}
	s.log.WithField("rule", s.core.Rules.Rule()).Info("rule program loaded")
	return nil
}

func (s *Session) SetRuleParameters(spec rules.Spec) error {
	if err := s.core.Rules.SetParameters(spec); err != nil {
		return err
	}
	s.log.WithField("rule", spec.String()).Info("rule parameters set")
	return nil
}

func (s *Session) ApplyPreset(name string) error {
	if err := s.core.Rules.ApplyPreset(name); err != nil {
		return err
	}
	s.log.WithFields(log.Fields{
		"preset": name,
		"rule":   s.core.Rules.Rule(),
	}).Info("preset applied")
	return nil
}

func (s *Session) SetStepsPerSecond(rate int) error {
	return s.core.Clock.SetRate(rate)
}

func (s *Session) SetPaint(c grid.Color) {
	s.paint = c
	s.core.Rules.SetPaint(c.Value())
}

func (s *Session) SetBrushRadius(r int) {
	s.brush = max(r, 0)
}

// Tick runs the generations due after elapsed seconds. A paused session
// runs none.
func (s *Session) Tick(elapsed float64) (int, error) {
	if s.paused {
		return 0, nil
	}
	return s.core.Tick(elapsed)
}

// Frame is the per-frame entry point for hosts that report wall time.
func (s *Session) Frame(now time.Time) (int, error) {
	s.fps.Frame(now)
	n := s.core.Clock.Advance(now)
	if s.paused || n == 0 {
		return 0, nil
	}
	if err := s.core.Step(n); err != nil {
		return 0, err
	}
	return n, nil
}

// Step runs one generation immediately, paused or not.
func (s *Session) Step() error {
	return s.core.Step(1)
}

func (s *Session) cellAt(pos view.Vec) (int, int) {
	return s.view.ScreenToCell(pos)
}

// Paint fills the radius square under a screen position with c.
func (s *Session) Paint(pos view.Vec, radius int, c grid.Color) {
	x, y := s.cellAt(pos)
	s.core.Grid.Paint(x, y, radius, c.Value())
}

// StampPattern places a catalog pattern with its origin under pos.
func (s *Session) StampPattern(id string, pos view.Vec) error {
	p, err := patterns.Lookup(id)
	if err != nil {
		return err
	}
	x, y := s.cellAt(pos)
	s.core.Grid.Stamp(p, x, y, s.paint.Value())
	return nil
}

func (s *Session) Clear(pos view.Vec, radius int) {
	x, y := s.cellAt(pos)
	s.core.Grid.Clear(x, y, radius)
}

func (s *Session) RandomFill(pos view.Vec, radius int, density float64, seed uint32) {
	x, y := s.cellAt(pos)
	s.core.Grid.RandomFill(x, y, radius, density, seed, s.paint.Value())
}

// ClearAll kills every cell.
func (s *Session) ClearAll() {
	s.core.Grid.ClearAll()
	s.invalidateCount()
}

// Apply carries out an action produced by the pointer tracker.
func (s *Session) Apply(a input.Action) {
	switch a.Kind {
	case input.ActionPan:
		s.view.PanBy(a.Delta)
	case input.ActionMenu:
		if !s.menu.Open {
			s.menu = Menu{Open: true, Pos: a.Pos}
		}
	case input.ActionFire:
		s.fire(a.Mode, a.Pos)
	}
}

func (s *Session) fire(mode input.Mode, pos view.Vec) {
	switch mode {
	case input.ModePaint:
		s.Paint(pos, s.brush, s.paint)
	case input.ModeClear:
		s.Clear(pos, s.clearRadius)
	case input.ModeRandomFill:
		s.RandomFill(pos, s.fillRadius, s.fillDensity, uint32(s.core.Grid.Generation()))
	default:
		if p, ok := mode.Pattern(); ok {
			x, y := s.cellAt(pos)
			s.core.Grid.Stamp(p, x, y, s.paint.Value())
		}
	}
}

func (s *Session) PointerMove(pos view.Vec, now time.Time) {
	if a, ok := s.tracker.Move(pos, now); ok {
		if a.Kind == input.ActionPan {
			s.CloseMenu()
		}
		s.Apply(a)
	}
}

func (s *Session) PointerDown(b input.Button, now time.Time) {
	if a, ok := s.tracker.Down(b, now); ok {
		s.Apply(a)
	}
}

func (s *Session) PointerUp(b input.Button, now time.Time) {
	if a, ok := s.tracker.Up(b, now); ok {
		s.Apply(a)
	}
}

func (s *Session) PointerLeave() {
	s.tracker.Leave()
}

// Scroll zooms one step per notch around the cursor, or around the screen
// center when the pointer is outside the surface.
func (s *Session) Scroll(delta float64) {
	anchor, ok := s.tracker.Cursor()
	if !ok {
		anchor = s.view.Center()
	}
	s.view.ZoomBy(delta, anchor)
}

func (s *Session) ZoomBy(delta float64, anchor view.Vec) bool { return s.view.ZoomBy(delta, anchor) }
func (s *Session) SetZoomExact(zoom float64) bool             { return s.view.SetZoomExact(zoom) }
func (s *Session) PanBy(d view.Vec)                           { s.view.PanBy(d) }

// ShowStats turns the live-count readback on or off. Counting is only done
// while statistics are shown.
func (s *Session) ShowStats(show bool) {
	s.showStats = show
	if !show {
		s.invalidateCount()
	}
}

// ReadLiveCount returns the live cell count, reading it back from the
// device at most once per count interval and never while the grid is
// unchanged. ok is false while statistics are hidden or no count has been
// read yet.
func (s *Session) ReadLiveCount(now time.Time) (int, bool) {
	if !s.showStats {
		return 0, false
	}
	rev := s.core.Grid.Revision()
	if s.hasCount && (rev == s.countRev || now.Sub(s.lastCount) < s.countInterval) {
		return s.liveCount, true
	}

	n, err := s.core.LiveCount()
	if err != nil {
		s.log.WithError(err).Error("live count readback failed")
		s.hasCount = false
		return 0, false
	}
	s.liveCount, s.hasCount, s.lastCount, s.countRev = n, true, now, rev
	return n, true
}

// LiveCountNow reads the count immediately, ignoring the interval.
func (s *Session) LiveCountNow() (int, error) {
	return s.core.LiveCount()
}

func (s *Session) invalidateCount() {
	s.hasCount = false
	s.lastCount = time.Time{}
}

func (s *Session) Release() {
	s.core.Release()
}
