//go:build gui

package gui

import (
	"fmt"
	"image/color"
	"time"
	"unsafe"

	"github.com/apex/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/lifelab/internal/app"
	"github.com/san-kum/lifelab/internal/compute"
	"github.com/san-kum/lifelab/internal/config"
	"github.com/san-kum/lifelab/internal/export"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/input"
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/sim"
	"github.com/san-kum/lifelab/internal/view"
)

var (
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColPanel   = rl.NewColor(20, 20, 24, 230)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColRecord  = rl.NewColor(230, 60, 60, 255)
)

type Options struct {
	Title      string
	RecordPath string
}

// App owns the window and the session. On a GPU backend cells are shaded
// straight from device memory; otherwise the host snapshot is rasterized
// into a texture. Every method runs on the goroutine that created the window.
type App struct {
	session *app.Session
	log     log.Interface
	backend compute.Backend
	opts    Options
	cells   *cellShader

	palette render.Palette
	frame   render.Frame
	pixels  []byte
	texture rl.Texture2D
	width   int
	height  int

	// revision of the grid held in frame, and the view pixels was filled for
	synced     bool
	shown      uint64
	rastered   bool
	rasterView view.State

	recorder *export.Recorder
	status   string
}

func Run(cfg *config.Config, opts Options, logger log.Interface) error {
	if logger == nil {
		logger = log.Log
	}
	if opts.Title == "" {
		opts.Title = "lifelab"
	}
	if opts.RecordPath == "" {
		opts.RecordPath = "lifelab.gif"
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Grid.Width), int32(cfg.Grid.Height), opts.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	// The GL context exists only once the window is open.
	backend, err := selectBackend(cfg)
	if err != nil {
		return err
	}
	defer backend.Cleanup()
	logger.WithField("backend", backend.Name()).Info("compute backend ready")

	session, err := app.NewSession(backend, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Release()

	a := &App{
		session: session,
		log:     logger,
		backend: backend,
		opts:    opts,
		palette: render.DefaultPalette(),
	}
	if err := a.configure(rl.GetScreenWidth(), rl.GetScreenHeight(), true); err != nil {
		return err
	}
	defer rl.UnloadTexture(a.texture)

	if b, ok := backend.(storageBinder); ok && backend.Available() {
		cells, err := newCellShader(b, a.palette)
		if err != nil {
			logger.WithError(err).Warn("drawing from host snapshots")
		} else {
			a.cells = cells
			defer cells.unload()
		}
	}

	for !rl.WindowShouldClose() {
		if err := a.Update(time.Now()); err != nil {
			return err
		}
		a.Draw()
	}
	a.stopRecording()
	return nil
}

func selectBackend(cfg *config.Config) (compute.Backend, error) {
	if cfg.Grid.Backend == "cpu" && cfg.Grid.Workers > 0 {
		return compute.NewCPUBackend(compute.WithWorkers(cfg.Grid.Workers)), nil
	}
	return compute.Select(cfg.Grid.Backend)
}

// configure sizes the grid, viewport and texture to the window.
func (a *App) configure(w, h int, first bool) error {
	var err error
	if first {
		err = a.session.Initialize(w, h)
	} else {
		err = a.session.Resize(w, h)
	}
	if err != nil {
		return err
	}

	if !first {
		rl.UnloadTexture(a.texture)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	a.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	a.width, a.height = w, h
	a.pixels = make([]byte, w*h*4)
	a.frame = render.Frame{Cells: make([]float32, w*h), Width: w, Height: h}
	a.synced, a.rastered = false, false
	if a.recorder != nil {
		a.recorder = export.NewRecorder(w, h, a.palette)
	}
	return nil
}

func (a *App) Update(now time.Time) error {
	s := a.session

	if rl.IsWindowResized() {
		w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
		if w > 0 && h > 0 {
			if err := a.configure(w, h, false); err != nil {
				return err
			}
		}
	}

	a.handlePointer(now)
	if err := a.handleKeys(); err != nil {
		return err
	}

	if _, err := s.Frame(now); err != nil {
		if _, herr := s.HandleSurfaceError(err); herr != nil {
			return herr
		}
	}
	return nil
}

func (a *App) handlePointer(now time.Time) {
	s := a.session
	mp := rl.GetMousePosition()
	pos := view.Vec{X: float64(mp.X), Y: float64(mp.Y)}

	if !rl.IsCursorOnScreen() {
		s.PointerLeave()
		return
	}

	if menu := s.Menu(); menu.Open && rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		if mode, ok := MenuHit(MenuLayout(menu.Pos, float64(a.width), float64(a.height)), pos); ok {
			s.SetMode(mode)
		}
		s.CloseMenu()
		return
	}

	s.PointerMove(pos, now)
	for _, b := range []struct {
		mouse rl.MouseButton
		btn   input.Button
	}{
		{rl.MouseLeftButton, input.ButtonLeft},
		{rl.MouseRightButton, input.ButtonRight},
	} {
		if rl.IsMouseButtonPressed(b.mouse) {
			s.PointerDown(b.btn, now)
		}
		if rl.IsMouseButtonReleased(b.mouse) {
			s.PointerUp(b.btn, now)
		}
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.Scroll(float64(wheel))
	}
}

func (a *App) handleKeys() error {
	s := a.session
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		s.TogglePause()
	case rl.IsKeyPressed(rl.KeyN):
		return s.Step()
	case rl.IsKeyPressed(rl.KeyC):
		colors := grid.Colors()
		s.SetPaint(colors[(int(s.PaintColor())+1)%len(colors)])
	case rl.IsKeyPressed(rl.KeyX):
		s.ClearAll()
	case rl.IsKeyPressed(rl.KeyR):
		return s.Initialize(a.width, a.height)
	case rl.IsKeyPressed(rl.KeyS):
		s.ShowStats(!s.StatsShown())
	case rl.IsKeyPressed(rl.KeyZero):
		s.View().Reset()
	case rl.IsKeyPressed(rl.KeyG):
		if a.recorder != nil {
			a.stopRecording()
		} else {
			a.recorder = export.NewRecorder(a.width, a.height, a.palette)
			a.status = ""
		}
	case rl.IsKeyPressed(rl.KeyEscape):
		s.CloseMenu()
	case rl.IsKeyPressed(rl.KeyLeftBracket):
		return s.SetStepsPerSecond(max(s.Core().Clock.Rate()/2, sim.MinRate))
	case rl.IsKeyPressed(rl.KeyRightBracket):
		return s.SetStepsPerSecond(min(s.Core().Clock.Rate()*2, sim.MaxRate))
	}

	for i, m := range input.Modes() {
		if rl.IsKeyPressed(rl.KeyOne + int32(i)) {
			s.SetMode(m)
			s.CloseMenu()
		}
	}
	return nil
}

func (a *App) stopRecording() {
	if a.recorder == nil {
		return
	}
	rec := a.recorder
	a.recorder = nil
	if err := rec.Save(a.opts.RecordPath); err != nil {
		a.log.WithError(err).Error("saving recording failed")
		a.status = err.Error()
		return
	}
	a.status = "saved " + a.opts.RecordPath
}

// Draw presents the latest generation under the viewport. Host readbacks
// happen only for a rasterized frame or a GIF capture, and only once per
// grid revision.
func (a *App) Draw() {
	s := a.session
	st := s.CurrentView()
	g := s.Core().Grid

	if a.recorder != nil && a.sync() {
		a.recorder.Capture(a.frame, st)
	}

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	if a.cells == nil || !a.cells.draw(g.Input(), g.Width(), g.Height(), a.width, a.height, st) {
		a.rasterize(st)
		rl.DrawTexture(a.texture, 0, 0, rl.White)
	}
	a.drawHUD()
	if menu := s.Menu(); menu.Open {
		a.drawMenu(menu)
	}
	rl.EndDrawing()
}

// sync reads the grid into frame when it changed since the last read. It
// reports whether frame holds the current generation.
func (a *App) sync() bool {
	g := a.session.Core().Grid
	if a.synced && g.Revision() == a.shown {
		return true
	}
	if err := g.SnapshotInto(a.frame.Cells); err != nil {
		a.log.WithError(err).Error("snapshot failed")
		a.synced = false
		return false
	}
	a.synced, a.shown = true, g.Revision()
	a.rastered = false
	return true
}

// rasterize refills and uploads the texture when the cells or the view
// changed.
func (a *App) rasterize(st view.State) {
	if !a.sync() {
		return
	}
	if a.rastered && st == a.rasterView {
		return
	}
	render.Fill(a.pixels, a.width, a.height, a.frame, st, a.palette)
	rl.UpdateTexture(a.texture, rgba(a.pixels))
	a.rastered, a.rasterView = true, st
}

// rgba views packed RGBA bytes as colors without copying.
func rgba(pix []byte) []color.RGBA {
	if len(pix) == 0 {
		return nil
	}
	return unsafe.Slice((*color.RGBA)(unsafe.Pointer(&pix[0])), len(pix)/4)
}

func (a *App) drawHUD() {
	s := a.session
	core := s.Core()

	rl.DrawRectangle(0, 0, int32(a.width), 28, ColPanel)
	status := "RUNNING"
	if s.Paused() {
		status = "PAUSED"
	}
	rl.DrawText(fmt.Sprintf("lifelab  %s  %s  gen %d  %s  %s  x%.1f  %d/s",
		status, core.Rules.Rule(), core.Grid.Generation(),
		s.Mode(), s.PaintColor(), s.View().Zoom(), core.Clock.Rate()), 8, 6, 16, ColText)

	if a.recorder != nil {
		rl.DrawText(fmt.Sprintf("REC %d", a.recorder.Frames()), int32(a.width)-90, 6, 16, ColRecord)
	}

	bottom := int32(a.height) - 22
	if n, ok := s.ReadLiveCount(time.Now()); ok {
		rl.DrawText(fmt.Sprintf("%d FPS  %d live  %s", rl.GetFPS(), n, a.backend.Name()), 8, bottom, 14, ColTextDim)
	}
	if a.status != "" {
		rl.DrawText(a.status, 8, bottom-20, 14, ColText)
	}
	help := "[SPACE] PAUSE  [N] STEP  [1-9] TOOLS  [C] COLOR  [G] RECORD  [S] STATS"
	rl.DrawText(help, int32(a.width)-int32(rl.MeasureText(help, 14))-8, bottom, 14, ColTextDim)
}

func (a *App) drawMenu(menu app.Menu) {
	current := a.session.Mode()
	for _, it := range MenuLayout(menu.Pos, float64(a.width), float64(a.height)) {
		x, y := int32(it.X), int32(it.Y)
		rl.DrawRectangle(x, y, int32(it.W), int32(it.H), ColPanel)
		col := ColText
		if it.Mode == current {
			col = ColSelect
		}
		rl.DrawText(it.Mode.String(), x+8, y+4, 14, col)
	}
}
