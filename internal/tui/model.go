// Package tui hosts a session in the terminal. Each braille dot is one
// surface pixel, so a terminal of c columns and r canvas rows shows a
// 2c×4r grid at zoom 1.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifelab/internal/app"
	"github.com/san-kum/lifelab/internal/export"
	"github.com/san-kum/lifelab/internal/grid"
	"github.com/san-kum/lifelab/internal/input"
	"github.com/san-kum/lifelab/internal/render"
	"github.com/san-kum/lifelab/internal/rules"
	"github.com/san-kum/lifelab/internal/view"
)

const (
	headerLines = 1
	footerLines = 2

	panStep     = 8
	historySize = 200
)

type Options struct {
	Theme     string
	FrameRate int
	// RecordPath is where g writes the GIF when recording stops.
	RecordPath string
}

type tickMsg time.Time

type Model struct {
	session *app.Session
	log     log.Interface

	canvas *Canvas
	frame  render.Frame
	ready  bool
	// grid revision frame was read at
	synced bool
	shown  uint64

	width, height int
	theme         int
	styles        styles

	frameInterval time.Duration
	presets       []string
	preset        int
	buttons       map[input.Button]bool

	history   []float64
	showHelp  bool
	showChart bool

	recorder   *export.Recorder
	recordPath string

	status string
	err    error
}

func New(session *app.Session, opts Options, logger log.Interface) *Model {
	if logger == nil {
		logger = log.Log
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = 30
	}
	if opts.RecordPath == "" {
		opts.RecordPath = "lifelab.gif"
	}
	m := &Model{
		session:       session,
		log:           logger,
		canvas:        NewCanvas(1, 1),
		width:         80,
		height:        24,
		theme:         ThemeIndex(opts.Theme),
		frameInterval: time.Second / time.Duration(opts.FrameRate),
		presets:       rules.ListPresets(),
		buttons:       make(map[input.Button]bool),
		history:       make([]float64, 0, historySize),
		recordPath:    opts.RecordPath,
	}
	m.styles = Themes[m.theme].styles()
	return m
}

// Err is the error that ended the program, if any.
func (m *Model) Err() error { return m.err }

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg, time.Now())
		m.redraw()
		return m, nil
	case tickMsg:
		return m, m.advance(time.Time(msg))
	}
	return m, nil
}

func (m *Model) fail(err error) tea.Cmd {
	m.err = err
	m.log.WithError(err).Error("terminal session stopped")
	return tea.Quit
}

func (m *Model) resize(w, h int) tea.Cmd {
	m.width, m.height = w, h
	m.canvas = NewCanvas(w, h-headerLines-footerLines)
	dw, dh := m.canvas.DotWidth(), m.canvas.DotHeight()

	var err error
	if m.ready {
		err = m.session.Resize(dw, dh)
	} else {
		err = m.session.Initialize(dw, dh)
	}
	if err != nil {
		return m.fail(err)
	}
	m.ready = true
	m.history = m.history[:0]
	if m.recorder != nil {
		m.recorder = export.NewRecorder(dw, dh, render.DefaultPalette())
	}
	m.redraw()
	return nil
}

func (m *Model) advance(now time.Time) tea.Cmd {
	if !m.ready {
		return m.tick()
	}
	if _, err := m.session.Frame(now); err != nil {
		if skip, herr := m.session.HandleSurfaceError(err); herr != nil {
			return m.fail(herr)
		} else if skip {
			return m.tick()
		}
	}
	if n, ok := m.session.ReadLiveCount(now); ok {
		m.history = append(m.history, float64(n))
		if len(m.history) > historySize {
			m.history = m.history[1:]
		}
	}
	m.redraw()
	if m.recorder != nil {
		m.recorder.Capture(m.frame, m.session.CurrentView())
	}
	return m.tick()
}

// redraw repaints the canvas, reading the grid back only when it changed
// since the last frame.
func (m *Model) redraw() {
	if !m.ready {
		return
	}
	g := m.session.Core().Grid
	if len(m.frame.Cells) != g.Cells() {
		m.frame.Cells = make([]float32, g.Cells())
		m.synced = false
	}
	if !m.synced || g.Revision() != m.shown {
		if err := g.SnapshotInto(m.frame.Cells); err != nil {
			m.log.WithError(err).Error("snapshot failed")
			m.synced = false
			return
		}
		m.synced, m.shown = true, g.Revision()
	}
	m.frame.Width, m.frame.Height = g.Width(), g.Height()
	m.canvas.Draw(m.frame, m.session.CurrentView())
}

// dot maps a terminal cell to the surface pixel at the middle of its
// braille character. ok is false outside the canvas rows.
func (m *Model) dot(x, y int) (view.Vec, bool) {
	row := y - headerLines
	if row < 0 || row >= m.canvas.Height || x < 0 || x >= m.canvas.Width {
		return view.Vec{}, false
	}
	return view.Vec{X: float64(x*2) + 1, Y: float64(row*4) + 2}, true
}

func (m *Model) handleMouse(msg tea.MouseMsg, now time.Time) {
	if !m.ready {
		return
	}
	pos, inside := m.dot(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.session.Scroll(1)
			return
		case tea.MouseButtonWheelDown:
			m.session.Scroll(-1)
			return
		}
		if !inside {
			return
		}
		b, ok := button(msg.Button)
		if !ok {
			return
		}
		m.session.PointerMove(pos, now)
		m.session.PointerDown(b, now)
		m.buttons[b] = true
	case tea.MouseActionRelease:
		// Terminals rarely report which button was released.
		for b, down := range m.buttons {
			if down {
				m.session.PointerUp(b, now)
			}
		}
		clear(m.buttons)
	case tea.MouseActionMotion:
		if !inside {
			m.session.PointerLeave()
			return
		}
		m.session.PointerMove(pos, now)
	}
}

func button(b tea.MouseButton) (input.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return input.ButtonLeft, true
	case tea.MouseButtonRight:
		return input.ButtonRight, true
	}
	return 0, false
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.stopRecording()
		return tea.Quit
	}
	if !m.ready {
		return nil
	}
	s := m.session
	m.status = ""

	switch key {
	case "esc":
		s.CloseMenu()
		m.showHelp = false
	case " ", "p":
		s.TogglePause()
	case "n", ".":
		if err := s.Step(); err != nil {
			return m.fail(err)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		modes := input.Modes()
		if i := int(key[0] - '1'); i < len(modes) {
			s.SetMode(modes[i])
			s.CloseMenu()
		}
	case "c":
		colors := grid.Colors()
		s.SetPaint(colors[(int(s.PaintColor())+1)%len(colors)])
	case "P":
		m.preset = (m.preset + 1) % len(m.presets)
		if err := s.ApplyPreset(m.presets[m.preset]); err != nil {
			m.status = err.Error()
		}
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = Themes[m.theme].styles()
	case "s":
		s.ShowStats(!s.StatsShown())
		m.history = m.history[:0]
	case "v":
		m.showChart = !m.showChart
	case "?":
		m.showHelp = !m.showHelp
	case "g":
		if m.recorder != nil {
			m.stopRecording()
		} else {
			g := s.Core().Grid
			m.recorder = export.NewRecorder(g.Width(), g.Height(), render.DefaultPalette())
			m.status = "recording"
		}
	case "x":
		s.ClearAll()
	case "r":
		g := s.Core().Grid
		if err := s.Initialize(g.Width(), g.Height()); err != nil {
			return m.fail(err)
		}
	case "+", "=":
		s.ZoomBy(1, s.View().Center())
	case "-", "_":
		s.ZoomBy(-1, s.View().Center())
	case "0":
		s.View().Reset()
	case "left", "h":
		s.PanBy(view.Vec{X: panStep})
	case "right", "l":
		s.PanBy(view.Vec{X: -panStep})
	case "up", "k":
		s.PanBy(view.Vec{Y: panStep})
	case "down", "j":
		s.PanBy(view.Vec{Y: -panStep})
	case "[":
		m.scaleRate(0.5)
	case "]":
		m.scaleRate(2)
	}
	m.redraw()
	return nil
}

func (m *Model) scaleRate(f float64) {
	clock := m.session.Core().Clock
	rate := max(int(float64(clock.Rate())*f), 1)
	if err := m.session.SetStepsPerSecond(rate); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	rec := m.recorder
	m.recorder = nil
	if rec.Frames() == 0 {
		return
	}
	if err := rec.Save(m.recordPath); err != nil {
		m.log.WithError(err).Error("saving recording failed")
		m.status = err.Error()
		return
	}
	m.log.WithField("path", m.recordPath).WithField("frames", rec.Frames()).Info("recording saved")
	m.status = "saved " + m.recordPath
}

func (m *Model) View() string {
	if !m.ready {
		return "\n  starting...\n"
	}
	var b strings.Builder
	b.WriteString(m.header() + "\n")

	switch {
	case m.showHelp:
		b.WriteString(m.help())
	case m.showChart:
		b.WriteString(m.chart())
	default:
		b.WriteString(m.body())
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m *Model) header() string {
	s, st := m.session, m.styles
	icon, state := st.running.Render("●"), st.running.Render("running")
	if s.Paused() {
		icon, state = st.paused.Render("○"), st.paused.Render("paused")
	}
	core := s.Core()
	line := fmt.Sprintf(" %s %s  %s  %s  gen %d  %s  %s  x%.1f  %d/s",
		icon, st.accent.Render("lifelab"), state,
		st.text.Render(core.Rules.Rule()),
		core.Grid.Generation(),
		st.text.Render(s.Mode().String()),
		st.cells[s.PaintColor()].Render(s.PaintColor().String()),
		s.View().Zoom(),
		core.Clock.Rate(),
	)
	if m.recorder != nil {
		line += "  " + st.record.Render(fmt.Sprintf("REC %d", m.recorder.Frames()))
	}
	return line
}

// body renders the canvas, coloring runs of characters that share a tint.
func (m *Model) body() string {
	var b strings.Builder
	c := m.canvas
	for row := 0; row < c.Height; row++ {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.tint[row][col] == c.tint[row][start] {
				continue
			}
			run := string(c.Grid[row][start:col])
			if t, ok := c.Tint(start, row); ok {
				run = m.styles.cells[t].Render(run)
			}
			b.WriteString(run)
			start = col
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) chart() string {
	rows := m.canvas.Height
	if len(m.history) < 2 {
		msg := "  no population samples yet (s shows statistics)"
		return m.styles.muted.Render(msg) + strings.Repeat("\n", rows)
	}
	plot := asciigraph.Plot(m.history,
		asciigraph.Height(max(rows-2, 2)),
		asciigraph.Width(max(m.width-12, 10)),
		asciigraph.Caption("live cells"),
	)
	lines := strings.Split(plot, "\n")
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return strings.Join(lines[:rows], "\n") + "\n"
}

var helpLines = []string{
	"space  pause/resume        n  single step",
	"1-9    select tool         c  cycle paint color",
	"P      next rule preset    x  clear grid     r  reseed",
	"+/-    zoom at center      0  reset view     arrows  pan",
	"[ ]    halve/double rate   s  statistics     v  population chart",
	"t      cycle theme         g  record gif     q  quit",
	"",
	"left drag paints with the current tool, right drag pans,",
	"right click opens the tool menu, wheel zooms at the cursor.",
}

func (m *Model) help() string {
	rows := m.canvas.Height
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i < len(helpLines) {
			b.WriteString("  " + m.styles.text.Render(helpLines[i]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) footer() string {
	s, st := m.session, m.styles

	var stats string
	if s.StatsShown() {
		live := "-"
		if len(m.history) > 0 {
			live = fmt.Sprintf("%.0f", m.history[len(m.history)-1])
		}
		stats = st.muted.Render(fmt.Sprintf(" fps %.0f  live %s  %s", s.FPS(), live, Themes[m.theme].Name))
	}
	if m.status != "" {
		stats += "  " + st.text.Render(m.status)
	}

	if s.Menu().Open {
		var items []string
		for i, mode := range input.Modes() {
			label := fmt.Sprintf("%d %s", i+1, mode)
			if mode == s.Mode() {
				label = st.accent.Render(label)
			}
			items = append(items, label)
		}
		return stats + "\n " + strings.Join(items, "  ") + st.muted.Render("  esc close")
	}
	return stats + "\n" + st.muted.Render(" ? help  space pause  1-9 tools  q quit")
}

// Run starts the program full screen with mouse tracking and blocks until
// it exits.
func Run(session *app.Session, opts Options, logger log.Interface) error {
	m := New(session, opts, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return m.Err()
}
