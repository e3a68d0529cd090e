package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/lifelab/internal/grid"
)

type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Running lipgloss.Color
	Paused  lipgloss.Color
	Record  lipgloss.Color
	// Cells colors live cells by category.
	Cells [6]lipgloss.Color
}

var Themes = []Theme{
	{
		Name: "classic", Accent: "86", Text: "255", Muted: "242",
		Running: "82", Paused: "220", Record: "196",
		Cells: [6]lipgloss.Color{
			grid.White:  "255",
			grid.Red:    "203",
			grid.Green:  "78",
			grid.Blue:   "69",
			grid.Yellow: "221",
			grid.Purple: "135",
		},
	},
	{
		Name: "retro", Accent: "#00ff00", Text: "#00ff00", Muted: "#005500",
		Running: "#88ff88", Paused: "#ffff00", Record: "#ff0000",
		Cells: [6]lipgloss.Color{"#00ff00", "#00ff00", "#00ff00", "#00ff00", "#00ff00", "#00ff00"},
	},
	{
		Name: "ocean", Accent: "#00a8cc", Text: "#e0f0ff", Muted: "#4488aa",
		Running: "#00ff88", Paused: "#ffcc00", Record: "#ff4444",
		Cells: [6]lipgloss.Color{"#e0f0ff", "#ff6b6b", "#00ff88", "#0077be", "#ffd700", "#b388ff"},
	},
	{
		Name: "sunset", Accent: "#ff6b6b", Text: "#fff5f5", Muted: "#8b6b8c",
		Running: "#5fd068", Paused: "#ffc048", Record: "#ff4757",
		Cells: [6]lipgloss.Color{"#fff5f5", "#ff4757", "#5fd068", "#54a0ff", "#feca57", "#ff9ff3"},
	},
	{
		Name: "minimal", Accent: "#ffffff", Text: "#ffffff", Muted: "#888888",
		Running: "#ffffff", Paused: "#888888", Record: "#ff0000",
		Cells: [6]lipgloss.Color{"#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff"},
	},
}

// ThemeIndex returns the position of a theme by name, or 0.
func ThemeIndex(name string) int {
	for i, t := range Themes {
		if t.Name == name {
			return i
		}
	}
	return 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

type styles struct {
	accent, text, muted, running, paused, record lipgloss.Style
	cells                                        [6]lipgloss.Style
}

func (t Theme) styles() styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	s := styles{
		accent:  fg(t.Accent).Bold(true),
		text:    fg(t.Text),
		muted:   fg(t.Muted),
		running: fg(t.Running),
		paused:  fg(t.Paused),
		record:  fg(t.Record).Bold(true),
	}
	for i, c := range t.Cells {
		s.cells[i] = fg(c)
	}
	return s
}
