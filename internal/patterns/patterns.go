// Package patterns is the catalog of named cell patterns that can be
// stamped onto a grid.
package patterns

import (
	"fmt"
	"sort"
	"strings"
)

// Offset is a cell position relative to the stamp origin.
type Offset struct {
	DX, DY int
}

type Pattern struct {
	Name        string
	Description string
	Cells       []Offset
}

// Bounds returns the extent of the pattern's cells.
func (p Pattern) Bounds() (minX, minY, maxX, maxY int) {
	if len(p.Cells) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = p.Cells[0].DX, p.Cells[0].DY
	maxX, maxY = minX, minY
	for _, c := range p.Cells[1:] {
		minX, maxX = min(minX, c.DX), max(maxX, c.DX)
		minY, maxY = min(minY, c.DY), max(maxY, c.DY)
	}
	return minX, minY, maxX, maxY
}

func cells(xy ...int) []Offset {
	out := make([]Offset, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Offset{xy[i], xy[i+1]})
	}
	return out
}

var (
	Blinker = Pattern{
		Name: "blinker", Description: "period 2 oscillator",
		Cells: cells(0, -1, 0, 0, 0, 1),
	}
	Toad = Pattern{
		Name: "toad", Description: "period 2 oscillator",
		Cells: cells(-1, 0, 0, 0, 1, 0, -2, 1, -1, 1, 0, 1),
	}
	Block = Pattern{
		Name: "block", Description: "still life",
		Cells: cells(0, 0, 1, 0, 0, 1, 1, 1),
	}
	Glider = Pattern{
		Name: "glider", Description: "diagonal spaceship",
		Cells: cells(0, 1, 1, 2, 2, 0, 2, 1, 2, 2),
	}
	LWSS = Pattern{
		Name: "lwss", Description: "lightweight spaceship",
		Cells: cells(
			0, 1, 0, 3,
			1, 0,
			2, 0,
			3, 0, 3, 3,
			4, 0, 4, 1, 4, 2,
		),
	}
	Pulsar = Pattern{
		Name: "pulsar", Description: "period 3 oscillator",
		Cells: cells(
			2, 0, 3, 0, 4, 0, 8, 0, 9, 0, 10, 0,
			2, 5, 3, 5, 4, 5, 8, 5, 9, 5, 10, 5,
			2, 7, 3, 7, 4, 7, 8, 7, 9, 7, 10, 7,
			2, 12, 3, 12, 4, 12, 8, 12, 9, 12, 10, 12,
			0, 2, 0, 3, 0, 4, 0, 8, 0, 9, 0, 10,
			5, 2, 5, 3, 5, 4, 5, 8, 5, 9, 5, 10,
			7, 2, 7, 3, 7, 4, 7, 8, 7, 9, 7, 10,
			12, 2, 12, 3, 12, 4, 12, 8, 12, 9, 12, 10,
		),
	}
	GosperGun = Pattern{
		Name: "gosper", Description: "Gosper glider gun",
		Cells: cells(
			1, 5, 1, 6, 2, 5, 2, 6,
			11, 5, 11, 6, 11, 7,
			12, 4, 12, 8,
			13, 3, 13, 9,
			14, 3, 14, 9,
			15, 6,
			16, 4, 16, 8,
			17, 5, 17, 6, 17, 7,
			18, 6,
			21, 3, 21, 4, 21, 5,
			22, 3, 22, 4, 22, 5,
			23, 2, 23, 6,
			25, 1, 25, 2, 25, 6, 25, 7,
			35, 3, 35, 4, 36, 3, 36, 4,
		),
	}
	Pentadecathlon = Pattern{
		Name: "pentadecathlon", Description: "period 15 oscillator",
		Cells: cells(
			1, 0, 2, 0,
			3, -1, 3, 1,
			4, 0, 5, 0, 6, 0, 7, 0,
			8, -1, 8, 1,
			9, 0, 10, 0,
		),
	}
	SimkinGun = Pattern{
		Name: "simkin", Description: "Simkin glider gun",
		Cells: cells(
			0, 0, 0, 1, 1, 0, 1, 1,
			4, 0, 4, 1, 5, 0, 5, 1,
			10, 2, 10, 3, 11, 2, 11, 3,
			12, 0, 13, 0, 12, 1, 13, 1,
			14, 10, 14, 11, 15, 10, 15, 11,
			16, 8, 16, 9, 17, 7, 18, 7,
			17, 11, 18, 11, 19, 9, 19, 10,
			20, 10,
			21, 8,
			22, 9, 22, 10, 22, 11,
			24, 10, 24, 9, 24, 8,
			24, 7, 25, 7,
			26, 8, 26, 6,
			27, 6, 27, 10,
			28, 9,
		),
	}
)

var catalog = map[string]Pattern{}

func init() {
	for _, p := range []Pattern{Blinker, Toad, Block, Glider, LWSS, Pulsar, GosperGun, Pentadecathlon, SimkinGun} {
		catalog[p.Name] = p
	}
}

// Lookup finds a pattern by name, ignoring case.
func Lookup(name string) (Pattern, error) {
	p, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Pattern{}, fmt.Errorf("patterns: unknown pattern %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p, nil
}

func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
