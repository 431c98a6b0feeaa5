// Package level holds concrete level layouts for mazepath graphs: the levels
// shipped with the game, a procedural grid maze and file loaders.
package level

import (
	"fmt"
	"sort"

	"mazepath"
)

// Coord is a node position as written in level files.
type Coord struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Table is a static level description. It implements mazepath.Layout.
type Table struct {
	Name        string          `json:"name" yaml:"name"`
	Coords      []Coord         `json:"nodes" yaml:"nodes"`
	Connections []mazepath.Edge `json:"edges" yaml:"edges"`
	Start       int             `json:"start_node" yaml:"start_node"`
	StartOn     mazepath.Edge   `json:"start_edge" yaml:"start_edge"`
}

var _ mazepath.Layout = (*Table)(nil)

func (t *Table) Positions() []mazepath.Point {
	points := make([]mazepath.Point, len(t.Coords))
	for i, c := range t.Coords {
		points[i] = mazepath.Point{X: c.X, Y: c.Y}
	}
	return points
}

func (t *Table) Edges() []mazepath.Edge {
	return append([]mazepath.Edge(nil), t.Connections...)
}

func (t *Table) StartNode() int          { return t.Start }
func (t *Table) StartEdge() mazepath.Edge { return t.StartOn }

var builtins = map[string]func() *Table{
	"one": One,
}

// Builtin returns a fresh copy of the named shipped level.
func Builtin(name string) (*Table, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("builtin level %q: %w", name, mazepath.ErrNotFound)
	}
	return build(), nil
}

// Names lists the shipped levels.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// One is the first maze: six columns, three main rows and a bottom loop.
// It uses y-up coordinates, so rows further down have more negative Y.
func One() *Table {
	const (
		width     = 8.0
		halfWidth = width / 2
		height    = -8.0
	)

	return &Table{
		Name: "one",
		Coords: []Coord{
			{0, 0},
			{width, 0},
			{width * 2, 0},
			{width * 3, 0},
			{width * 4, 0},
			{width * 5, 0},

			{0, height},
			{width, height},
			{width + halfWidth, height},
			{width * 2, height},
			{width * 3, height},
			{width*3 + halfWidth, height},
			{width * 4, height},
			{width * 5, height},

			{0, height * 1.75},
			{width, height * 1.75},
			{width + halfWidth, height * 1.75},
			{width * 2, height * 1.75},
			{width * 3, height * 1.75},
			{width*3 + halfWidth, height * 1.75},
			{width * 4, height * 1.75},
			{width * 5, height * 1.75},

			{width * 2, height * 2.5},
			{width * 3, height * 2.5},
		},
		Connections: []mazepath.Edge{
			{A: 0, B: 1}, {A: 0, B: 6},
			{A: 1, B: 2}, {A: 1, B: 7},
			{A: 2, B: 9},
			{A: 3, B: 4}, {A: 3, B: 10},
			{A: 4, B: 12}, {A: 4, B: 5},
			{A: 5, B: 13},
			{A: 6, B: 7}, {A: 6, B: 14},
			{A: 7, B: 8}, {A: 7, B: 15},
			{A: 8, B: 16}, {A: 8, B: 9},
			{A: 9, B: 10},
			{A: 10, B: 11},
			{A: 11, B: 12}, {A: 11, B: 19},
			{A: 12, B: 13}, {A: 12, B: 20},
			{A: 13, B: 21},
			{A: 14, B: 15},
			{A: 16, B: 17},
			{A: 17, B: 22},
			{A: 18, B: 19}, {A: 18, B: 23},
			{A: 20, B: 21},
			{A: 22, B: 23},
		},
		Start:   0,
		StartOn: mazepath.Edge{A: 0, B: 1},
	}
}
