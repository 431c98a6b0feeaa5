package level

import (
	"fmt"

	"mazepath"
)

// Grid generates a rows x cols maze. Nodes sit on a square lattice with the
// given spacing, row 0 at Y=0 and later rows below it (y-up, like One). The
// maze is a random spanning tree carved by depth-first search from node 0,
// plus up to extra additional lattice edges to create loops. The same rng
// sequence always produces the same maze.
func Grid(rows, cols int, spacing float64, extra int, rng mazepath.Rand) (*Table, error) {
	if rows < 1 || cols < 1 || rows*cols < 2 {
		return nil, fmt.Errorf("grid %dx%d: %w", rows, cols, mazepath.ErrInvalidArgument)
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("grid spacing %v: %w", spacing, mazepath.ErrInvalidArgument)
	}

	t := &Table{
		Name:   fmt.Sprintf("grid-%dx%d", rows, cols),
		Coords: make([]Coord, 0, rows*cols),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t.Coords = append(t.Coords, Coord{X: float64(c) * spacing, Y: -float64(r) * spacing})
		}
	}

	index := func(r, c int) int { return r*cols + c }
	lattice := func(i int) []int {
		r, c := i/cols, i%cols
		var out []int
		if c+1 < cols {
			out = append(out, index(r, c+1))
		}
		if r+1 < rows {
			out = append(out, index(r+1, c))
		}
		if c > 0 {
			out = append(out, index(r, c-1))
		}
		if r > 0 {
			out = append(out, index(r-1, c))
		}
		return out
	}

	// Carve the spanning tree.
	visited := make([]bool, rows*cols)
	carved := make(map[[2]int]bool)
	stack := []int{0}
	visited[0] = true
	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var open []int
		for _, n := range lattice(cur) {
			if !visited[n] {
				open = append(open, n)
			}
		}
		if len(open) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := open[rng.IntN(len(open))]
		visited[next] = true
		t.Connections = append(t.Connections, mazepath.Edge{A: cur, B: next})
		carved[edgePair(cur, next)] = true
		stack = append(stack, next)
	}

	// Open extra passages among the remaining lattice edges.
	var spare []mazepath.Edge
	for i := 0; i < rows*cols; i++ {
		for _, n := range lattice(i) {
			if n > i && !carved[edgePair(i, n)] {
				spare = append(spare, mazepath.Edge{A: i, B: n})
			}
		}
	}
	for k := 0; k < extra && k < len(spare); k++ {
		j := k + rng.IntN(len(spare)-k)
		spare[k], spare[j] = spare[j], spare[k]
		t.Connections = append(t.Connections, spare[k])
	}

	t.Start = 0
	t.StartOn = t.Connections[0]

	return t, nil
}

func edgePair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
