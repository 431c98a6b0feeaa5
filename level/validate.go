package level

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"mazepath"
)

// Validate checks that t can be built into a graph: every edge references a
// known node, there are no self loops, and the start node is an endpoint of
// the start edge, which must be one of the edges.
func Validate(t *Table) error {
	if len(t.Coords) == 0 {
		return fmt.Errorf("level %q has no nodes: %w", t.Name, mazepath.ErrInvalidArgument)
	}

	known := func(i int) bool { return i >= 0 && i < len(t.Coords) }

	var errs []error
	for i, e := range t.Connections {
		if !known(e.A) || !known(e.B) {
			errs = append(errs, fmt.Errorf("edge %d (%d-%d): %w", i, e.A, e.B, mazepath.ErrNotFound))
			continue
		}
		if e.A == e.B {
			errs = append(errs, fmt.Errorf("edge %d is a self loop on %d: %w", i, e.A, mazepath.ErrInvalidArgument))
		}
	}

	if !known(t.Start) {
		errs = append(errs, fmt.Errorf("start node %d: %w", t.Start, mazepath.ErrNotFound))
	}
	if !hasEdge(t.Connections, t.StartOn) {
		errs = append(errs, fmt.Errorf("start edge %d-%d: %w", t.StartOn.A, t.StartOn.B, mazepath.ErrNotFound))
	} else if t.StartOn.A != t.Start && t.StartOn.B != t.Start {
		errs = append(errs, fmt.Errorf("start node %d is not on start edge %d-%d: %w",
			t.Start, t.StartOn.A, t.StartOn.B, mazepath.ErrInvalidArgument))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid level %q: %w", t.Name, err)
	}
	return nil
}

func hasEdge(edges []mazepath.Edge, want mazepath.Edge) bool {
	for _, e := range edges {
		if (e.A == want.A && e.B == want.B) || (e.A == want.B && e.B == want.A) {
			return true
		}
	}
	return false
}

// Components groups node indices into connected components. Each group is
// sorted and groups are ordered by their smallest index. A playable level
// has exactly one. t must pass Validate.
func Components(t *Table) [][]int {
	g := simple.NewUndirectedGraph()
	for i := range t.Coords {
		g.AddNode(simple.Node(i))
	}
	for _, e := range t.Connections {
		if e.A == e.B {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(e.A), simple.Node(e.B)))
	}

	var groups [][]int
	for _, cc := range topo.ConnectedComponents(g) {
		group := make([]int, len(cc))
		for i, n := range cc {
			group[i] = int(n.ID())
		}
		sort.Ints(group)
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })

	return groups
}
