package mazepath

import "fmt"

// edgeKey identifies an undirected edge; lo is always the smaller handle.
type edgeKey struct {
	lo, hi NodeID
}

func keyOf(a, b NodeID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// PathHolder indexes exactly one Path per undirected edge. Both (a, b) and
// (b, a) resolve to the same *Path.
type PathHolder struct {
	paths map[edgeKey]*Path
	// built keeps paths in construction order for stable iteration.
	built []*Path
}

// NewPathHolder builds a Path for every edge in adj. nodes is the arena the
// handles in adj index into.
func NewPathHolder(adj *AdjacencyList, nodes []Node, step float64) (*PathHolder, error) {
	h := &PathHolder{
		paths: make(map[edgeKey]*Path, adj.EdgeCount()),
		built: make([]*Path, 0, adj.EdgeCount()),
	}

	lookup := func(id NodeID) (Node, error) {
		if id < 0 || int(id) >= len(nodes) {
			return Node{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
		}
		return nodes[id], nil
	}

	for _, a := range adj.order {
		for _, b := range adj.adjacent(a) {
			key := keyOf(a, b)
			if _, exists := h.paths[key]; exists {
				continue
			}

			from, err := lookup(a)
			if err != nil {
				return nil, err
			}
			to, err := lookup(b)
			if err != nil {
				return nil, err
			}

			path, err := NewPath(from, to, step)
			if err != nil {
				return nil, err
			}
			h.paths[key] = path
			h.built = append(h.built, path)
		}
	}

	return h, nil
}

// PathBetween returns the path for the edge a-b.
func (h *PathHolder) PathBetween(a, b NodeID) (*Path, error) {
	path := h.lookup(a, b)
	if path == nil {
		return nil, fmt.Errorf("path between %s and %s: %w", a, b, ErrNotFound)
	}
	return path, nil
}

func (h *PathHolder) lookup(a, b NodeID) *Path {
	return h.paths[keyOf(a, b)]
}

// Paths returns every path in construction order.
func (h *PathHolder) Paths() []*Path {
	return append([]*Path(nil), h.built...)
}

// Len is the number of paths.
func (h *PathHolder) Len() int { return len(h.built) }
