package mazepath

import (
	"fmt"
	"slices"
)

// AdjacencyList is a symmetric neighbor relation over nodes.
//
// Neighbors are kept in AddEdge insertion order. The direction queries on
// Graph take the first match in that order, so it must stay stable between
// runs.
type AdjacencyList struct {
	order     []NodeID
	neighbors map[NodeID][]NodeID
	edges     int
}

// NewAdjacencyList creates an empty adjacency list
func NewAdjacencyList() *AdjacencyList {
	return &AdjacencyList{
		neighbors: make(map[NodeID][]NodeID),
	}
}

// AddEdge connects a and b in both directions. Adding an existing edge again
// is a no-op; self loops are rejected.
func (l *AdjacencyList) AddEdge(a, b NodeID) error {
	if a == b {
		return fmt.Errorf("self loop on %s: %w", a, ErrInvalidArgument)
	}
	if slices.Contains(l.neighbors[a], b) {
		return nil
	}

	l.insert(a, b)
	l.insert(b, a)
	l.edges++
	return nil
}

func (l *AdjacencyList) insert(from, to NodeID) {
	if _, ok := l.neighbors[from]; !ok {
		l.order = append(l.order, from)
	}
	l.neighbors[from] = append(l.neighbors[from], to)
}

// NeighborsOf returns a copy of a's neighbors in insertion order.
func (l *AdjacencyList) NeighborsOf(a NodeID) ([]NodeID, error) {
	adjacent, ok := l.neighbors[a]
	if !ok {
		return nil, fmt.Errorf("neighbors of %s: %w", a, ErrNotFound)
	}
	return slices.Clone(adjacent), nil
}

// adjacent is NeighborsOf without the copy or the error, for internal reads.
func (l *AdjacencyList) adjacent(a NodeID) []NodeID {
	return l.neighbors[a]
}

// Contains reports whether a was ever inserted.
func (l *AdjacencyList) Contains(a NodeID) bool {
	_, ok := l.neighbors[a]
	return ok
}

// Nodes returns the inserted nodes in first-insertion order.
func (l *AdjacencyList) Nodes() []NodeID {
	return slices.Clone(l.order)
}

// Len is the number of inserted nodes.
func (l *AdjacencyList) Len() int { return len(l.order) }

// EdgeCount is the number of undirected edges.
func (l *AdjacencyList) EdgeCount() int { return l.edges }
