package mazepath

import "fmt"

// NodeID is an opaque handle to a node in a Graph's node arena.
// Nodes are compared by handle, never by position.
type NodeID int

// InvalidNode is returned where no node could be produced.
const InvalidNode NodeID = -1

func (id NodeID) String() string {
	return fmt.Sprintf("n%d", int(id))
}

// Node is a graph vertex with a fixed position.
type Node struct {
	ID       NodeID `json:"id"`
	Position Point  `json:"position"`
}
