package mazepath

// Edge is an undirected edge between two node indices of a Layout.
type Edge struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

// Layout supplies the static data of one level. Node handles in the built
// Graph equal the indices into Positions.
type Layout interface {
	// Positions lists every node position.
	Positions() []Point
	// Edges lists the undirected edges. Their order fixes the neighbor order
	// used by the direction queries.
	Edges() []Edge
	// StartNode is the index of the player start node.
	StartNode() int
	// StartEdge is the edge the player starts on.
	StartEdge() Edge
}
