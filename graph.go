package mazepath

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/paulmach/orb"
)

// DefaultStepSize is the bezier parameter step used to sample paths.
const DefaultStepSize = 0.5

// NodeEpsilon is the distance below which ClosestNode treats a point as
// sitting on a node.
const NodeEpsilon = 1e-6

// Rand is a uniform integer source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). It may panic if n <= 0.
	IntN(n int) int
}

type options struct {
	step   float64
	rng    Rand
	logger *slog.Logger
}

// Option configures New.
type Option func(*options)

// WithStepSize sets the sampling step for every path.
func WithStepSize(step float64) Option {
	return func(o *options) { o.step = step }
}

// WithRand sets the source used by RandomNode and RandomPath.
func WithRand(r Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSeed uses a PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger for construction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Graph composes the node arena, the adjacency list and the path holder of a
// level and answers the movement queries. It is read-only once New returns
// and may be shared between goroutines.
type Graph struct {
	nodes []Node
	adj   *AdjacencyList
	paths *PathHolder
	index *spatialIndex

	startNode NodeID
	startPath *Path

	rngMu sync.Mutex
	rng   Rand
}

// New builds the graph for layout. Edges that reference unknown nodes, self
// loops and start declarations that do not exist in the layout are rejected.
func New(layout Layout, opts ...Option) (*Graph, error) {
	o := options{
		step:   DefaultStepSize,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		now := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(now, now>>1))
	}

	startTime := time.Now()

	positions := layout.Positions()
	nodes := make([]Node, len(positions))
	for i, p := range positions {
		nodes[i] = Node{ID: NodeID(i), Position: p}
	}

	known := func(i int) bool { return i >= 0 && i < len(nodes) }

	adj := NewAdjacencyList()
	for i, e := range layout.Edges() {
		if !known(e.A) || !known(e.B) {
			return nil, fmt.Errorf("edge %d (%d-%d) references unknown node: %w", i, e.A, e.B, ErrNotFound)
		}
		if err := adj.AddEdge(NodeID(e.A), NodeID(e.B)); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}

	holder, err := NewPathHolder(adj, nodes, o.step)
	if err != nil {
		return nil, fmt.Errorf("failed to build paths: %w", err)
	}

	start := layout.StartNode()
	if !known(start) {
		return nil, fmt.Errorf("start node %d: %w", start, ErrNotFound)
	}
	startEdge := layout.StartEdge()
	startPath, err := holder.PathBetween(NodeID(startEdge.A), NodeID(startEdge.B))
	if err != nil {
		return nil, fmt.Errorf("start path: %w", err)
	}

	g := &Graph{
		nodes:     nodes,
		adj:       adj,
		paths:     holder,
		index:     newSpatialIndex(nodes, holder.Paths()),
		startNode: NodeID(start),
		startPath: startPath,
		rng:       o.rng,
	}

	o.logger.Debug("graph built",
		"nodes", len(nodes),
		"edges", adj.EdgeCount(),
		"paths", holder.Len(),
		"step", o.step,
		"elapsed", time.Since(startTime))

	return g, nil
}

// StartNode is the player start node declared by the layout.
func (g *Graph) StartNode() NodeID { return g.startNode }

// StartPath is the path the player starts on.
func (g *Graph) StartPath() *Path { return g.startPath }

// NodeCount is the number of nodes in the arena.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Nodes returns every node in handle order.
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Node returns the node with the given handle.
func (g *Graph) Node(id NodeID) (Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return Node{}, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	return g.nodes[id], nil
}

// NeighborsOf returns a's neighbors in insertion order.
func (g *Graph) NeighborsOf(a NodeID) ([]NodeID, error) {
	return g.adj.NeighborsOf(a)
}

// PathBetween returns the path for the edge a-b.
func (g *Graph) PathBetween(a, b NodeID) (*Path, error) {
	return g.paths.PathBetween(a, b)
}

// AllPaths returns each path once, in the order first reached by walking the
// nodes and their neighbors.
func (g *Graph) AllPaths() []*Path {
	all := make([]*Path, 0, g.paths.Len())
	seen := make(map[*Path]bool, g.paths.Len())

	for _, n := range g.nodes {
		for _, adjacent := range g.adj.adjacent(n.ID) {
			path := g.paths.lookup(n.ID, adjacent)
			if path == nil || seen[path] {
				continue
			}
			seen[path] = true
			all = append(all, path)
		}
	}
	return all
}

// ClosestNode returns the node sitting on point, within NodeEpsilon.
// ok is false when no node is there.
func (g *Graph) ClosestNode(point Point) (id NodeID, ok bool) {
	// Not many nodes, a scan is fine
	for _, n := range g.nodes {
		if Distance(point, n.Position) < NodeEpsilon {
			return n.ID, true
		}
	}
	return InvalidNode, false
}

// NearestNode returns the node nearest to point and its distance, whether or
// not the point sits on it. ok is false for an empty graph.
func (g *Graph) NearestNode(point Point) (id NodeID, dist float64, ok bool) {
	id, ok = g.index.nearestNode(point)
	if !ok {
		return InvalidNode, math.MaxFloat64, false
	}
	return id, Distance(point, g.nodes[id].Position), true
}

// PathsInRegion returns the paths whose bounding boxes intersect b.
func (g *Graph) PathsInRegion(b orb.Bound) []*Path {
	return g.index.pathsIntersecting(b)
}

// RandomNode picks a node uniformly. The graph must not be empty.
func (g *Graph) RandomNode() NodeID {
	return NodeID(g.intN(len(g.nodes)))
}

// RandomPath picks uniformly among the paths leaving from.
func (g *Graph) RandomPath(from NodeID) (*Path, error) {
	adjacent, err := g.adj.NeighborsOf(from)
	if err != nil {
		return nil, err
	}
	if len(adjacent) == 0 {
		return nil, fmt.Errorf("paths from %s: %w", from, ErrNotFound)
	}
	return g.paths.PathBetween(from, adjacent[g.intN(len(adjacent))])
}

func (g *Graph) intN(n int) int {
	g.rngMu.Lock()
	defer g.rngMu.Unlock()
	return g.rng.IntN(n)
}

// ContinuationPath returns the first path at node at (in neighbor insertion
// order) on the same axis as current, other than current itself. This is
// "going straight" through a junction. current is returned if there is none.
func (g *Graph) ContinuationPath(current *Path, at NodeID) *Path {
	return g.firstPathFrom(current, at, func(p *Path) bool {
		return p.Horizontal() == current.Horizontal()
	})
}

// TurnPath returns the first path at node at on the other axis whose
// starting direction from at equals dir. current is returned if there is
// none.
func (g *Graph) TurnPath(current *Path, at NodeID, dir Direction) *Path {
	return g.firstPathFrom(current, at, func(p *Path) bool {
		return p.Horizontal() != current.Horizontal() && p.StartingDirection(at) == dir
	})
}

// AnyAxisChangePath is TurnPath without the direction constraint.
func (g *Graph) AnyAxisChangePath(current *Path, at NodeID) *Path {
	return g.firstPathFrom(current, at, func(p *Path) bool {
		return p.Horizontal() != current.Horizontal()
	})
}

func (g *Graph) firstPathFrom(current *Path, at NodeID, match func(*Path) bool) *Path {
	for _, adjacent := range g.adj.adjacent(at) {
		path := g.paths.lookup(at, adjacent)
		if path == nil || path == current {
			continue
		}
		if match(path) {
			return path
		}
	}
	return current
}
