package mazepath_test

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mazepath"
	"mazepath/level"
)

// testLayout is a Layout written inline by tests.
type testLayout struct {
	positions []mazepath.Point
	edges     []mazepath.Edge
	start     int
	startEdge mazepath.Edge
}

func (l testLayout) Positions() []mazepath.Point { return l.positions }
func (l testLayout) Edges() []mazepath.Edge       { return l.edges }
func (l testLayout) StartNode() int               { return l.start }
func (l testLayout) StartEdge() mazepath.Edge     { return l.startEdge }

// sequence is a Rand that replays fixed values.
type sequence struct {
	values []int
	i      int
}

func (s *sequence) IntN(n int) int {
	v := s.values[s.i%len(s.values)] % n
	s.i++
	return v
}

// crossLayout is a junction at node 0 (the origin) with arms right (1),
// left (2), up (3) and down (4), added in that order.
func crossLayout() testLayout {
	return testLayout{
		positions: []mazepath.Point{
			{X: 0, Y: 0},
			{X: 8, Y: 0},
			{X: -8, Y: 0},
			{X: 0, Y: 8},
			{X: 0, Y: -8},
		},
		edges:     []mazepath.Edge{{A: 0, B: 1}, {A: 0, B: 2}, {A: 0, B: 3}, {A: 0, B: 4}},
		start:     0,
		startEdge: mazepath.Edge{A: 0, B: 1},
	}
}

func mustGraph(t *testing.T, layout mazepath.Layout, opts ...mazepath.Option) *mazepath.Graph {
	t.Helper()
	g, err := mazepath.New(layout, opts...)
	require.NoError(t, err)
	return g
}

func mustPathBetween(t *testing.T, g *mazepath.Graph, a, b mazepath.NodeID) *mazepath.Path {
	t.Helper()
	p, err := g.PathBetween(a, b)
	require.NoError(t, err)
	return p
}

func TestGraph_ContinuationPath(t *testing.T) {
	g := mustGraph(t, testLayout{
		positions: []mazepath.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: -8, Y: 0}},
		edges:     []mazepath.Edge{{A: 0, B: 1}, {A: 0, B: 2}},
		startEdge: mazepath.Edge{A: 0, B: 1},
	})
	ab := mustPathBetween(t, g, 0, 1)
	ac := mustPathBetween(t, g, 0, 2)
	require.True(t, ab.Horizontal())
	require.True(t, ac.Horizontal())

	assert.Same(t, ac, g.ContinuationPath(ab, 0))
	assert.Same(t, ab, g.ContinuationPath(ac, 0))
}

func TestGraph_ContinuationPathNoMatch(t *testing.T) {
	g := mustGraph(t, testLayout{
		positions: []mazepath.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8}},
		edges:     []mazepath.Edge{{A: 0, B: 1}, {A: 0, B: 2}},
		startEdge: mazepath.Edge{A: 0, B: 1},
	})
	ab := mustPathBetween(t, g, 0, 1)

	assert.Same(t, ab, g.ContinuationPath(ab, 0))
	// Dead end.
	assert.Same(t, ab, g.ContinuationPath(ab, 1))
	// Unknown node never fails.
	assert.Same(t, ab, g.ContinuationPath(ab, 99))
}

func TestGraph_TurnPath(t *testing.T) {
	g := mustGraph(t, crossLayout())
	right := mustPathBetween(t, g, 0, 1)
	up := mustPathBetween(t, g, 0, 3)
	down := mustPathBetween(t, g, 0, 4)

	require.Equal(t, mazepath.Forward, up.StartingDirection(0))
	require.Equal(t, mazepath.Backward, down.StartingDirection(0))

	assert.Same(t, up, g.TurnPath(right, 0, mazepath.Forward))
	assert.Same(t, down, g.TurnPath(right, 0, mazepath.Backward))
}

func TestGraph_TurnPathNoMatch(t *testing.T) {
	g := mustGraph(t, testLayout{
		positions: []mazepath.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0, Y: 8}},
		edges:     []mazepath.Edge{{A: 0, B: 1}, {A: 0, B: 2}},
		startEdge: mazepath.Edge{A: 0, B: 1},
	})
	right := mustPathBetween(t, g, 0, 1)

	// Only an upward arm exists, so turning the other way stays put.
	assert.Same(t, right, g.TurnPath(right, 0, mazepath.Backward))
	assert.NotSame(t, right, g.TurnPath(right, 0, mazepath.Forward))
}

func TestGraph_AnyAxisChangePath(t *testing.T) {
	g := mustGraph(t, crossLayout())
	right := mustPathBetween(t, g, 0, 1)
	left := mustPathBetween(t, g, 0, 2)
	up := mustPathBetween(t, g, 0, 3)
	down := mustPathBetween(t, g, 0, 4)

	// First vertical arm in insertion order.
	assert.Same(t, up, g.AnyAxisChangePath(right, 0))
	assert.Same(t, up, g.AnyAxisChangePath(left, 0))
	// From a vertical arm the first horizontal one.
	assert.Same(t, right, g.AnyAxisChangePath(down, 0))
	// No other arm at the far end.
	assert.Same(t, right, g.AnyAxisChangePath(right, 1))
}

func TestGraph_QueriesFollowInsertionOrder(t *testing.T) {
	cross := crossLayout()
	swapped := cross
	swapped.edges = []mazepath.Edge{{A: 0, B: 1}, {A: 0, B: 2}, {A: 0, B: 4}, {A: 0, B: 3}}

	g1 := mustGraph(t, cross)
	g2 := mustGraph(t, swapped)

	got1 := g1.AnyAxisChangePath(mustPathBetween(t, g1, 0, 1), 0)
	got2 := g2.AnyAxisChangePath(mustPathBetween(t, g2, 0, 1), 0)
	assert.True(t, got1.Has(3))
	assert.True(t, got2.Has(4))
}

func TestGraph_AllPaths(t *testing.T) {
	t.Run("level one", func(t *testing.T) {
		lvl := level.One()
		g := mustGraph(t, lvl)

		paths := g.AllPaths()
		assert.Len(t, paths, len(lvl.Connections))

		seen := make(map[*mazepath.Path]bool)
		for _, p := range paths {
			assert.False(t, seen[p], "%s listed twice", p)
			seen[p] = true
		}
		for _, e := range lvl.Connections {
			p := mustPathBetween(t, g, mazepath.NodeID(e.A), mazepath.NodeID(e.B))
			assert.True(t, seen[p], "edge %v missing", e)
		}
	})

	t.Run("order", func(t *testing.T) {
		g := mustGraph(t, crossLayout())
		var got [][2]mazepath.NodeID
		for _, p := range g.AllPaths() {
			got = append(got, [2]mazepath.NodeID{p.Start(), p.End()})
		}
		want := [][2]mazepath.NodeID{{0, 1}, {0, 2}, {0, 3}, {0, 4}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("AllPaths diff (-want +got):\n%s", diff)
		}
	})
}

func TestGraph_ClosestNode(t *testing.T) {
	g := mustGraph(t, level.One())

	id, ok := g.ClosestNode(mazepath.Point{X: 12, Y: -8})
	assert.True(t, ok)
	assert.Equal(t, mazepath.NodeID(8), id)

	id, ok = g.ClosestNode(mazepath.Point{X: 0, Y: 0})
	assert.True(t, ok)
	assert.Equal(t, mazepath.NodeID(0), id)

	id, ok = g.ClosestNode(mazepath.Point{X: 3, Y: 3})
	assert.False(t, ok)
	assert.Equal(t, mazepath.InvalidNode, id)
}

func TestGraph_NodesAtSamePositionAreDistinct(t *testing.T) {
	g := mustGraph(t, testLayout{
		positions: []mazepath.Point{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 8, Y: 0}, {X: 16, Y: 0}},
		edges:     []mazepath.Edge{{A: 0, B: 1}, {A: 2, B: 3}},
		startEdge: mazepath.Edge{A: 0, B: 1},
	})

	n1, err := g.Node(1)
	require.NoError(t, err)
	n2, err := g.Node(2)
	require.NoError(t, err)
	assert.Equal(t, n1.Position, n2.Position)
	assert.NotEqual(t, n1.ID, n2.ID)

	_, err = g.PathBetween(0, 2)
	assert.ErrorIs(t, err, mazepath.ErrNotFound)
	assert.NotSame(t, mustPathBetween(t, g, 0, 1), mustPathBetween(t, g, 2, 3))
}

func TestGraph_NearestNode(t *testing.T) {
	g := mustGraph(t, level.One())

	id, dist, ok := g.NearestNode(mazepath.Point{X: 7, Y: 1})
	require.True(t, ok)
	assert.Equal(t, mazepath.NodeID(1), id)
	assert.InDelta(t, 1.4142135623730951, dist, 1e-9)
}

func TestGraph_PathsInRegion(t *testing.T) {
	g := mustGraph(t, level.One())

	got := g.PathsInRegion(orb.Bound{Min: orb.Point{3.9, -0.1}, Max: orb.Point{4.1, 0.1}})
	require.Len(t, got, 1)
	assert.Same(t, mustPathBetween(t, g, 0, 1), got[0])

	assert.Empty(t, g.PathsInRegion(orb.Bound{Min: orb.Point{100, 100}, Max: orb.Point{101, 101}}))
}

func TestGraph_RandomNode(t *testing.T) {
	g := mustGraph(t, level.One(), mazepath.WithRand(&sequence{values: []int{5, 23, 24, 0}}))

	assert.Equal(t, mazepath.NodeID(5), g.RandomNode())
	assert.Equal(t, mazepath.NodeID(23), g.RandomNode())
	assert.Equal(t, mazepath.NodeID(0), g.RandomNode()) // 24 % 24
	assert.Equal(t, mazepath.NodeID(0), g.RandomNode())
}

func TestGraph_RandomPath(t *testing.T) {
	g := mustGraph(t, crossLayout(), mazepath.WithRand(&sequence{values: []int{2, 0}}))

	assert.Same(t, mustPathBetween(t, g, 0, 3), must(g.RandomPath(0)))
	assert.Same(t, mustPathBetween(t, g, 0, 1), must(g.RandomPath(0)))

	_, err := g.RandomPath(42)
	assert.ErrorIs(t, err, mazepath.ErrNotFound)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestGraph_SeedIsReproducible(t *testing.T) {
	g1 := mustGraph(t, level.One(), mazepath.WithSeed(42))
	g2 := mustGraph(t, level.One(), mazepath.WithSeed(42))

	for i := 0; i < 50; i++ {
		require.Equal(t, g1.RandomNode(), g2.RandomNode())
	}
}

func TestGraph_Start(t *testing.T) {
	g := mustGraph(t, level.One())

	assert.Equal(t, mazepath.NodeID(0), g.StartNode())
	start := g.StartPath()
	assert.Same(t, mustPathBetween(t, g, 0, 1), start)
	assert.True(t, start.Horizontal())
	assert.False(t, start.Reversed())
	assert.Equal(t, mazepath.Forward, start.StartingDirection(g.StartNode()))
}

func TestGraph_LevelOneAxes(t *testing.T) {
	g := mustGraph(t, level.One())

	down := mustPathBetween(t, g, 0, 6)
	assert.True(t, down.Vertical())
	assert.True(t, down.Reversed())
	assert.Equal(t, mazepath.Backward, down.StartingDirection(0))

	// Node 8 sits half way along the middle row: going straight from 7 leads on to 9.
	assert.Same(t, mustPathBetween(t, g, 8, 9), g.ContinuationPath(mustPathBetween(t, g, 7, 8), 8))
	// Turning at 8 leads down to 16.
	assert.Same(t, mustPathBetween(t, g, 8, 16), g.AnyAxisChangePath(mustPathBetween(t, g, 7, 8), 8))
}

func TestNew_Errors(t *testing.T) {
	base := crossLayout()

	tests := []struct {
		name   string
		mutate func(l *testLayout)
		opts   []mazepath.Option
		want   error
	}{
		{"unknown node", func(l *testLayout) { l.edges = append(l.edges, mazepath.Edge{A: 0, B: 9}) }, nil, mazepath.ErrNotFound},
		{"negative node", func(l *testLayout) { l.edges = append(l.edges, mazepath.Edge{A: -1, B: 2}) }, nil, mazepath.ErrNotFound},
		{"self loop", func(l *testLayout) { l.edges = append(l.edges, mazepath.Edge{A: 2, B: 2}) }, nil, mazepath.ErrInvalidArgument},
		{"start node", func(l *testLayout) { l.start = 5 }, nil, mazepath.ErrNotFound},
		{"start edge", func(l *testLayout) { l.startEdge = mazepath.Edge{A: 1, B: 2} }, nil, mazepath.ErrNotFound},
		{"step", func(l *testLayout) {}, []mazepath.Option{mazepath.WithStepSize(0)}, mazepath.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := base
			l.edges = append([]mazepath.Edge(nil), base.edges...)
			tt.mutate(&l)

			_, err := mazepath.New(l, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGraph_ConcurrentReaders(t *testing.T) {
	g := mustGraph(t, level.One(), mazepath.WithSeed(1))
	start := g.StartPath()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g.RandomNode()
				g.ContinuationPath(start, 1)
				g.AllPaths()
				g.ClosestNode(mazepath.Point{X: 8, Y: 0})
			}
		}()
	}
	wg.Wait()
}

func TestGraph_Export(t *testing.T) {
	lvl := level.One()
	g := mustGraph(t, lvl)

	lines, err := g.LineStrings(0.5)
	require.NoError(t, err)
	assert.Len(t, lines, len(lvl.Connections))
	for _, l := range lines {
		assert.GreaterOrEqual(t, len(l), 2)
	}

	fc, err := g.FeatureCollection(0)
	require.NoError(t, err)
	assert.Len(t, fc.Features, len(lvl.Coords)+len(lvl.Connections))

	starts := 0
	for _, f := range fc.Features {
		if f.Properties["kind"] == "path" && f.Properties["start"] == true {
			starts++
			assert.Equal(t, 0, f.Properties["from"])
			assert.Equal(t, 1, f.Properties["to"])
		}
	}
	assert.Equal(t, 1, starts)

	b := g.Bound()
	assert.InDelta(t, 0, b.Min.X(), 1e-9)
	assert.InDelta(t, 40, b.Max.X(), 1e-9)
	assert.InDelta(t, -20, b.Min.Y(), 1e-9)
	assert.InDelta(t, 0, b.Max.Y(), 1e-9)
}
