package mazepath

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// pointTolerance pads degenerate rectangles, since rtreego rejects zero-length
// sides.
const pointTolerance = 1e-9

// nodeEntry wraps a node for R-tree storage
type nodeEntry struct {
	id   NodeID
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return e.rect
}

// pathEntry wraps a path and its build position for R-tree storage
type pathEntry struct {
	path  *Path
	order int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *pathEntry) Bounds() rtreego.Rect {
	return e.rect
}

// spatialIndex answers nearest-node and region queries
type spatialIndex struct {
	nodes *rtreego.Rtree
	paths *rtreego.Rtree
}

// newSpatialIndex creates a new spatial index over nodes and path bounds
func newSpatialIndex(nodes []Node, paths []*Path) *spatialIndex {
	si := &spatialIndex{
		nodes: rtreego.NewTree(2, 25, 50), // 2D, min 25, max 50 entries per node
		paths: rtreego.NewTree(2, 25, 50),
	}

	for _, n := range nodes {
		si.nodes.Insert(&nodeEntry{
			id:   n.ID,
			rect: rtreego.Point{n.Position.X, n.Position.Y}.ToRect(pointTolerance),
		})
	}

	for i, p := range paths {
		rect, err := boundToRect(p.Bound())
		if err == nil {
			si.paths.Insert(&pathEntry{path: p, order: i, rect: rect})
		}
	}

	return si
}

// nearestNode returns the node closest to p
func (si *spatialIndex) nearestNode(p Point) (NodeID, bool) {
	item := si.nodes.NearestNeighbor(rtreego.Point{p.X, p.Y})
	if item == nil {
		return InvalidNode, false
	}
	return item.(*nodeEntry).id, true
}

// pathsIntersecting returns paths whose bounding boxes intersect b, in build
// order
func (si *spatialIndex) pathsIntersecting(b orb.Bound) []*Path {
	rect, err := boundToRect(b)
	if err != nil {
		return []*Path{}
	}

	results := si.paths.SearchIntersect(rect)
	entries := make([]*pathEntry, 0, len(results))
	for _, item := range results {
		entries = append(entries, item.(*pathEntry))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	paths := make([]*Path, len(entries))
	for i, e := range entries {
		paths[i] = e.path
	}
	return paths
}

// boundToRect converts an orb bound to an R-tree rectangle, padding flat sides
func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	width := b.Max.X() - b.Min.X()
	height := b.Max.Y() - b.Min.Y()

	return rtreego.NewRect(
		rtreego.Point{b.Min.X() - pointTolerance, b.Min.Y() - pointTolerance},
		[]float64{width + 2*pointTolerance, height + 2*pointTolerance},
	)
}
