package mazepath

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineStrings returns every path as evenly spaced points for drawing.
func (g *Graph) LineStrings(spacing float64) ([][]Point, error) {
	paths := g.AllPaths()
	lines := make([][]Point, 0, len(paths))

	for _, p := range paths {
		points, err := p.EvenlySpaced(spacing)
		if err != nil {
			return nil, fmt.Errorf("failed to space %s: %w", p, err)
		}
		lines = append(lines, points)
	}

	return lines, nil
}

// FeatureCollection exports nodes as Point features and paths as LineString
// features. Path geometry is the normalized sample order; spacing > 0 swaps in
// the evenly spaced points instead.
func (g *Graph) FeatureCollection(spacing float64) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	for _, n := range g.nodes {
		f := geojson.NewFeature(toOrb(n.Position))
		f.Properties["kind"] = "node"
		f.Properties["id"] = int(n.ID)
		f.Properties["start"] = n.ID == g.startNode
		fc.Append(f)
	}

	for _, p := range g.AllPaths() {
		geometry := p.LineString()
		if spacing > 0 {
			points, err := p.EvenlySpaced(spacing)
			if err != nil {
				return nil, fmt.Errorf("failed to space %s: %w", p, err)
			}
			geometry = lineString(points)
		}

		f := geojson.NewFeature(geometry)
		f.Properties["kind"] = "path"
		f.Properties["from"] = int(p.Start())
		f.Properties["to"] = int(p.End())
		f.Properties["horizontal"] = p.Horizontal()
		f.Properties["reversed"] = p.Reversed()
		f.Properties["length"] = p.Length()
		f.Properties["start"] = p == g.startPath
		fc.Append(f)
	}

	return fc, nil
}

// Bound is the bounding box of every node and path sample.
func (g *Graph) Bound() orb.Bound {
	var b orb.Bound
	first := true
	extend := func(pb orb.Bound) {
		if first {
			b, first = pb, false
			return
		}
		b = b.Union(pb)
	}

	for _, n := range g.nodes {
		extend(toOrb(n.Position).Bound())
	}
	for _, p := range g.paths.built {
		extend(p.Bound())
	}
	return b
}
