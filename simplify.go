package mazepath

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Simplified reduces the path's points with Douglas-Peucker, for renderers
// that do not need every sample. The endpoints and ordering are kept.
func (p *Path) Simplified(epsilon float64) []Point {
	if len(p.points) <= 2 || epsilon <= 0 {
		return p.Points()
	}

	ls, ok := simplify.DouglasPeucker(epsilon).Simplify(p.LineString()).(orb.LineString)
	if !ok || len(ls) < 2 {
		return p.Points()
	}

	simplified := make([]Point, len(ls))
	for i, pt := range ls {
		simplified[i] = fromOrb(pt)
	}
	return simplified
}

// SimplifyPaths simplifies multiple paths
func SimplifyPaths(paths []*Path, epsilon float64) [][]Point {
	simplified := make([][]Point, len(paths))
	for i, p := range paths {
		simplified[i] = p.Simplified(epsilon)
	}
	return simplified
}
