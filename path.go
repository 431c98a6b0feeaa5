package mazepath

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r2"
)

// Direction is the index step an agent applies each tick while moving along
// a Path.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// Path is the sampled curve for one undirected edge.
//
// Points are stored so that increasing the index always moves towards +X on a
// horizontal path and towards +Y on a vertical one, whichever endpoint the
// curve was generated from. With y-down screen coordinates that means right
// or down; with y-up world coordinates it means right or up.
type Path struct {
	points []Point

	start, end       NodeID
	startPos, endPos Point

	horizontal bool
	// reversed is set when the raw sampling order was flipped during
	// normalization.
	reversed bool
}

// NewPath samples the curve from start to end and normalizes its ordering.
func NewPath(start, end Node, step float64) (*Path, error) {
	points, err := SampleCurve(start.Position, end.Position, step)
	if err != nil {
		return nil, fmt.Errorf("failed to sample path %s-%s: %w", start.ID, end.ID, err)
	}

	p := &Path{
		points:   points,
		start:    start.ID,
		end:      end.ID,
		startPos: start.Position,
		endPos:   end.Position,
	}
	p.normalize()
	return p, nil
}

// normalize classifies the path by its dominant axis and reverses the points
// if they run against it.
func (p *Path) normalize() {
	dir := r2.Sub(p.points[len(p.points)-1], p.points[0])

	var component float64
	if math.Abs(dir.X) > math.Abs(dir.Y) {
		p.horizontal = true
		component = dir.X
	} else {
		component = dir.Y
	}

	if component < 0 {
		slices.Reverse(p.points)
		p.reversed = true
	}
}

// EvenlySpaced walks a fine re-sampling of the curve and emits a point every
// time the distance travelled reaches spacing. The raw start and end
// positions are always appended last, so the tail may hold near-duplicates.
// The result follows the raw sampling order, not the normalized one.
func (p *Path) EvenlySpaced(spacing float64) ([]Point, error) {
	if !(spacing > 0) {
		return nil, fmt.Errorf("spacing %v: %w", spacing, ErrInvalidArgument)
	}

	fine, err := SampleCurve(p.startPos, p.endPos, FineStep)
	if err != nil {
		return nil, err
	}

	var even []Point
	acc := 0.0
	for i := 1; i < len(fine); i++ {
		acc += Distance(fine[i-1], fine[i])
		if acc >= spacing {
			even = append(even, fine[i])
			acc = 0
		}
	}
	even = append(even, p.startPos, p.endPos)

	return even, nil
}

// Len returns the number of stored points.
func (p *Path) Len() int { return len(p.points) }

// Points returns a copy of the normalized points.
func (p *Path) Points() []Point { return slices.Clone(p.points) }

func (p *Path) Horizontal() bool { return p.horizontal }
func (p *Path) Vertical() bool   { return !p.horizontal }
func (p *Path) Reversed() bool   { return p.reversed }

// Start and End are the endpoints in the order the path was built with.
func (p *Path) Start() NodeID { return p.start }
func (p *Path) End() NodeID   { return p.end }

// Has reports whether n is one of the endpoints.
func (p *Path) Has(n NodeID) bool { return n == p.start || n == p.end }

// Other returns the endpoint opposite n.
func (p *Path) Other(n NodeID) (NodeID, bool) {
	switch n {
	case p.start:
		return p.end, true
	case p.end:
		return p.start, true
	}
	return InvalidNode, false
}

// IndexForNode returns the index an agent occupies when standing on endpoint
// n. It returns 0 for nodes that are not endpoints; callers must only pass
// endpoints.
func (p *Path) IndexForNode(n NodeID) int {
	last := len(p.points) - 1

	startIndex, endIndex := 0, last
	if p.reversed {
		startIndex, endIndex = last, 0
	}

	switch n {
	case p.start:
		return startIndex
	case p.end:
		return endIndex
	}
	return 0
}

// StartingDirection is the step to apply when entering the path from n.
func (p *Path) StartingDirection(n NodeID) Direction {
	if p.IndexForNode(n) == 0 {
		return Forward
	}
	return Backward
}

// PointAt returns the point at index, clamped into range. Movement code may
// overshoot by a tick and gets the nearest endpoint back.
func (p *Path) PointAt(index int) Point {
	if index < 0 {
		return p.points[0]
	}
	if index >= len(p.points) {
		return p.points[len(p.points)-1]
	}
	return p.points[index]
}

// CanMoveTo reports whether index is a valid point index.
func (p *Path) CanMoveTo(index int) bool {
	return index >= 0 && index < len(p.points)
}

// LineString returns the normalized points as an orb line string.
func (p *Path) LineString() orb.LineString {
	return lineString(p.points)
}

// Length is the length of the sampled polyline.
func (p *Path) Length() float64 {
	return planar.Length(p.LineString())
}

// Bound is the axis-aligned bounding box of the sampled points.
func (p *Path) Bound() orb.Bound {
	return p.LineString().Bound()
}

func (p *Path) String() string {
	axis := "vertical"
	if p.horizontal {
		axis = "horizontal"
	}
	return fmt.Sprintf("path %s-%s (%s, %d points)", p.start, p.end, axis, len(p.points))
}
