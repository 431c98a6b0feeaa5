package mazepath

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in the caller's 2D coordinate system.
type Point = r2.Vec

// FineStep is the bezier parameter step used when re-deriving a curve for
// even spacing.
const FineStep = 0.001

// Distance calculates Euclidean distance between two points
func Distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// pointsEqual checks if two points are equal within tolerance
func pointsEqual(a, b Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}

// controlPoints returns the two interior control points of the curve from a
// to b. Each sits a third of the way along the chord from its own endpoint.
func controlPoints(a, b Point) (c1, c2 Point) {
	c1 = r2.Add(a, r2.Scale(1.0/3, r2.Sub(b, a)))
	c2 = r2.Add(b, r2.Scale(1.0/3, r2.Sub(a, b)))
	return c1, c2
}

// cubicBezier evaluates the cubic bezier p0..p3 at t.
// p0 and p3 are the endpoints, p1 and p2 shape the curve.
func cubicBezier(p0, p1, p2, p3 Point, t float64) Point {
	u := 1 - t
	a0 := u * u * u
	a1 := 3 * u * u * t
	a2 := 3 * u * t * t
	a3 := t * t * t

	return Point{
		X: a0*p0.X + a1*p1.X + a2*p2.X + a3*p3.X,
		Y: a0*p0.Y + a1*p1.Y + a2*p2.Y + a3*p3.Y,
	}
}

// SampleCurve samples the curve between a and b at t = 0, step, 2*step, ...
// while t < 1, then appends b itself so the samples always end exactly on b.
func SampleCurve(a, b Point, step float64) ([]Point, error) {
	if !(step > 0) {
		return nil, fmt.Errorf("sample step %v: %w", step, ErrInvalidArgument)
	}

	c1, c2 := controlPoints(a, b)

	var points []Point
	for t := 0.0; t < 1; t += step {
		points = append(points, cubicBezier(a, c1, c2, b, t))
	}
	points = append(points, b)

	return points, nil
}

// toOrb converts a point to its orb representation.
func toOrb(p Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

// fromOrb converts an orb point back.
func fromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

func lineString(points []Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = toOrb(p)
	}
	return ls
}
