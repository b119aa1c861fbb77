// Package geom provides the planar primitives the board is built from:
// points, segments, segment intersection and the shared epsilon predicate.
// Point arithmetic is delegated to the sdfx 2D vector type.
package geom

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// DefaultEpsilon is the default tolerance for position equality and for the
// degenerate-determinant test in Intersect.
const DefaultEpsilon = 1e-6

// Point is a 2D coordinate. It doubles as a vector from the origin, which is
// how centroids are expressed.
type Point = v2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// EqualWithin reports whether a and b coincide within eps on both axes.
func EqualWithin(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

// Equal is EqualWithin using DefaultEpsilon.
func Equal(a, b Point) bool {
	return EqualWithin(a, b, DefaultEpsilon)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Length()
}

// Lerp interpolates linearly from a (t=0) to b (t=1).
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).MulScalar(t))
}

func cross(a, b Point) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Segment is a closed line segment.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Seg builds a segment from two points.
func Seg(a, b Point) Segment {
	return Segment{Start: a, End: b}
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return Distance(s.Start, s.End)
}

func (s Segment) String() string {
	return fmt.Sprintf("[(%g,%g)-(%g,%g)]", s.Start.X, s.Start.Y, s.End.X, s.End.Y)
}

// PointOnSegment reports whether p lies on s: the vectors from p to both
// endpoints are collinear and point in opposite directions (or p coincides
// with an endpoint).
func PointOnSegment(p Point, s Segment, eps float64) bool {
	ds := s.Start.Sub(p)
	de := s.End.Sub(p)
	c := cross(ds, de)
	return -eps <= c && c <= eps && ds.Dot(de) <= eps
}

// Intersect returns the single point shared by s and t, if any.
//
// Endpoint contact is checked first and reports the touching endpoint
// exactly, so lanes meeting at a vertex share the vertex coordinates without
// rounding. Otherwise the crossing point is solved parametrically along s.
// Parallel segments that do not touch at an endpoint report no intersection;
// overlapping collinear segments yield one of the touching endpoints.
func Intersect(s, t Segment, eps float64) (Point, bool) {
	switch {
	case PointOnSegment(s.Start, t, eps):
		return s.Start, true
	case PointOnSegment(s.End, t, eps):
		return s.End, true
	case PointOnSegment(t.Start, s, eps):
		return t.Start, true
	case PointOnSegment(t.End, s, eps):
		return t.End, true
	}

	r := s.End.Sub(s.Start)
	q := t.End.Sub(t.Start)
	det := cross(r, q)
	if math.Abs(det) <= eps {
		return Point{}, false
	}

	w := t.Start.Sub(s.Start)
	u := cross(w, q) / det
	v := cross(w, r) / det
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return Point{}, false
	}
	return s.Start.Add(r.MulScalar(u)), true
}

// Collinear reports whether s and t lie on the same infinite line.
func Collinear(s, t Segment, eps float64) bool {
	r := s.End.Sub(s.Start)
	return math.Abs(cross(r, t.Start.Sub(s.Start))) <= eps &&
		math.Abs(cross(r, t.End.Sub(s.Start))) <= eps
}

// Overlap reports whether s and t are collinear and share more than a single
// point.
func Overlap(s, t Segment, eps float64) bool {
	if !Collinear(s, t, eps) {
		return false
	}
	r := s.End.Sub(s.Start)
	l2 := r.Dot(r)
	if l2 <= eps {
		return false
	}
	// Project t onto s's parameter space and intersect the intervals.
	a := t.Start.Sub(s.Start).Dot(r) / l2
	b := t.End.Sub(s.Start).Dot(r) / l2
	lo, hi := math.Min(a, b), math.Max(a, b)
	lo = math.Max(lo, 0)
	hi = math.Min(hi, 1)
	return (hi-lo)*math.Sqrt(l2) > eps
}
