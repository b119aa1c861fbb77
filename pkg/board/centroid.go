package board

import "github.com/chazu/tilt/pkg/geom"

// RecomputeCentroid sets and returns the mass-weighted centroid of the
// occupied nodes. Build guarantees Mass > 0.
func (b *Board) RecomputeCentroid() geom.Point {
	var c geom.Point
	for _, n := range b.Nodes {
		if n.Mass > 0 {
			c = c.Add(n.At.MulScalar(float64(n.Mass)))
		}
	}
	b.Center = c.MulScalar(1 / float64(b.Mass))
	return b.Center
}

// ProjectedCentroid returns the centroid the board would have if the piece on
// n were relocated to at. The board is not modified. n must hold mass.
func (b *Board) ProjectedCentroid(n *Node, at geom.Point) geom.Point {
	return at.Sub(n.At).MulScalar(float64(n.Mass) / float64(b.Mass)).Add(b.Center)
}

// Tipped reports whether the centroid lies strictly outside the stable radius.
func (b *Board) Tipped() bool {
	return b.Center.Length() > b.StableRadius
}
