// Package board implements the play graph: lanes built from input segments,
// nodes at lane endpoints and intersections, the mass each node carries, and
// the move and history rules that mutate it.
package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/tilt/pkg/geom"
)

// DefaultStableRadius is used by level definitions that omit a radius.
const DefaultStableRadius = 40

var (
	// ErrNoMass is returned by Build when no node would be occupied.
	ErrNoMass = errors.New("board: no occupied nodes")
	// ErrBallIndex is returned by Build for an occupied index with no node.
	ErrBallIndex = errors.New("board: occupied index out of range")
)

// Lane is an undirected edge of the play graph, one per input segment.
// Nodes is ordered by distance from Seg.Start.
type Lane struct {
	ID    int
	Seg   geom.Segment
	Nodes []*Node
}

func (l *Lane) indexOf(n *Node) int {
	for i, m := range l.Nodes {
		if m == n {
			return i
		}
	}
	return -1
}

// Node is a vertex of the play graph. Mass 0 means empty.
type Node struct {
	ID    int
	At    geom.Point
	Lanes []*Lane
	Mass  int
}

// Board is one level instance. Mass is fixed at construction; pieces are only
// ever moved between nodes.
type Board struct {
	Nodes        []*Node
	Lanes        []*Lane
	Mass         int
	StableRadius float64
	Center       geom.Point

	// LastMoved is the node the most recent move landed on, nil before the
	// first move.
	LastMoved *Node

	history []Snapshot
	eps     float64
}

type buildConfig struct {
	eps float64
}

// Option configures Build.
type Option func(*buildConfig)

// WithEpsilon sets the tolerance used to merge coincident node positions.
func WithEpsilon(eps float64) Option {
	return func(c *buildConfig) {
		if eps > 0 {
			c.eps = eps
		}
	}
}

// Build converts segments into a board. Each segment becomes a lane (lane id
// = input index); lane endpoints and pairwise intersections become nodes,
// numbered in discovery order. Each entry of balls adds one unit of mass to
// the node with that id.
//
// Overlapping collinear segments are not handled; see Validate.
func Build(segs []geom.Segment, balls []int, stableRadius float64, opts ...Option) (*Board, error) {
	cfg := buildConfig{eps: geom.DefaultEpsilon}
	for _, o := range opts {
		o(&cfg)
	}

	b := &Board{
		Lanes:        make([]*Lane, len(segs)),
		StableRadius: stableRadius,
		eps:          cfg.eps,
	}
	for i, s := range segs {
		b.Lanes[i] = &Lane{ID: i, Seg: s}
	}

	for i, l := range b.Lanes {
		b.attach(l, l.Seg.Start)
		b.attach(l, l.Seg.End)
		for j, other := range b.Lanes {
			if i == j {
				continue
			}
			if at, ok := geom.Intersect(l.Seg, other.Seg, b.eps); ok {
				b.attach(l, at)
			}
		}
	}

	for _, l := range b.Lanes {
		start := l.Seg.Start
		sort.SliceStable(l.Nodes, func(i, j int) bool {
			return geom.Distance(l.Nodes[i].At, start) < geom.Distance(l.Nodes[j].At, start)
		})
		for _, n := range l.Nodes {
			n.Lanes = append(n.Lanes, l)
		}
	}

	for _, id := range balls {
		if id < 0 || id >= len(b.Nodes) {
			return nil, fmt.Errorf("%w: %d (board has %d nodes)", ErrBallIndex, id, len(b.Nodes))
		}
		b.Nodes[id].Mass++
		b.Mass++
	}
	if b.Mass == 0 {
		return nil, ErrNoMass
	}

	b.RecomputeCentroid()
	return b, nil
}

// attach registers a node at position at on lane l, reusing any existing node
// within epsilon of it.
func (b *Board) attach(l *Lane, at geom.Point) {
	n := b.find(at)
	if n == nil {
		n = &Node{ID: len(b.Nodes), At: at}
		b.Nodes = append(b.Nodes, n)
	}
	if l.indexOf(n) < 0 {
		l.Nodes = append(l.Nodes, n)
	}
}

func (b *Board) find(at geom.Point) *Node {
	for _, n := range b.Nodes {
		if geom.EqualWithin(n.At, at, b.eps) {
			return n
		}
	}
	return nil
}

// Epsilon returns the position tolerance the board was built with.
func (b *Board) Epsilon() float64 {
	return b.eps
}

// Node returns the node with the given id, or nil.
func (b *Board) Node(id int) *Node {
	if id < 0 || id >= len(b.Nodes) {
		return nil
	}
	return b.Nodes[id]
}

// NodeAt returns the first node, in id order, closer than radius to p.
func (b *Board) NodeAt(p geom.Point, radius float64) *Node {
	for _, n := range b.Nodes {
		if geom.Distance(n.At, p) < radius {
			return n
		}
	}
	return nil
}

// Occupied returns the nodes holding mass, in id order.
func (b *Board) Occupied() []*Node {
	var out []*Node
	for _, n := range b.Nodes {
		if n.Mass > 0 {
			out = append(out, n)
		}
	}
	return out
}

// String renders the mass of every node in id order followed by the last
// moved node id, e.g. "1101|2". A dash marks no last move.
func (b *Board) String() string {
	var sb strings.Builder
	for _, n := range b.Nodes {
		fmt.Fprintf(&sb, "%d", n.Mass)
	}
	sb.WriteByte('|')
	if b.LastMoved == nil {
		sb.WriteByte('-')
	} else {
		fmt.Fprintf(&sb, "%d", b.LastMoved.ID)
	}
	return sb.String()
}
