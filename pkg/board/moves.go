package board

// LegalDestinations returns the nodes the piece on n can slide to. Along each
// incident lane (in incidence order) it walks toward the lane end, then
// toward the lane start, collecting consecutive empty nodes and stopping at
// the first occupied one. A node reachable over two lanes is listed once, at
// its first position. Empty nodes have no destinations.
func (b *Board) LegalDestinations(n *Node) []*Node {
	if n == nil || n.Mass == 0 {
		return nil
	}

	var moves []*Node
	seen := make(map[*Node]bool)
	add := func(m *Node) {
		if !seen[m] {
			seen[m] = true
			moves = append(moves, m)
		}
	}

	for _, l := range n.Lanes {
		p := l.indexOf(n)
		for i := p + 1; i < len(l.Nodes) && l.Nodes[i].Mass == 0; i++ {
			add(l.Nodes[i])
		}
		for i := p - 1; i >= 0 && l.Nodes[i].Mass == 0; i-- {
			add(l.Nodes[i])
		}
	}
	return moves
}

// IsLegal reports whether to is among LegalDestinations(from).
func (b *Board) IsLegal(from, to *Node) bool {
	for _, m := range b.LegalDestinations(from) {
		if m == to {
			return true
		}
	}
	return false
}

// Apply moves the piece on from to to and records to as the last moved node.
// Legality is not re-checked; callers must have confirmed it.
func (b *Board) Apply(from, to *Node) {
	to.Mass = from.Mass
	from.Mass = 0
	b.LastMoved = to
	b.RecomputeCentroid()
}
