package board

// NoNode marks the absence of a last moved node in a Snapshot.
const NoNode = -1

// Snapshot captures the mass on every node (indexed by node id) and the id of
// the last moved node.
type Snapshot struct {
	Masses    []int `json:"masses"`
	LastMoved int   `json:"last_moved"`
}

// State captures the current mass state.
func (b *Board) State() Snapshot {
	s := Snapshot{
		Masses:    make([]int, len(b.Nodes)),
		LastMoved: NoNode,
	}
	for i, n := range b.Nodes {
		s.Masses[i] = n.Mass
	}
	if b.LastMoved != nil {
		s.LastMoved = b.LastMoved.ID
	}
	return s
}

// Restore writes s back onto the board and recomputes the centroid.
func (b *Board) Restore(s Snapshot) {
	for i, n := range b.Nodes {
		n.Mass = s.Masses[i]
	}
	b.LastMoved = b.Node(s.LastMoved)
	b.RecomputeCentroid()
}

// PushSnapshot records the current state. It is called before each player
// move, so a player move and the reply to it undo together.
func (b *Board) PushSnapshot() {
	b.history = append(b.history, b.State())
}

// Undo restores the most recent snapshot. It reports false when there is
// nothing to undo.
func (b *Board) Undo() bool {
	if len(b.history) == 0 {
		return false
	}
	last := len(b.history) - 1
	s := b.history[last]
	b.history = b.history[:last]
	b.Restore(s)
	return true
}

// Reset restores the first snapshot and clears the history. It reports false
// when the history is already empty.
func (b *Board) Reset() bool {
	if len(b.history) == 0 {
		return false
	}
	b.Restore(b.history[0])
	b.history = b.history[:0]
	return true
}

// HistoryLen returns the number of recorded snapshots, which is also the
// number of player moves made.
func (b *Board) HistoryLen() int {
	return len(b.history)
}
