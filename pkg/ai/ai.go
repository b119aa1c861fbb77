// Package ai implements the computer opponent: a greedy one-ply search that
// picks the move bringing the centroid closest to the origin, and an animator
// that plays the chosen move out over a fixed number of ticks before
// committing it.
package ai

import (
	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
)

// Move is one candidate move with the centroid it would produce.
type Move struct {
	From     *board.Node
	To       *board.Node
	Centroid geom.Point
	Distance float64 // |Centroid|
}

// Candidates evaluates every move the AI may make, in search order: source
// nodes by id, then destinations in board.LegalDestinations order. The node
// the opponent just moved onto is skipped.
func Candidates(b *board.Board) []Move {
	var moves []Move
	for _, from := range b.Nodes {
		if from.Mass == 0 || from == b.LastMoved {
			continue
		}
		for _, to := range b.LegalDestinations(from) {
			c := b.ProjectedCentroid(from, to.At)
			moves = append(moves, Move{From: from, To: to, Centroid: c, Distance: c.Length()})
		}
	}
	return moves
}

// Choose returns the candidate with the smallest centroid distance. Ties go
// to the earliest candidate in search order. ok is false when there is no
// legal move.
func Choose(b *board.Board) (best Move, ok bool) {
	for _, m := range Candidates(b) {
		if !ok || m.Distance < best.Distance {
			best, ok = m, true
		}
	}
	return best, ok
}

// Think chooses a reply and starts animating it. When there is no legal move
// the AI passes: the board is left as it was and ok is false.
func Think(b *board.Board, a *Animator) (Move, bool, error) {
	m, ok := Choose(b)
	if !ok {
		b.RecomputeCentroid()
		return Move{}, false, nil
	}
	if err := a.Start(m); err != nil {
		return Move{}, false, err
	}
	return m, true, nil
}
