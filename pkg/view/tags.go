// Package view holds presentation state that frontends keep beside the board:
// which node the pointer is over and where that piece could go.
package view

import "github.com/chazu/tilt/pkg/game"

// Tag is the display state of one node.
type Tag int

const (
	None Tag = iota
	Hover
	Possible
)

func (t Tag) String() string {
	switch t {
	case Hover:
		return "hover"
	case Possible:
		return "possible"
	default:
		return ""
	}
}

// Tags maps node ids to display tags. The zero value is empty and ready to
// use.
type Tags struct {
	m map[int]Tag
}

// Get returns the tag for node id.
func (t *Tags) Get(id int) Tag {
	return t.m[id]
}

// Clear removes every tag.
func (t *Tags) Clear() {
	t.m = nil
}

// Len returns the number of tagged nodes.
func (t *Tags) Len() int {
	return len(t.m)
}

// Hover tags node id and its legal destinations when the player could pick
// that piece up. Anything else, including a reply in progress, clears all
// tags.
func (t *Tags) Hover(s *game.Session, id int) {
	t.Clear()
	if !s.Movable(id) {
		return
	}
	moves, err := s.PossibleMoves(id)
	if err != nil {
		return
	}
	t.m = make(map[int]Tag, len(moves)+1)
	t.m[id] = Hover
	for _, n := range moves {
		t.m[n.ID] = Possible
	}
}

// Snapshot returns the tags as a slice indexed by node id, for frontends
// that ship them over a wire.
func (t *Tags) Snapshot(nodes int) []string {
	out := make([]string, nodes)
	for id, tag := range t.m {
		if id >= 0 && id < nodes {
			out[id] = tag.String()
		}
	}
	return out
}
