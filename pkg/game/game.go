// Package game ties a level catalog, the current board and the AI reply
// animation into one session. It is the surface frontends call; every rule
// that board.Apply leaves to its caller is checked here.
package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/tilt/pkg/ai"
	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
)

var (
	// ErrBusy is returned while an AI reply is still animating.
	ErrBusy = ai.ErrBusy
	// ErrNoBoard is returned before any level has been played.
	ErrNoBoard = errors.New("game: no level loaded")
	// ErrUnknownNode is returned for a node id the board does not have.
	ErrUnknownNode = errors.New("game: unknown node")
	// ErrIllegalMove is returned when the destination is not reachable.
	ErrIllegalMove = errors.New("game: illegal move")
	// ErrLastMoved is returned when the player picks up the piece the AI
	// just moved.
	ErrLastMoved = errors.New("game: piece was just moved by the opponent")
)

// Options tune a Session. Zero values select the defaults.
type Options struct {
	Epsilon  float64
	Steps    int
	Duration time.Duration
}

// Session is one player's game. It is not safe for concurrent use; frontends
// serialise calls themselves.
type Session struct {
	catalog *level.Catalog
	opts    Options

	index int
	lvl   level.Level
	board *board.Board
	anim  *ai.Animator

	listeners []Listener
}

// New returns a session over c with no level loaded yet.
func New(c *level.Catalog, opts Options) *Session {
	if opts.Epsilon <= 0 {
		opts.Epsilon = geom.DefaultEpsilon
	}
	return &Session{
		catalog: c,
		opts:    opts,
		index:   -1,
		anim:    ai.NewAnimator(opts.Steps, opts.Duration),
	}
}

// OnChange registers l to be called after every state change.
func (s *Session) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) notify(kind EventKind) {
	ev := Event{Kind: kind, Level: s.index}
	for _, l := range s.listeners {
		l(ev)
	}
}

// Catalog returns the levels this session plays.
func (s *Session) Catalog() *level.Catalog {
	return s.catalog
}

// PlayLevel builds level i, replacing the current board.
func (s *Session) PlayLevel(i int) error {
	if s.anim.Busy() {
		return ErrBusy
	}
	l, err := s.catalog.At(i)
	if err != nil {
		return fmt.Errorf("play level %d: %w", i, err)
	}
	b, err := l.Build(board.WithEpsilon(s.opts.Epsilon))
	if err != nil {
		return err
	}
	s.index, s.lvl, s.board = i, l, b
	s.notify(EventLevel)
	return nil
}

// Board returns the current board, or nil before PlayLevel.
func (s *Session) Board() *board.Board {
	return s.board
}

// Level returns the current level and its catalog index (-1 before
// PlayLevel).
func (s *Session) Level() (level.Level, int) {
	return s.lvl, s.index
}

func (s *Session) node(id int) (*board.Node, error) {
	if s.board == nil {
		return nil, ErrNoBoard
	}
	n := s.board.Node(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	return n, nil
}

// PossibleMoves returns the legal destinations of the piece on node id.
func (s *Session) PossibleMoves(id int) ([]*board.Node, error) {
	n, err := s.node(id)
	if err != nil {
		return nil, err
	}
	return s.board.LegalDestinations(n), nil
}

// Movable reports whether the player may pick up the piece on node id: it
// holds mass, it is not the AI's last piece, and no reply is animating.
func (s *Session) Movable(id int) bool {
	n, err := s.node(id)
	if err != nil {
		return false
	}
	return n.Mass > 0 && n != s.board.LastMoved && !s.anim.Busy()
}

// CentroidIfMoved previews the centroid with the piece on node id dragged to
// p. An empty node previews the current centroid.
func (s *Session) CentroidIfMoved(id int, p geom.Point) (geom.Point, error) {
	n, err := s.node(id)
	if err != nil {
		return geom.Point{}, err
	}
	return s.board.ProjectedCentroid(n, p), nil
}

// PlayerMove applies the player's move and starts the AI reply. It returns
// the reply, or ok == false when the AI passes. The reply is committed by
// Tick (or Finish); until then the session is busy.
func (s *Session) PlayerMove(fromID, toID int) (reply ai.Move, ok bool, err error) {
	if s.anim.Busy() {
		return ai.Move{}, false, ErrBusy
	}
	from, err := s.node(fromID)
	if err != nil {
		return ai.Move{}, false, err
	}
	to, err := s.node(toID)
	if err != nil {
		return ai.Move{}, false, err
	}
	if from == s.board.LastMoved {
		return ai.Move{}, false, ErrLastMoved
	}
	if !s.board.IsLegal(from, to) {
		return ai.Move{}, false, fmt.Errorf("%w: %d -> %d", ErrIllegalMove, fromID, toID)
	}

	s.board.PushSnapshot()
	s.board.Apply(from, to)
	s.notify(EventMove)

	reply, ok, err = ai.Think(s.board, s.anim)
	if err != nil {
		return ai.Move{}, false, err
	}
	if ok {
		s.notify(EventReplyStart)
	} else {
		s.notify(EventPass)
	}
	return reply, ok, nil
}

// Busy reports whether an AI reply is animating.
func (s *Session) Busy() bool {
	return s.anim.Busy()
}

// Interval is the time between animation ticks.
func (s *Session) Interval() time.Duration {
	return s.anim.Interval()
}

// Tick advances the AI reply by one step. It reports true on the tick that
// commits the move. Ticking an idle session does nothing.
func (s *Session) Tick() bool {
	if s.board == nil || !s.anim.Busy() {
		return false
	}
	committed := s.anim.Tick(s.board)
	if committed {
		s.notify(EventReplyDone)
	} else {
		s.notify(EventReplyStep)
	}
	return committed
}

// Finish runs the pending reply to completion without waiting.
func (s *Session) Finish() bool {
	committed := false
	for s.anim.Busy() {
		committed = s.Tick()
	}
	return committed
}

// Pending returns the reply being animated, or nil.
func (s *Session) Pending() *ai.Pending {
	return s.anim.Pending()
}

// DisplayCentroid is the centroid a frontend should draw: during a reply it
// follows the moving piece.
func (s *Session) DisplayCentroid() geom.Point {
	if s.board == nil {
		return geom.Point{}
	}
	if p := s.anim.Pending(); p != nil {
		return s.board.ProjectedCentroid(p.From, p.At)
	}
	return s.board.Center
}

// Undo takes back the last player move together with the reply to it.
func (s *Session) Undo() (bool, error) {
	if s.board == nil {
		return false, ErrNoBoard
	}
	if s.anim.Busy() {
		return false, ErrBusy
	}
	if !s.board.Undo() {
		return false, nil
	}
	s.notify(EventUndo)
	return true, nil
}

// Reset returns the board to its starting position.
func (s *Session) Reset() (bool, error) {
	if s.board == nil {
		return false, ErrNoBoard
	}
	if s.anim.Busy() {
		return false, ErrBusy
	}
	if !s.board.Reset() {
		return false, nil
	}
	s.notify(EventReset)
	return true, nil
}

// Notation is a one-line description of the position, e.g. "Triangle 1110|-".
func (s *Session) Notation() string {
	if s.board == nil {
		return ""
	}
	return fmt.Sprintf("%s %s", s.lvl.Name, s.board)
}
