package game_test

import (
	"errors"
	"testing"
	"time"

	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
)

// Triangle node ids: 0 (0,-150), 1 (-200,0), 2 (200,0), 3 (0,0).
var triangle = level.Level{
	Name: "Triangle",
	Par:  1,
	Segments: []geom.Segment{
		geom.Seg(geom.Pt(0, -150), geom.Pt(-200, 0)),
		geom.Seg(geom.Pt(-200, 0), geom.Pt(200, 0)),
		geom.Seg(geom.Pt(0, -150), geom.Pt(0, 0)),
		geom.Seg(geom.Pt(0, -150), geom.Pt(200, 0)),
	},
	Balls:        []int{0, 1, 2},
	StableRadius: 75,
}

// A single lane with one piece: any move tips it and the AI cannot answer.
var plank = level.Level{
	Name:         "Plank",
	Par:          1,
	Segments:     []geom.Segment{geom.Seg(geom.Pt(0, 0), geom.Pt(100, 0))},
	Balls:        []int{0},
	StableRadius: 10,
}

func newSession(t *testing.T, i int) *game.Session {
	t.Helper()
	s := game.New(level.NewCatalog(triangle, plank), game.Options{Steps: 4, Duration: 50 * time.Millisecond})
	if err := s.PlayLevel(i); err != nil {
		t.Fatalf("PlayLevel(%d): %v", i, err)
	}
	return s
}

func TestNoBoard(t *testing.T) {
	s := game.New(level.NewCatalog(triangle), game.Options{})

	if _, err := s.PossibleMoves(0); !errors.Is(err, game.ErrNoBoard) {
		t.Errorf("PossibleMoves err = %v, want ErrNoBoard", err)
	}
	if _, err := s.Undo(); !errors.Is(err, game.ErrNoBoard) {
		t.Errorf("Undo err = %v, want ErrNoBoard", err)
	}
	if _, _, err := s.PlayerMove(1, 3); !errors.Is(err, game.ErrNoBoard) {
		t.Errorf("PlayerMove err = %v, want ErrNoBoard", err)
	}
	if st := s.Status(); st.Index != -1 || st.Level != "" {
		t.Errorf("Status() = %+v before any level", st)
	}
	if err := s.PlayLevel(5); !errors.Is(err, level.ErrIndex) {
		t.Errorf("PlayLevel(5) err = %v, want ErrIndex", err)
	}
}

func TestPlayerMoveAndReply(t *testing.T) {
	s := newSession(t, 0)

	var kinds []game.EventKind
	s.OnChange(func(ev game.Event) { kinds = append(kinds, ev.Kind) })

	reply, ok, err := s.PlayerMove(1, 3)
	if err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}
	if !ok || reply.From.ID != 0 || reply.To.ID != 1 {
		t.Fatalf("reply = %+v ok=%v, want 0->1", reply, ok)
	}
	if !s.Busy() {
		t.Fatal("session not busy during reply")
	}
	if st := s.Status(); st.Won || !st.Busy || st.Moves != 1 {
		t.Errorf("status during reply = %+v", st)
	}

	ticks := 0
	for !s.Tick() {
		ticks++
		if ticks > 10 {
			t.Fatal("reply never committed")
		}
	}
	if ticks != 4 {
		t.Errorf("steps before commit = %d, want 4", ticks)
	}
	if s.Tick() {
		t.Error("idle tick reported a commit")
	}

	b := s.Board()
	if b.Nodes[0].Mass != 0 || b.Nodes[1].Mass != 1 || b.LastMoved != b.Nodes[1] {
		t.Errorf("board after reply: %s", b)
	}
	if !geom.EqualWithin(s.DisplayCentroid(), geom.Pt(0, 0), 1e-9) {
		t.Errorf("centroid = %v, want origin", s.DisplayCentroid())
	}

	want := []game.EventKind{
		game.EventMove, game.EventReplyStart,
		game.EventReplyStep, game.EventReplyStep, game.EventReplyStep, game.EventReplyStep,
		game.EventReplyDone,
	}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events = %v, want %v", kinds, want)
		}
	}
}

func TestBusyBlocksInput(t *testing.T) {
	s := newSession(t, 0)
	if _, _, err := s.PlayerMove(1, 3); err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}

	if _, _, err := s.PlayerMove(2, 0); !errors.Is(err, game.ErrBusy) {
		t.Errorf("PlayerMove err = %v, want ErrBusy", err)
	}
	if _, err := s.Undo(); !errors.Is(err, game.ErrBusy) {
		t.Errorf("Undo err = %v, want ErrBusy", err)
	}
	if _, err := s.Reset(); !errors.Is(err, game.ErrBusy) {
		t.Errorf("Reset err = %v, want ErrBusy", err)
	}
	if err := s.PlayLevel(1); !errors.Is(err, game.ErrBusy) {
		t.Errorf("PlayLevel err = %v, want ErrBusy", err)
	}
	if s.Movable(2) {
		t.Error("piece movable while a reply animates")
	}
}

func TestDisplayCentroidFollowsReply(t *testing.T) {
	s := newSession(t, 0)
	if _, _, err := s.PlayerMove(1, 3); err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}
	s.Tick()

	p := s.Pending()
	if p == nil {
		t.Fatal("no pending reply after one tick")
	}
	want := s.Board().ProjectedCentroid(p.From, p.At)
	if got := s.DisplayCentroid(); !geom.Equal(got, want) {
		t.Errorf("DisplayCentroid() = %v, want %v", got, want)
	}
	if geom.Equal(want, s.Board().Center) {
		t.Error("display centroid did not move with the reply")
	}

	if !s.Finish() {
		t.Error("Finish did not commit")
	}
	if s.Pending() != nil {
		t.Error("pending reply left after Finish")
	}
}

func TestMoveRules(t *testing.T) {
	s := newSession(t, 0)
	if _, _, err := s.PlayerMove(1, 3); err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}
	s.Finish()

	tests := []struct {
		name     string
		from, to int
		want     error
	}{
		{"opponent's last piece", 1, 0, game.ErrLastMoved},
		{"occupied destination", 2, 1, game.ErrIllegalMove},
		{"empty source", 0, 2, game.ErrIllegalMove},
		{"unknown node", 2, 42, game.ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Board().String()
			if _, _, err := s.PlayerMove(tt.from, tt.to); !errors.Is(err, tt.want) {
				t.Errorf("PlayerMove(%d, %d) err = %v, want %v", tt.from, tt.to, err, tt.want)
			}
			if got := s.Board().String(); got != before {
				t.Errorf("rejected move changed the board: %s -> %s", before, got)
			}
		})
	}

	if s.Movable(1) {
		t.Error("opponent's last piece reported movable")
	}
	if !s.Movable(2) {
		t.Error("node 2 should be movable")
	}
}

func TestUndoAndReset(t *testing.T) {
	s := newSession(t, 0)
	start := s.Board().String()

	if ok, err := s.Undo(); ok || err != nil {
		t.Errorf("Undo on fresh board = %v, %v", ok, err)
	}

	if _, _, err := s.PlayerMove(1, 3); err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}
	s.Finish()
	if _, _, err := s.PlayerMove(2, 0); err != nil {
		t.Fatalf("second PlayerMove: %v", err)
	}
	s.Finish()

	if ok, err := s.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if got := s.Board().String(); got != "0111|1" {
		t.Errorf("after undo = %s, want 0111|1", got)
	}
	if s.Status().Moves != 1 {
		t.Errorf("moves = %d, want 1", s.Status().Moves)
	}

	if ok, err := s.Reset(); !ok || err != nil {
		t.Fatalf("Reset = %v, %v", ok, err)
	}
	if got := s.Board().String(); got != start {
		t.Errorf("after reset = %s, want %s", got, start)
	}
	if ok, _ := s.Reset(); ok {
		t.Error("second Reset reported true")
	}
}

func TestWinAgainstPassingAI(t *testing.T) {
	s := newSession(t, 1)

	_, ok, err := s.PlayerMove(0, 1)
	if err != nil {
		t.Fatalf("PlayerMove: %v", err)
	}
	if ok {
		t.Fatal("AI should pass with only the last moved piece on the board")
	}
	st := s.Status()
	if !st.Won || !st.UnderPar || st.Moves != 1 || st.Level != "Plank" {
		t.Errorf("status = %+v, want a win under par", st)
	}
	if s.Notation() != "Plank 01|1" {
		t.Errorf("Notation() = %q", s.Notation())
	}
}

func TestCentroidIfMoved(t *testing.T) {
	s := newSession(t, 0)

	got, err := s.CentroidIfMoved(1, geom.Pt(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if !geom.EqualWithin(got, geom.Pt(200.0/3, -50), 1e-9) {
		t.Errorf("CentroidIfMoved = %v, want (66.67,-50)", got)
	}

	empty, err := s.CentroidIfMoved(3, geom.Pt(500, 500))
	if err != nil {
		t.Fatal(err)
	}
	if !geom.Equal(empty, s.Board().Center) {
		t.Errorf("empty node preview = %v, want current centroid", empty)
	}
}

func TestPossibleMoves(t *testing.T) {
	s := newSession(t, 0)
	moves, err := s.PossibleMoves(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(moves) != 1 || moves[0].ID != 3 {
		t.Errorf("PossibleMoves(0) = %v, want [3]", moves)
	}
	if _, err := s.PossibleMoves(-1); !errors.Is(err, game.ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}
