package game

// EventKind says what changed.
type EventKind int

const (
	EventLevel EventKind = iota
	EventMove
	EventReplyStart
	EventReplyStep
	EventReplyDone
	EventPass
	EventUndo
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventLevel:
		return "level"
	case EventMove:
		return "move"
	case EventReplyStart:
		return "reply-start"
	case EventReplyStep:
		return "reply-step"
	case EventReplyDone:
		return "reply-done"
	case EventPass:
		return "pass"
	case EventUndo:
		return "undo"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is delivered to listeners after the session state has changed.
type Event struct {
	Kind  EventKind `json:"kind"`
	Level int       `json:"level"`
}

// Listener is a redraw hook. It runs synchronously inside the call that
// caused the change. It may read the session but must not change it.
type Listener func(Event)

// Status summarises the game for display.
type Status struct {
	Level    string `json:"level"`
	Index    int    `json:"index"`
	Moves    int    `json:"moves"`
	Par      int    `json:"par"`
	Won      bool   `json:"won"`
	UnderPar bool   `json:"under_par"`
	Busy     bool   `json:"busy"`
}

// Status reports the current level, the number of player moves so far and
// whether the board has tipped. A board only counts as won once no reply is
// animating.
func (s *Session) Status() Status {
	st := Status{Index: s.index, Busy: s.anim.Busy()}
	if s.board == nil {
		return st
	}
	st.Level = s.lvl.Name
	st.Par = s.lvl.Par
	st.Moves = s.board.HistoryLen()
	st.Won = s.board.Tipped() && !st.Busy
	st.UnderPar = st.Won && st.Moves <= st.Par
	return st
}
