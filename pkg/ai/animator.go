package ai

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
)

const (
	// DefaultSteps is the number of interpolation steps per AI move.
	DefaultSteps = 20
	// DefaultDuration is the wall time an AI move takes, commit included.
	DefaultDuration = 210 * time.Millisecond
)

// ErrBusy is returned when a move is started while another is in flight.
var ErrBusy = errors.New("ai: move already in flight")

// Phase is the animator state.
type Phase int

const (
	PhaseIdle       Phase = iota // no move in flight
	PhaseAnimating               // piece travelling from source to destination
	PhaseCommitting              // piece arrived; next tick applies the move
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnimating:
		return "animating"
	case PhaseCommitting:
		return "committing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Pending is the move in flight. At is the interpolated piece position.
type Pending struct {
	From *board.Node
	To   *board.Node
	At   geom.Point
}

// Animator plays a move out over Steps ticks and commits it on the tick
// after that. It is driven by an external tick source at Interval(); it owns
// no timers. An animation cannot be cancelled once started.
type Animator struct {
	steps    int
	duration time.Duration

	phase   Phase
	step    int
	pending *Pending
}

// NewAnimator returns an idle animator. Non-positive arguments fall back to
// the defaults.
func NewAnimator(steps int, duration time.Duration) *Animator {
	if steps <= 0 {
		steps = DefaultSteps
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Animator{steps: steps, duration: duration}
}

// Steps returns the number of interpolation steps.
func (a *Animator) Steps() int {
	return a.steps
}

// Interval is the tick period that spreads a whole move, commit tick
// included, over the configured duration.
func (a *Animator) Interval() time.Duration {
	return a.duration / time.Duration(a.steps+1)
}

// Phase returns the current state.
func (a *Animator) Phase() Phase {
	return a.phase
}

// Busy reports whether a move is in flight.
func (a *Animator) Busy() bool {
	return a.phase != PhaseIdle
}

// Pending returns the move in flight, or nil when idle.
func (a *Animator) Pending() *Pending {
	if a.pending == nil {
		return nil
	}
	p := *a.pending
	return &p
}

// Start begins animating m from its source position.
func (a *Animator) Start(m Move) error {
	if a.Busy() {
		return ErrBusy
	}
	a.phase = PhaseAnimating
	a.step = 0
	a.pending = &Pending{From: m.From, To: m.To, At: m.From.At}
	return nil
}

// Tick advances the animation by one step. On the tick after the piece
// reaches its destination the move is applied to b, the pending move is
// cleared and Tick reports true. Ticks while idle do nothing.
func (a *Animator) Tick(b *board.Board) bool {
	switch a.phase {
	case PhaseAnimating:
		a.step++
		p := a.pending
		p.At = geom.Lerp(p.From.At, p.To.At, float64(a.step)/float64(a.steps))
		if a.step >= a.steps {
			a.phase = PhaseCommitting
		}
		return false
	case PhaseCommitting:
		p := a.pending
		a.pending = nil
		b.Apply(p.From, p.To)
		a.phase = PhaseIdle
		a.step = 0
		return true
	}
	return false
}

// Finish ticks until the move in flight is committed. It reports whether a
// move was committed.
func (a *Animator) Finish(b *board.Board) bool {
	for a.Busy() {
		if a.Tick(b) {
			return true
		}
	}
	return false
}
