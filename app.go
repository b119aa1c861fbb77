package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/chazu/tilt/pkg/config"
	"github.com/chazu/tilt/pkg/engine"
	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
	"github.com/chazu/tilt/pkg/snapshot"
	"github.com/chazu/tilt/pkg/view"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// ChangedEvent is the Wails event emitted after every board change.
const ChangedEvent = "board:changed"

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Every binding and every animation tick runs under mu.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	engine *engine.Engine

	mu      sync.Mutex
	session *game.Session
	tags    view.Tags
	ticking bool

	// emit is replaced in tests; the default needs a Wails context.
	emit func(name string, data ...interface{})
}

// PointData is a JSON-serializable board coordinate.
type PointData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is one node as the frontend draws it.
type NodeData struct {
	ID        int       `json:"id"`
	At        PointData `json:"at"`
	Mass      int       `json:"mass"`
	Tag       string    `json:"tag"`
	LastMoved bool      `json:"lastMoved"`
}

// LaneData is one lane with its node ids in order along the lane.
type LaneData struct {
	ID    int       `json:"id"`
	Start PointData `json:"start"`
	End   PointData `json:"end"`
	Nodes []int     `json:"nodes"`
}

// PendingData is the AI reply in flight.
type PendingData struct {
	From int       `json:"from"`
	To   int       `json:"to"`
	At   PointData `json:"at"`
}

// BoardState is the full position sent to the frontend.
type BoardState struct {
	Nodes        []NodeData   `json:"nodes"`
	Lanes        []LaneData   `json:"lanes"`
	Center       PointData    `json:"center"`
	StableRadius float64      `json:"stableRadius"`
	Pending      *PendingData `json:"pending"`
	Status       game.Status  `json:"status"`
}

// ChangeData is the payload of ChangedEvent.
type ChangeData struct {
	Event string     `json:"event"`
	State BoardState `json:"state"`
}

// LevelData names one catalog entry.
type LevelData struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Par   int    `json:"par"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is returned by Evaluate.
type EvalResult struct {
	Levels   []LevelData     `json:"levels"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App from the user's ~/.tiltrc, or the defaults when
// there is none.
func NewApp() (*App, error) {
	return newApp(config.Load())
}

// newApp loads the catalog named by cfg and starts on its start level.
func newApp(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, engine: engine.NewEngine()}
	a.engine.SetEpsilon(cfg.Epsilon)
	a.emit = a.wailsEmit

	cat, err := a.engine.LoadFile(cfg.LevelsFile)
	if err != nil {
		return nil, err
	}
	if err := a.play(cat, cfg.StartIndex(cat)); err != nil {
		return nil, err
	}
	return a, nil
}

// startup is called by Wails on app startup. The context is saved
// so we can emit runtime events later.
func (a *App) startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
}

func (a *App) wailsEmit(name string, data ...interface{}) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

// play replaces the session with one over cat and loads level i.
func (a *App) play(cat *level.Catalog, i int) error {
	s := game.New(cat, a.cfg.SessionOptions())
	if err := s.PlayLevel(i); err != nil {
		return err
	}
	s.OnChange(a.changed)
	a.session = s
	return nil
}

// changed runs inside session calls, with mu held.
func (a *App) changed(ev game.Event) {
	if ev.Kind != game.EventReplyStep {
		a.tags.Clear()
	}
	a.emit(ChangedEvent, ChangeData{Event: ev.Kind.String(), State: a.state()})
}

func pointData(p geom.Point) PointData {
	return PointData{X: p.X, Y: p.Y}
}

func (a *App) state() BoardState {
	st := BoardState{
		Nodes:  []NodeData{},
		Lanes:  []LaneData{},
		Status: a.session.Status(),
	}
	b := a.session.Board()
	if b == nil {
		return st
	}
	tags := a.tags.Snapshot(len(b.Nodes))
	for _, n := range b.Nodes {
		st.Nodes = append(st.Nodes, NodeData{
			ID:        n.ID,
			At:        pointData(n.At),
			Mass:      n.Mass,
			Tag:       tags[n.ID],
			LastMoved: n == b.LastMoved,
		})
	}
	for _, l := range b.Lanes {
		ids := make([]int, len(l.Nodes))
		for i, n := range l.Nodes {
			ids[i] = n.ID
		}
		st.Lanes = append(st.Lanes, LaneData{
			ID:    l.ID,
			Start: pointData(l.Seg.Start),
			End:   pointData(l.Seg.End),
			Nodes: ids,
		})
	}
	st.Center = pointData(a.session.DisplayCentroid())
	st.StableRadius = b.StableRadius
	if p := a.session.Pending(); p != nil {
		st.Pending = &PendingData{From: p.From.ID, To: p.To.ID, At: pointData(p.At)}
	}
	return st
}

// animate drives the AI reply from a ticker until it commits. Called with
// mu held.
func (a *App) animate() {
	if a.ticking || !a.session.Busy() {
		return
	}
	a.ticking = true
	s := a.session
	t := time.NewTicker(s.Interval())
	go func() {
		defer t.Stop()
		for range t.C {
			a.mu.Lock()
			s.Tick()
			done := !s.Busy()
			if done {
				a.ticking = false
			}
			a.mu.Unlock()
			if done {
				return
			}
		}
	}()
}

// Levels lists the catalog.
func (a *App) Levels() []LevelData {
	a.mu.Lock()
	defer a.mu.Unlock()
	return levelData(a.session.Catalog())
}

func levelData(c *level.Catalog) []LevelData {
	out := []LevelData{}
	for i := 0; i < c.Len(); i++ {
		l, _ := c.At(i)
		out = append(out, LevelData{Index: i, Name: l.Name, Par: l.Par})
	}
	return out
}

// State returns the current position.
func (a *App) State() BoardState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state()
}

// PlayLevel starts level i afresh.
func (a *App) PlayLevel(i int) (BoardState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.session.PlayLevel(i); err != nil {
		return a.state(), err
	}
	l, _ := a.session.Level()
	log.Printf("level %d: %s", i, l.Name)
	return a.state(), nil
}

// PossibleMoves returns the node ids the piece on node id can slide to.
func (a *App) PossibleMoves(id int) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	nodes, err := a.session.PossibleMoves(id)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids, nil
}

// Hover tags node id and its destinations for display. A negative id clears
// the tags.
func (a *App) Hover(id int) BoardState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id < 0 {
		a.tags.Clear()
	} else {
		a.tags.Hover(a.session, id)
	}
	return a.state()
}

// CentroidIfMoved previews the centroid with the piece on node id dragged to
// (x, y).
func (a *App) CentroidIfMoved(id int, x, y float64) (PointData, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, err := a.session.CentroidIfMoved(id, geom.Pt(x, y))
	if err != nil {
		return PointData{}, err
	}
	return pointData(c), nil
}

// PlayerMove moves the piece on from to to. The AI reply then plays out
// through ChangedEvent notifications.
func (a *App) PlayerMove(from, to int) (BoardState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, _, err := a.session.PlayerMove(from, to); err != nil {
		return a.state(), err
	}
	a.animate()
	return a.state(), nil
}

// Undo takes back the last move pair. It is a no-op with empty history.
func (a *App) Undo() (BoardState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.session.Undo()
	return a.state(), err
}

// Reset restores the starting position.
func (a *App) Reset() (BoardState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.session.Reset()
	return a.state(), err
}

// Export saves the position as a PNG in the export directory and returns the
// path written.
func (a *App) Export() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.session.Status()
	path := a.cfg.GetExportPath(fmt.Sprintf("%s-%d.png", strings.ToLower(st.Level), st.Moves))
	if err := snapshot.ExportPNG(path, snapshot.FromSession(a.session), snapshot.DefaultOptions); err != nil {
		log.Printf("Export error: %v", err)
		return "", err
	}
	return path, nil
}

// Snapshot renders the position as a PNG data URL.
func (a *App) Snapshot() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var buf bytes.Buffer
	if err := snapshot.EncodePNG(&buf, snapshot.FromSession(a.session), snapshot.DefaultOptions); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Evaluate takes level source and, when it defines at least one level,
// switches play to the new catalog's first level. Source that defines no
// levels leaves the current game alone.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Levels:   []LevelData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	cat, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	for _, w := range engine.Lint(cat, a.cfg.Epsilon) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}
	result.Levels = levelData(cat)
	if cat.Len() == 0 {
		return result
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session.Busy() {
		result.Errors = append(result.Errors, EvalErrorData{Message: game.ErrBusy.Error()})
		return result
	}
	if err := a.play(cat, 0); err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	a.tags.Clear()
	a.emit(ChangedEvent, ChangeData{Event: game.EventLevel.String(), State: a.state()})
	return result
}
