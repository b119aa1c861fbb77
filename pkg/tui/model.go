// Package tui is the terminal frontend: a bubbletea program that draws the
// board with box-drawing glyphs and plays against the AI from the keyboard
// or mouse.
package tui

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/config"
	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/snapshot"
	"github.com/chazu/tilt/pkg/view"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

const (
	defaultWidth  = 80
	defaultHeight = 24
	statusLines   = 2
)

type tickMsg struct{}

// Model is the bubbletea model. The session must already have a level
// loaded.
type Model struct {
	session *game.Session
	cfg     *config.Config
	tags    view.Tags

	width, height int
	cursor        int // node id under the cursor
	picked        int // node id picked up, or -1
	message       string
	help          bool
}

// New returns a model playing s.
func New(s *game.Session, cfg *config.Config) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	m := Model{session: s, cfg: cfg, picked: -1}
	m.resetCursor()
	return m
}

// Run starts the program on the alternate screen with mouse support.
func Run(s *game.Session, cfg *config.Config) error {
	p := tea.NewProgram(
		New(s, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

// resetCursor puts the cursor on the first occupied node.
func (m *Model) resetCursor() {
	m.cursor, m.picked = 0, -1
	m.tags.Clear()
	if b := m.session.Board(); b != nil {
		if occ := b.Occupied(); len(occ) > 0 {
			m.cursor = occ[0].ID
		}
	}
	m.refreshTags()
}

func (m *Model) refreshTags() {
	if m.picked >= 0 {
		m.tags.Hover(m.session, m.picked)
		return
	}
	m.tags.Hover(m.session, m.cursor)
}

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h - statusLines
}

func (m Model) layout() layout {
	w, h := m.size()
	return newLayout(m.session.Board(), w, h)
}

// centroid shows the drag preview while a piece is picked up.
func (m Model) centroid() geom.Point {
	if m.picked >= 0 {
		if n := m.session.Board().Node(m.cursor); n != nil {
			if c, err := m.session.CentroidIfMoved(m.picked, n.At); err == nil {
				return c
			}
		}
	}
	return m.session.DisplayCentroid()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.session.Tick()
		if m.session.Busy() {
			return m, tick(m.session.Interval())
		}
		m.refreshTags()
		return m, nil

	case tea.MouseMsg:
		if msg.Type != tea.MouseLeft {
			return m, nil
		}
		p := m.layout().point(msg.X, msg.Y)
		n := m.session.Board().NodeAt(p, m.cfg.PickRadius)
		if n == nil {
			return m, nil
		}
		m.cursor = n.ID
		return m.activate()

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
			}
			return m, nil
		}
		m.message = ""

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "?":
			m.help = true
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "up", "k":
			m.move(0, -1)
		case "down", "j":
			m.move(0, 1)
		case "tab":
			m.cursor = (m.cursor + 1) % len(m.session.Board().Nodes)
			m.refreshTags()
		case "shift+tab":
			n := len(m.session.Board().Nodes)
			m.cursor = (m.cursor + n - 1) % n
			m.refreshTags()
		case " ", "enter":
			return m.activate()
		case "esc":
			m.picked = -1
			m.refreshTags()
		case "u":
			ok, err := m.session.Undo()
			m.report(ok, err, "nothing to undo")
		case "r":
			ok, err := m.session.Reset()
			m.report(ok, err, "nothing to reset")
		case "n", "]":
			m.playLevel(m.index() + 1)
		case "N", "[":
			m.playLevel(m.index() - 1)
		case "y":
			m.yank()
		case "p":
			m.export()
		default:
			if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
				m.playLevel(int(s[0] - '1'))
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) index() int {
	_, i := m.session.Level()
	return i
}

// activate picks up the piece under the cursor or, with a piece already
// picked up, moves it there.
func (m Model) activate() (tea.Model, tea.Cmd) {
	if m.picked < 0 {
		if !m.session.Movable(m.cursor) {
			m.message = "that piece can't move"
			return m, nil
		}
		m.picked = m.cursor
		m.refreshTags()
		return m, nil
	}

	from := m.picked
	m.picked = -1
	if from == m.cursor {
		m.refreshTags()
		return m, nil
	}
	_, replied, err := m.session.PlayerMove(from, m.cursor)
	if err != nil {
		m.message = errorText(err)
		m.refreshTags()
		return m, nil
	}
	m.tags.Clear()
	if !replied {
		m.message = "the AI passes"
		return m, nil
	}
	return m, tick(m.session.Interval())
}

// move steps the cursor to the nearest node in direction (dx, dy), in board
// coordinates with y pointing down.
func (m *Model) move(dx, dy float64) {
	b := m.session.Board()
	from := b.Node(m.cursor)
	if from == nil {
		return
	}
	if n := neighbor(b, from, geom.Pt(dx, dy)); n != nil {
		m.cursor = n.ID
		m.refreshTags()
	}
}

// neighbor returns the node ahead of from in direction d, preferring nodes
// close to the ray.
func neighbor(b *board.Board, from *board.Node, d geom.Point) *board.Node {
	var best *board.Node
	bestScore := math.Inf(1)
	for _, n := range b.Nodes {
		v := n.At.Sub(from.At)
		ahead := v.Dot(d)
		if n == from || ahead <= b.Epsilon() {
			continue
		}
		off := math.Abs(v.X*d.Y - v.Y*d.X)
		if score := ahead + 2*off; score < bestScore {
			best, bestScore = n, score
		}
	}
	return best
}

func (m *Model) playLevel(i int) {
	if i < 0 || i >= m.session.Catalog().Len() {
		return
	}
	if err := m.session.PlayLevel(i); err != nil {
		m.message = errorText(err)
		return
	}
	l, _ := m.session.Level()
	log.Printf("level %d: %s", i, l.Name)
	m.resetCursor()
}

// report shows the outcome of a history command; idle is the message for a
// command that had nothing to do.
func (m *Model) report(ok bool, err error, idle string) {
	if err != nil {
		m.message = errorText(err)
		return
	}
	if !ok {
		m.message = idle
	}
	m.picked = -1
	m.refreshTags()
}

func (m *Model) yank() {
	if err := writeClipboard(m.session.Notation()); err != nil {
		log.Printf("clipboard: %v", err)
		m.message = "clipboard unavailable"
		return
	}
	m.message = "copied " + m.session.Notation()
}

func (m *Model) export() {
	st := m.session.Status()
	name := fmt.Sprintf("%s-%d.png", strings.ToLower(st.Level), st.Moves)
	path := m.cfg.GetExportPath(name)
	if err := snapshot.ExportPNG(path, snapshot.FromSession(m.session), snapshot.DefaultOptions); err != nil {
		log.Printf("export %s: %v", path, err)
		m.message = "export failed: " + err.Error()
		return
	}
	m.message = "saved " + path
}

func errorText(err error) string {
	switch {
	case errors.Is(err, game.ErrBusy):
		return "wait for the AI"
	case errors.Is(err, game.ErrLastMoved):
		return "can't move the piece the AI just moved"
	case errors.Is(err, game.ErrIllegalMove):
		return "can't move there"
	}
	return err.Error()
}

func (m Model) View() string {
	if m.help {
		return helpStyle.Render(helpText)
	}

	body := m.drawBoard(m.layout()).String()

	st := m.session.Status()
	status := statusStyle.Render(fmt.Sprintf("Level: %q  Turn: %d  Par: %d", st.Level, st.Moves, st.Par))
	if st.Won {
		plural := "s"
		if st.Moves == 1 {
			plural = ""
		}
		status = lipgloss.JoinHorizontal(lipgloss.Top, status, " ",
			winStyle.Render(fmt.Sprintf("WIN in %d move%s", st.Moves, plural)))
	}
	line := messageStyle.Render(m.message)
	if m.picked >= 0 {
		line = messageStyle.Render("moving piece: pick a destination, esc to cancel")
	}
	return body + "\n" + status + "\n" + line
}

const helpText = `Tilt

Tip the board off the table by shifting its weight past the dashed circle.
The AI answers every move trying to rebalance it.

  arrows / hjkl   move the cursor between nodes
  tab             next node
  space / enter   pick up a piece, then drop it on a reachable node
  esc             put the piece back
  click           same as space on the clicked node
  u               undo your last move and the reply
  r               reset the level
  n / N, ] / [    next / previous level, 1-9 jump to a level
  y               copy the position to the clipboard
  p               save the board as PNG
  ?               toggle this help
  q               quit

Pieces slide along a line to any empty node without jumping, and you
can't move the piece the AI just moved (shown in red).`
