package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/view"
)

// Glyphs for board cells.
const (
	glyphNode     = '·'
	glyphPossible = '◇'
	glyphPiece    = '●'
	glyphCentroid = '◐'
	glyphCircle   = '.'
)

// layout maps board coordinates onto a grid of terminal cells with the
// origin in the middle. Cells are roughly twice as tall as they are wide, so
// x is scaled twice as much as y.
type layout struct {
	cols, rows int
	sx, sy     float64
}

func newLayout(b *board.Board, cols, rows int) layout {
	extent := b.StableRadius
	for _, n := range b.Nodes {
		extent = math.Max(extent, math.Max(math.Abs(n.At.X), math.Abs(n.At.Y)))
	}
	if extent <= 0 {
		extent = 1
	}
	sy := (float64(rows)/2 - 1) / extent
	if sx := (float64(cols)/2 - 2) / extent; sx < 2*sy {
		sy = sx / 2
	}
	return layout{cols: cols, rows: rows, sx: 2 * sy, sy: sy}
}

func (l layout) cell(p geom.Point) (int, int) {
	return int(math.Round(p.X*l.sx + float64(l.cols)/2)),
		int(math.Round(p.Y*l.sy + float64(l.rows)/2))
}

func (l layout) point(c, r int) geom.Point {
	return geom.Pt((float64(c)-float64(l.cols)/2)/l.sx, (float64(r)-float64(l.rows)/2)/l.sy)
}

type cell struct {
	ch    rune
	style *lipgloss.Style
}

type grid struct {
	cells [][]cell
	l     layout
}

func newGrid(l layout) *grid {
	g := &grid{l: l, cells: make([][]cell, l.rows)}
	for r := range g.cells {
		g.cells[r] = make([]cell, l.cols)
		for c := range g.cells[r] {
			g.cells[r][c] = cell{ch: ' '}
		}
	}
	return g
}

func (g *grid) set(c, r int, ch rune, st *lipgloss.Style) {
	if r < 0 || r >= len(g.cells) || c < 0 || c >= len(g.cells[r]) {
		return
	}
	g.cells[r][c] = cell{ch: ch, style: st}
}

func (g *grid) plot(p geom.Point, ch rune, st *lipgloss.Style) {
	c, r := g.l.cell(p)
	g.set(c, r, ch, st)
}

// laneGlyph picks a line character for a lane running dc cells across and
// dr cells down.
func laneGlyph(dc, dr float64) rune {
	switch {
	case math.Abs(dr)*2 < math.Abs(dc):
		return '─'
	case math.Abs(dc)*2 < math.Abs(dr):
		return '│'
	case dc*dr > 0:
		return '╲'
	default:
		return '╱'
	}
}

func (g *grid) line(s geom.Segment, st *lipgloss.Style) {
	c1, r1 := g.l.cell(s.Start)
	c2, r2 := g.l.cell(s.End)
	dc, dr := float64(c2-c1), float64(r2-r1)
	ch := laneGlyph(dc, dr)
	steps := int(math.Max(math.Abs(dc), math.Abs(dr))) * 2
	if steps == 0 {
		g.set(c1, r1, ch, st)
		return
	}
	for i := 0; i <= steps; i++ {
		g.plot(geom.Lerp(s.Start, s.End, float64(i)/float64(steps)), ch, st)
	}
}

func (g *grid) circle(r float64, st *lipgloss.Style) {
	n := int(2 * math.Pi * r * g.l.sx)
	if n < 16 {
		n = 16
	}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		g.plot(geom.Pt(r*math.Cos(a), r*math.Sin(a)), glyphCircle, st)
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for r, row := range g.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for _, c := range row {
			if c.style == nil {
				sb.WriteRune(c.ch)
				continue
			}
			sb.WriteString(c.style.Render(string(c.ch)))
		}
	}
	return sb.String()
}

// drawBoard renders the position. Later layers overwrite earlier ones:
// stable circle, lanes, nodes, pieces, the reply in flight, the centroid.
func (m Model) drawBoard(l layout) *grid {
	g := newGrid(l)
	b := m.session.Board()
	pending := m.session.Pending()

	g.circle(b.StableRadius, &circleStyle)
	for _, ln := range b.Lanes {
		g.line(ln.Seg, &laneStyle)
	}

	for _, n := range b.Nodes {
		ch, st := glyphNode, &nodeStyle
		switch {
		case pending != nil && pending.From == n:
		case n.Mass > 0 && n == b.LastMoved:
			ch, st = glyphPiece, &blockedStyle
		case n.Mass > 0:
			ch, st = glyphPiece, &pieceStyle
		case m.tags.Get(n.ID) == view.Possible:
			ch, st = glyphPossible, &possibleStyle
		}
		if n.ID == m.cursor {
			hl := st.Copy().Inherit(cursorStyle)
			st = &hl
		}
		g.plot(n.At, ch, st)
	}

	if pending != nil {
		g.plot(pending.At, glyphPiece, &movingStyle)
	}
	g.plot(m.centroid(), glyphCentroid, &centroidStyle)
	return g
}
