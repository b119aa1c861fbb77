// Package snapshot renders a board position to a PNG image.
package snapshot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/chazu/tilt/pkg/ai"
	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// Board-space sizes, scaled with the board.
const (
	pieceRadius = 20.0
	nodeRadius  = 4.0
	markRadius  = 10.0
)

// Options control the output image.
type Options struct {
	Size     int     // width and height in pixels
	Padding  float64 // pixels kept clear around the board
	FontSize float64
}

// DefaultOptions is a 600px square.
var DefaultOptions = Options{Size: 600, Padding: 30, FontSize: 14}

// Frame is everything drawn in one image.
type Frame struct {
	Board    *board.Board
	Pending  *ai.Pending
	Centroid geom.Point
	Title    string
}

// FromSession captures the session's current position, including a reply
// in flight.
func FromSession(s *game.Session) Frame {
	st := s.Status()
	title := fmt.Sprintf("%s  moves %d  par %d", st.Level, st.Moves, st.Par)
	if st.Won {
		title += "  WIN"
	}
	return Frame{
		Board:    s.Board(),
		Pending:  s.Pending(),
		Centroid: s.DisplayCentroid(),
		Title:    title,
	}
}

// transform maps board coordinates onto the image with the origin at the
// centre.
type transform struct {
	scale float64
	half  float64
}

func (t transform) pt(p geom.Point) (float64, float64) {
	return p.X*t.scale + t.half, p.Y*t.scale + t.half
}

func fit(b *board.Board, opts Options) transform {
	extent := b.StableRadius
	for _, l := range b.Lanes {
		for _, p := range []geom.Point{l.Seg.Start, l.Seg.End} {
			extent = math.Max(extent, math.Max(math.Abs(p.X), math.Abs(p.Y)))
		}
	}
	extent += pieceRadius
	half := float64(opts.Size) / 2
	return transform{scale: (half - opts.Padding) / extent, half: half}
}

func fontFace(size float64) (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Render draws f and returns the drawing context.
func Render(f Frame, opts Options) (*gg.Context, error) {
	if f.Board == nil {
		return nil, fmt.Errorf("nothing to export")
	}
	if opts.Size <= 0 {
		opts = DefaultOptions
	}
	b := f.Board
	t := fit(b, opts)

	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetColor(color.White)
	dc.Clear()

	// Stable circle.
	dc.SetLineWidth(1)
	dc.SetDash(3, 3)
	dc.SetColor(color.Gray{Y: 0x80})
	dc.DrawCircle(t.half, t.half, b.StableRadius*t.scale)
	dc.Stroke()
	dc.SetDash()

	// Lanes.
	dc.SetColor(color.Black)
	dc.SetLineWidth(3)
	for _, l := range b.Lanes {
		x1, y1 := t.pt(l.Seg.Start)
		x2, y2 := t.pt(l.Seg.End)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	// Nodes and pieces.
	for _, n := range b.Nodes {
		x, y := t.pt(n.At)
		dc.DrawCircle(x, y, nodeRadius*t.scale)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.Stroke()

		if n.Mass == 0 || (f.Pending != nil && f.Pending.From == n) {
			continue
		}
		drawPiece(dc, x, y, pieceRadius*t.scale, n == b.LastMoved)
	}
	if f.Pending != nil {
		x, y := t.pt(f.Pending.At)
		drawPiece(dc, x, y, pieceRadius*t.scale, false)
	}

	// Centroid marker: a quartered disc.
	cx, cy := t.pt(f.Centroid)
	r := markRadius * t.scale
	dc.SetLineWidth(1)
	dc.DrawCircle(cx, cy, r)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.Stroke()
	dc.MoveTo(cx, cy)
	dc.DrawArc(cx, cy, r, 0, math.Pi/2)
	dc.ClosePath()
	dc.MoveTo(cx, cy)
	dc.DrawArc(cx, cy, r, math.Pi, 1.5*math.Pi)
	dc.ClosePath()
	dc.Fill()

	if f.Title != "" {
		face, err := fontFace(opts.FontSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetColor(color.Black)
		dc.DrawString(f.Title, opts.Padding/2, opts.Padding/2+opts.FontSize)
	}

	return dc, nil
}

// drawPiece fills a ball; the opponent's last piece is solid black.
func drawPiece(dc *gg.Context, x, y, r float64, blocked bool) {
	dc.SetLineWidth(2)
	dc.DrawCircle(x, y, r)
	if blocked {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(color.Gray{Y: 0x60})
	}
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.Stroke()

	dc.DrawCircle(x+r/4, y-r/2, r*0.35)
	dc.SetColor(color.White)
	dc.Fill()
}

// ExportPNG renders f into filename.
func ExportPNG(filename string, f Frame, opts Options) error {
	dc, err := Render(f, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(filename)
}

// EncodePNG renders f as PNG into w.
func EncodePNG(w io.Writer, f Frame, opts Options) error {
	dc, err := Render(f, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}
