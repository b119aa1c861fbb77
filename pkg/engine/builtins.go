package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a single board coordinate.
type sexpPoint struct {
	p geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", p.p.X, p.p.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpSegments wraps an ordered run of lane segments. Every shape builtin
// returns one so they compose with `lanes`.
type sexpSegments struct {
	segs []geom.Segment
}

func (s *sexpSegments) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(segments %d)", len(s.segs))
}
func (s *sexpSegments) Type() *zygo.RegisteredType { return nil }

// sexpLevel is returned by `level` after the level joins the catalog.
type sexpLevel struct {
	name string
}

func (l *sexpLevel) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(level %q)", l.name)
}
func (l *sexpLevel) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its bare name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args into keyword and positional arguments. A trailing
// keyword with no value maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a list or array to a Go slice. The empty list
// yields nil.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toPoint accepts either (pt x y) or a two element [x y].
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return geom.Point{}, fmt.Errorf("expected point: %w", err)
	}
	if len(items) != 2 {
		return geom.Point{}, fmt.Errorf("expected point [x y], got %d elements", len(items))
	}
	x, err := toFloat64(items[0])
	if err != nil {
		return geom.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := toFloat64(items[1])
	if err != nil {
		return geom.Point{}, fmt.Errorf("y: %w", err)
	}
	return geom.Pt(x, y), nil
}

func toPoints(s zygo.Sexp) ([]geom.Point, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	pts := make([]geom.Point, 0, len(items))
	for i, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, p)
	}
	return pts, nil
}

func toInts(s zygo.Sexp) ([]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func toPairs(s zygo.Sexp) ([][2]int, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([][2]int, 0, len(items))
	for i, item := range items {
		ns, err := toInts(item)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		if len(ns) != 2 {
			return nil, fmt.Errorf("pair %d: expected [a b], got %d elements", i, len(ns))
		}
		out = append(out, [2]int{ns[0], ns[1]})
	}
	return out, nil
}

func toSegments(s zygo.Sexp) ([]geom.Segment, error) {
	if v, ok := s.(*sexpSegments); ok {
		return v.segs, nil
	}
	return nil, fmt.Errorf("expected segments, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the level DSL into env. Every `level` form
// appends to cat in source order.
//
// Source must go through preprocessSource first so :keywords arrive as
// recognizable strings and star-segs arrives as star_segs.
func registerBuiltins(env *zygo.Zlisp, cat *level.Catalog) {

	// (pt 0 -150)
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: y: %w", err)
		}
		return &sexpPoint{p: geom.Pt(x, y)}, nil
	})

	// (seg [0 0] [100 0])
	env.AddFunction("seg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("seg requires exactly 2 points, got %d", len(args))
		}
		a, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seg: start: %w", err)
		}
		b, err := toPoint(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("seg: end: %w", err)
		}
		return &sexpSegments{segs: []geom.Segment{geom.Seg(a, b)}}, nil
	})

	// (list-segs [[0 -150] [-200 0] [0 0]] [[0 1] [0 2]])
	env.AddFunction("list_segs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("list-segs requires points and pairs, got %d arguments", len(args))
		}
		pts, err := toPoints(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("list-segs: points: %w", err)
		}
		pairs, err := toPairs(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("list-segs: pairs: %w", err)
		}
		segs, err := level.ListSegments(pts, pairs)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("list-segs: %w", err)
		}
		return &sexpSegments{segs: segs}, nil
	})

	// (star-segs 5 250) or (star-segs 6 250 3)
	env.AddFunction("star_segs", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 || len(args) > 3 {
			return zygo.SexpNull, fmt.Errorf("star-segs requires sides, radius and an optional step")
		}
		sides, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("star-segs: sides: %w", err)
		}
		if sides < 2 {
			return zygo.SexpNull, fmt.Errorf("star-segs: sides must be at least 2, got %d", sides)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("star-segs: radius: %w", err)
		}
		step := 2
		if len(args) == 3 {
			if step, err = toInt(args[2]); err != nil {
				return zygo.SexpNull, fmt.Errorf("star-segs: step: %w", err)
			}
		}
		return &sexpSegments{segs: level.StarSegments(sides, r, step)}, nil
	})

	// (grid 3 3 100)
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("grid requires cols, rows and size, got %d arguments", len(args))
		}
		cols, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: cols: %w", err)
		}
		rows, err := toInt(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: rows: %w", err)
		}
		size, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: size: %w", err)
		}
		if cols < 1 || rows < 1 {
			return zygo.SexpNull, fmt.Errorf("grid: need at least one column and row, got %dx%d", cols, rows)
		}
		return &sexpSegments{segs: level.Grid(cols, rows, size)}, nil
	})

	// (lanes (star-segs 5 250) (star-segs 5 250 1))
	env.AddFunction("lanes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var all []geom.Segment
		for i, a := range args {
			segs, err := toSegments(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lanes: argument %d: %w", i, err)
			}
			all = append(all, segs...)
		}
		return &sexpSegments{segs: all}, nil
	})

	// (level "Triangle" :par 1 :radius 75 :balls [0 1 2] :lanes (list-segs ...))
	env.AddFunction("level", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("level requires a name argument")
		}
		levelName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("level: name: %w", err)
		}
		if cat.Index(levelName) >= 0 {
			return zygo.SexpNull, fmt.Errorf("level: duplicate level %q", levelName)
		}

		l := level.Level{Name: levelName, StableRadius: board.DefaultStableRadius}

		if v, ok := pa.kw["par"]; ok {
			if l.Par, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("level %q: par: %w", levelName, err)
			}
		}
		if v, ok := pa.kw["radius"]; ok {
			if l.StableRadius, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("level %q: radius: %w", levelName, err)
			}
		}
		if v, ok := pa.kw["balls"]; ok {
			if l.Balls, err = toInts(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("level %q: balls: %w", levelName, err)
			}
		}
		v, ok := pa.kw["lanes"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("level %q: missing :lanes", levelName)
		}
		if l.Segments, err = toSegments(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("level %q: lanes: %w", levelName, err)
		}

		cat.Add(l)
		return &sexpLevel{name: levelName}, nil
	})
}
