package engine

import (
	"strings"
	"testing"

	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(level "A" :par 2)`,
			expect: `(level "A" "__kw_par" 2)`,
		},
		{
			name:   "multiple keywords",
			input:  `(level "A" :radius 40 :balls [0 1])`,
			expect: `(level "A" "__kw_radius" 40 "__kw_balls" [0 1])`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"say \"hi\" :x" :y`,
			expect: `"say \"hi\" :x" "__kw_y"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(star-segs 5 250)`,
			expect: `(star_segs 5 250)`,
		},
		{
			name:   "negative numbers preserved",
			input:  `[0 -150]`,
			expect: `[0 -150]`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword and star-segs`,
			expect: `// comment with :keyword and star-segs`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:stable-radius`,
			expect: `"__kw_stable-radius"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, source string) *level.Catalog {
	t.Helper()
	c, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return c
}

func evalErrorsFor(t *testing.T, source string) []EvalError {
	t.Helper()
	c, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil catalog, got %v", c.Names())
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	return evalErrs
}

func TestLevelDefaults(t *testing.T) {
	c := mustEval(t, `(level "One" :balls [0] :lanes (seg (pt 0 0) [10 0]))`)

	l, err := c.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "One" || l.Par != 0 || l.StableRadius != 40 {
		t.Errorf("level = %+v, want One with par 0 and radius 40", l)
	}
	if len(l.Segments) != 1 || !geom.Equal(l.Segments[0].End, geom.Pt(10, 0)) {
		t.Errorf("segments = %v", l.Segments)
	}
}

func TestLevelFloatRadius(t *testing.T) {
	c := mustEval(t, `(level "F" :radius 12.5 :balls [0] :lanes (seg [0 0] [1 0]))`)
	l, _ := c.At(0)
	if l.StableRadius != 12.5 {
		t.Errorf("radius = %g, want 12.5", l.StableRadius)
	}
}

func TestListSegsBuiltin(t *testing.T) {
	c := mustEval(t, `
(def corners [[0 0] (pt 100 0) [100 100]])
(level "L" :balls [0] :lanes (list-segs corners [[0 1] [1 2]]))
`)
	l, _ := c.At(0)
	want := []geom.Segment{
		geom.Seg(geom.Pt(0, 0), geom.Pt(100, 0)),
		geom.Seg(geom.Pt(100, 0), geom.Pt(100, 100)),
	}
	if len(l.Segments) != len(want) {
		t.Fatalf("segments = %v, want %v", l.Segments, want)
	}
	for i := range want {
		if l.Segments[i] != want[i] {
			t.Errorf("segment %d = %s, want %s", i, l.Segments[i], want[i])
		}
	}
}

func TestStarSegsDefaultStep(t *testing.T) {
	c := mustEval(t, `
(level "A" :balls [0] :lanes (star-segs 5 250))
(level "B" :balls [0] :lanes (star-segs 5 250 2))
`)
	a, _ := c.At(0)
	b, _ := c.At(1)
	if len(a.Segments) != 5 {
		t.Fatalf("segments = %d, want 5", len(a.Segments))
	}
	for i := range a.Segments {
		if a.Segments[i] != b.Segments[i] {
			t.Errorf("segment %d differs: %s vs %s", i, a.Segments[i], b.Segments[i])
		}
	}
}

func TestLanesConcatenates(t *testing.T) {
	c := mustEval(t, `(level "G" :balls [0] :lanes (lanes (grid 2 2 10) (seg [0 -20] [0 20])))`)
	l, _ := c.At(0)
	if len(l.Segments) != 5 {
		t.Errorf("segments = %d, want 5", len(l.Segments))
	}
	if !geom.Equal(l.Segments[4].Start, geom.Pt(0, -20)) {
		t.Errorf("last segment = %s", l.Segments[4])
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"pt arity", `(pt 1)`, "pt"},
		{"pt type", `(pt "a" 1)`, "expected number"},
		{"seg arity", `(seg [0 0])`, "seg"},
		{"bad point", `(seg [0 0 0] [1 1])`, "point"},
		{"pair out of range", `(list-segs [[0 0] [1 1]] [[0 5]])`, "list-segs"},
		{"star sides", `(star-segs 1 100)`, "sides"},
		{"grid size", `(grid 0 3 100)`, "grid"},
		{"lanes type", `(lanes 5)`, "lanes"},
		{"level without name", `(level :par 1)`, "name"},
		{"level without lanes", `(level "X" :balls [0])`, "missing :lanes"},
		{"fractional ball", `(level "X" :balls [0.5] :lanes (seg [0 0] [1 0]))`, "balls"},
		{"duplicate", `
(level "X" :balls [0] :lanes (seg [0 0] [1 0]))
(level "X" :balls [0] :lanes (seg [0 0] [1 0]))`, "duplicate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrorsFor(t, tt.source)
			if msg := EvalErrors(errs).Error(); !strings.Contains(msg, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", msg, tt.wantMsg)
			}
		})
	}
}
