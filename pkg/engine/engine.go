// Package engine evaluates the level description language. It wraps zygomys
// in a sandboxed environment and produces a level.Catalog from source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error, a runtime error in level code, or a level that
// does not build into a board.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalErrors collects the errors of one evaluation into a single error.
type EvalErrors []EvalError

func (es EvalErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// EvalWarning is a layout finding for a level that still builds.
type EvalWarning struct {
	Level   string
	Finding board.ValidationError
}

func (w EvalWarning) String() string {
	return fmt.Sprintf("level %q: %s", w.Level, w.Finding.Error())
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use; each
// call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	eps        float64
}

// NewEngine creates a new Engine that checks levels with the default
// geometric tolerance.
func NewEngine() *Engine {
	return &Engine{eps: geom.DefaultEpsilon}
}

// SetEpsilon sets the tolerance used when checking that levels build.
func (e *Engine) SetEpsilon(eps float64) {
	if eps <= 0 {
		eps = geom.DefaultEpsilon
	}
	e.mu.Lock()
	e.eps = eps
	e.mu.Unlock()
}

// Evaluate takes level source and produces a catalog.
//
// Return semantics:
//   - On success: returns catalog + nil errors + nil error
//   - On parse/eval failure: returns nil catalog + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*level.Catalog, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	eps := e.eps
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := evaluate(source, eps)
		ch <- evalResult{catalog: c, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// Load evaluates source and folds eval errors into the returned error.
func (e *Engine) Load(source string) (*level.Catalog, error) {
	c, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		return nil, EvalErrors(evalErrs)
	}
	return c, nil
}

func evaluate(source string, eps float64) (*level.Catalog, []EvalError, error) {
	cat := level.NewCatalog()
	if strings.TrimSpace(source) == "" {
		return cat, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, cat)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	// A level that cannot produce a board is reported now rather than when
	// a player selects it.
	var evalErrs []EvalError
	for i := 0; i < cat.Len(); i++ {
		l, _ := cat.At(i)
		if _, err := l.Build(board.WithEpsilon(eps)); err != nil {
			evalErrs = append(evalErrs, EvalError{Message: err.Error()})
		}
	}
	if len(evalErrs) > 0 {
		return nil, evalErrs, nil
	}
	return cat, nil, nil
}

// Lint runs the layout checks over every level in c.
func Lint(c *level.Catalog, eps float64) []EvalWarning {
	var out []EvalWarning
	for i := 0; i < c.Len(); i++ {
		l, _ := c.At(i)
		for _, f := range board.Validate(l.Segments, eps) {
			out = append(out, EvalWarning{Level: l.Name, Finding: f})
		}
	}
	return out
}

// HasErrors reports whether any finding in ws is error severity.
func HasErrors(ws []EvalWarning) bool {
	for _, w := range ws {
		if w.Finding.Severity == board.SeverityError {
			return true
		}
	}
	return false
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
