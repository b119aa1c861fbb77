package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/tilt/pkg/level"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

type evalResult struct {
	catalog *level.Catalog
	errors  []EvalError
	err     error
}

// waitWithTimeout waits for a result from ch, giving up after EvalTimeout.
// A result whose generation is no longer current is discarded.
//
// On timeout the evaluating goroutine may still be running; ch is buffered
// so it can finish without blocking.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*level.Catalog, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.catalog, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}
