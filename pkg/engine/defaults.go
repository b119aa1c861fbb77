package engine

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/chazu/tilt/pkg/level"
)

//go:embed levels.lisp
var defaultSource string

// DefaultSource returns the source of the built-in level set.
func DefaultSource() string {
	return defaultSource
}

// DefaultCatalog evaluates the built-in level set.
func DefaultCatalog() (*level.Catalog, error) {
	return NewEngine().Load(defaultSource)
}

// LoadFile evaluates the level file at path. An empty path selects the
// built-in levels.
func (e *Engine) LoadFile(path string) (*level.Catalog, error) {
	if path == "" {
		return e.Load(defaultSource)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read levels: %w", err)
	}
	c, err := e.Load(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
