// Package level holds the catalog of playable board layouts. A level is data:
// a name, a par move count and the inputs to board.Build.
package level

import (
	"errors"
	"fmt"

	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/geom"
)

// ErrIndex is returned by Catalog.At for an index outside the catalog.
var ErrIndex = errors.New("level: index out of range")

// Level is one named layout.
type Level struct {
	Name         string         `json:"name"`
	Par          int            `json:"par"`
	Segments     []geom.Segment `json:"segments"`
	Balls        []int          `json:"balls"`
	StableRadius float64        `json:"stable_radius"`
}

// Build constructs a fresh board for the level.
func (l Level) Build(opts ...board.Option) (*board.Board, error) {
	b, err := board.Build(l.Segments, l.Balls, l.StableRadius, opts...)
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	return b, nil
}

// Catalog is an ordered list of levels.
type Catalog struct {
	levels []Level
}

// NewCatalog returns a catalog holding levels in the given order.
func NewCatalog(levels ...Level) *Catalog {
	return &Catalog{levels: append([]Level(nil), levels...)}
}

// Add appends a level.
func (c *Catalog) Add(l Level) {
	c.levels = append(c.levels, l)
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// At returns level i.
func (c *Catalog) At(i int) (Level, error) {
	if i < 0 || i >= len(c.levels) {
		return Level{}, fmt.Errorf("%w: %d of %d", ErrIndex, i, len(c.levels))
	}
	return c.levels[i], nil
}

// Index returns the position of the level with the given name, or -1.
func (c *Catalog) Index(name string) int {
	for i, l := range c.levels {
		if l.Name == name {
			return i
		}
	}
	return -1
}

// Names returns the level names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.levels))
	for i, l := range c.levels {
		names[i] = l.Name
	}
	return names
}
