// Package config loads user settings from ~/.tiltrc. The file is a list of
// key = value lines; blank lines and lines starting with # are ignored, keys
// are case-insensitive, and unknown keys or unparsable values leave the
// default in place.
package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/tilt/pkg/ai"
	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/geom"
	"github.com/chazu/tilt/pkg/level"
)

// FileName is the rc file looked up in the home directory.
const FileName = ".tiltrc"

// DefaultPickRadius is how close a pointer must be to a node to grab it.
const DefaultPickRadius = 45

// Config holds the user's settings. Start from Default; Parse only
// overrides the keys an rc file sets.
type Config struct {
	Epsilon           float64
	AnimationSteps    int
	AnimationDuration time.Duration
	LevelsFile        string
	StartLevel        string
	ExportDirectory   string
	PickRadius        float64
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Epsilon:           geom.DefaultEpsilon,
		AnimationSteps:    ai.DefaultSteps,
		AnimationDuration: ai.DefaultDuration,
		PickRadius:        DefaultPickRadius,
	}
}

// Load reads ~/.tiltrc over the defaults. A missing home directory or rc
// file yields the defaults.
func Load() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Default()
	}
	c, err := LoadFile(filepath.Join(homeDir, FileName))
	if err != nil {
		return Default()
	}
	return c
}

// LoadFile reads the rc file at path over the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	homeDir, _ := os.UserHomeDir()
	return Parse(f, homeDir)
}

// Parse reads rc lines from r over the defaults. homeDir expands a leading ~
// in path values.
func Parse(r io.Reader, homeDir string) (*Config, error) {
	config := Default()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "epsilon", "eps":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.Epsilon = f
			}
		case "animation_steps", "animationsteps", "steps":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				config.AnimationSteps = n
			}
		case "animation_duration", "animationduration", "duration":
			if d, err := time.ParseDuration(value); err == nil && d > 0 {
				config.AnimationDuration = d
			}
		case "levels_file", "levelsfile", "levels":
			config.LevelsFile = expandPath(value, homeDir)
		case "start_level", "startlevel", "level":
			config.StartLevel = value
		case "export_dir", "export_directory", "exportdir":
			config.ExportDirectory = expandPath(value, homeDir)
		case "pick_radius", "pickradius":
			if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
				config.PickRadius = f
			}
		}
	}

	return config, scanner.Err()
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

// GetExportPath places filename in the export directory, creating it if
// needed. With no export directory the name is returned unchanged.
func (c *Config) GetExportPath(filename string) string {
	if c.ExportDirectory == "" {
		return filename
	}
	os.MkdirAll(c.ExportDirectory, 0755)
	return filepath.Join(c.ExportDirectory, filename)
}

// SessionOptions maps the settings onto a game session.
func (c *Config) SessionOptions() game.Options {
	return game.Options{
		Epsilon:  c.Epsilon,
		Steps:    c.AnimationSteps,
		Duration: c.AnimationDuration,
	}
}

// StartIndex resolves StartLevel against cat. It accepts a level name or a
// zero-based index and falls back to the first level.
func (c *Config) StartIndex(cat *level.Catalog) int {
	if c.StartLevel == "" {
		return 0
	}
	if i := cat.Index(c.StartLevel); i >= 0 {
		return i
	}
	if i, err := strconv.Atoi(c.StartLevel); err == nil && i >= 0 && i < cat.Len() {
		return i
	}
	return 0
}
