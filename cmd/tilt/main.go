// Command tilt plays the balance-board puzzle in the terminal.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chazu/tilt/pkg/config"
	"github.com/chazu/tilt/pkg/engine"
	"github.com/chazu/tilt/pkg/game"
	"github.com/chazu/tilt/pkg/tui"
)

func main() {
	rc := flag.String("config", "", "settings file (default ~/"+config.FileName+")")
	levels := flag.String("levels", "", "level source file (default: built-in levels)")
	start := flag.String("level", "", "level to start on, by name or index")
	list := flag.Bool("list", false, "list the levels and exit")
	flag.Parse()

	cfg := config.Load()
	if *rc != "" {
		var err error
		if cfg, err = config.LoadFile(*rc); err != nil {
			log.Fatal(err)
		}
	}
	if *levels != "" {
		cfg.LevelsFile = *levels
	}
	if *start != "" {
		cfg.StartLevel = *start
	}

	// stdout belongs to the TUI.
	if os.Getenv("TILT_DEBUG") != "" {
		f, err := tea.LogToFile("tilt-debug.log", "tilt")
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	eng := engine.NewEngine()
	eng.SetEpsilon(cfg.Epsilon)
	cat, err := eng.LoadFile(cfg.LevelsFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *list {
		for i, name := range cat.Names() {
			l, _ := cat.At(i)
			fmt.Printf("%2d  %-10s par %d\n", i, name, l.Par)
		}
		return
	}

	s := game.New(cat, cfg.SessionOptions())
	if err := s.PlayLevel(cfg.StartIndex(cat)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := tui.Run(s, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
