// Command tilt-export renders the starting position of every level to PNG,
// or with -check reports lane layout problems in a level file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chazu/tilt/pkg/board"
	"github.com/chazu/tilt/pkg/config"
	"github.com/chazu/tilt/pkg/engine"
	"github.com/chazu/tilt/pkg/snapshot"
)

func main() {
	levels := flag.String("levels", "", "level source file (default: built-in levels)")
	out := flag.String("out", "", "output directory (default: export_dir setting)")
	size := flag.Int("size", snapshot.DefaultOptions.Size, "image size in pixels")
	check := flag.Bool("check", false, "only report layout warnings")
	strict := flag.Bool("strict", false, "with -check, fail on warnings too")
	flag.Parse()

	cfg := config.Load()
	if *levels != "" {
		cfg.LevelsFile = *levels
	}
	if *out != "" {
		cfg.ExportDirectory = *out
	}

	eng := engine.NewEngine()
	eng.SetEpsilon(cfg.Epsilon)
	cat, err := eng.LoadFile(cfg.LevelsFile)
	if err != nil {
		log.Fatal(err)
	}

	if *check {
		warnings := engine.Lint(cat, cfg.Epsilon)
		for _, w := range warnings {
			fmt.Println(w)
		}
		if engine.HasErrors(warnings) || (*strict && len(warnings) > 0) {
			os.Exit(1)
		}
		return
	}

	opts := snapshot.DefaultOptions
	opts.Size = *size
	for i := 0; i < cat.Len(); i++ {
		l, _ := cat.At(i)
		b, err := l.Build(board.WithEpsilon(cfg.Epsilon))
		if err != nil {
			log.Fatal(err)
		}
		f := snapshot.Frame{
			Board:    b,
			Centroid: b.Center,
			Title:    fmt.Sprintf("%s  par %d", l.Name, l.Par),
		}
		path := cfg.GetExportPath(fmt.Sprintf("%02d-%s.png", i+1, strings.ToLower(l.Name)))
		if err := snapshot.ExportPNG(path, f, opts); err != nil {
			log.Fatalf("%s: %v", l.Name, err)
		}
		fmt.Println(path)
	}
}
