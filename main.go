package main

import (
	"embed"
	"flag"
	"log"

	"github.com/chazu/tilt/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	rc := flag.String("config", "", "settings file (default ~/"+config.FileName+")")
	flag.Parse()

	var app *App
	var err error
	if *rc == "" {
		app, err = NewApp()
	} else {
		var cfg *config.Config
		if cfg, err = config.LoadFile(*rc); err == nil {
			app, err = newApp(cfg)
		}
	}
	if err != nil {
		log.Fatal(err)
	}

	err = wails.Run(&options.App{
		Title:            "Tilt",
		Width:            900,
		Height:           900,
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 1},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
