package main

import (
	"embed"
	"log"
	"os"

	"github.com/chazu/kerf/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// configPath is read from KERF_CONFIG, defaulting to kerf.toml in the
// working directory. A missing file means defaults.
func configPath() string {
	if p := os.Getenv("KERF_CONFIG"); p != "" {
		return p
	}
	return "kerf.toml"
}

func main() {
	settings, err := config.Load(configPath())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := NewAppWithSettings(settings)
	err = wails.Run(&options.App{
		Title:     "kerf",
		Width:     1280,
		Height:    800,
		OnStartup: app.startup,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Bind: []interface{}{app},
	})
	if err != nil {
		log.Fatalf("wails: %v", err)
	}
}
