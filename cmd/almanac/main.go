package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // IANA zones on systems without a zoneinfo database

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	app := ui.NewApp(cfg, nil)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
