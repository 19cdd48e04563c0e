// scene3d walks a player camera over procedurally generated terrain.
//
// Usage:
//
//	scene3d [-config file.json] [-scene scene.json] [-tui] [-frames N] [-cpuprofile dir]
//
// Without -tui it opens a raylib window; with -tui it draws a top-down map
// in the terminal and logs to scene3d.log unless -log is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"scene3d/internal/config"
	"scene3d/internal/game"
	"scene3d/internal/render"
	"scene3d/internal/scenefile"
	"scene3d/internal/tui"
	"strings"
	"syscall"

	"github.com/pkg/profile"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSON config file (defaults built in)")
	scenePath := flag.String("scene", "", "Path to a JSON scene file (default scene built in)")
	useTUI := flag.Bool("tui", false, "Draw in the terminal instead of a window")
	frames := flag.Uint64("frames", 0, "Stop after this many frames (0 = run until quit)")
	cpuProfile := flag.String("cpuprofile", "", "Write a CPU profile into this directory")
	logPath := flag.String("log", "", "Write logs to this file instead of stderr")
	flag.Parse()

	// Paths given on the command line are relative to where we were started.
	for _, p := range []*string{configPath, scenePath, logPath, cpuProfile} {
		if *p != "" {
			if abs, err := filepath.Abs(*p); err == nil {
				*p = abs
			}
		}
	}

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			_ = os.Chdir(execDir)
		}
	}

	if *cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*cpuProfile), profile.NoShutdownHook).Stop()
	}

	if err := run(*configPath, *scenePath, *logPath, *useTUI, *frames); err != nil {
		fmt.Fprintf(os.Stderr, "scene3d: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, scenePath, logPath string, useTUI bool, frames uint64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if useTUI && logPath == "" {
		logPath = "scene3d.log"
	}
	var out io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level()}))
	logger.Info("starting",
		"config", configPath, "scene", scenePath, "tui", useTUI,
		"terrain", fmt.Sprintf("%dx%d", cfg.Terrain.Width, cfg.Terrain.Height), "seed", cfg.Terrain.Seed)

	sf := scenefile.Default()
	if scenePath != "" {
		if sf, err = scenefile.Load(scenePath); err != nil {
			return err
		}
	}

	var backend game.Backend
	if useTUI {
		backend, err = tui.Open(cfg, logger)
	} else {
		backend, err = render.Open(cfg, logger)
	}
	if err != nil {
		return err
	}

	g, err := game.New(cfg, backend, sf, logger)
	if err != nil {
		return err
	}
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return g.Run(ctx, frames)
}
