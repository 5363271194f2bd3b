// nexus is a GPU-accelerated terminal/shell hybrid: a bubbletea TUI that
// runs commands through a block-oriented shell widget and an AI agent
// panel side by side.
//
// Usage:
//
//	nexus [flags]
//
// Flags:
//
//	-config=path     Path to configuration file (default: ~/.config/nexus/config.toml)
//	-verbose         Enable debug logging
//	-version         Print version and exit
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Deep-ai-inc/nexus-sub000/pkg/app"
	"github.com/Deep-ai-inc/nexus-sub000/pkg/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := ""
	verbose := false
	showVersion := false

	for _, arg := range os.Args[1:] {
		switch {
		case arg == "-version" || arg == "--version":
			showVersion = true
		case arg == "-verbose" || arg == "--verbose":
			verbose = true
		case len(arg) > 8 && arg[:8] == "-config=":
			configPath = arg[8:]
		}
	}

	if showVersion {
		fmt.Printf("nexus %s (%s)\n", version, commit)
		return nil
	}

	logger, closeLog, err := setupLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to determine working directory: %w", err)
	}

	logger.Info("starting nexus", "cwd", cwd, "theme", cfg.Theme.Name, "layout", cfg.Layout.Preset)

	model := app.NewAppModel(cfg, cwd, envMap())

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("nexus exited with error: %w", err)
	}
	return nil
}

// setupLogger builds a slog logger writing to ~/.cache/nexus/nexus.log.
// Logs don't also go to stderr since stderr is the alt-screen TUI here.
func setupLogger(verbose bool) (*slog.Logger, func() error, error) {
	home, _ := os.UserHomeDir()
	logDir := filepath.Join(home, ".cache", "nexus")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, err
	}

	logPath := filepath.Join(logDir, "nexus.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = f
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, f.Close, nil
}

// envMap snapshots the process environment into a map, the shape
// pkg/shell expects for seeding a shell widget's environment.
func envMap() map[string]string {
	env := os.Environ()
	m := make(map[string]string, len(env))
	for _, kv := range env {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				m[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return m
}
