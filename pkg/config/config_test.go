package config

import (
	"strings"
	"testing"
)

func TestLoadFromReaderDefaultsWhenEmpty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Theme.Name != "default" {
		t.Errorf("Theme.Name = %q, want default", cfg.Theme.Name)
	}
	if cfg.Layout.Preset != "default" {
		t.Errorf("Layout.Preset = %q, want default", cfg.Layout.Preset)
	}
}

func TestLoadFromReaderOverridesTheme(t *testing.T) {
	toml := `
[theme]
name = "nord"

[layout]
preset = "focus-shell"
`
	cfg, err := LoadFromReader(strings.NewReader(toml))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Theme.Name != "nord" {
		t.Errorf("Theme.Name = %q, want nord", cfg.Theme.Name)
	}
	if cfg.Layout.Preset != "focus-shell" {
		t.Errorf("Layout.Preset = %q, want focus-shell", cfg.Layout.Preset)
	}
}

func TestLoadFromReaderBadTOML(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("not = [valid")); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}

func TestDefaultConfigShellDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Shell.DefaultShell == "" {
		t.Error("Shell.DefaultShell should have a default")
	}
	if cfg.Shell.ScrollbackBlocks <= 0 {
		t.Error("Shell.ScrollbackBlocks should default positive")
	}
}

func TestPresetFallsBackToDefault(t *testing.T) {
	p := Preset("unknown-preset-name")
	if len(p.Panes) != len(defaultPreset().Panes) {
		t.Errorf("unknown preset should fall back to default, got %+v", p)
	}
}

func TestPresetFocusShellSinglePane(t *testing.T) {
	p := Preset("focus-shell")
	if len(p.Panes) != 1 || p.Panes[0] != "history" {
		t.Errorf("focus-shell should have a single history pane, got %+v", p.Panes)
	}
}
