package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jkessling/reachview/pkg/traverse"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Depth != 2 {
		t.Errorf("Depth = %d, want 2", cfg.Depth)
	}
	if cfg.Direction != "both" {
		t.Errorf("Direction = %q, want both", cfg.Direction)
	}
	if cfg.MaxPerBand != traverse.DefaultMaxPerBand {
		t.Errorf("MaxPerBand = %d, want %d", cfg.MaxPerBand, traverse.DefaultMaxPerBand)
	}
	if cfg.DOT.RankDir != "TB" || cfg.DOT.Splines != "curved" {
		t.Errorf("DOT defaults = %+v", cfg.DOT)
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Depth != Default().Depth {
		t.Errorf("missing file should yield defaults, got %+v", cfg)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
depth = 4
direction = "out"

[dot]
rankdir = "LR"
nodesep = 0.5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Depth != 4 || cfg.Direction != "out" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.DOT.RankDir != "LR" || cfg.DOT.NodeSep != 0.5 {
		t.Errorf("dot section not applied: %+v", cfg.DOT)
	}
	// Untouched fields keep their defaults.
	if cfg.MaxPerBand != traverse.DefaultMaxPerBand {
		t.Errorf("MaxPerBand = %d, want default", cfg.MaxPerBand)
	}
	if cfg.DOT.Splines != "curved" {
		t.Errorf("Splines = %q, want default", cfg.DOT.Splines)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("depth = ["), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Error("invalid TOML should return an error")
	}
	// The caller still gets usable defaults.
	if cfg.Depth != Default().Depth {
		t.Errorf("invalid file should fall back to defaults, got %+v", cfg)
	}
}

func TestPathRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	want := filepath.Join("/tmp/xdg-test", "reachview", "config.toml")
	if path != want {
		t.Errorf("Path = %q, want %q", path, want)
	}
}
