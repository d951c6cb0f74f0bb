// Package config loads reachview defaults from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/reachview/config.toml (falling back
// to ~/.config/reachview/config.toml) and provides defaults for traversal
// and rendering flags. Command-line flags always override file values; a
// missing file is not an error and simply yields the built-in defaults.
//
// Example:
//
//	depth = 3
//	direction = "out"
//	max_per_band = 30
//
//	[dot]
//	rankdir = "LR"
//	splines = "ortho"
//	nodesep = 0.5
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jkessling/reachview/pkg/traverse"
)

// appName is used for the config directory name.
const appName = "reachview"

// DOT holds rendering defaults for the layered DOT output.
type DOT struct {
	RankDir        string  `toml:"rankdir"`
	Splines        string  `toml:"splines"`
	NodeSep        float64 `toml:"nodesep"`
	RankSep        float64 `toml:"ranksep"`
	Concentrate    bool    `toml:"concentrate"`
	AllowOverlap   bool    `toml:"allow_overlap"`
	UsePorts       bool    `toml:"ports"`
	EdgeLabels     string  `toml:"edge_labels"`
	LevelEdgesOnly bool    `toml:"level_edges_only"`
	KeepCrossLevel bool    `toml:"keep_cross_level"` // disable cross-level de-emphasis
}

// Config is the full defaults file.
type Config struct {
	Depth       int    `toml:"depth"`
	Direction   string `toml:"direction"`
	MaxPerBand  int    `toml:"max_per_band"`
	EnabledOnly bool   `toml:"enabled_only"`
	DOT         DOT    `toml:"dot"`
}

// Default returns the built-in defaults used when no config file exists.
func Default() Config {
	return Config{
		Depth:      2,
		Direction:  "both",
		MaxPerBand: traverse.DefaultMaxPerBand,
		DOT: DOT{
			RankDir:    "TB",
			Splines:    "curved",
			NodeSep:    0.35,
			RankSep:    0.6,
			EdgeLabels: "status",
		},
	}
}

// Path returns the config file location following the XDG convention.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the defaults file at path, layering its values over the
// built-in defaults. A missing file returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadDefault reads the defaults file from the standard location.
// Any failure to locate the home directory falls back to the built-in
// defaults.
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}
