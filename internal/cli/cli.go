// Package cli implements the reachview command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jkessling/reachview/pkg/buildinfo"
	"github.com/jkessling/reachview/pkg/cache"
	"github.com/jkessling/reachview/pkg/config"
	"github.com/jkessling/reachview/pkg/history"
	"github.com/jkessling/reachview/pkg/httputil"
	"github.com/jkessling/reachview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "reachview"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the user's
// config file applied (defaults when no file exists).
func New(w io.Writer, level log.Level) *CLI {
	cfg, err := config.LoadDefault()
	if err != nil {
		cfg = config.Default()
	}
	c := &CLI{
		Logger: newLogger(w, level),
		Config: cfg,
	}
	if err != nil {
		c.Logger.Warn("ignoring unreadable config file", "err", err)
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "reachview",
		Short:        "Reachview extracts and visualizes graph neighborhoods",
		Long:         `Reachview is a CLI tool for exploring large directed graphs: it extracts the depth-bounded neighborhood around a node of interest and renders it as a layered DOT diagram, an interactive HTML viewer, or an image.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Make the logger reachable from any context-taking helper.
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/reachview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Run History
// =============================================================================

// newHistory opens the run-history store. History is a convenience; any
// failure degrades to not remembering runs.
func newHistory() *history.Store {
	store, err := history.NewStore("")
	if err != nil {
		return nil
	}
	return store
}

// resolveStartValue picks a start node when none was given on the command
// line: the last recorded run for this dump wins, then the interactive
// picker.
func resolveStartValue(ctx context.Context, source string, store *history.Store) (string, error) {
	if store != nil {
		entry, err := store.Get(ctx, cache.Hash([]byte(source)))
		if err != nil {
			loggerFromContext(ctx).Debug("run history unreadable", "err", err)
		}
		if err == nil && entry != nil && entry.Start != "" {
			printInfo("Reusing start node %s from the previous run", entry.Start)
			return entry.Start, nil
		}
	}
	return pickStart(source)
}

// recordRun stores the run parameters for the next invocation.
func recordRun(ctx context.Context, store *history.Store, source string, opts pipeline.Options) {
	if store == nil {
		return
	}
	err := store.Set(ctx, history.Entry{
		SourceHash: cache.Hash([]byte(source)),
		Start:      opts.Start,
		Depth:      opts.Depth,
		Direction:  opts.Direction,
	})
	if err != nil {
		loggerFromContext(ctx).Debug("run history not recorded", "err", err)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// newOptions builds pipeline options seeded from the config file. Flag
// bindings overwrite these values when the user passes them explicitly.
func (c *CLI) newOptions() pipeline.Options {
	cfg := c.Config
	return pipeline.Options{
		Depth:          cfg.Depth,
		Direction:      cfg.Direction,
		EnabledOnly:    cfg.EnabledOnly,
		MaxPerBand:     cfg.MaxPerBand,
		RankDir:        cfg.DOT.RankDir,
		EdgeLabels:     cfg.DOT.EdgeLabels,
		Splines:        cfg.DOT.Splines,
		AllowOverlap:   cfg.DOT.AllowOverlap,
		Concentrate:    cfg.DOT.Concentrate,
		NodeSep:        cfg.DOT.NodeSep,
		RankSep:        cfg.DOT.RankSep,
		Ports:          cfg.DOT.UsePorts,
		LevelEdgesOnly: cfg.DOT.LevelEdgesOnly,
		KeepCross:      cfg.DOT.KeepCrossLevel,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatDOT}
	}
	return strings.Split(s, ",")
}

// loadSource reads the graph dump from path: a local file, an HTTP(S)
// URL, or stdin when path is "-".
func loadSource(ctx context.Context, path string) (string, error) {
	switch {
	case path == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case httputil.IsURL(path):
		data, err := httputil.Fetch(ctx, path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
