// Package pipeline provides the core extraction pipeline for reachview.
//
// This package implements the complete parse → extract → render pipeline
// that can be used by the CLI and the local server. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read node and edge records from the graph dump text
//  2. Extract: Walk the depth-bounded neighborhood around the start node
//     and partition its levels into bands
//  3. Render: Generate output artifacts (DOT, dataset JSON, HTML, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Start:   "102",
//	    Depth:   2,
//	    Formats: []string{"dot", "html"},
//	}
//	result, err := runner.Execute(ctx, sourceText, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dot := result.Artifacts["dot"]
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/jkessling/reachview/pkg/errors"
	"github.com/jkessling/reachview/pkg/graph"
	"github.com/jkessling/reachview/pkg/render"
	"github.com/jkessling/reachview/pkg/traverse"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultDepth is the default traversal radius around the start node.
	// Two hops keeps the extracted picture readable for dense graphs while
	// still showing the immediate blast area.
	DefaultDepth = 2

	// DefaultDirection is the default edge-following mode.
	DefaultDirection = "both"
)

// Format constants for output artifacts.
const (
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatJSON: true,
	FormatHTML: true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the extraction pipeline.
// This struct supports JSON serialization for server requests, and its
// serialized form participates in artifact cache keys.
type Options struct {
	// Extract options
	Start       string `json:"start"`
	Depth       int    `json:"depth,omitempty"`
	Direction   string `json:"direction,omitempty"`
	EnabledOnly bool   `json:"enabled_only,omitempty"`
	MaxPerBand  int    `json:"max_per_band,omitempty"`

	// DOT options
	RankDir        string  `json:"rankdir,omitempty"`
	EdgeLabels     string  `json:"edge_labels,omitempty"`
	Splines        string  `json:"splines,omitempty"`
	AllowOverlap   bool    `json:"allow_overlap,omitempty"`
	Concentrate    bool    `json:"concentrate,omitempty"`
	NodeSep        float64 `json:"nodesep,omitempty"`
	RankSep        float64 `json:"ranksep,omitempty"`
	Ports          bool    `json:"ports,omitempty"`
	LevelEdgesOnly bool    `json:"level_edges_only,omitempty"`
	KeepCross      bool    `json:"keep_cross,omitempty"` // keep cross-band edges at full strength

	// Render options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed input graph (after the enabled-only filter, when
	// requested).
	Graph *graph.Graph

	// SourceHash is the content hash of the raw input text.
	SourceHash string

	// StartID is the resolved numeric id of the start node.
	StartID int

	// Neighborhood is the depth-bounded extraction around StartID.
	Neighborhood *traverse.Neighborhood

	// Bands is the capped partition of the neighborhood levels.
	Bands *traverse.Bands

	// Edges is the merged edge list restricted to the visited set.
	Edges []graph.Edge

	// Dataset is the structured form consumed by the HTML viewer.
	Dataset *render.Dataset

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains size information.
	Stats Stats

	// CacheInfo tracks whether artifacts came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int // nodes in the parsed graph
	EdgeCount    int // edges in the parsed graph
	VisitedCount int // nodes in the extracted neighborhood
	VisibleEdges int // edges kept after filtering and merging
	LevelCount   int // BFS levels including level 0
	BandCount    int // bands after the per-band cap
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: dot, json, html, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Start == "" {
		return errors.New(errors.ErrCodeInvalidInput, "start node is required")
	}
	if _, err := traverse.ParseDirection(o.Direction); err != nil {
		return err
	}
	if o.RankDir != "" {
		if err := render.ValidateRankDir(o.RankDir); err != nil {
			return err
		}
	}
	if o.EdgeLabels != "" {
		if _, err := render.ParseEdgeLabelMode(o.EdgeLabels); err != nil {
			return err
		}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Depth < 0 {
		o.Depth = 0
	}
	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if o.MaxPerBand == 0 {
		o.MaxPerBand = traverse.DefaultMaxPerBand
	}
	if o.RankDir == "" {
		o.RankDir = "TB"
	}
	if o.EdgeLabels == "" {
		o.EdgeLabels = string(render.EdgeLabelsStatus)
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatDOT}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// DirectionValue returns the parsed direction. Options must have been
// validated first.
func (o *Options) DirectionValue() traverse.Direction {
	d, _ := traverse.ParseDirection(o.Direction)
	return d
}

// DOTOptions converts the flat option fields into the renderer's option
// struct.
func (o *Options) DOTOptions() render.DOTOptions {
	opts := render.DefaultDOTOptions()
	opts.RankDir = o.RankDir
	opts.EdgeLabels = render.EdgeLabelMode(o.EdgeLabels)
	if o.Splines != "" {
		opts.Splines = o.Splines
	}
	opts.NoOverlap = !o.AllowOverlap
	opts.Concentrate = o.Concentrate
	if o.NodeSep > 0 {
		opts.NodeSep = o.NodeSep
	}
	if o.RankSep > 0 {
		opts.RankSep = o.RankSep
	}
	opts.UsePorts = o.Ports
	opts.LevelEdgesOnly = o.LevelEdgesOnly
	opts.DeemphasizeCross = !o.KeepCross
	return opts
}

// artifactKeyOpts returns the option subset that affects rendered output.
// Runtime-only fields and Refresh are excluded so a refreshed run writes
// back under the same key it would otherwise read.
func (o *Options) artifactKeyOpts(format string) map[string]any {
	return map[string]any{
		"format":           format,
		"start":            o.Start,
		"depth":            o.Depth,
		"direction":        o.Direction,
		"enabled_only":     o.EnabledOnly,
		"max_per_band":     o.MaxPerBand,
		"rankdir":          o.RankDir,
		"edge_labels":      o.EdgeLabels,
		"splines":          o.Splines,
		"allow_overlap":    o.AllowOverlap,
		"concentrate":      o.Concentrate,
		"nodesep":          o.NodeSep,
		"ranksep":          o.RankSep,
		"ports":            o.Ports,
		"level_edges_only": o.LevelEdgesOnly,
		"keep_cross":       o.KeepCross,
	}
}
