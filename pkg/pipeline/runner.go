package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/jkessling/reachview/pkg/cache"
	"github.com/jkessling/reachview/pkg/errors"
	"github.com/jkessling/reachview/pkg/graph"
	graphio "github.com/jkessling/reachview/pkg/io"
	"github.com/jkessling/reachview/pkg/observability"
	"github.com/jkessling/reachview/pkg/render"
	"github.com/jkessling/reachview/pkg/traverse"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the local server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute runs the complete parse → extract → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, source string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		SourceHash: cache.Hash([]byte(source)),
		Artifacts:  make(map[string][]byte),
	}

	// Stage 1: Parse
	g, err := ParseSource(source)
	if err != nil {
		return nil, err
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	observability.Pipeline().OnParseComplete(ctx, g.NodeCount(), g.EdgeCount())

	opts.Logger.Info("parsed graph dump",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())

	if opts.EnabledOnly {
		g = g.EnabledOnly()
		opts.Logger.Debug("dropped non-enabled edges",
			"remaining", g.EdgeCount())
	}
	result.Graph = g

	// Stage 2: Extract
	start, err := g.ResolveStart(opts.Start)
	if err != nil {
		return nil, err
	}
	result.StartID = start

	observability.Pipeline().OnExtractStart(ctx, start, opts.Depth)
	extractBegan := time.Now()
	hood, bands, edges := Extract(g, start, opts)
	observability.Pipeline().OnExtractComplete(ctx, start, len(hood.Visited), time.Since(extractBegan))
	result.Neighborhood = hood
	result.Bands = bands
	result.Edges = edges
	result.Stats.VisitedCount = len(hood.Visited)
	result.Stats.VisibleEdges = len(edges)
	result.Stats.LevelCount = len(hood.Levels)
	result.Stats.BandCount = len(bands.Groups)

	opts.Logger.Info("extracted neighborhood",
		"start", start,
		"depth", opts.Depth,
		"direction", opts.Direction,
		"visited", len(hood.Visited),
		"levels", len(hood.Levels))

	// The dataset is always built; the HTML artifact and the local server
	// both consume it.
	sub := render.Subgraph{
		Source:       g,
		Edges:        edges,
		Neighborhood: hood,
		Bands:        bands,
	}
	result.Dataset = render.BuildDataset(sub)

	// Stage 3: Render
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, sub, result.Dataset, result.SourceHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit

	opts.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cache_hit", hit)

	return result, nil
}

// ParseSource builds a graph from source text in either supported input
// format. JSON interchange documents are detected by sniffing; everything
// else goes through the non-failing text parser.
func ParseSource(source string) (*graph.Graph, error) {
	if graphio.LooksLikeJSON(source) {
		g, err := graphio.ReadJSON(strings.NewReader(source))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse graph json")
		}
		return g, nil
	}
	return graph.Parse(source), nil
}

// Extract runs the traversal stage: neighborhood walk, edge filtering and
// merging, and band partitioning. The returned edge list is restricted to
// the visited set with opposite-direction pairs collapsed.
func Extract(g *graph.Graph, start int, opts Options) (*traverse.Neighborhood, *traverse.Bands, []graph.Edge) {
	adj := traverse.BuildAdjacency(g.Edges())
	hood := traverse.Extract(adj, start, opts.Depth, opts.DirectionValue())
	bands := traverse.Partition(hood.Levels, opts.MaxPerBand)

	edges := graph.FilterToNodes(g.Edges(), hood.Visited)
	edges = graph.MergeBidirectional(edges)
	return hood, bands, edges
}

// RenderWithCacheInfo produces the requested artifacts, consulting the
// cache per format, and reports whether every artifact was served from
// cache. SVG and PNG rendering is the expensive part; DOT, JSON and HTML
// are cheap but cached anyway so the hit report stays uniform.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, sub render.Subgraph, dataset *render.Dataset, sourceHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	allCached := true
	if opts.Refresh {
		allCached = false
	} else {
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(sourceHash, opts.artifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderBegan := time.Now()
	rendered, err := r.renderAll(ctx, sub, dataset, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderBegan), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := cache.ArtifactKey(sourceHash, opts.artifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Image rendering goes through these indirections so an engine failure
// can be simulated; the in-process engine accepts any DOT we emit.
var (
	renderSVG = render.SVG
	renderPNG = render.PNG
)

// renderAll produces every requested format from scratch. The DOT text is
// computed once and shared by the image formats. An image-engine failure
// is downgraded to a warning and the format is skipped; the text formats
// are always produced.
func (r *Runner) renderAll(ctx context.Context, sub render.Subgraph, dataset *render.Dataset, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needDOT := func() string {
		if dot == "" {
			dot = render.DOT(sub, opts.DOTOptions())
		}
		return dot
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			artifacts[format] = []byte(needDOT())
		case FormatJSON:
			data, err := render.MarshalDataset(dataset)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatHTML:
			data, err := render.HTML(dataset)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatSVG:
			data, err := renderSVG(ctx, needDOT())
			if err != nil {
				opts.Logger.Warn("svg render failed, skipping", "error", err)
				continue
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := renderPNG(ctx, needDOT())
			if err != nil {
				opts.Logger.Warn("png render failed, skipping", "error", err)
				continue
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
