package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkessling/reachview/pkg/pipeline"
)

// renderCommand creates the render command, the main entry point for
// turning a graph dump into visual artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
		keepCross  bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a node neighborhood from a graph dump",
		Long: `Render a node neighborhood from a graph dump.

The render command parses a DOT-like graph dump, extracts the depth-bounded
neighborhood around the start node, and writes the requested artifacts.
Pass "-" as the file to read the dump from stdin.

When --start is omitted and the session is interactive, a picker lists the
graph's nodes for selection.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			opts.KeepCross = keepCross
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), json, html, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute artifacts even when cached")

	// Extraction flags
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node id or label")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", opts.Depth, "traversal depth limit")
	cmd.Flags().StringVar(&opts.Direction, "direction", opts.Direction, "edge direction to follow: both (default), out, in")
	cmd.Flags().BoolVar(&opts.EnabledOnly, "enabled-only", opts.EnabledOnly, "drop suspended and disabled edges before traversal")
	cmd.Flags().IntVar(&opts.MaxPerBand, "max-per-band", opts.MaxPerBand, "maximum nodes per rank band")

	// DOT flags
	cmd.Flags().StringVar(&opts.RankDir, "rankdir", opts.RankDir, "hierarchy direction: TB (default), LR, BT, RL")
	cmd.Flags().StringVar(&opts.EdgeLabels, "edge-labels", opts.EdgeLabels, "edge label detail: status (default), full, none")
	cmd.Flags().StringVar(&opts.Splines, "splines", opts.Splines, "Graphviz splines setting")
	cmd.Flags().BoolVar(&opts.AllowOverlap, "allow-overlap", opts.AllowOverlap, "allow node overlap in the layout")
	cmd.Flags().BoolVar(&opts.Concentrate, "concentrate", opts.Concentrate, "merge parallel edge runs")
	cmd.Flags().Float64Var(&opts.NodeSep, "nodesep", opts.NodeSep, "separation between nodes in a rank")
	cmd.Flags().Float64Var(&opts.RankSep, "ranksep", opts.RankSep, "separation between ranks")
	cmd.Flags().BoolVar(&opts.Ports, "ports", opts.Ports, "pin edge endpoints to rankdir-derived ports")
	cmd.Flags().BoolVar(&opts.LevelEdgesOnly, "level-edges-only", opts.LevelEdgesOnly, "drop edges that skip bands")
	cmd.Flags().BoolVar(&keepCross, "keep-cross", opts.KeepCross, "keep cross-band edges at full strength")

	return cmd
}

// runRender executes the pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	source, err := loadSource(ctx, input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	hist := newHistory()
	if opts.Start == "" {
		start, err := resolveStartValue(ctx, source, hist)
		if err != nil {
			return err
		}
		opts.Start = start
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Extracting around %s...", opts.Start))
	spinner.Start()
	unwatch := watchStages(spinner)
	defer unwatch()

	result, err := runner.Execute(ctx, source, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, format := range opts.Formats {
		if _, ok := result.Artifacts[format]; !ok {
			printWarning("Skipped %s output: render engine failed", format)
		}
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	recordRun(ctx, hist, source, opts)

	printSuccess("Rendered neighborhood of node %d", result.StartID)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.VisitedCount, result.Stats.VisibleEdges, result.CacheInfo.RenderHit)

	if hasFormat(opts.Formats, pipeline.FormatHTML) {
		for _, p := range paths {
			if strings.HasSuffix(p, ".html") {
				printNewline()
				printNextStep("Open", p)
			}
		}
	}

	return nil
}

// hasFormat reports whether format is in formats.
func hasFormat(formats []string, format string) bool {
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input; stdin input
// falls back to "reachview". A known format extension on output is
// stripped so multiple formats can share the base.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each requested format to its own file and returns
// the written paths. A single format with an explicit output path keeps
// that exact path; otherwise paths are derived as base.format.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	single := len(formats) == 1 && output != "" && filepath.Ext(output) != ""

	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := output
		if !single {
			path = basePath(output, input) + "." + format
		}

		out, err := openOutput(path)
		if err != nil {
			return nil, err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return nil, err
		}
		if err := out.Close(); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
