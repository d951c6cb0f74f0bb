package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkessling/reachview/pkg/graph"
	"github.com/jkessling/reachview/pkg/pipeline"
)

// extractCommand creates the extract command for inspecting a neighborhood
// without rendering it.
func (c *CLI) extractCommand() *cobra.Command {
	var (
		output  string
		asJSON  bool
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Extract a node neighborhood and print its levels",
		Long: `Extract a node neighborhood and print its levels.

The extract command parses a DOT-like graph dump and walks the depth-bounded
neighborhood around the start node, printing each BFS level with its node
labels and an edge status summary. Pass "-" as the file to read from stdin.

Use --json to write the structured dataset instead of the level listing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExtract(cmd.Context(), args[0], opts, output, asJSON, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for --json (default: stdout)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the structured dataset as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node id or label")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", opts.Depth, "traversal depth limit")
	cmd.Flags().StringVar(&opts.Direction, "direction", opts.Direction, "edge direction to follow: both (default), out, in")
	cmd.Flags().BoolVar(&opts.EnabledOnly, "enabled-only", opts.EnabledOnly, "drop suspended and disabled edges before traversal")
	cmd.Flags().IntVar(&opts.MaxPerBand, "max-per-band", opts.MaxPerBand, "maximum nodes per rank band")

	return cmd
}

// runExtract executes the traversal stages and reports the result.
func (c *CLI) runExtract(ctx context.Context, input string, opts pipeline.Options, output string, asJSON, noCache bool) error {
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

	if asJSON {
		opts.Formats = []string{pipeline.FormatJSON}
	} else {
		// The level listing needs no artifacts; DOT is the cheapest.
		opts.Formats = []string{pipeline.FormatDOT}
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, source, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Extracted %d nodes across %d levels",
		result.Stats.VisitedCount, result.Stats.LevelCount))
	recordRun(ctx, hist, source, opts)

	if asJSON {
		out, err := openOutput(output)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := out.Write(result.Artifacts[pipeline.FormatJSON]); err != nil {
			return err
		}
		if output != "" {
			printSuccess("Wrote dataset")
			printFile(output)
		}
		return nil
	}

	printLevels(result)
	printEdgeSummary(result.Edges)
	return nil
}

// printLevels lists each BFS level with node ids and labels.
func printLevels(result *pipeline.Result) {
	printNewline()
	fmt.Println(StyleTitle.Render(fmt.Sprintf("Neighborhood of node %d", result.StartID)))
	for i, level := range result.Neighborhood.Levels {
		printInfo("level %d (%d nodes)", i, len(level))
		for _, id := range level {
			label := result.Graph.DisplayLabel(id)
			printDetail("%d  %s", id, label)
		}
	}
}

// printEdgeSummary prints per-status counts over the visible edge list.
func printEdgeSummary(edges []graph.Edge) {
	counts := map[graph.Status]int{}
	bidi := 0
	for _, e := range edges {
		counts[e.Status]++
		if e.Bidirectional {
			bidi++
		}
	}

	printNewline()
	parts := []string{
		styleStatusEnabled.Render(fmt.Sprintf("%d enabled", counts[graph.StatusEnabled])),
		styleStatusSuspended.Render(fmt.Sprintf("%d suspended", counts[graph.StatusSuspended])),
		styleStatusDisabled.Render(fmt.Sprintf("%d disabled", counts[graph.StatusDisabled])),
	}
	if bidi > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d bidirectional", bidi)))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
