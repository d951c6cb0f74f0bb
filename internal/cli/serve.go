package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jkessling/reachview/pkg/cache"
	reacherrors "github.com/jkessling/reachview/pkg/errors"
	graphio "github.com/jkessling/reachview/pkg/io"
	"github.com/jkessling/reachview/pkg/pipeline"
)

// serveCommand creates the serve command for browsing a graph dump
// interactively.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the interactive viewer for a graph dump",
		Long: `Serve the interactive viewer for a graph dump.

The serve command loads a graph dump once and exposes the viewer over HTTP.
Query parameters (start, depth, direction) override the command-line values
per request, so different neighborhoods can be explored without restarting.

Endpoints:
  GET /              interactive HTML viewer
  GET /dataset.json  structured dataset
  GET /dot           layered DOT text
  GET /svg           rendered SVG image
  GET /graph.json    full parsed graph (interchange JSON)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], opts, addr, redisAddr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared artifact cache (default: local file cache)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Start, "start", "s", "", "start node id or label")
	cmd.Flags().IntVarP(&opts.Depth, "depth", "d", opts.Depth, "traversal depth limit")
	cmd.Flags().StringVar(&opts.Direction, "direction", opts.Direction, "edge direction to follow: both (default), out, in")
	cmd.Flags().BoolVar(&opts.EnabledOnly, "enabled-only", opts.EnabledOnly, "drop suspended and disabled edges before traversal")
	cmd.Flags().IntVar(&opts.MaxPerBand, "max-per-band", opts.MaxPerBand, "maximum nodes per rank band")

	return cmd
}

// newServeRunner builds the pipeline runner for the server. With --redis
// the artifact cache lives in Redis so several instances can share it;
// otherwise the regular file cache applies.
func (c *CLI) newServeRunner(ctx context.Context, redisAddr string, noCache bool) (*pipeline.Runner, error) {
	if redisAddr == "" {
		return c.newRunner(noCache)
	}
	store, err := cache.NewRedisCache(ctx, redisAddr)
	if err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", redisAddr, err)
	}
	return pipeline.NewRunner(store, c.Logger), nil
}

// server holds the state shared by the HTTP handlers.
type server struct {
	source string
	base   pipeline.Options
	runner *pipeline.Runner
}

// runServe starts the HTTP server and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, opts pipeline.Options, addr, redisAddr string, noCache bool) error {
	source, err := loadSource(ctx, input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	if opts.Start == "" {
		start, err := resolveStartValue(ctx, source, newHistory())
		if err != nil {
			return err
		}
		opts.Start = start
	}

	runner, err := c.newServeRunner(ctx, redisAddr, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	s := &server{source: source, base: opts, runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleArtifact(pipeline.FormatHTML, "text/html; charset=utf-8"))
	r.Get("/dataset.json", s.handleArtifact(pipeline.FormatJSON, "application/json"))
	r.Get("/dot", s.handleArtifact(pipeline.FormatDOT, "text/vnd.graphviz; charset=utf-8"))
	r.Get("/svg", s.handleArtifact(pipeline.FormatSVG, "image/svg+xml"))
	r.Get("/graph.json", s.handleGraph)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		printSuccess("Serving on http://%s", addr)
		printNextStep("Open", "http://"+addr+"/")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleArtifact builds a handler that runs the pipeline for the request's
// effective options and serves a single artifact format.
func (s *server) handleArtifact(format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		opts := s.base
		opts.Formats = []string{format}
		applyQuery(&opts, req)

		result, err := s.runner.Execute(req.Context(), s.source, opts)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(result.Artifacts[format])
	}
}

// handleGraph serves the full parsed graph in the JSON interchange form,
// independent of any extraction options.
func (s *server) handleGraph(w http.ResponseWriter, req *http.Request) {
	g, err := pipeline.ParseSource(s.source)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := graphio.WriteJSON(g, w); err != nil {
		writeError(w, err)
	}
}

// applyQuery overrides options from request query parameters.
func applyQuery(opts *pipeline.Options, req *http.Request) {
	q := req.URL.Query()
	if v := q.Get("start"); v != "" {
		opts.Start = v
	}
	if v := q.Get("depth"); v != "" {
		if depth, err := strconv.Atoi(v); err == nil {
			opts.Depth = depth
		}
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("enabled_only"); v != "" {
		opts.EnabledOnly = v == "true" || v == "1"
	}
}

// writeError maps pipeline errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch reacherrors.GetCode(err) {
	case reacherrors.ErrCodeInvalidInput, reacherrors.ErrCodeInvalidDirection,
		reacherrors.ErrCodeInvalidFormat, reacherrors.ErrCodeInvalidRankDir,
		reacherrors.ErrCodeInvalidEdgeLabel:
		status = http.StatusBadRequest
	case reacherrors.ErrCodeStartNotFound, reacherrors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}
