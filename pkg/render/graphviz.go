package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/jkessling/reachview/pkg/errors"
)

// SVG renders a DOT graph to SVG using the in-process Graphviz engine.
// Rendering is a downstream, best-effort step: callers treat a failure
// here as a warning, not as pipeline failure.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using the in-process Graphviz engine.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}

	out := buf.Bytes()
	if format == graphviz.SVG {
		out = normalizeViewBox(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at
// the origin and the width/height match it, which keeps the output stable
// across Graphviz versions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
