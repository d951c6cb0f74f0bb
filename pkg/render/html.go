package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
)

// The viewer page is embedded directly into the binary so the generated
// HTML is fully standalone (apart from the vis-network CDN script).
//
//go:embed viewer.html.tmpl
var viewerSource string

var viewerTmpl = template.Must(template.New("viewer").Parse(viewerSource))

// HTML renders the interactive viewer page for a dataset. The dataset is
// embedded as JSON; all layout and interaction logic lives in the page
// itself, so the output needs no server to work.
func HTML(d *Dataset) ([]byte, error) {
	nodes, err := json.Marshal(d.Nodes)
	if err != nil {
		return nil, fmt.Errorf("marshal nodes: %w", err)
	}
	edges, err := json.Marshal(d.Edges)
	if err != nil {
		return nil, fmt.Errorf("marshal edges: %w", err)
	}
	names, err := json.Marshal(d.OriginalNames)
	if err != nil {
		return nil, fmt.Errorf("marshal names: %w", err)
	}

	var buf bytes.Buffer
	err = viewerTmpl.Execute(&buf, map[string]any{
		"RunID":           d.RunID,
		"Start":           d.Start,
		"Nodes":           template.JS(nodes),
		"Edges":           template.JS(edges),
		"OriginalNames":   template.JS(names),
		"NodeSpacing":     d.NodeSpacing,
		"LevelSeparation": d.LevelSeparation,
	})
	if err != nil {
		return nil, fmt.Errorf("execute viewer template: %w", err)
	}
	return buf.Bytes(), nil
}
