package io

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jkessling/reachview/pkg/graph"
)

type document struct {
	Nodes []node `json:"nodes"`
	Edges []edge `json:"edges"`
}

type node struct {
	ID    int    `json:"id"`
	Label string `json:"label,omitempty"`
}

type edge struct {
	From  int    `json:"from"`
	To    int    `json:"to"`
	Label string `json:"label,omitempty"`
}

// LooksLikeJSON reports whether source appears to be interchange JSON
// rather than a DOT-like text dump.
func LooksLikeJSON(source string) bool {
	return strings.HasPrefix(strings.TrimSpace(source), "{")
}

// ReadJSON decodes an interchange document from r into a graph.
// Edge statuses are derived from the edge labels the same way the text
// parser derives them. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var doc document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode graph json: %w", err)
	}

	labels := make(map[int]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if existing, ok := labels[n.ID]; ok && existing != "" {
			continue // first non-empty label wins, like the text parser
		}
		labels[n.ID] = n.Label
	}

	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, e := range doc.Edges {
		raw := strings.TrimSpace(e.Label)
		edges = append(edges, graph.Edge{
			From:     e.From,
			To:       e.To,
			RawLabel: raw,
			Status:   graph.ClassifyLabel(raw),
		})
	}

	return graph.New(labels, edges), nil
}

// WriteJSON encodes a graph as an interchange document and writes it to w.
// Nodes appear in ascending id order; edges keep their declaration order.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	doc := document{
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}

	for _, id := range g.NodeIDs() {
		n := node{ID: id}
		if label, ok := g.Label(id); ok {
			n.Label = label
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edge{From: e.From, To: e.To, Label: e.RawLabel})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode graph json: %w", err)
	}
	return nil
}
