// Package io provides JSON import and export for graph dumps.
//
// # Overview
//
// The primary input format is the DOT-like text dump, but tools that
// generate dumps programmatically are better served by structured JSON.
// This package defines a simple interchange format accepted everywhere a
// text dump is:
//
//	{
//	  "nodes": [
//	    {"id": 0, "label": "Gateway"},
//	    {"id": 1, "label": "Auth"}
//	  ],
//	  "edges": [
//	    {"from": 0, "to": 1, "label": "E"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Numeric node identifier
//
// Optional:
//   - label: Display label (the decimal id is shown if omitted)
//
// # Edge Fields
//
// Required:
//   - from, to: Node ids. Ids not present in the nodes array still
//     register, matching the text parser's behavior.
//
// Optional:
//   - label: Raw edge label; its first pipe-separated segment determines
//     the edge status (Enabled/Suspended/Disabled)
//
// # Import
//
// Use [ReadJSON] to read a graph from any io.Reader, and [LooksLikeJSON]
// to sniff whether a source text is JSON rather than a text dump:
//
//	if io.LooksLikeJSON(source) {
//	    g, err = io.ReadJSON(strings.NewReader(source))
//	} else {
//	    g = graph.Parse(source)
//	}
//
// # Export
//
// [WriteJSON] round-trips a parsed graph back into the interchange form.
// The local server exposes this as /graph.json so downstream tools can
// consume a normalized version of whatever dump the server was started
// with.
package io
