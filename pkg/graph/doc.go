// Package graph parses DOT-like source text into a node/edge model and
// derives per-edge status from embedded label markers.
//
// The parser is deliberately tolerant: it scans for node declarations
// (`12 [label="..."]`) and edge declarations (`12 -> 34 [label="..."]`)
// anywhere in the input and ignores everything else. It never fails on
// malformed text - unmatched declarations simply contribute no nodes or
// edges. This makes it safe to point at logs, dumps, or full DOT files
// alike.
//
// Status classification and bidirectional merging live here too, since
// both are properties of the edge model rather than of traversal or
// rendering:
//
//	g := graph.Parse(text)
//	start, err := g.ResolveStart("gateway")
//	edges := graph.MergeBidirectional(graph.FilterToNodes(g.Edges(), visited))
package graph
