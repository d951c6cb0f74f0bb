// Package pkg provides the core libraries for reachview graph exploration.
//
// # Overview
//
// Reachview extracts the depth-bounded neighborhood around a node of
// interest in a large directed graph and turns it into something a human
// can read: a layered DOT diagram, an interactive HTML viewer, or an
// image. The pkg directory is organized into these areas:
//
//  1. [graph] - Input model (dump parsing, edge statuses, start resolution)
//  2. [traverse] - Neighborhood walk and band partitioning
//  3. [render] - Output generation (DOT, dataset, HTML, SVG/PNG)
//  4. [pipeline] - Orchestration (parse → extract → render) with caching
//  5. [cache], [history], [httputil], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through reachview:
//
//	Graph dump (text or JSON)
//	         ↓
//	    [graph] package (parse nodes, edges, statuses)
//	         ↓
//	    [traverse] package (depth-bounded walk + band partition)
//	         ↓
//	    [render] package (DOT / dataset / HTML / image)
//	         ↓
//	    DOT/JSON/HTML/SVG/PNG output
//
// # Quick Start
//
// Extract and render a neighborhood:
//
//	import (
//	    "context"
//	    "github.com/jkessling/reachview/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil)
//	result, err := runner.Execute(context.Background(), dumpText, pipeline.Options{
//	    Start:   "102",
//	    Depth:   2,
//	    Formats: []string{"dot", "html"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.html", result.Artifacts["html"], 0644)
package pkg
