// Package render turns an extracted neighborhood into presentable output.
//
// Three artifact families are produced:
//
//   - A layered Graphviz DOT description where nodes are grouped into
//     rank=same bands and edges carry status-derived styling ([DOT]).
//   - A structured node/edge dataset with precomputed visual attributes
//     for the interactive HTML viewer ([BuildDataset], [HTML]).
//   - Rendered images of the DOT description via the in-process Graphviz
//     engine ([SVG], [PNG]).
//
// Edge treatment follows the band distance: edges between adjacent bands
// get the status style (solid green for enabled, dashed red for
// suspended, dotted grey for disabled); same-band and skip-level edges
// are de-emphasized and released from layout constraints, with a minlen
// hint so long spans still stretch across the right number of bands.
package render
