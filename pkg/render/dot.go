package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jkessling/reachview/pkg/errors"
	"github.com/jkessling/reachview/pkg/graph"
	"github.com/jkessling/reachview/pkg/traverse"
)

// EdgeLabelMode controls how much of an edge's label reaches the output.
type EdgeLabelMode string

const (
	// EdgeLabelsStatus omits text labels; status shows through color and
	// style alone.
	EdgeLabelsStatus EdgeLabelMode = "status"
	// EdgeLabelsFull prints the complete raw label on every edge.
	EdgeLabelsFull EdgeLabelMode = "full"
	// EdgeLabelsNone suppresses edge labels entirely.
	EdgeLabelsNone EdgeLabelMode = "none"
)

// ParseEdgeLabelMode validates the flag form of an edge label mode.
func ParseEdgeLabelMode(s string) (EdgeLabelMode, error) {
	switch EdgeLabelMode(s) {
	case EdgeLabelsStatus, EdgeLabelsFull, EdgeLabelsNone:
		return EdgeLabelMode(s), nil
	case "":
		return EdgeLabelsStatus, nil
	default:
		return EdgeLabelsStatus, errors.New(errors.ErrCodeInvalidEdgeLabel,
			"unknown edge label mode %q (must be 'status', 'full', or 'none')", s)
	}
}

// validRankDirs is the set of Graphviz rank directions accepted by --rankdir.
var validRankDirs = map[string]bool{"TB": true, "LR": true, "BT": true, "RL": true}

// ValidateRankDir checks that s is one of TB, LR, BT, RL.
func ValidateRankDir(s string) error {
	if !validRankDirs[s] {
		return errors.New(errors.ErrCodeInvalidRankDir,
			"unknown rankdir %q (must be 'TB', 'LR', 'BT', or 'RL')", s)
	}
	return nil
}

// DOTOptions configures the layered DOT emission. The zero value is not
// usable; call [DefaultDOTOptions] and override fields as needed.
type DOTOptions struct {
	RankDir          string        // hierarchy direction: TB, LR, BT, RL
	EdgeLabels       EdgeLabelMode // label detail on edges
	Splines          string        // Graphviz splines setting, empty to omit
	NoOverlap        bool          // request overlap avoidance with padding
	Concentrate      bool          // merge parallel edge runs
	NodeSep          float64       // separation between nodes in a rank
	RankSep          float64       // separation between ranks
	UsePorts         bool          // pin edge endpoints to rankdir-derived ports
	LevelEdgesOnly   bool          // drop edges that do not connect adjacent bands
	DeemphasizeCross bool          // mute and unconstrain non-adjacent-band edges
}

// DefaultDOTOptions returns the option set the CLI starts from.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		RankDir:          "TB",
		EdgeLabels:       EdgeLabelsStatus,
		Splines:          "curved",
		NoOverlap:        true,
		NodeSep:          0.35,
		RankSep:          0.6,
		DeemphasizeCross: true,
	}
}

// Subgraph bundles the pipeline products the renderers consume: the source
// graph for labels, the merged edge list already filtered to the visited
// set, the extraction result, and the partitioned bands.
type Subgraph struct {
	Source       *graph.Graph
	Edges        []graph.Edge
	Neighborhood *traverse.Neighborhood
	Bands        *traverse.Bands
}

// Per-status edge styling for the DOT output.
type edgeStyle struct {
	color string
	style string
	width float64
}

func statusStyle(s graph.Status) edgeStyle {
	switch s {
	case graph.StatusSuspended:
		return edgeStyle{color: "#b71c1c", style: "dashed", width: 1.2}
	case graph.StatusDisabled:
		return edgeStyle{color: "#666666", style: "dotted", width: 1.0}
	default:
		return edgeStyle{color: "#2e7d32", style: "solid", width: 1.8}
	}
}

// Fill colors for node circles; the start node is highlighted.
const (
	fillDefault = "#f0f4ff"
	fillStart   = "#fff3cd"
)

// DOT emits the layered graph description for sub. Nodes are grouped by
// band into rank=same constraints in band order. Edges between adjacent
// bands carry the status style; other edges are muted, released from the
// ordering constraint, and given a minlen hint proportional to their band
// distance when it exceeds one. Edges touching a node outside the visited
// set are dropped silently.
func DOT(sub Subgraph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", opts.RankDir)

	attrs := []string{"fontsize=10", `labelloc="t"`, `fontname="Segoe UI"`}
	if opts.Splines != "" {
		attrs = append(attrs, "splines="+opts.Splines)
	}
	if opts.NoOverlap {
		attrs = append(attrs, "overlap=false", `sep="+15,15"`)
	}
	if opts.Concentrate {
		attrs = append(attrs, "concentrate=true")
	}
	attrs = append(attrs,
		fmt.Sprintf("nodesep=%g", opts.NodeSep),
		fmt.Sprintf(`ranksep="%g equally"`, opts.RankSep))
	fmt.Fprintf(&buf, "  graph [%s];\n", strings.Join(attrs, ", "))

	buf.WriteString(`  node [shape=circle, style=filled, width=0.5, fixedsize=true, fillcolor="` +
		fillDefault + `", fontname="Segoe UI", fontsize=9];` + "\n")
	buf.WriteString(`  edge [fontname="Segoe UI", fontsize=8, arrowsize=0.7];` + "\n\n")

	writeNodes(&buf, sub)
	writeBands(&buf, sub.Bands)
	writeEdges(&buf, sub, opts)

	buf.WriteString("}\n")
	return buf.String()
}

func writeNodes(buf *bytes.Buffer, sub Subgraph) {
	for _, level := range sub.Neighborhood.Levels {
		for _, id := range level {
			display := fmt.Sprintf("%d", id)
			if name, ok := sub.Source.Label(id); ok {
				display = fmt.Sprintf(`%d\n%s`, id, escapeLabel(name))
			}
			fill := fillDefault
			if id == sub.Neighborhood.Start {
				fill = fillStart
			}
			fmt.Fprintf(buf, "  %d [label=\"%s\", fillcolor=\"%s\"];\n", id, display, fill)
		}
	}
	buf.WriteString("\n")
}

func writeBands(buf *bytes.Buffer, bands *traverse.Bands) {
	for i, band := range bands.Groups {
		if len(band) == 0 {
			continue
		}
		members := make([]string, len(band))
		for j, id := range band {
			members[j] = fmt.Sprintf("%d", id)
		}
		fmt.Fprintf(buf, "  { rank=same; /* band %d */ %s; }\n", i, strings.Join(members, " "))
	}
	buf.WriteString("\n")
}

func writeEdges(buf *bytes.Buffer, sub Subgraph, opts DOTOptions) {
	tailport, headport := "", ""
	if opts.UsePorts {
		tailport, headport = portsForRankDir(opts.RankDir)
	}

	for _, e := range sub.Edges {
		if !sub.Neighborhood.Contains(e.From) || !sub.Neighborhood.Contains(e.To) {
			continue
		}

		delta := sub.Bands.Band(e.To) - sub.Bands.Band(e.From)
		adjacent := delta == 1 || delta == -1

		if opts.LevelEdgesOnly && !adjacent {
			continue
		}

		var attrs []string
		if opts.DeemphasizeCross && !adjacent {
			attrs = append(attrs, "constraint=false", "style=dotted", `color="#999999"`, "penwidth=0.9")
			if delta > 1 || delta < -1 {
				attrs = append(attrs, fmt.Sprintf("minlen=%d", abs(delta)))
			}
		} else {
			st := statusStyle(e.Status)
			attrs = append(attrs,
				fmt.Sprintf("color=%q", st.color),
				fmt.Sprintf("style=%q", st.style),
				fmt.Sprintf("penwidth=\"%g\"", st.width))
		}

		if opts.EdgeLabels == EdgeLabelsFull {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", escapeLabel(e.RawLabel)))
		}
		// Status mode adds no text: edges are already painted per status.

		if tailport != "" {
			attrs = append(attrs, "tailport="+tailport, "headport="+headport)
		}

		fmt.Fprintf(buf, "  %d -> %d [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}
}

// portsForRankDir picks tail/head ports so edges leave in the direction of
// flow for the chosen rank direction.
func portsForRankDir(rankdir string) (tail, head string) {
	switch rankdir {
	case "LR":
		return "e", "w"
	case "RL":
		return "w", "e"
	case "BT":
		return "n", "s"
	default: // TB
		return "s", "n"
	}
}

func escapeLabel(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"`, `\"`)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
