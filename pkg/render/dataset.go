package render

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jkessling/reachview/pkg/graph"
)

// NodeColor is the vis-network color object for a node.
type NodeColor struct {
	Background string         `json:"background"`
	Border     string         `json:"border"`
	Highlight  HighlightColor `json:"highlight"`
}

// HighlightColor is the color pair applied while a node is selected.
type HighlightColor struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// NodeFont sizes a node's label text.
type NodeFont struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// DatasetNode is one node of the structured dataset, carrying everything
// the interactive viewer needs precomputed: display size, colors keyed on
// whether it is the start node, and its band index for hierarchical layout.
type DatasetNode struct {
	ID    int       `json:"id"`
	Label string    `json:"label"`
	Level int       `json:"level"`
	Size  int       `json:"size"`
	Color NodeColor `json:"color"`
	Font  NodeFont  `json:"font"`
}

// EdgeColor is the vis-network color object for an edge.
type EdgeColor struct {
	Color     string `json:"color"`
	Highlight string `json:"highlight"`
	Hover     string `json:"hover"`
}

// DatasetEdge is one edge of the structured dataset. Dashes is either
// false (solid) or an on/off pattern, matching the vis-network schema.
type DatasetEdge struct {
	ID     int       `json:"id"`
	From   int       `json:"from"`
	To     int       `json:"to"`
	Status string    `json:"status"`
	Arrows string    `json:"arrows"`
	Color  EdgeColor `json:"color"`
	Width  float64   `json:"width"`
	Dashes any       `json:"dashes"`
}

// Dataset is the structured node/edge output consumed by the interactive
// viewer. Spacing values are derived from label lengths so dense graphs
// with long names stay legible.
type Dataset struct {
	RunID           string         `json:"run_id"`
	Start           int            `json:"start"`
	Nodes           []DatasetNode  `json:"nodes"`
	Edges           []DatasetEdge  `json:"edges"`
	OriginalNames   map[int]string `json:"original_names"`
	NodeSpacing     int            `json:"node_spacing"`
	LevelSeparation int            `json:"level_separation"`
}

// MarshalDataset serializes a dataset as indented JSON.
func MarshalDataset(d *Dataset) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// UnmarshalDataset deserializes JSON bytes into a dataset.
func UnmarshalDataset(data []byte) (*Dataset, error) {
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Node visual constants, keyed on start-node membership.
const (
	startBaseSize   = 25
	regularBaseSize = 18
	maxSizeBonus    = 64

	startFill      = "#34d399"
	startBorder    = "#059669"
	startHighlight = "#6ee7b7"

	nodeFill      = "#f0f4ff"
	nodeBorder    = "#2196F3"
	nodeHighlight = "#ffff99"
	nodeHiBorder  = "#ffcc00"
)

// BuildDataset computes the structured dataset for sub. A fresh run id is
// stamped on every call so downstream consumers can tell artifacts from
// different invocations apart.
func BuildDataset(sub Subgraph) *Dataset {
	d := &Dataset{
		RunID:         uuid.NewString(),
		Start:         sub.Neighborhood.Start,
		OriginalNames: sub.Source.OriginalLabels(),
	}

	// Spacing grows with the average and maximum label length so wide
	// labels do not overlap in the hierarchical layout.
	var total, longest int
	count := 0
	for _, level := range sub.Neighborhood.Levels {
		for _, id := range level {
			n := len(sub.Source.DisplayLabel(id))
			total += n
			longest = max(longest, n)
			count++
		}
	}
	// The average stays fractional until the end so truncation happens
	// once, after scaling.
	avg := 0.0
	if count > 0 {
		avg = float64(total) / float64(count)
	}
	d.NodeSpacing = 100 + int(avg*6) + longest*2
	d.LevelSeparation = 60 + int(avg*3) + longest

	for _, level := range sub.Neighborhood.Levels {
		for _, id := range level {
			d.Nodes = append(d.Nodes, datasetNode(sub, id))
		}
	}

	for _, e := range sub.Edges {
		if !sub.Neighborhood.Contains(e.From) || !sub.Neighborhood.Contains(e.To) {
			continue
		}
		d.Edges = append(d.Edges, datasetEdge(len(d.Edges), e))
	}

	return d
}

func datasetNode(sub Subgraph, id int) DatasetNode {
	label := sub.Source.DisplayLabel(id)
	isStart := id == sub.Neighborhood.Start

	base := regularBaseSize
	fontSize := 12
	color := NodeColor{
		Background: nodeFill,
		Border:     nodeBorder,
		Highlight:  HighlightColor{Background: nodeHighlight, Border: nodeHiBorder},
	}
	if isStart {
		base = startBaseSize
		fontSize = 14
		color = NodeColor{
			Background: startFill,
			Border:     startBorder,
			Highlight:  HighlightColor{Background: startHighlight, Border: startBorder},
		}
	}

	return DatasetNode{
		ID:    id,
		Label: label,
		Level: sub.Bands.Band(id),
		Size:  base + min(maxSizeBonus, int(float64(len(label))*3.2)),
		Color: color,
		Font:  NodeFont{Size: fontSize, Color: "#333"},
	}
}

func datasetEdge(id int, e graph.Edge) DatasetEdge {
	var (
		color  string
		width  float64
		dashes any
	)
	switch e.Status {
	case graph.StatusSuspended:
		color, width, dashes = "#e57373", 0.5, []int{5, 5}
	case graph.StatusDisabled:
		color, width, dashes = "#999999", 0.4, []int{2, 3}
	default:
		color, width, dashes = "#81c784", 0.6, false
	}

	arrows := "to"
	if e.Bidirectional {
		arrows = "to,from"
	}

	return DatasetEdge{
		ID:     id,
		From:   e.From,
		To:     e.To,
		Status: e.Status.String(),
		Arrows: arrows,
		Color:  EdgeColor{Color: color, Highlight: "#ffcc00", Hover: "#ffcc00"},
		Width:  width,
		Dashes: dashes,
	}
}
