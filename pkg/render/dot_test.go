package render

import (
	"strings"
	"testing"

	"github.com/jkessling/reachview/pkg/graph"
	"github.com/jkessling/reachview/pkg/traverse"
)

// buildSubgraph runs the extraction stages over source and returns the
// renderer input, mirroring how the pipeline assembles it.
func buildSubgraph(t *testing.T, source, start string, depth, maxPerBand int) Subgraph {
	t.Helper()

	g := graph.Parse(source)
	id, err := g.ResolveStart(start)
	if err != nil {
		t.Fatalf("resolve start: %v", err)
	}

	adj := traverse.BuildAdjacency(g.Edges())
	hood := traverse.Extract(adj, id, depth, traverse.DirectionBoth)
	bands := traverse.Partition(hood.Levels, maxPerBand)

	edges := graph.FilterToNodes(g.Edges(), hood.Visited)
	edges = graph.MergeBidirectional(edges)

	return Subgraph{Source: g, Edges: edges, Neighborhood: hood, Bands: bands}
}

const dotSource = `
	0 [label="Start"]
	1 [label="A"]
	2 [label="B"]
	3 [label="C"]
	0 -> 1 [label="E"]
	1 -> 2 [label="S|note"]
	2 -> 3 [label="D"]
	0 -> 3 [label="E"]
`

func TestParseEdgeLabelMode(t *testing.T) {
	tests := []struct {
		s       string
		want    EdgeLabelMode
		wantErr bool
	}{
		{"status", EdgeLabelsStatus, false},
		{"full", EdgeLabelsFull, false},
		{"none", EdgeLabelsNone, false},
		{"", EdgeLabelsStatus, false},
		{"verbose", EdgeLabelsStatus, true},
	}

	for _, tt := range tests {
		got, err := ParseEdgeLabelMode(tt.s)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEdgeLabelMode(%q) error = %v, wantErr %v", tt.s, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseEdgeLabelMode(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestValidateRankDir(t *testing.T) {
	for _, valid := range []string{"TB", "LR", "BT", "RL"} {
		if err := ValidateRankDir(valid); err != nil {
			t.Errorf("ValidateRankDir(%q) = %v", valid, err)
		}
	}
	for _, invalid := range []string{"tb", "UD", ""} {
		if err := ValidateRankDir(invalid); err == nil {
			t.Errorf("ValidateRankDir(%q) should fail", invalid)
		}
	}
}

func TestDOTStructure(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 2, 20)
	out := DOT(sub, DefaultDOTOptions())

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		"splines=curved",
		`sep="+15,15"`,
		`ranksep="0.6 equally"`,
		"shape=circle",
		`0 [label="0\nStart", fillcolor="#fff3cd"];`,
		`1 [label="1\nA", fillcolor="#f0f4ff"];`,
		"{ rank=same; /* band 0 */ 0; }",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q\n%s", want, out)
		}
	}
}

func TestDOTStatusStyles(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 2, 20)
	out := DOT(sub, DefaultDOTOptions())

	// Adjacent-band edges keep their status styling.
	if !strings.Contains(out, `0 -> 1 [color="#2e7d32", style="solid", penwidth="1.8"];`) {
		t.Errorf("enabled edge style missing:\n%s", out)
	}
	if !strings.Contains(out, `1 -> 2 [color="#b71c1c", style="dashed", penwidth="1.2"];`) {
		t.Errorf("suspended edge style missing:\n%s", out)
	}
}

func TestDOTCrossBandDeemphasis(t *testing.T) {
	// An edge spanning two bands is muted, unconstrained, and gets a
	// minlen hint equal to the band distance.
	source := `
		0 [label="s"]
		1 [label="a"]
		2 [label="b"]
		0 -> 1 [label="E"]
		1 -> 2 [label="E"]
		0 -> 2 [label="E"]
	`
	g := graph.Parse(source)
	adj := traverse.BuildAdjacency(g.Edges())
	hood := traverse.Extract(adj, 0, 1, traverse.DirectionOut)
	// Hand-build bands that separate 1 and 2 so the 0->2 edge crosses.
	bands := traverse.Partition([][]int{{0}, {1}, {2}}, 20)
	edges := graph.MergeBidirectional(graph.FilterToNodes(g.Edges(), map[int]struct{}{0: {}, 1: {}, 2: {}}))
	hood.Visited = map[int]struct{}{0: {}, 1: {}, 2: {}}
	sub := Subgraph{Source: g, Edges: edges, Neighborhood: hood, Bands: bands}

	out := DOT(sub, DefaultDOTOptions())
	if !strings.Contains(out, `0 -> 2 [constraint=false, style=dotted, color="#999999", penwidth=0.9, minlen=2];`) {
		t.Errorf("cross-band edge not de-emphasized:\n%s", out)
	}
}

func TestDOTLevelEdgesOnly(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 3, 20)
	opts := DefaultDOTOptions()
	opts.LevelEdgesOnly = true
	out := DOT(sub, opts)

	// 0 and 3 land in adjacent-or-not bands depending on traversal; the
	// same-band or band-skipping edges must vanish entirely.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "constraint=false") {
			t.Errorf("level-edges-only still emitted a cross edge: %s", line)
		}
	}
}

func TestDOTFullLabels(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 2, 20)
	opts := DefaultDOTOptions()
	opts.EdgeLabels = EdgeLabelsFull
	out := DOT(sub, opts)

	if !strings.Contains(out, `label="S|note"`) {
		t.Errorf("full labels missing raw text:\n%s", out)
	}
}

func TestDOTStatusModeOmitsLabels(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 2, 20)
	out := DOT(sub, DefaultDOTOptions())
	if strings.Contains(out, `label="S|note"`) {
		t.Errorf("status mode should not print label text:\n%s", out)
	}
}

func TestDOTPorts(t *testing.T) {
	sub := buildSubgraph(t, dotSource, "0", 1, 20)
	opts := DefaultDOTOptions()
	opts.UsePorts = true
	opts.RankDir = "LR"
	out := DOT(sub, opts)

	if !strings.Contains(out, "tailport=e, headport=w") {
		t.Errorf("LR ports missing:\n%s", out)
	}
}

func TestPortsForRankDir(t *testing.T) {
	tests := []struct {
		rankdir    string
		tail, head string
	}{
		{"TB", "s", "n"},
		{"BT", "n", "s"},
		{"LR", "e", "w"},
		{"RL", "w", "e"},
	}
	for _, tt := range tests {
		tail, head := portsForRankDir(tt.rankdir)
		if tail != tt.tail || head != tt.head {
			t.Errorf("portsForRankDir(%q) = %s,%s want %s,%s",
				tt.rankdir, tail, head, tt.tail, tt.head)
		}
	}
}

func TestEscapeLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{`plain`, `plain`},
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLabel(tt.in); got != tt.want {
			t.Errorf("escapeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDOTDropsEdgesOutsideVisited(t *testing.T) {
	// Depth 1 out of node 1 misses node 3; edge 2->3 must not render.
	g := graph.Parse(dotSource)
	adj := traverse.BuildAdjacency(g.Edges())
	hood := traverse.Extract(adj, 1, 1, traverse.DirectionOut)
	bands := traverse.Partition(hood.Levels, 20)
	// Deliberately skip FilterToNodes: the renderer drops them itself.
	sub := Subgraph{Source: g, Edges: g.Edges(), Neighborhood: hood, Bands: bands}

	out := DOT(sub, DefaultDOTOptions())
	if strings.Contains(out, "2 -> 3") {
		t.Errorf("edge outside visited set leaked into DOT:\n%s", out)
	}
}
