package graph

import (
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jkessling/reachview/pkg/errors"
)

// Node and edge declarations are extracted from anywhere in the input;
// surrounding text is ignored. These are the only two patterns the parser
// understands.
var (
	nodeRe = regexp.MustCompile(`(\d+)\s*\[label="([^"]*)"\]`)
	edgeRe = regexp.MustCompile(`(\d+)\s*->\s*(\d+)\s*\[label="([^"]*)"\]`)
)

// Edge is a directed connection between two node ids along with its raw
// label text and the status derived from it. Bidirectional is false until
// [MergeBidirectional] collapses an opposite-direction pair.
type Edge struct {
	From          int
	To            int
	RawLabel      string
	Status        Status
	Bidirectional bool
}

// Graph is the parsed node/edge model of a DOT-like source text.
// It is value data produced once by [Parse] and read-only afterwards.
type Graph struct {
	labels    map[int]string // first non-empty label per id
	originals map[int]string // labels as first declared, kept for display
	ids       map[int]struct{}
	edges     []Edge
}

// Parse scans raw text for node and edge declarations and builds the graph.
// Parsing is non-failing: malformed or absent declarations simply contribute
// nothing. A node declaration assigns a label only if the id has not yet
// received a non-empty one (first non-empty label wins). Edges referencing
// undeclared ids still register the id, with no label.
func Parse(text string) *Graph {
	g := &Graph{
		labels:    make(map[int]string),
		originals: make(map[int]string),
		ids:       make(map[int]struct{}),
	}

	for _, m := range nodeRe.FindAllStringSubmatch(text, -1) {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		label := strings.TrimSpace(m[2])
		g.ids[id] = struct{}{}
		if existing, ok := g.labels[id]; !ok || existing == "" {
			g.labels[id] = label
			g.originals[id] = label
		}
	}

	for _, m := range edgeRe.FindAllStringSubmatch(text, -1) {
		from, errF := strconv.Atoi(m[1])
		to, errT := strconv.Atoi(m[2])
		if errF != nil || errT != nil {
			continue
		}
		raw := strings.TrimSpace(m[3])
		g.ids[from] = struct{}{}
		g.ids[to] = struct{}{}
		g.edges = append(g.edges, Edge{
			From:     from,
			To:       to,
			RawLabel: raw,
			Status:   ClassifyLabel(raw),
		})
	}

	return g
}

// New builds a graph directly from a label map and an edge list, bypassing
// the text parser. Edge endpoints register their ids even when absent from
// labels, mirroring [Parse]. The JSON interchange reader uses this.
func New(labels map[int]string, edges []Edge) *Graph {
	g := &Graph{
		labels:    make(map[int]string, len(labels)),
		originals: make(map[int]string, len(labels)),
		ids:       make(map[int]struct{}, len(labels)),
	}
	for id, label := range labels {
		label = strings.TrimSpace(label)
		g.ids[id] = struct{}{}
		g.labels[id] = label
		g.originals[id] = label
	}
	for _, e := range edges {
		g.ids[e.From] = struct{}{}
		g.ids[e.To] = struct{}{}
		g.edges = append(g.edges, e)
	}
	return g
}

// NodeCount returns the number of distinct node ids seen during parsing,
// whether declared or merely referenced by an edge.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of parsed edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Has reports whether id was seen during parsing.
func (g *Graph) Has(id int) bool {
	_, ok := g.ids[id]
	return ok
}

// Label returns the display label for id and whether a non-empty one was
// declared.
func (g *Graph) Label(id int) (string, bool) {
	l, ok := g.labels[id]
	return l, ok && l != ""
}

// DisplayLabel returns the declared label, or the decimal id when the node
// has none.
func (g *Graph) DisplayLabel(id int) string {
	if l, ok := g.Label(id); ok {
		return l
	}
	return strconv.Itoa(id)
}

// OriginalLabels returns a copy of the id→label mapping as first declared.
// The interactive viewer keeps these around for search and statistics even
// when display labels are shortened.
func (g *Graph) OriginalLabels() map[int]string {
	return maps.Clone(g.originals)
}

// NodeIDs returns all known node ids in ascending order.
func (g *Graph) NodeIDs() []int {
	ids := slices.Collect(maps.Keys(g.ids))
	slices.Sort(ids)
	return ids
}

// Edges returns a copy of the parsed edge list in declaration order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EnabledOnly returns a graph sharing this graph's nodes and labels but
// keeping only edges with [StatusEnabled]. This implements the status
// filter that runs before traversal.
func (g *Graph) EnabledOnly() *Graph {
	out := &Graph{
		labels:    g.labels,
		originals: g.originals,
		ids:       g.ids,
	}
	for _, e := range g.edges {
		if e.Status == StatusEnabled {
			out.edges = append(out.edges, e)
		}
	}
	return out
}

// ResolveStart resolves a start node given either a decimal id or a label.
// Label matching is exact, case-insensitive and whitespace-trimmed against
// the originally declared labels. A numeric value that is not a known node
// id falls through to label matching, so labels that look like numbers
// still resolve.
func (g *Graph) ResolveStart(value string) (int, error) {
	if id, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if g.Has(id) {
			return id, nil
		}
	}

	want := strings.ToLower(strings.TrimSpace(value))
	for id, label := range g.originals {
		if strings.ToLower(strings.TrimSpace(label)) == want {
			return id, nil
		}
	}

	return 0, errors.New(errors.ErrCodeStartNotFound,
		"could not resolve start node %q: use a valid node id or label", value)
}

// MergeBidirectional collapses pairs of opposite-direction edges between the
// same two nodes into one edge flagged bidirectional. The first-seen edge of
// a pair survives with its own orientation, label and status. Pairs seen only
// once pass through unflagged. This runs after the neighborhood filter so the
// merge reflects only the visible subgraph.
func MergeBidirectional(edges []Edge) []Edge {
	type pair struct{ lo, hi int }

	merged := make([]Edge, 0, len(edges))
	seen := make(map[pair]int) // pair -> index into merged

	for _, e := range edges {
		key := pair{e.From, e.To}
		if key.lo > key.hi {
			key.lo, key.hi = key.hi, key.lo
		}
		if i, ok := seen[key]; ok {
			// Same-direction duplicates collapse silently; only a pair of
			// opposite orientations makes the surviving edge mutual.
			if merged[i].From == e.To && merged[i].To == e.From {
				merged[i].Bidirectional = true
			}
			continue
		}
		seen[key] = len(merged)
		merged = append(merged, e)
	}

	return merged
}

// FilterToNodes drops edges whose endpoints are not both in keep.
// Dropped edges are not an error; they simply do not render.
func FilterToNodes(edges []Edge, keep map[int]struct{}) []Edge {
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if _, ok := keep[e.From]; !ok {
			continue
		}
		if _, ok := keep[e.To]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
