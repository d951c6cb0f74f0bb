// Package traverse extracts bounded reachability neighborhoods from a
// parsed graph.
//
// The extractor runs a depth-bounded breadth-first search from a start
// node, producing BFS distance bands ("levels") and the visited-node set.
// Direction selects how edges are followed: outgoing, incoming, or both.
// The partitioner then re-chunks oversized levels into bands no larger
// than a configurable cap so layered layouts stay readable.
package traverse

import (
	"maps"
	"slices"

	"github.com/jkessling/reachview/pkg/errors"
	"github.com/jkessling/reachview/pkg/graph"
)

// Direction selects which adjacency a traversal follows.
type Direction int

const (
	// DirectionBoth follows edges in either orientation.
	DirectionBoth Direction = iota
	// DirectionOut follows only outgoing edges.
	DirectionOut
	// DirectionIn follows only incoming edges.
	DirectionIn
)

// String returns the flag form of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionOut:
		return "out"
	case DirectionIn:
		return "in"
	default:
		return "both"
	}
}

// ParseDirection parses the flag form ("out", "in", "both") of a direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "out":
		return DirectionOut, nil
	case "in":
		return DirectionIn, nil
	case "both", "":
		return DirectionBoth, nil
	default:
		return DirectionBoth, errors.New(errors.ErrCodeInvalidDirection,
			"unknown direction %q (must be 'out', 'in', or 'both')", s)
	}
}

// Adjacency holds forward and reverse adjacency sets built from an edge
// list. Multi-edges between the same ordered pair collapse into one set
// membership; adjacency is about reachability, not edge multiplicity.
type Adjacency struct {
	out map[int]map[int]struct{}
	in  map[int]map[int]struct{}
}

// BuildAdjacency indexes every edge exactly once, regardless of status.
func BuildAdjacency(edges []graph.Edge) *Adjacency {
	a := &Adjacency{
		out: make(map[int]map[int]struct{}),
		in:  make(map[int]map[int]struct{}),
	}
	for _, e := range edges {
		addNeighbor(a.out, e.From, e.To)
		addNeighbor(a.in, e.To, e.From)
	}
	return a
}

func addNeighbor(adj map[int]map[int]struct{}, from, to int) {
	set, ok := adj[from]
	if !ok {
		set = make(map[int]struct{})
		adj[from] = set
	}
	set[to] = struct{}{}
}

// Out returns the outgoing neighbor ids of a node in ascending order.
func (a *Adjacency) Out(id int) []int { return sortedKeys(a.out[id]) }

// In returns the incoming neighbor ids of a node in ascending order.
func (a *Adjacency) In(id int) []int { return sortedKeys(a.in[id]) }

func sortedKeys(set map[int]struct{}) []int {
	ids := slices.Collect(maps.Keys(set))
	slices.Sort(ids)
	return ids
}

// neighborFunc is one traversal strategy, selected once per extraction
// rather than branching on direction inside the BFS loop.
type neighborFunc func(id int) []int

func (a *Adjacency) neighbors(d Direction) neighborFunc {
	switch d {
	case DirectionOut:
		return a.Out
	case DirectionIn:
		return a.In
	default:
		return func(id int) []int {
			union := make(map[int]struct{}, len(a.out[id])+len(a.in[id]))
			maps.Copy(union, a.out[id])
			maps.Copy(union, a.in[id])
			return sortedKeys(union)
		}
	}
}

// Neighborhood is the result of a bounded BFS extraction. Levels[k] holds
// the ids discovered at BFS distance exactly k, each sorted ascending;
// Visited is the flattened union of all levels. Levels[0] is always
// exactly the start node.
type Neighborhood struct {
	Start   int
	Levels  [][]int
	Visited map[int]struct{}
}

// Contains reports whether id was reached by the extraction.
func (n *Neighborhood) Contains(id int) bool {
	_, ok := n.Visited[id]
	return ok
}

// Extract performs a depth-bounded BFS from start following the given
// direction. Each round contributes one level holding only the newly
// discovered nodes; a node is assigned the earliest level at which it
// appears and is never revisited. Traversal stops when the hop budget is
// exhausted or a round discovers nothing, whichever comes first. Negative
// depths clamp to zero, which yields just the start node.
func Extract(adj *Adjacency, start, depth int, dir Direction) *Neighborhood {
	if depth < 0 {
		depth = 0
	}

	next := adj.neighbors(dir)
	visited := map[int]struct{}{start: {}}
	levels := [][]int{{start}}
	frontier := []int{start}

	for hop := 0; hop < depth; hop++ {
		discovered := make(map[int]struct{})
		for _, u := range frontier {
			for _, v := range next(u) {
				if _, ok := visited[v]; ok {
					continue
				}
				visited[v] = struct{}{}
				discovered[v] = struct{}{}
			}
		}
		if len(discovered) == 0 {
			break
		}
		frontier = sortedKeys(discovered)
		levels = append(levels, frontier)
	}

	return &Neighborhood{Start: start, Levels: levels, Visited: visited}
}
