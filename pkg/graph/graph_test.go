package graph

import (
	"testing"
)

const sampleText = `digraph {
	0 [label="Gateway"]
	1 [label="Auth"]
	2 [label="Billing"]
	0 -> 1 [label="E|rpc"]
	1 -> 2 [label="S|queue"]
	2 -> 0 [label="D"]
	3 -> 0 [label=""]
}`

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"", StatusEnabled},
		{"E", StatusEnabled},
		{"E|note", StatusEnabled},
		{"S", StatusSuspended},
		{"S|migrating", StatusSuspended},
		{"s-foo", StatusSuspended},
		{"  s  |x", StatusSuspended},
		{"D", StatusDisabled},
		{"D|2,3", StatusDisabled},
		{"d", StatusDisabled},
		{"X", StatusEnabled},
		{"enabled", StatusEnabled},
		{"|S", StatusEnabled}, // only the first segment counts
	}

	for _, tt := range tests {
		if got := ClassifyLabel(tt.raw); got != tt.want {
			t.Errorf("ClassifyLabel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestStatusString(t *testing.T) {
	if StatusEnabled.String() != "E" || StatusSuspended.String() != "S" || StatusDisabled.String() != "D" {
		t.Errorf("unexpected status codes: %s %s %s",
			StatusEnabled, StatusSuspended, StatusDisabled)
	}
}

func TestParse(t *testing.T) {
	g := Parse(sampleText)

	// Node 3 is only referenced by an edge but still counts.
	if got := g.NodeCount(); got != 4 {
		t.Errorf("NodeCount = %d, want 4", got)
	}
	if got := g.EdgeCount(); got != 4 {
		t.Errorf("EdgeCount = %d, want 4", got)
	}

	if label, ok := g.Label(0); !ok || label != "Gateway" {
		t.Errorf("Label(0) = %q, %v", label, ok)
	}
	if _, ok := g.Label(3); ok {
		t.Error("Label(3) should report no declared label")
	}
	if got := g.DisplayLabel(3); got != "3" {
		t.Errorf("DisplayLabel(3) = %q, want fallback to id", got)
	}

	edges := g.Edges()
	if edges[1].Status != StatusSuspended {
		t.Errorf("edge 1->2 status = %v, want suspended", edges[1].Status)
	}
	if edges[3].Status != StatusEnabled {
		t.Errorf("empty-label edge status = %v, want enabled", edges[3].Status)
	}
}

func TestParseFirstLabelWins(t *testing.T) {
	g := Parse(`
		5 [label=""]
		5 [label="First"]
		5 [label="Second"]
	`)
	if label, _ := g.Label(5); label != "First" {
		t.Errorf("Label(5) = %q, want first non-empty declaration", label)
	}
}

func TestParseIgnoresGarbage(t *testing.T) {
	g := Parse("not a graph at all")
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("garbage input produced %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
}

func TestNodeIDsSorted(t *testing.T) {
	g := Parse(`9 [label="i"]
		2 [label="b"]
		7 -> 2 [label=""]`)
	ids := g.NodeIDs()
	want := []int{2, 7, 9}
	if len(ids) != len(want) {
		t.Fatalf("NodeIDs = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("NodeIDs = %v, want %v", ids, want)
		}
	}
}

func TestEnabledOnly(t *testing.T) {
	g := Parse(sampleText)
	filtered := g.EnabledOnly()

	if filtered.NodeCount() != g.NodeCount() {
		t.Errorf("EnabledOnly changed node count: %d vs %d",
			filtered.NodeCount(), g.NodeCount())
	}
	if got := filtered.EdgeCount(); got != 2 {
		t.Errorf("EnabledOnly kept %d edges, want 2", got)
	}
	for _, e := range filtered.Edges() {
		if e.Status != StatusEnabled {
			t.Errorf("EnabledOnly kept edge with status %v", e.Status)
		}
	}
}

func TestResolveStart(t *testing.T) {
	g := Parse(sampleText)

	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"2", 2, false},
		{"Gateway", 0, false},
		{"  auth  ", 1, false}, // case-insensitive, trimmed
		{"BILLING", 2, false},
		{"99", 0, true}, // unknown id does not resolve blindly
		{"Nope", 0, true},
	}

	for _, tt := range tests {
		got, err := g.ResolveStart(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveStart(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ResolveStart(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestResolveStartNumericLabel(t *testing.T) {
	// A label that looks like a number resolves when the id itself is unknown.
	g := Parse(`4 [label="7"]`)
	got, err := g.ResolveStart("7")
	if err != nil {
		t.Fatalf("ResolveStart error: %v", err)
	}
	if got != 4 {
		t.Errorf("ResolveStart(\"7\") = %d, want 4 via label match", got)
	}
}

func TestMergeBidirectional(t *testing.T) {
	edges := []Edge{
		{From: 1, To: 2, Status: StatusEnabled},
		{From: 2, To: 1, Status: StatusSuspended},
		{From: 3, To: 4, Status: StatusEnabled},
		{From: 3, To: 4, Status: StatusEnabled}, // same-direction duplicate
		{From: 5, To: 6, Status: StatusDisabled},
	}

	merged := MergeBidirectional(edges)
	if len(merged) != 3 {
		t.Fatalf("MergeBidirectional kept %d edges, want 3", len(merged))
	}

	// Opposite pair: first-seen edge survives with its own fields, flagged.
	if merged[0].From != 1 || merged[0].To != 2 {
		t.Errorf("surviving edge = %d->%d, want 1->2", merged[0].From, merged[0].To)
	}
	if merged[0].Status != StatusEnabled {
		t.Errorf("surviving edge status = %v, want first-seen status", merged[0].Status)
	}
	if !merged[0].Bidirectional {
		t.Error("opposite-direction pair should be flagged bidirectional")
	}

	// Same-direction duplicate collapses without a flag.
	if merged[1].Bidirectional {
		t.Error("same-direction duplicate must not set bidirectional")
	}

	// Unpaired edge passes through unflagged.
	if merged[2].Bidirectional {
		t.Error("unpaired edge must not set bidirectional")
	}
}

func TestFilterToNodes(t *testing.T) {
	edges := []Edge{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 3, To: 1},
	}
	keep := map[int]struct{}{1: {}, 2: {}}

	filtered := FilterToNodes(edges, keep)
	if len(filtered) != 1 {
		t.Fatalf("FilterToNodes kept %d edges, want 1", len(filtered))
	}
	if filtered[0].From != 1 || filtered[0].To != 2 {
		t.Errorf("kept edge = %d->%d, want 1->2", filtered[0].From, filtered[0].To)
	}
}
