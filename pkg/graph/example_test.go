package graph_test

import (
	"fmt"

	"github.com/jkessling/reachview/pkg/graph"
)

func ExampleParse() {
	// A minimal dump: two services and the links between them.
	g := graph.Parse(`
		10 [label="frontend"]
		11 [label="api"]
		10 -> 11 [label="E|http"]
		11 -> 10 [label="S|callback"]
	`)

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Nodes: 2
	// Edges: 2
}

func ExampleClassifyLabel() {
	fmt.Println(graph.ClassifyLabel("E|rpc"))
	fmt.Println(graph.ClassifyLabel("S|draining"))
	fmt.Println(graph.ClassifyLabel("D"))
	fmt.Println(graph.ClassifyLabel(""))
	// Output:
	// E
	// S
	// D
	// E
}

func ExampleGraph_ResolveStart() {
	g := graph.Parse(`42 [label="payments"]`)

	byID, _ := g.ResolveStart("42")
	byLabel, _ := g.ResolveStart("Payments")
	fmt.Println(byID, byLabel)
	// Output:
	// 42 42
}
