package graph

import (
	"strings"
	"testing"
)

func TestAddEdgeAndSuccessors(t *testing.T) {
	g := NewGraph()
	if err := g.AddEdge("A", "B", 0.4); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("A", "C", 0.6); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	if g.NumNodes() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NumNodes())
	}
	if g.NumEdges() != 2 {
		t.Errorf("expected 2 edges, got %d", g.NumEdges())
	}

	successors := g.Successors("A")
	if len(successors) != 2 || successors[0] != "B" || successors[1] != "C" {
		t.Errorf("unexpected successors of A: %v", successors)
	}
	if len(g.Successors("B")) != 0 {
		t.Errorf("B should have no successors")
	}
	if len(g.Successors("unknown")) != 0 {
		t.Errorf("unknown node should have no successors")
	}

	if g.OutDegree("A") != 2 {
		t.Errorf("expected out-degree 2 for A, got %d", g.OutDegree("A"))
	}
}

func TestAddEdgeRejectsInvalidProbability(t *testing.T) {
	g := NewGraph()
	if err := g.AddEdge("A", "B", 1.5); err == nil {
		t.Error("expected error for probability > 1")
	}
	if err := g.AddEdge("A", "B", -0.1); err == nil {
		t.Error("expected error for negative probability")
	}
}

func TestEdgeAttrDistinguishesAbsenceFromZero(t *testing.T) {
	g := NewGraph()
	if err := g.AddEdge("A", "B", 0.0); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	g.AddNode("C")
	g.Edges[EdgeKey{From: "B", To: "C"}] = make(Attrs)
	g.outgoing["B"] = append(g.outgoing["B"], "C")

	// Explicit zero is present
	prob, ok := g.EdgeAttr("A", "B", DefaultProbAttr)
	if !ok || prob != 0.0 {
		t.Errorf("expected explicit zero probability, got %f (present=%v)", prob, ok)
	}

	// Attribute never set is absent
	if _, ok := g.EdgeAttr("B", "C", DefaultProbAttr); ok {
		t.Error("expected absent probability attribute on B->C")
	}

	// Missing edge is absent
	if _, ok := g.EdgeAttr("A", "C", DefaultProbAttr); ok {
		t.Error("expected absent attribute on missing edge")
	}
}

func TestNodeListPreservesInsertionOrder(t *testing.T) {
	g := NewGraph()
	g.AddEdge("C", "A", 0.5)
	g.AddEdge("A", "B", 0.5)
	g.AddNode("C") // duplicate, must not reorder

	expected := []string{"C", "A", "B"}
	if len(g.NodeList) != len(expected) {
		t.Fatalf("expected %d nodes, got %d", len(expected), len(g.NodeList))
	}
	for i, nodeID := range expected {
		if g.NodeList[i] != nodeID {
			t.Errorf("NodeList[%d] = %s, expected %s", i, g.NodeList[i], nodeID)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 0.4)

	clone := g.Clone()
	clone.AddEdge("B", "C", 0.9)
	clone.SetEdgeAttr("A", "B", DefaultProbAttr, 0.7)

	if g.HasEdge("B", "C") {
		t.Error("mutation of clone leaked into original")
	}
	if prob, _ := g.EdgeAttr("A", "B", DefaultProbAttr); prob != 0.4 {
		t.Errorf("original edge probability changed: %f", prob)
	}
}

func TestParseEdgeList(t *testing.T) {
	input := `
# comment line
A B 0.4
B C 0.5
C A 0.3
A D 0.6
E F
G
`
	g, err := ParseEdgeList(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEdgeList failed: %v", err)
	}

	if g.NumNodes() != 7 {
		t.Errorf("expected 7 nodes, got %d", g.NumNodes())
	}
	if g.NumEdges() != 5 {
		t.Errorf("expected 5 edges, got %d", g.NumEdges())
	}

	if prob, ok := g.EdgeAttr("A", "B", DefaultProbAttr); !ok || prob != 0.4 {
		t.Errorf("A->B probability = %f (present=%v), expected 0.4", prob, ok)
	}

	// Edge without probability column carries no attribute
	if _, ok := g.EdgeAttr("E", "F", DefaultProbAttr); ok {
		t.Error("E->F should have no probability attribute")
	}

	if !g.HasNode("G") {
		t.Error("isolated node G missing")
	}
}

func TestParseEdgeListErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"BadProbability", "A B notanumber"},
		{"ProbabilityOutOfRange", "A B 1.5"},
		{"TooManyFields", "A B 0.5 extra"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseEdgeList(strings.NewReader(tc.input)); err == nil {
				t.Errorf("expected parse error for %q", tc.input)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 0.4)
	if err := g.Validate(); err != nil {
		t.Errorf("valid graph failed validation: %v", err)
	}

	// Corrupt an edge probability directly
	g.Edges[EdgeKey{From: "A", To: "B"}][DefaultProbAttr] = 2.0
	if err := g.Validate(); err == nil {
		t.Error("expected validation error for out-of-range probability")
	}
}

func TestToGonum(t *testing.T) {
	g := NewGraph()
	g.AddEdge("A", "B", 0.4)
	g.AddEdge("B", "C", 0.5)
	g.AddNode("D")
	g.Edges[EdgeKey{From: "C", To: "D"}] = make(Attrs) // no probability attribute
	g.outgoing["C"] = append(g.outgoing["C"], "D")

	adapter, err := g.ToGonum(DefaultProbAttr, 0.1)
	if err != nil {
		t.Fatalf("ToGonum failed: %v", err)
	}

	if adapter.Graph.Nodes().Len() != 4 {
		t.Errorf("expected 4 gonum nodes, got %d", adapter.Graph.Nodes().Len())
	}

	edge := adapter.Graph.WeightedEdge(adapter.IDFor["A"], adapter.IDFor["B"])
	if edge == nil || edge.Weight() != 0.4 {
		t.Errorf("A->B gonum edge weight wrong: %v", edge)
	}

	// Missing probability falls back to the default
	edge = adapter.Graph.WeightedEdge(adapter.IDFor["C"], adapter.IDFor["D"])
	if edge == nil || edge.Weight() != 0.1 {
		t.Errorf("C->D gonum edge weight should default to 0.1: %v", edge)
	}

	if _, err := g.ToGonum("", 0.1); err == nil {
		t.Error("expected error for empty attribute name")
	}
}
