package influence

import (
	"reflect"
	"testing"

	"github.com/p4zaa/influence-service/pkg/graph"
)

func hubGraph() *graph.Graph {
	g := graph.NewGraph()
	g.AddEdge("hub", "a", 0.5)
	g.AddEdge("hub", "b", 0.5)
	g.AddEdge("hub", "c", 0.5)
	g.AddEdge("mid", "a", 0.5)
	g.AddEdge("mid", "b", 0.5)
	g.AddEdge("a", "b", 0.5)
	return g
}

func TestSelectTopDegree(t *testing.T) {
	g := hubGraph()

	seeds := SelectTopDegree(g, 2)
	expected := []string{"hub", "mid"}
	if !reflect.DeepEqual(seeds, expected) {
		t.Errorf("expected %v, got %v", expected, seeds)
	}

	if len(SelectTopDegree(g, 0)) != 0 {
		t.Error("k=0 should yield no seeds")
	}
	if len(SelectTopDegree(g, 100)) != g.NumNodes() {
		t.Error("k beyond node count should yield all nodes")
	}
	if len(SelectTopDegree(nil, 2)) != 0 {
		t.Error("nil graph should yield no seeds")
	}
}

func TestSelectTopDegreeTieBreak(t *testing.T) {
	g := graph.NewGraph()
	g.AddEdge("x", "a", 0.5)
	g.AddEdge("y", "b", 0.5)
	g.AddEdge("z", "c", 0.5)

	// All sources have out-degree 1; insertion order decides
	seeds := SelectTopDegree(g, 3)
	expected := []string{"x", "y", "z"}
	if !reflect.DeepEqual(seeds, expected) {
		t.Errorf("expected insertion-order tie break %v, got %v", expected, seeds)
	}
}

func TestSelectPageRank(t *testing.T) {
	g := graph.NewGraph()
	// Everything points at "sink", which should rank highest
	g.AddEdge("a", "sink", 0.9)
	g.AddEdge("b", "sink", 0.9)
	g.AddEdge("c", "sink", 0.9)

	seeds, err := SelectPageRank(g, 1, nil)
	if err != nil {
		t.Fatalf("SelectPageRank failed: %v", err)
	}
	if len(seeds) != 1 || seeds[0] != "sink" {
		t.Errorf("expected [sink], got %v", seeds)
	}

	seeds, err = SelectPageRank(g, 100, nil)
	if err != nil {
		t.Fatalf("SelectPageRank failed: %v", err)
	}
	if len(seeds) != g.NumNodes() {
		t.Errorf("k beyond node count should yield all nodes, got %d", len(seeds))
	}

	if _, err := SelectPageRank(nil, 1, nil); err == nil {
		t.Error("expected error for nil graph")
	}

	empty, err := SelectPageRank(graph.NewGraph(), 3, nil)
	if err != nil {
		t.Fatalf("SelectPageRank failed on empty graph: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty graph should yield no seeds: %v", empty)
	}
}
