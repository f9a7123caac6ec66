package graph

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
)

// GonumAdapter bridges a probability graph to gonum's graph interfaces.
// Node IDs are assigned by NodeList order so the mapping is deterministic.
type GonumAdapter struct {
	Graph   *simple.WeightedDirectedGraph
	IDFor   map[string]int64
	NodeFor map[int64]string
}

// ToGonum converts the graph to a gonum weighted directed graph. Edge weight
// is the edge's probability attribute, or defaultProb when absent.
func (g *Graph) ToGonum(probAttr string, defaultProb float64) (*GonumAdapter, error) {
	if probAttr == "" {
		return nil, fmt.Errorf("probability attribute name cannot be empty")
	}

	adapter := &GonumAdapter{
		Graph:   simple.NewWeightedDirectedGraph(0, 0),
		IDFor:   make(map[string]int64, len(g.NodeList)),
		NodeFor: make(map[int64]string, len(g.NodeList)),
	}

	for i, nodeID := range g.NodeList {
		gid := int64(i)
		adapter.IDFor[nodeID] = gid
		adapter.NodeFor[gid] = nodeID
		adapter.Graph.AddNode(simple.Node(gid))
	}

	for key := range g.Edges {
		// Self-loops are not representable in gonum simple graphs and carry
		// no influence semantics anyway.
		if key.From == key.To {
			continue
		}

		prob, ok := g.EdgeAttr(key.From, key.To, probAttr)
		if !ok {
			prob = defaultProb
		}

		adapter.Graph.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(adapter.IDFor[key.From]),
			T: simple.Node(adapter.IDFor[key.To]),
			W: prob,
		})
	}

	return adapter, nil
}
