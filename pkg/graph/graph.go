package graph

import (
	"fmt"
)

// Graph represents a directed graph with per-edge attributes
type Graph struct {
	Nodes    map[string]Node     `json:"nodes"`
	Edges    map[EdgeKey]Attrs   `json:"edges"`
	NodeList []string            `json:"-"` // Ordered list of node IDs for consistent iteration
	outgoing map[string][]string // successor lists, insertion order
}

// Node represents a node in the graph
type Node struct {
	ID        string `json:"id"`
	OutDegree int    `json:"out_degree"`
	InDegree  int    `json:"in_degree"`
}

// EdgeKey identifies a directed edge between two nodes
type EdgeKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Attrs holds named scalar attributes of an edge. Absence of an attribute
// is distinguishable from an explicit zero value.
type Attrs map[string]float64

// DefaultProbAttr is the conventional attribute name for activation probabilities
const DefaultProbAttr = "prob"

// NewGraph creates a new empty directed graph
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]Node),
		Edges:    make(map[EdgeKey]Attrs),
		NodeList: []string{},
		outgoing: make(map[string][]string),
	}
}

// AddNode adds a node to the graph if not already present
func (g *Graph) AddNode(nodeID string) {
	if _, exists := g.Nodes[nodeID]; !exists {
		g.Nodes[nodeID] = Node{ID: nodeID}
		g.NodeList = append(g.NodeList, nodeID)
	}
}

// AddEdge adds a directed edge with the given activation probability stored
// under DefaultProbAttr. Endpoints are added as needed. Adding an edge that
// already exists overwrites its probability.
func (g *Graph) AddEdge(from, to string, prob float64) error {
	if prob < 0 || prob > 1 {
		return fmt.Errorf("activation probability out of range [0,1]: %f", prob)
	}

	g.AddNode(from)
	g.AddNode(to)

	key := EdgeKey{From: from, To: to}
	if _, exists := g.Edges[key]; !exists {
		g.Edges[key] = make(Attrs)
		g.outgoing[from] = append(g.outgoing[from], to)

		fromNode := g.Nodes[from]
		fromNode.OutDegree++
		g.Nodes[from] = fromNode

		toNode := g.Nodes[to]
		toNode.InDegree++
		g.Nodes[to] = toNode
	}
	g.Edges[key][DefaultProbAttr] = prob

	return nil
}

// SetEdgeAttr sets a named attribute on an existing edge
func (g *Graph) SetEdgeAttr(from, to, name string, value float64) error {
	key := EdgeKey{From: from, To: to}
	attrs, exists := g.Edges[key]
	if !exists {
		return fmt.Errorf("edge does not exist: %s", key)
	}
	attrs[name] = value
	return nil
}

// EdgeAttr returns a named attribute of an edge. The second return value
// reports whether the attribute was present.
func (g *Graph) EdgeAttr(from, to, name string) (float64, bool) {
	attrs, exists := g.Edges[EdgeKey{From: from, To: to}]
	if !exists {
		return 0, false
	}
	value, ok := attrs[name]
	return value, ok
}

// HasNode reports whether the node exists in the graph
func (g *Graph) HasNode(nodeID string) bool {
	_, exists := g.Nodes[nodeID]
	return exists
}

// HasEdge reports whether the directed edge exists
func (g *Graph) HasEdge(from, to string) bool {
	_, exists := g.Edges[EdgeKey{From: from, To: to}]
	return exists
}

// Successors returns the out-neighbors of a node in insertion order.
// Unknown nodes have no successors.
func (g *Graph) Successors(nodeID string) []string {
	return g.outgoing[nodeID]
}

// NumNodes returns the number of nodes in the graph
func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

// NumEdges returns the number of directed edges in the graph
func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// OutDegree returns the out-degree of a node
func (g *Graph) OutDegree(nodeID string) int {
	return g.Nodes[nodeID].OutDegree
}

// Clone creates a deep copy of the graph
func (g *Graph) Clone() *Graph {
	clone := NewGraph()

	clone.NodeList = make([]string, len(g.NodeList))
	copy(clone.NodeList, g.NodeList)
	for id, node := range g.Nodes {
		clone.Nodes[id] = node
	}

	for key, attrs := range g.Edges {
		cloneAttrs := make(Attrs, len(attrs))
		for name, value := range attrs {
			cloneAttrs[name] = value
		}
		clone.Edges[key] = cloneAttrs
	}

	for from, successors := range g.outgoing {
		clone.outgoing[from] = make([]string, len(successors))
		copy(clone.outgoing[from], successors)
	}

	return clone
}

// Validate checks graph consistency
func (g *Graph) Validate() error {
	if len(g.NodeList) != len(g.Nodes) {
		return fmt.Errorf("node list and node map out of sync: %d vs %d", len(g.NodeList), len(g.Nodes))
	}

	for key, attrs := range g.Edges {
		if _, exists := g.Nodes[key.From]; !exists {
			return fmt.Errorf("edge references non-existent node: %s", key.From)
		}
		if _, exists := g.Nodes[key.To]; !exists {
			return fmt.Errorf("edge references non-existent node: %s", key.To)
		}

		if prob, ok := attrs[DefaultProbAttr]; ok && (prob < 0 || prob > 1) {
			return fmt.Errorf("probability out of range for edge %s: %f", key, prob)
		}
	}

	return nil
}

// String returns a string representation of an edge key
func (e EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", e.From, e.To)
}
