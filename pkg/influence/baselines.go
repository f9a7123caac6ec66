package influence

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph/network"

	"github.com/p4zaa/influence-service/pkg/graph"
)

// Baseline seed selectors for comparison against CELF. Both are standard
// influence-maximization heuristics: cheap to compute, no spread guarantee.

// SelectTopDegree returns up to k nodes ranked by out-degree. Ties break by
// node insertion order so the result is deterministic.
func SelectTopDegree(g *graph.Graph, k int) []string {
	if g == nil || k <= 0 {
		return []string{}
	}
	if k > g.NumNodes() {
		k = g.NumNodes()
	}

	ranked := make([]string, len(g.NodeList))
	copy(ranked, g.NodeList)

	sort.SliceStable(ranked, func(i, j int) bool {
		return g.OutDegree(ranked[i]) > g.OutDegree(ranked[j])
	})

	return ranked[:k]
}

// SelectPageRank returns up to k nodes ranked by PageRank score, computed
// on the probability-weighted gonum view of the graph.
func SelectPageRank(g *graph.Graph, k int, cfg *Config) ([]string, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if g == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}
	if k <= 0 || g.NumNodes() == 0 {
		return []string{}, nil
	}
	if k > g.NumNodes() {
		k = g.NumNodes()
	}

	adapter, err := g.ToGonum(cfg.ProbAttr(), cfg.DefaultProb())
	if err != nil {
		return nil, fmt.Errorf("gonum conversion failed: %w", err)
	}

	scores := network.PageRank(adapter.Graph, 0.85, 1e-6)
	if len(scores) == 0 {
		return nil, fmt.Errorf("PageRank computation returned no scores")
	}

	ranked := make([]string, len(g.NodeList))
	copy(ranked, g.NodeList)

	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[adapter.IDFor[ranked[i]]] > scores[adapter.IDFor[ranked[j]]]
	})

	return ranked[:k], nil
}
