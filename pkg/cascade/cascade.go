package cascade

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/p4zaa/influence-service/pkg/graph"
)

// Options controls a single Independent Cascade simulation
type Options struct {
	MaxSteps    int        `json:"max_steps"`    // safety cap on propagation rounds
	ProbAttr    string     `json:"prob_attr"`    // edge attribute holding activation probabilities
	DefaultProb float64    `json:"default_prob"` // used when an edge lacks the attribute
	Seed        int64      `json:"seed"`         // <= 0 means time-based seeding
	Rand        *rand.Rand `json:"-"`            // explicit source, overrides Seed when set
}

// DefaultOptions returns the conventional simulation parameters
func DefaultOptions() Options {
	return Options{
		MaxSteps:    99999,
		ProbAttr:    graph.DefaultProbAttr,
		DefaultProb: 0.1,
		Seed:        -1,
	}
}

// Result contains the outcome of one simulation run
type Result struct {
	Active  map[string]bool   `json:"active"`  // every node ever activated, seeds included
	History []map[string]bool `json:"history"` // cumulative active set per round, index 0 = seeds
	Steps   int               `json:"steps"`   // propagation rounds executed (excluding round 0)
}

// NumActive returns the number of activated nodes
func (r *Result) NumActive() int {
	return len(r.Active)
}

// Validate checks the simulation options
func (o Options) Validate() error {
	if o.MaxSteps < 0 {
		return fmt.Errorf("max steps must be non-negative: %d", o.MaxSteps)
	}
	if o.ProbAttr == "" {
		return fmt.Errorf("probability attribute name cannot be empty")
	}
	if o.DefaultProb < 0 || o.DefaultProb > 1 {
		return fmt.Errorf("default probability out of range [0,1]: %f", o.DefaultProb)
	}
	return nil
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	seed := o.Seed
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Simulate runs one discrete-time Independent Cascade trial from the given
// seed set. Each round, every newly activated node gets one chance to
// activate each of its inactive out-neighbors; an edge fires with its
// probability attribute (or DefaultProb when absent). The run terminates
// when a round produces no new activations or MaxSteps rounds have elapsed.
//
// Seeds that do not exist in the graph are accepted as inert: they count as
// active but never propagate. The graph is never mutated.
func Simulate(g *graph.Graph, seeds []string, opts Options) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation options: %w", err)
	}

	rng := opts.rng()

	active := make(map[string]bool, len(seeds))
	frontier := make([]string, 0, len(seeds))
	for _, s := range seeds {
		if !active[s] {
			active[s] = true
			frontier = append(frontier, s)
		}
	}

	result := &Result{
		Active:  active,
		History: []map[string]bool{cloneSet(active)},
	}

	for step := 0; step < opts.MaxSteps; step++ {
		var nextFrontier []string

		for _, u := range frontier {
			for _, v := range g.Successors(u) {
				if active[v] {
					continue
				}

				p, ok := g.EdgeAttr(u, v, opts.ProbAttr)
				if !ok {
					p = opts.DefaultProb
				}

				if rng.Float64() < p {
					active[v] = true
					nextFrontier = append(nextFrontier, v)
				}
			}
		}

		// Quiescence: no new activations this round
		if len(nextFrontier) == 0 {
			break
		}

		frontier = nextFrontier
		result.Steps++
		result.History = append(result.History, cloneSet(active))
	}

	return result, nil
}

func cloneSet(set map[string]bool) map[string]bool {
	clone := make(map[string]bool, len(set))
	for node := range set {
		clone[node] = true
	}
	return clone
}
