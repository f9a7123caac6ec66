package influence

import (
	"container/heap"
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/p4zaa/influence-service/pkg/cascade"
	"github.com/p4zaa/influence-service/pkg/graph"
)

// SelectionResult contains the output of a CELF seed selection
type SelectionResult struct {
	Seeds          []string   `json:"seeds"`           // selection order, first-selected first
	Gains          []float64  `json:"gains"`           // marginal gain of each seed when accepted
	ExpectedSpread float64    `json:"expected_spread"` // cumulative expected spread of the seed set
	Statistics     Statistics `json:"statistics"`
}

// Statistics contains selection performance metrics
type Statistics struct {
	SpreadEvaluations int          `json:"spread_evaluations"` // total estimator calls
	TrialsPerEstimate int          `json:"trials_per_estimate"`
	RuntimeMS         int64        `json:"runtime_ms"`
	Rounds            []RoundStats `json:"rounds"`
}

// RoundStats contains per-round statistics
type RoundStats struct {
	Round       int     `json:"round"`
	Node        string  `json:"node"`
	Gain        float64 `json:"gain"`
	Evaluations int     `json:"evaluations"` // candidates recomputed before acceptance
}

// candidate is a lazy-forward queue entry. A cached gain is trusted only
// when its freshness stamp equals the current selection round.
type candidate struct {
	node      string
	gain      float64
	freshness int
	order     int // insertion index, breaks gain ties deterministically
}

// lazyQueue is a max-heap of candidates keyed by cached marginal gain
type lazyQueue []*candidate

func (q lazyQueue) Len() int { return len(q) }

func (q lazyQueue) Less(i, j int) bool {
	if q[i].gain != q[j].gain {
		return q[i].gain > q[j].gain
	}
	return q[i].order < q[j].order
}

func (q lazyQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *lazyQueue) Push(x interface{}) { *q = append(*q, x.(*candidate)) }

func (q *lazyQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// CELF selects up to k seed nodes maximizing expected spread under the
// Independent Cascade model, using the lazy-forward strategy of Leskovec et
// al. (2007). Submodularity of the spread function guarantees a node's
// marginal gain never grows as the seed set does, so a candidate whose
// cached gain was recomputed in the current round and still tops the queue
// is provably the best choice for this round.
//
// k <= 0 yields an empty selection; k >= |V| returns every node. Repeated
// calls with the same configured random seed produce identical seed lists.
func CELF(ctx context.Context, g *graph.Graph, k int, cfg *Config) (*SelectionResult, error) {
	startTime := time.Now()
	if cfg == nil {
		cfg = NewConfig()
	}
	logger := cfg.CreateLogger()

	if g == nil {
		return nil, fmt.Errorf("graph cannot be nil")
	}

	opts := cascade.Options{
		MaxSteps:    cfg.MaxSteps(),
		ProbAttr:    cfg.ProbAttr(),
		DefaultProb: cfg.DefaultProb(),
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation options: %w", err)
	}

	trials := cfg.Trials()
	if trials < 1 {
		return nil, fmt.Errorf("trial count must be at least 1: %d", trials)
	}

	result := &SelectionResult{
		Seeds:      []string{},
		Gains:      []float64{},
		Statistics: Statistics{TrialsPerEstimate: trials, Rounds: []RoundStats{}},
	}

	if k <= 0 || g.NumNodes() == 0 {
		result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()
		return result, nil
	}
	if k > g.NumNodes() {
		k = g.NumNodes()
	}

	workers := cfg.workerCount()

	// All estimator randomness flows from this one source, so a fixed
	// configured seed makes the whole selection reproducible.
	rng := rand.New(rand.NewSource(cfg.seedOrNow()))
	estimate := func(seeds []string) (float64, error) {
		result.Statistics.SpreadEvaluations++
		est, err := estimateSpread(ctx, g, seeds, opts, trials, rng.Int63(), workers)
		if err != nil {
			return 0, err
		}
		return est.Mean, nil
	}

	logger.Info().
		Int("nodes", g.NumNodes()).
		Int("k", k).
		Int("trials", trials).
		Msg("Starting CELF seed selection")

	// Initialization round: gain of each node alone. The empty seed set
	// spreads nothing under a cascade model, so no baseline subtraction.
	queue := make(lazyQueue, 0, g.NumNodes())
	for i, node := range g.NodeList {
		gain, err := estimate([]string{node})
		if err != nil {
			return nil, fmt.Errorf("initial gain estimation failed for %s: %w", node, err)
		}
		queue = append(queue, &candidate{node: node, gain: gain, freshness: 0, order: i})
	}
	heap.Init(&queue)

	seeds := make([]string, 0, k)
	currentSpread := 0.0
	baseSpread := 0.0 // estimated spread of the current seed set, refreshed lazily
	baseFresh := true // baseSpread matches the current seed set

	for round := 1; round <= k && queue.Len() > 0; round++ {
		evaluations := 0

		for {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			top := heap.Pop(&queue).(*candidate)

			if top.freshness == round {
				// Recomputed this round and still dominating: by
				// submodularity no stale candidate can beat it.
				seeds = append(seeds, top.node)
				currentSpread += top.gain
				baseFresh = false
				result.Seeds = seeds
				result.Gains = append(result.Gains, top.gain)
				result.Statistics.Rounds = append(result.Statistics.Rounds, RoundStats{
					Round:       round,
					Node:        top.node,
					Gain:        top.gain,
					Evaluations: evaluations,
				})

				if cfg.EnableProgress() {
					logger.Info().
						Int("round", round).
						Str("node", top.node).
						Float64("gain", top.gain).
						Int("evaluations", evaluations).
						Msg("Seed selected")
				}
				break
			}

			// Stale entry: recompute its marginal gain against the
			// current seed set and push it back.
			if !baseFresh {
				spread, err := estimate(seeds)
				if err != nil {
					return nil, fmt.Errorf("base spread estimation failed: %w", err)
				}
				baseSpread = spread
				baseFresh = true
			}

			withCandidate := append(append(make([]string, 0, len(seeds)+1), seeds...), top.node)
			spread, err := estimate(withCandidate)
			if err != nil {
				return nil, fmt.Errorf("gain estimation failed for %s: %w", top.node, err)
			}

			top.gain = spread - baseSpread
			top.freshness = round
			heap.Push(&queue, top)
			evaluations++
		}
	}

	result.ExpectedSpread = currentSpread
	result.Statistics.RuntimeMS = time.Since(startTime).Milliseconds()

	logger.Info().
		Int("seeds", len(result.Seeds)).
		Float64("expected_spread", result.ExpectedSpread).
		Int("spread_evaluations", result.Statistics.SpreadEvaluations).
		Int64("runtime_ms", result.Statistics.RuntimeMS).
		Msg("CELF seed selection completed")

	return result, nil
}
