package influence

import (
	"context"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/p4zaa/influence-service/pkg/cascade"
	"github.com/p4zaa/influence-service/pkg/graph"
)

// SpreadEstimate is the Monte Carlo estimate of the expected number of
// activated nodes for a seed set. Variance decreases as 1/Trials; the mean
// is only exact in the limit of many trials.
type SpreadEstimate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Trials int     `json:"trials"`
}

// EstimateSpread estimates the expected spread of a seed set by averaging
// the final active-set size over cfg.Trials() independent cascade trials.
// Trials share the read-only graph and may run in parallel; each trial draws
// from its own random stream derived from the base seed, so results for a
// fixed seed do not depend on the number of workers. Cancelling ctx aborts
// the estimate between trials.
func EstimateSpread(ctx context.Context, g *graph.Graph, seeds []string, cfg *Config) (*SpreadEstimate, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
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

	return estimateSpread(ctx, g, seeds, opts, cfg.Trials(), cfg.seedOrNow(), cfg.workerCount())
}

func (c *Config) workerCount() int {
	if !c.Parallel() {
		return 1
	}
	workers := c.NumWorkers()
	if workers < 1 {
		workers = 1
	}
	return workers
}

// trialSeedMask truncates base seeds to 62 bits so base+i+1 stays strictly
// positive: a derived seed must never wrap into the range Simulate replaces
// with clock-based seeding.
const trialSeedMask = 1<<62 - 1

func trialSeed(base int64, i int) int64 {
	return (base & trialSeedMask) + int64(i) + 1
}

// estimateSpread is the shared primitive behind EstimateSpread and CELF.
// Trial i draws from its own stream derived from baseSeed.
func estimateSpread(ctx context.Context, g *graph.Graph, seeds []string, opts cascade.Options, trials int, baseSeed int64, workers int) (*SpreadEstimate, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trial count must be at least 1: %d", trials)
	}

	spreads := make([]float64, trials)

	if workers <= 1 || trials == 1 {
		for i := 0; i < trials; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			trialOpts := opts
			trialOpts.Seed = trialSeed(baseSeed, i)
			result, err := cascade.Simulate(g, seeds, trialOpts)
			if err != nil {
				return nil, err
			}
			spreads[i] = float64(result.NumActive())
		}
	} else {
		if workers > trials {
			workers = trials
		}

		var wg sync.WaitGroup
		errs := make([]error, workers)

		// Static striping keeps each trial's seed independent of worker count
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := w; i < trials; i += workers {
					if err := ctx.Err(); err != nil {
						errs[w] = err
						return
					}
					trialOpts := opts
					trialOpts.Seed = trialSeed(baseSeed, i)
					result, err := cascade.Simulate(g, seeds, trialOpts)
					if err != nil {
						errs[w] = err
						return
					}
					spreads[i] = float64(result.NumActive())
				}
			}(w)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	estimate := &SpreadEstimate{
		Mean:   stat.Mean(spreads, nil),
		Trials: trials,
	}
	if trials > 1 {
		estimate.StdDev = stat.StdDev(spreads, nil)
	}
	return estimate, nil
}
