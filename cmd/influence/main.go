package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/p4zaa/influence-service/pkg/cascade"
	"github.com/p4zaa/influence-service/pkg/graph"
	"github.com/p4zaa/influence-service/pkg/influence"
)

func main() {
	var (
		graphFile   = flag.String("graph", "", "Edge list file: 'from to [prob]' per line")
		operation   = flag.String("op", "celf", "Operation: celf, simulate, estimate, degree, pagerank")
		k           = flag.Int("k", 5, "Number of seeds to select (celf, degree, pagerank)")
		seedNodes   = flag.String("seeds", "", "Comma-separated seed nodes (simulate, estimate)")
		trials      = flag.Int("trials", 100, "Monte Carlo trials per spread estimate")
		randomSeed  = flag.Int64("seed", -1, "Random seed (-1 = time-based)")
		probAttr    = flag.String("prob-attr", "prob", "Edge attribute holding activation probabilities")
		defaultProb = flag.Float64("default-prob", 0.1, "Probability used when an edge lacks the attribute")
		maxSteps    = flag.Int("max-steps", 99999, "Safety cap on propagation rounds")
		configFile  = flag.String("config", "", "Optional configuration file")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).Level(level)

	if *graphFile == "" {
		fmt.Fprintln(os.Stderr, "usage: influence -graph <edge-list-file> [-op celf|simulate|estimate|degree|pagerank] [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	g, err := graph.LoadEdgeList(*graphFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", *graphFile).Msg("Failed to load graph")
	}

	log.Info().
		Str("file", *graphFile).
		Int("nodes", g.NumNodes()).
		Int("edges", g.NumEdges()).
		Msg("Graph loaded")

	cfg := influence.NewConfig()
	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			log.Fatal().Err(err).Str("file", *configFile).Msg("Failed to load configuration")
		}
	}
	cfg.Set("estimator.trials", *trials)
	cfg.Set("algorithm.random_seed", *randomSeed)
	cfg.Set("simulation.prob_attr", *probAttr)
	cfg.Set("simulation.default_prob", *defaultProb)
	cfg.Set("simulation.max_steps", *maxSteps)

	var output interface{}

	switch *operation {
	case "celf":
		result, err := influence.CELF(context.Background(), g, *k, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("CELF selection failed")
		}
		output = result

	case "simulate":
		opts := cascade.Options{
			MaxSteps:    *maxSteps,
			ProbAttr:    *probAttr,
			DefaultProb: *defaultProb,
			Seed:        *randomSeed,
		}
		result, err := cascade.Simulate(g, parseSeeds(*seedNodes), opts)
		if err != nil {
			log.Fatal().Err(err).Msg("Simulation failed")
		}
		activated := make([]string, 0, len(result.Active))
		for node := range result.Active {
			activated = append(activated, node)
		}
		sort.Strings(activated)
		output = map[string]interface{}{
			"activated": activated,
			"steps":     result.Steps,
		}

	case "estimate":
		estimate, err := influence.EstimateSpread(context.Background(), g, parseSeeds(*seedNodes), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Spread estimation failed")
		}
		output = estimate

	case "degree":
		output = map[string]interface{}{"method": "degree", "seeds": influence.SelectTopDegree(g, *k)}

	case "pagerank":
		seeds, err := influence.SelectPageRank(g, *k, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("PageRank selection failed")
		}
		output = map[string]interface{}{"method": "pagerank", "seeds": seeds}

	default:
		log.Fatal().Str("operation", *operation).Msg("Unknown operation")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
}

func parseSeeds(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	seeds := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			seeds = append(seeds, trimmed)
		}
	}
	return seeds
}
