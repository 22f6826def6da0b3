package experiments

import (
	"context"
	"sort"

	"djambi/experiments/metrics"
	"djambi/searcher"

	"github.com/rs/zerolog/log"
)

// DepthThroughput aggregates the searches made at one depth.
type DepthThroughput struct {
	Depth         int
	Searches      int
	Nodes         int
	NodesPerMove  float64
	NodesPerSec   float64
	MeanMoveMicro float64
}

// RunThroughputExperiment seats the same config in every seat, for each depth,
// so games have similar playing strength and length.
func RunThroughputExperiment(ctx context.Context, exp Experiment) (Result, []DepthThroughput, error) {
	if exp.Games == 0 {
		exp.Games = 1
	}
	if exp.Name == "" {
		exp.Name = "throughput"
	}
	configs := []metrics.AgentConfig{}
	matchUps := [][]metrics.AgentConfig{}
	for depth := 1; depth <= 4; depth++ {
		config := metrics.AgentConfig{ID: depth, Depth: depth, Candidates: searcher.DefaultCandidates}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{config})
	}

	result, err := runExperiment(ctx, exp, configs, matchUps)
	if err != nil {
		return result, nil, err
	}
	throughput := Throughput(result.Moves)
	for _, t := range throughput {
		log.Info().Int("depth", t.Depth).Int("searches", t.Searches).
			Float64("nodes_per_move", t.NodesPerMove).Float64("nodes_per_sec", t.NodesPerSec).Msg("throughput")
	}
	return result, throughput, nil
}

// Throughput groups move records by search depth. Moves without a search (random agents, passes) are skipped.
func Throughput(moves []metrics.MoveRecord) []DepthThroughput {
	byDepth := map[int]*DepthThroughput{}
	durations := map[int]float64{}
	for _, m := range moves {
		if m.Depth == 0 {
			continue
		}
		t, ok := byDepth[m.Depth]
		if !ok {
			t = &DepthThroughput{Depth: m.Depth}
			byDepth[m.Depth] = t
		}
		t.Searches++
		t.Nodes += m.Nodes
		durations[m.Depth] += m.Duration.Seconds()
	}

	out := make([]DepthThroughput, 0, len(byDepth))
	for depth, t := range byDepth {
		t.NodesPerMove = float64(t.Nodes) / float64(t.Searches)
		t.MeanMoveMicro = durations[depth] * 1e6 / float64(t.Searches)
		if durations[depth] > 0 {
			t.NodesPerSec = float64(t.Nodes) / durations[depth]
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth < out[j].Depth })
	return out
}
