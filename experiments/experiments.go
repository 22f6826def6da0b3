package experiments

import (
	"context"
	"fmt"
	"io"
	"sync"

	"djambi/engine"
	"djambi/experiments/metrics"
	"djambi/game"
	"djambi/searcher"
	"djambi/searcher/agent"
	"djambi/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	NumGames = 10 // Per match up
	MaxMoves = 400
)

// Experiment holds the arena settings shared by every match up.
type Experiment struct {
	Name        string
	Players     int
	Games       int // per match up
	MaxMoves    int
	Concurrency int
	OutputDir   string
	Progress    io.Writer // progress bar output, nil for none
}

func (e Experiment) withDefaults() Experiment {
	if e.Players == 0 {
		e.Players = 4
	}
	if e.Games == 0 {
		e.Games = NumGames
	}
	if e.MaxMoves == 0 {
		e.MaxMoves = MaxMoves
	}
	if e.Concurrency < 1 {
		e.Concurrency = 1
	}
	if e.OutputDir == "" {
		e.OutputDir = "results"
	}
	return e
}

// Result is what an experiment wrote and the wins per agent config ID.
type Result struct {
	Dir   string
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Wins  map[int]int
}

var depthConfigs = []metrics.AgentConfig{
	{ID: 1, Depth: 1, Candidates: searcher.DefaultCandidates},
	{ID: 2, Depth: 2, Candidates: searcher.DefaultCandidates},
	{ID: 3, Depth: 3, Candidates: searcher.DefaultCandidates},
}

// RunDepthToStrength pairs each search depth against a random baseline.
func RunDepthToStrength(ctx context.Context, exp Experiment) (Result, error) {
	baseline := metrics.AgentConfig{ID: 0, Random: true}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range depthConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	if exp.Name == "" {
		exp.Name = "depth_to_strength"
	}
	return runExperiment(ctx, exp, append([]metrics.AgentConfig{baseline}, depthConfigs...), matchUps)
}

// RunCandidatesExperiment pairs a baseline against narrower and wider candidate lists at the same depth.
func RunCandidatesExperiment(ctx context.Context, exp Experiment) (Result, error) {
	baseline := metrics.AgentConfig{ID: 0, Depth: searcher.DefaultDepth, Candidates: searcher.DefaultCandidates}
	candidateConfigs := []metrics.AgentConfig{
		{ID: 1, Depth: baseline.Depth, Candidates: 2},
		{ID: 2, Depth: baseline.Depth, Candidates: 4},
		{ID: 3, Depth: baseline.Depth, Candidates: 16},
	}
	matchUps := [][]metrics.AgentConfig{}
	for _, config := range candidateConfigs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}
	if exp.Name == "" {
		exp.Name = "candidates"
	}
	return runExperiment(ctx, exp, append([]metrics.AgentConfig{baseline}, candidateConfigs...), matchUps)
}

// RunMatchUps plays the given match ups and stores the records.
func RunMatchUps(ctx context.Context, exp Experiment, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (Result, error) {
	return runExperiment(ctx, exp, configs, matchUps)
}

type gameJob struct {
	id    int
	seats []metrics.AgentConfig
}

func runExperiment(ctx context.Context, exp Experiment, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (Result, error) {
	exp = exp.withDefaults()
	log.Info().Msgf("starting %s experiment...", exp.Name)

	var jobs []gameJob
	for _, matchUp := range matchUps {
		if len(matchUp) == 0 {
			return Result{}, fmt.Errorf("empty match up in %s", exp.Name)
		}
		for i := 0; i < exp.Games; i++ {
			jobs = append(jobs, gameJob{id: len(jobs) + 1, seats: seatConfigs(matchUp, exp.Players, i)})
		}
	}

	var bar *Bar
	if exp.Progress != nil {
		bar = NewBar(len(jobs), exp.Name, exp.Progress)
		defer bar.Close()
	}

	gameRecords := make([]metrics.GameRecord, len(jobs))
	moveRecords := make([][]metrics.MoveRecord, len(jobs))
	var mu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exp.Concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			record, moves, err := runGame(gctx, exp, job)
			if err != nil {
				return fmt.Errorf("game %d: %w", job.id, err)
			}
			gameRecords[i] = record
			moveRecords[i] = moves

			mu.Lock()
			completed++
			log.Debug().Msgf("completed game %d of %d with winner: %s", completed, len(jobs), record.Winner)
			mu.Unlock()
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	log.Info().Msgf("completed %s experiment", exp.Name)

	result := Result{Games: gameRecords, Wins: make(map[int]int, len(configs))}
	for _, moves := range moveRecords {
		result.Moves = append(result.Moves, moves...)
	}
	for _, config := range configs {
		id := config.ID
		result.Wins[id] = utils.CountIf(gameRecords, func(r metrics.GameRecord) bool { return r.WinnerAgent == id })
	}

	dir, err := store(exp, configs, result)
	if err != nil {
		return result, err
	}
	result.Dir = dir
	return result, nil
}

// seatConfigs fills every seat cyclically from the match up, rotated by game so
// each config takes its turn as the starting seat.
func seatConfigs(matchUp []metrics.AgentConfig, players, round int) []metrics.AgentConfig {
	seats := make([]metrics.AgentConfig, players)
	for k := range seats {
		seats[k] = matchUp[(k+round)%len(matchUp)]
	}
	return seats
}

func runGame(ctx context.Context, exp Experiment, job gameJob) (metrics.GameRecord, []metrics.MoveRecord, error) {
	gs, err := game.NewGameState(exp.Players, game.WithLogger(zerolog.Nop()))
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	agents := make([]agent.Agent, len(job.seats))
	ids := make([]int, len(job.seats))
	for k, config := range job.seats {
		agents[k] = createAgent(config, uint64(job.id*len(job.seats)+k))
		ids[k] = config.ID
	}
	e, err := engine.NewLocalEngine(gs, agents, engine.WithMaxMoves(exp.MaxMoves), engine.WithLogger(zerolog.Nop()))
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	winner, gameMetric, moveMetrics, err := e.Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}

	record := metrics.GameRecord{ID: job.id, Agents: ids, WinnerAgent: -1, GameMetric: gameMetric}
	if winner != "" {
		color, err := game.ParseColor(winner)
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		if seat := utils.FindIndex(e.Seats(), color); seat >= 0 {
			record.WinnerAgent = ids[seat]
		}
	}
	moves := make([]metrics.MoveRecord, len(moveMetrics))
	for k, mm := range moveMetrics {
		moves[k] = metrics.MoveRecord{Game: job.id, MoveMetric: mm}
	}
	return record, moves, nil
}

// createAgent builds the agent a config describes. seed offsets the config's own seed per seat and game.
func createAgent(config metrics.AgentConfig, seed uint64) agent.Agent {
	if config.Random {
		return agent.NewRandomAgent(config.Seed + seed)
	}
	options := []searcher.Option{searcher.WithSeed(config.Seed + seed), searcher.WithMetrics()}
	if config.Depth > 0 {
		options = append(options, searcher.WithDepth(config.Depth))
	}
	if config.Candidates > 0 {
		options = append(options, searcher.WithCandidates(config.Candidates))
	}
	return agent.NewSearchAgent(searcher.NewNegamax(options...))
}

func store(exp Experiment, configs []metrics.AgentConfig, result Result) (string, error) {
	writer, err := metrics.NewWriter(exp.OutputDir, exp.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
