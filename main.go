package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"djambi/communication"
	"djambi/communication/client"
	"djambi/communication/server"
	"djambi/experiments"
	"djambi/gamemaster"
	"djambi/meta"
	"djambi/player"
	"djambi/searcher"
	"djambi/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const usage = `usage: djambi <command> [flags]

commands:
  serve   run the match relay
  arena   run a self-play experiment (depth, candidates, throughput)
  play    seat AI players on colors of a relay match`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(ctx, os.Args[2:])
	case "arena":
		err = arena(ctx, os.Args[2:])
	case "play":
		err = play(ctx, os.Args[2:])
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg(os.Args[1] + " failed")
	}
}

// setup parses the flags and loads the config file they name.
func setup(fs *flag.FlagSet, args []string) (meta.Config, error) {
	configPath := fs.String("config", "", "YAML config file")
	logLevel := fs.String("log-level", "", "log level, overrides the config")
	if err := fs.Parse(args); err != nil {
		return meta.Config{}, err
	}
	config, err := meta.Load(*configPath)
	if err != nil {
		return config, err
	}
	if *logLevel != "" {
		config.LogLevel = *logLevel
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return config, fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return config, nil
}

func searchOptions(config meta.Config) []searcher.Option {
	return []searcher.Option{
		searcher.WithDepth(config.Search.Depth),
		searcher.WithCandidates(config.Search.Candidates),
		searcher.WithSeed(config.Search.Seed),
		searcher.WithMetrics(),
	}
}

func serve(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "listen address, overrides the config")
	profile := fs.Bool("profile", false, "mount pprof under /debug")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *addr != "" {
		config.Addr = *addr
	}

	registry := gamemaster.NewRegistry(searchOptions(config)...)
	var options []server.Option
	if *profile || config.Profile {
		options = append(options, server.WithProfiler())
	}
	return server.NewServer(registry, options...).ListenAndServe(ctx, config.Addr)
}

func arena(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("arena", flag.ExitOnError)
	name := fs.String("experiment", "depth", "experiment to run: depth, candidates or throughput")
	games := fs.Int("games", 0, "games per match up, overrides the config")
	players := fs.Int("players", 0, "players per game, overrides the config")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	if *games > 0 {
		config.Arena.Games = *games
	}
	if *players > 0 {
		config.Players = *players
	}

	exp := experiments.Experiment{
		Players:     config.Players,
		Games:       config.Arena.Games,
		MaxMoves:    config.MaxTurns,
		Concurrency: config.Arena.Concurrency,
		OutputDir:   config.OutputDir,
		Progress:    os.Stderr,
	}
	var result experiments.Result
	switch *name {
	case "depth":
		result, err = experiments.RunDepthToStrength(ctx, exp)
	case "candidates":
		result, err = experiments.RunCandidatesExperiment(ctx, exp)
	case "throughput":
		result, _, err = experiments.RunThroughputExperiment(ctx, exp)
	default:
		return fmt.Errorf("unknown experiment %q", *name)
	}
	if err != nil {
		return err
	}
	for id, wins := range result.Wins {
		log.Info().Int("agent", id).Int("wins", wins).Int("games", len(result.Games)).Msg("arena result")
	}
	log.Info().Str("dir", result.Dir).Msg("records written")
	return nil
}

func play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	url := fs.String("url", "http://localhost"+meta.ADDR, "relay base URL")
	matchID := fs.String("match", "", "match to join; a new match is created when empty")
	colors := fs.String("colors", "", "comma separated colors the AI plays")
	config, err := setup(fs, args)
	if err != nil {
		return err
	}
	relay := client.NewClientCommunicator(*url)

	id := *matchID
	if id == "" {
		created, err := relay.Create(ctx, communication.CreateRequest{Players: config.Players, Advanced: config.Advanced})
		if err != nil {
			return err
		}
		id = created.ID
		log.Info().Str("match", id).Str("first", created.State.CurrentPlayer).Msg("match created")
	}
	if *colors == "" {
		return fmt.Errorf("no colors to play")
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, color := range strings.Split(*colors, ",") {
		options := append(searchOptions(config), searcher.WithSeed(config.Search.Seed+uint64(i)))
		p := player.NewPlayer(strings.TrimSpace(color), agent.NewSearchAgent(searcher.NewNegamax(options...)), relay)
		g.Go(func() error {
			winner, err := p.Play(gctx, id)
			if errors.Is(err, player.ErrEliminated) {
				log.Info().Str("color", p.Color).Msg("eliminated")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("color", p.Color).Str("winner", winner).Msg("game finished")
			return nil
		})
	}
	return g.Wait()
}
