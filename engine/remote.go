package engine

import (
	"context"
	"fmt"
	"time"

	"djambi/communication"
	"djambi/experiments/metrics"
	"djambi/game"
	"djambi/searcher/agent"
	"djambi/utils"

	"github.com/rs/zerolog"
)

// RemoteEngine plays every seat of a relay match with local agents. Each
// decision is made on a game imported from the relay's export.
type RemoteEngine struct {
	comm   communication.Communicator
	id     string
	seats  []string
	agents []agent.Agent
	settings
}

var _ Engine = (*RemoteEngine)(nil)

// NewRemoteEngine creates a match on the relay and seats agents[i] at its i-th player.
func NewRemoteEngine(ctx context.Context, comm communication.Communicator, req communication.CreateRequest, agents []agent.Agent, options ...Option) (*RemoteEngine, error) {
	created, err := comm.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("cannot create remote match: %w", err)
	}
	if len(created.State.Players) != len(agents) {
		return nil, fmt.Errorf("%d agents for %d players: %w", len(agents), len(created.State.Players), ErrSeatMismatch)
	}
	seats := make([]string, len(created.State.Players))
	for i, p := range created.State.Players {
		seats[i] = p.Color
	}
	e := &RemoteEngine{
		comm:     comm,
		id:       created.ID,
		seats:    seats,
		agents:   agents,
		settings: newSettings(options),
	}
	e.log = e.log.With().Str("match", created.ID).Logger()
	return e, nil
}

func (e *RemoteEngine) ID() string { return e.id }

func (e *RemoteEngine) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	state, err := e.comm.GetGameState(ctx, e.id)
	if err != nil {
		return "", metrics.GameMetric{}, nil, err
	}
	gameMetric := metrics.GameMetric{
		Players:        len(e.seats),
		StartingPlayer: state.CurrentPlayer,
		StartTime:      time.Now(),
	}

	var moveMetrics []metrics.MoveMetric
	step := 0
	for state.Winner == "" && step < e.maxMoves {
		seat := utils.FindIndex(e.seats, state.CurrentPlayer)
		if seat < 0 {
			return "", gameMetric, moveMetrics, fmt.Errorf("no agent seated for %s", state.CurrentPlayer)
		}
		next, metric, err := PlayRemote(ctx, e.comm, e.id, e.agents[seat], state)
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("%s failed to play: %w", state.CurrentPlayer, err)
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{Step: step, Player: state.CurrentPlayer, SearchMetric: metric})
		state = next
	}

	e.log.Debug().Str("winner", state.Winner).Int("moves", step).Msg("remote game finished")
	gameMetric.Winner = state.Winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	return state.Winner, gameMetric, moveMetrics, nil
}

// PlayRemote lets a choose the current player's move on the exported state and
// submits it to the relay, placement included.
func PlayRemote(ctx context.Context, comm communication.Communicator, id string, a agent.Agent, state game.Export) (game.Export, metrics.SearchMetric, error) {
	gs, err := game.Import(state, game.WithLogger(zerolog.Nop()))
	if err != nil {
		return state, metrics.SearchMetric{}, err
	}
	move, metric, err := a.ChooseMove(gs)
	if err != nil {
		return state, metric, err
	}
	next, err := comm.SendMove(ctx, id, move)
	if err != nil {
		return state, metric, err
	}
	if next.PendingCapture == nil {
		return next, metric, nil
	}

	// choose on the relay's view so the available cells match
	gs, err = game.Import(next, game.WithLogger(zerolog.Nop()))
	if err != nil {
		return next, metric, err
	}
	cell, err := a.ChoosePlacement(gs, next.AvailablePlacementCells)
	if err != nil {
		return next, metric, err
	}
	next, err = comm.SendPlacement(ctx, id, cell)
	return next, metric, err
}
