package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"djambi/experiments/metrics"
	"djambi/game"
	"djambi/searcher"
	"djambi/searcher/agent"
	"djambi/utils"
)

// LocalEngine runs a game in process with one agent per seat.
type LocalEngine struct {
	State  *game.GameState
	seats  []game.Color
	agents []agent.Agent
	settings
}

var _ Engine = (*LocalEngine)(nil)

// NewLocalEngine seats agents[i] at the i-th player of gs in seating order.
func NewLocalEngine(gs *game.GameState, agents []agent.Agent, options ...Option) (*LocalEngine, error) {
	players := gs.Players()
	if len(players) != len(agents) {
		return nil, fmt.Errorf("%d agents for %d players: %w", len(agents), len(players), ErrSeatMismatch)
	}
	seats := make([]game.Color, len(players))
	for i, p := range players {
		seats[i] = p.Color
	}
	return &LocalEngine{
		State:    gs,
		seats:    seats,
		agents:   agents,
		settings: newSettings(options),
	}, nil
}

// Seats returns the color each agent plays.
func (e *LocalEngine) Seats() []game.Color { return e.seats }

// Run executes the entire game loop. A player without any legal move passes.
func (e *LocalEngine) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		Players:        len(e.seats),
		StartingPlayer: e.State.Current().String(),
		StartTime:      time.Now(),
	}
	e.log.Debug().Str("player", gameMetric.StartingPlayer).Int("players", len(e.seats)).Msg("game started")

	var moveMetrics []metrics.MoveMetric
	step := 0
	for !e.State.Over() && step < e.maxMoves {
		if err := ctx.Err(); err != nil {
			return "", gameMetric, moveMetrics, err
		}
		player := e.State.Current()
		seat := utils.FindIndex(e.seats, player)
		if seat < 0 {
			return "", gameMetric, moveMetrics, fmt.Errorf("no agent seated for %v", player)
		}

		_, metric, err := agent.Play(e.agents[seat], e.State)
		switch {
		case errors.Is(err, searcher.ErrNoMove):
			if err := e.State.AdvanceTurn(); err != nil {
				return "", gameMetric, moveMetrics, err
			}
			e.log.Debug().Str("player", player.String()).Msg("no legal move, turn passed")
		case err != nil:
			return "", gameMetric, moveMetrics, fmt.Errorf("%v failed to play: %w", player, err)
		}
		step++
		moveMetrics = append(moveMetrics, metrics.MoveMetric{Step: step, Player: player.String(), SearchMetric: metric})
	}

	winner := ""
	if c, ok := e.State.Winner(); ok {
		winner = c.String()
		e.log.Debug().Str("winner", winner).Int("moves", step).Msg("game over")
	} else {
		e.log.Debug().Int("moves", step).Msg("stopped at the move cap")
	}
	gameMetric.Winner = winner
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = step
	return winner, gameMetric, moveMetrics, nil
}
