package agent

import (
	"fmt"

	"djambi/experiments/metrics"
	"djambi/game"
	"djambi/searcher"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) ChooseMove(gs *game.GameState) (game.Move, metrics.SearchMetric, error) {
	moves := gs.LegalMoves(gs.Current())
	if len(moves) == 0 {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("cannot move %v: %w", gs.Current(), searcher.ErrNoMove)
	}
	return moves[a.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}

func (a *randomAgent) ChoosePlacement(gs *game.GameState, cells []game.Cell) (game.Cell, error) {
	if len(cells) == 0 {
		return game.Cell{}, fmt.Errorf("cannot place: %w", game.ErrInvalidPlacement)
	}
	return cells[a.rng.Intn(len(cells))], nil
}
