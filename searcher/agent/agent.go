package agent

import (
	"djambi/experiments/metrics"
	"djambi/game"
)

type Agent interface {
	// ChooseMove returns a move for the current player and performance metrics (if collected)
	ChooseMove(gs *game.GameState) (game.Move, metrics.SearchMetric, error)
	// ChoosePlacement picks where a captured or displaced piece goes
	ChoosePlacement(gs *game.GameState, cells []game.Cell) (game.Cell, error)
}

// Play lets the agent take the current player's full turn, placement included.
func Play(a Agent, gs *game.GameState) (game.Move, metrics.SearchMetric, error) {
	move, metric, err := a.ChooseMove(gs)
	if err != nil {
		return game.Move{}, metric, err
	}
	if err := gs.SubmitMove(move); err != nil {
		return game.Move{}, metric, err
	}
	if _, cells, pending := gs.Pending(); pending {
		cell, err := a.ChoosePlacement(gs, cells)
		if err != nil {
			return move, metric, err
		}
		if err := gs.PlaceCapturedPiece(cell); err != nil {
			return move, metric, err
		}
	}
	return move, metric, nil
}
