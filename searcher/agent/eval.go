package agent

import (
	"djambi/experiments/metrics"
	"djambi/game"
	"djambi/searcher"
)

type searchAgent struct {
	negamax *searcher.Negamax
}

// NewSearchAgent returns an agent that plays the negamax choice.
func NewSearchAgent(negamax *searcher.Negamax) Agent {
	return searchAgent{negamax: negamax}
}

func (a searchAgent) ChooseMove(gs *game.GameState) (game.Move, metrics.SearchMetric, error) {
	return a.negamax.ChooseMove(gs, gs.Current())
}

func (a searchAgent) ChoosePlacement(gs *game.GameState, cells []game.Cell) (game.Cell, error) {
	return a.negamax.ChoosePlacement(cells)
}
