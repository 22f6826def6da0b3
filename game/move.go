package game

import "fmt"

// Move moves the piece standing on From towards To.
type Move struct {
	From Cell `json:"from"`
	To   Cell `json:"to"`
}

func (m Move) String() string {
	return fmt.Sprintf("%v->%v", m.From, m.To)
}

// ScoredMove is a tactical candidate ranked by BestMoves.
type ScoredMove struct {
	Move
	Score float64
}
