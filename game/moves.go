package game

import "slices"

// reach is the number of steps a piece may take along a direction, 0 for unlimited.
func reach(k Kind, diagonal bool) int {
	if k != Militant {
		return 0
	}
	if diagonal {
		return 1
	}
	return 2
}

// obstructed reports whether c is off-board or holds a piece.
func (gs *GameState) obstructed(c Cell) bool {
	_, occupied := gs.PieceAt(c)
	return occupied || !gs.board.Contains(c)
}

// ray walks from the piece at i along d, visiting each reachable cell with the
// index of the piece standing on it (-1 when empty) until visit returns false.
// A diagonal step is impossible when both flanking cells are obstructed.
func (gs *GameState) ray(i int, d Cell, visit func(c Cell, j int) bool) {
	p := &gs.pieces[i]
	limit := reach(p.Kind, gs.board.IsDiagonal(d))
	v1, v2, diagonal := gs.board.Flanks(d)
	prev := p.Cell
	for step := 1; limit == 0 || step <= limit; step++ {
		c := prev.Add(d)
		if !gs.board.Contains(c) {
			return
		}
		if diagonal && gs.obstructed(prev.Add(v1)) && gs.obstructed(prev.Add(v2)) {
			return
		}
		j, _ := gs.PieceAt(c)
		if !visit(c, j) {
			return
		}
		prev = c
	}
}

// legalDestinations computes the cells the piece at i may be moved to.
func (gs *GameState) legalDestinations(i int) []Cell {
	p := gs.pieces[i]
	if !p.Alive || i == gs.pending {
		return nil
	}
	var out []Cell
	for _, d := range gs.board.Directions() {
		gs.ray(i, d, func(c Cell, j int) bool {
			if j < 0 {
				// only a chief may rest on or cross an empty origin
				if c == Origin && p.Kind != Chief {
					return false
				}
				out = append(out, c)
				return true
			}
			target := gs.pieces[j]
			ally := target.Alive && target.Color == p.Color
			enemy := target.Alive && target.Color != p.Color

			switch p.Kind {
			case Militant:
				if enemy && c != Origin {
					out = append(out, c)
				}
			case Assassin:
				if ally {
					return true
				}
				if enemy && c != Origin {
					out = append(out, c)
				}
			case Chief:
				if enemy {
					out = append(out, c)
				}
			case Diplomat:
				if ally && gs.rules.Advanced {
					return true
				}
				if target.Alive {
					out = append(out, c)
				}
			case Necromobile:
				if !target.Alive {
					out = append(out, c)
				}
			}
			return false
		})
	}
	return out
}

// LegalDestinations returns the cells the piece standing on from may move to.
func (gs *GameState) LegalDestinations(from Cell) []Cell {
	i, ok := gs.PieceAt(from)
	if !ok {
		return nil
	}
	return slices.Clone(gs.destinationsOf(i))
}

func (gs *GameState) destinationsOf(i int) []Cell {
	if gs.destinations == nil {
		gs.destinations = make([][]Cell, len(gs.pieces))
		for k := range gs.pieces {
			gs.destinations[k] = gs.legalDestinations(k)
		}
	}
	return gs.destinations[i]
}

// LegalMoves lists every move available to a color.
func (gs *GameState) LegalMoves(c Color) []Move {
	pi := gs.playerIndex(c)
	if pi < 0 || gs.pending >= 0 {
		return nil
	}
	var moves []Move
	for _, i := range gs.players[pi].Pieces {
		from := gs.pieces[i].Cell
		for _, to := range gs.destinationsOf(i) {
			moves = append(moves, Move{From: from, To: to})
		}
	}
	return moves
}
