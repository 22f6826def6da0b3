package game

import (
	"fmt"
	"slices"
)

// SubmitMove validates and applies a move for the current player. The turn
// advances immediately unless the move leaves a captured or displaced piece
// awaiting placement.
func (gs *GameState) SubmitMove(m Move) error {
	if gs.Over() {
		return fmt.Errorf("cannot move %v: %w", m, ErrGameOver)
	}
	if gs.pending >= 0 {
		return fmt.Errorf("cannot move %v: %w: %w", m, ErrInvalidMove, ErrPlacementPending)
	}
	i, ok := gs.PieceAt(m.From)
	if !ok {
		return fmt.Errorf("cannot move %v: no piece on %v: %w", m, m.From, ErrInvalidMove)
	}
	p := gs.pieces[i]
	if !p.Alive || p.Color != gs.Current() {
		return fmt.Errorf("cannot move %v: piece does not belong to %v: %w", m, gs.Current(), ErrInvalidMove)
	}
	if !slices.Contains(gs.destinationsOf(i), m.To) {
		return fmt.Errorf("cannot move %v: destination is not reachable by %v: %w", m, p.Kind, ErrInvalidMove)
	}

	if gs.history != nil {
		gs.history.DiscardFuture()
	}
	gs.resolve(i, m.To)
	if gs.pending < 0 {
		gs.advance()
	}
	return nil
}

// resolve applies a validated move with every capture side effect.
func (gs *GameState) resolve(i int, to Cell) {
	p := &gs.pieces[i]
	from := p.Cell
	j, occupied := gs.PieceAt(to)

	gs.log.Debug().Str("color", p.Color.String()).Str("kind", p.Kind.String()).
		Stringer("from", from).Stringer("to", to).Msg("move")

	switch p.Kind {
	case Militant, Chief:
		if occupied {
			gs.lift(j)
			gs.kill(j, gs.killerOf(p.Color))
			gs.relocate(i, to)
			gs.openPlacement(j)
		} else {
			gs.relocate(i, to)
		}
		if p.Kind == Chief {
			switch {
			case !p.Central && to == Origin:
				gs.enterCenter(i)
			case p.Central && to != Origin:
				gs.leaveCenter(i)
			}
		}

	case Assassin:
		if occupied {
			gs.lift(j)
			gs.kill(j, gs.killerOf(p.Color))
			gs.relocate(i, to)
			gs.put(j, from)
			gs.log.Debug().Stringer("at", from).Msg("assassin victim left on the starting cell")
		} else {
			gs.relocate(i, to)
		}

	case Diplomat, Necromobile:
		if !occupied {
			gs.relocate(i, to)
			break
		}
		target := &gs.pieces[j]
		gs.lift(j)
		if target.Central {
			gs.leaveCenter(j)
		}
		// the origin's occupant is cleared from range and the mover stays put
		if to != Origin {
			gs.relocate(i, to)
		}
		gs.openPlacement(j)

	case Reporter:
		gs.relocate(i, to)
		gs.report(i)
	}
	gs.invalidate()
}

// report applies the reporter's area kill around its cell.
func (gs *GameState) report(i int) {
	p := gs.pieces[i]
	killer := gs.killerOf(p.Color)
	var victims []int
	for _, d := range gs.board.Adjacent() {
		j, ok := gs.PieceAt(p.Cell.Add(d))
		if !ok || !gs.pieces[j].Alive || gs.pieces[j].Color == p.Color {
			continue
		}
		victims = append(victims, j)
	}
	if len(victims) == 0 {
		return
	}
	if !gs.rules.Advanced {
		best := victims[0]
		for _, j := range victims[1:] {
			if gs.pieces[j].Value > gs.pieces[best].Value {
				best = j
			}
		}
		victims = []int{best}
	}
	for _, j := range victims {
		// an earlier chief's cascade may have killed or recolored this one
		if gs.pieces[j].Alive && gs.pieces[j].Color != p.Color {
			gs.kill(j, killer)
		}
	}
}

// killerOf returns the color whose alive chief is credited with a kill by c.
func (gs *GameState) killerOf(c Color) Color {
	for _, p := range gs.pieces {
		if p.Alive && p.Kind == Chief && p.Color == c {
			return c
		}
	}
	return None
}

// kill marks a piece dead and runs the cascade when it was a chief.
func (gs *GameState) kill(j int, killer Color) {
	victim := &gs.pieces[j]
	owner := victim.Color
	chief := victim.Kind == Chief
	if pi := gs.playerIndex(owner); pi >= 0 {
		gs.players[pi].Pieces = slices.DeleteFunc(gs.players[pi].Pieces, func(k int) bool { return k == j })
	}
	victim.die()
	gs.invalidate()
	gs.log.Debug().Str("owner", owner.String()).Str("kind", victim.Kind.String()).Stringer("at", victim.Cell).Msg("piece killed")
	if chief {
		gs.cascade(owner, killer)
	}
}

func (gs *GameState) openPlacement(j int) {
	gs.pending = j
	gs.available = gs.freeCells()
}

// freeCells lists the empty cells a piece may be placed on. The origin is never one of them.
func (gs *GameState) freeCells() []Cell {
	var cells []Cell
	for _, c := range gs.board.Cells() {
		if c == Origin {
			continue
		}
		if _, occupied := gs.PieceAt(c); !occupied {
			cells = append(cells, c)
		}
	}
	return cells
}

// PlaceCapturedPiece resolves the pending placement and advances the turn.
func (gs *GameState) PlaceCapturedPiece(c Cell) error {
	if gs.pending < 0 {
		return fmt.Errorf("cannot place on %v: no capture placement pending: %w", c, ErrInvalidPlacement)
	}
	if !slices.Contains(gs.available, c) {
		return fmt.Errorf("cannot place on %v: cell is not available: %w", c, ErrInvalidPlacement)
	}
	gs.put(gs.pending, c)
	gs.log.Debug().Str("kind", gs.pieces[gs.pending].Kind.String()).Stringer("at", c).Msg("piece placed")
	gs.pending = -1
	gs.available = nil
	gs.advance()
	return nil
}
