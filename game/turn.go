package game

import (
	"fmt"
	"slices"
)

// AdvanceTurn ends the current turn. It is refused while a capture placement is pending.
func (gs *GameState) AdvanceTurn() error {
	if gs.pending >= 0 {
		return fmt.Errorf("cannot advance turn: %w", ErrPlacementPending)
	}
	gs.advance()
	return nil
}

// advance eliminates surrounded chiefs, rescores, moves the turn pointer and commits a snapshot.
func (gs *GameState) advance() {
	gs.checkSurroundedChiefs()
	gs.Evaluate()
	if len(gs.order) > 0 {
		gs.current = (gs.current + 1) % len(gs.order)
	}
	if gs.history != nil {
		gs.history.Commit(gs.snapshot())
	}
	if winner, ok := gs.Winner(); ok {
		gs.log.Info().Str("winner", winner.String()).Msg("game over")
	}
}

// others lists the distinct colors other than owner in rotation order, starting after the current entry.
func (gs *GameState) others(owner Color) []Color {
	var colors []Color
	n := len(gs.order)
	for k := 1; k <= n; k++ {
		c := gs.order[(gs.current+k)%n]
		if c != owner && !slices.Contains(colors, c) {
			colors = append(colors, c)
		}
	}
	return colors
}

// enterCenter interleaves the owner of the chief at i after every other player.
// The pointer lands on the last entry so the next turn starts the new rotation.
func (gs *GameState) enterCenter(i int) {
	p := &gs.pieces[i]
	p.enterCenter()
	owner := p.Color
	var order []Color
	for _, c := range gs.others(owner) {
		order = append(order, c, owner)
	}
	if len(order) == 0 {
		order = []Color{owner}
	}
	gs.order = order
	gs.current = len(order) - 1
	gs.log.Debug().Str("owner", owner.String()).Strs("order", namesOf(order)).Msg("chief entered the central cell")
}

// leaveCenter restores a single entry for the owner, placed last.
func (gs *GameState) leaveCenter(i int) {
	p := &gs.pieces[i]
	p.leaveCenter()
	owner := p.Color
	order := append(gs.others(owner), owner)
	gs.order = order
	gs.current = len(order) - 1
	gs.log.Debug().Str("owner", owner.String()).Strs("order", namesOf(order)).Msg("chief left the central cell")
}

// cascade eliminates the player owning a dead chief. Its pieces pass to the
// killer's color, or die when there is no killer.
func (gs *GameState) cascade(owner, killer Color) {
	pi := gs.playerIndex(owner)
	if pi < 0 {
		return
	}
	ki := -1
	if killer != owner {
		ki = gs.playerIndex(killer)
	}
	pieces := gs.players[pi].Pieces
	for _, j := range pieces {
		if ki >= 0 {
			gs.pieces[j].Color = killer
			gs.players[ki].Pieces = append(gs.players[ki].Pieces, j)
		} else {
			gs.pieces[j].die()
		}
	}
	gs.players = slices.Delete(gs.players, pi, pi+1)

	// the pointer moves to the last surviving entry at or before it
	var order []Color
	current := -1
	for k, c := range gs.order {
		if c == owner {
			continue
		}
		order = append(order, c)
		if k <= gs.current {
			current = len(order) - 1
		}
	}
	if current < 0 {
		current = len(order) - 1
	}
	gs.order = order
	gs.current = max(current, 0)
	gs.invalidate()

	if ki >= 0 {
		gs.log.Info().Str("player", owner.String()).Str("killer", killer.String()).Int("pieces", len(pieces)).Msg("player eliminated, pieces transferred")
	} else {
		gs.log.Info().Str("player", owner.String()).Msg("player eliminated, pieces died")
	}
}

func (gs *GameState) checkSurroundedChiefs() {
	for _, c := range slices.Clone(gs.order) {
		if gs.playerIndex(c) < 0 {
			continue
		}
		for i, p := range gs.pieces {
			if !p.Alive || p.Kind != Chief || p.Color != c || p.Central {
				continue
			}
			if gs.surrounded(i, map[int]bool{}) {
				gs.log.Debug().Str("owner", c.String()).Stringer("at", p.Cell).Msg("chief surrounded")
				gs.kill(i, None)
			}
		}
	}
}

// surrounded reports whether every neighbor of the piece at i is off-board,
// dead, an enemy, or an ally that is itself surrounded.
func (gs *GameState) surrounded(i int, visited map[int]bool) bool {
	if visited[i] {
		return true
	}
	visited[i] = true
	p := gs.pieces[i]
	for _, d := range gs.board.Adjacent() {
		c := p.Cell.Add(d)
		if !gs.board.Contains(c) {
			continue
		}
		j, ok := gs.PieceAt(c)
		if !ok {
			return false
		}
		q := gs.pieces[j]
		if q.Alive && q.Color == p.Color && !gs.surrounded(j, visited) {
			return false
		}
	}
	return true
}

func namesOf(colors []Color) []string {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = c.String()
	}
	return names
}
