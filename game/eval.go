package game

import (
	"sort"
)

// Evaluate recomputes destinations, threat and protection relations, piece
// threat scores and player scores. It is a no-op when nothing changed since
// the last evaluation.
func (gs *GameState) Evaluate() {
	if gs.evaluated {
		return
	}
	for i := range gs.pieces {
		gs.destinationsOf(i)
	}
	gs.updateRelations()
	gs.updateThreatScores()
	gs.updatePlayerScores()
	gs.evaluated = true
}

func (gs *GameState) updateRelations() {
	for i := range gs.pieces {
		p := &gs.pieces[i]
		p.Threatens, p.Protects, p.ThreatenedBy, p.ProtectedBy = 0, 0, 0, 0
	}
	for i := range gs.pieces {
		p := gs.pieces[i]
		if !p.Alive || i == gs.pending {
			continue
		}
		threatens := gs.threatMask(i)
		protects := gs.protectMask(i)
		gs.pieces[i].Threatens = threatens
		gs.pieces[i].Protects = protects
		for j := range gs.pieces {
			if threatens&bit(j) != 0 {
				gs.pieces[j].ThreatenedBy |= bit(i)
			}
			if protects&bit(j) != 0 {
				gs.pieces[j].ProtectedBy |= bit(i)
			}
		}
	}
}

// threatMask lists the enemies the piece at i can kill this turn.
func (gs *GameState) threatMask(i int) uint64 {
	p := gs.pieces[i]
	var mask uint64
	switch {
	case p.Kind.lethal():
		for _, c := range gs.destinationsOf(i) {
			if j, ok := gs.PieceAt(c); ok && gs.isEnemy(p.Color, j) {
				mask |= bit(j)
			}
		}
	case p.Kind == Reporter:
		for _, c := range gs.destinationsOf(i) {
			for _, d := range gs.board.Adjacent() {
				if j, ok := gs.PieceAt(c.Add(d)); ok && gs.isEnemy(p.Color, j) {
					mask |= bit(j)
				}
			}
		}
	}
	return mask
}

// protectMask lists the allies whose cell the piece at i could strike if an enemy took it.
func (gs *GameState) protectMask(i int) uint64 {
	p := gs.pieces[i]
	var mask uint64
	switch p.Kind {
	case Militant, Chief, Assassin:
		for _, d := range gs.board.Directions() {
			gs.ray(i, d, func(c Cell, j int) bool {
				if j < 0 {
					return c != Origin || p.Kind == Chief
				}
				if c != Origin || p.Kind == Chief {
					if gs.isAlly(p.Color, i, j) {
						mask |= bit(j)
					}
				}
				// an assassin covers every ally it passes over
				return p.Kind == Assassin && gs.isAlly(p.Color, i, j)
			})
		}
	case Reporter:
		for _, c := range gs.destinationsOf(i) {
			for _, d := range gs.board.Adjacent() {
				if j, ok := gs.PieceAt(c.Add(d)); ok && gs.isAlly(p.Color, i, j) {
					mask |= bit(j)
				}
			}
		}
	}
	return mask
}

func (gs *GameState) isEnemy(c Color, j int) bool {
	q := gs.pieces[j]
	return q.Alive && q.Color != c
}

func (gs *GameState) isAlly(c Color, i, j int) bool {
	q := gs.pieces[j]
	return i != j && q.Alive && q.Color == c
}

func discounted(p Piece) float64 {
	if p.Protected() {
		return float64(p.Value) / 2
	}
	return float64(p.Value)
}

func (gs *GameState) updateThreatScores() {
	for i := range gs.pieces {
		p := &gs.pieces[i]
		p.ThreatScore = 0
		if !p.Alive || i == gs.pending {
			continue
		}
		opponents := gs.opponents(p.Color)
		score := 0.0
		for j := range gs.pieces {
			if p.Threatens&bit(j) != 0 {
				score += discounted(gs.pieces[j])
			}
		}
		if opponents > 0 {
			score -= float64(p.threatCount()) * discounted(*p) / float64(opponents)
		}
		if p.Kind == Chief && !p.Central && gs.reachesOrigin(i) {
			score += float64(p.Value) * float64(opponents) / 2
		}
		p.ThreatScore = score
	}
}

func (gs *GameState) reachesOrigin(i int) bool {
	for _, c := range gs.destinationsOf(i) {
		if c == Origin {
			return true
		}
	}
	return false
}

func (gs *GameState) updatePlayerScores() {
	total := 0.0
	for k := range gs.players {
		player := &gs.players[k]
		score := 0
		threat := 0.0
		central := false
		for _, i := range player.Pieces {
			p := gs.pieces[i]
			if !p.Alive {
				continue
			}
			score += StandardValue(p.Kind)
			threat += p.ThreatScore
			central = central || p.Central
		}
		if central {
			score += (score - ChiefValue) * (len(gs.players) - 2)
		}
		player.Score = float64(score) + threat
		total += player.Score
	}
	for k := range gs.players {
		player := &gs.players[k]
		player.RelativeScore = 0
		if total > 0 {
			player.RelativeScore = player.Score * 600 / total
		}
	}
}

// RelativeScore returns a player's normalized score, 0 for eliminated players.
func (gs *GameState) RelativeScore(c Color) float64 {
	gs.Evaluate()
	if i := gs.playerIndex(c); i >= 0 {
		return gs.players[i].RelativeScore
	}
	return 0
}

// BestMoves ranks the tactical moves of a color: captures, capture of a
// threatening piece, escapes of threatened pieces and a chief's approach to
// the origin. At most limit moves are returned when limit is positive.
func (gs *GameState) BestMoves(c Color, limit int) []ScoredMove {
	gs.Evaluate()
	pi := gs.playerIndex(c)
	if pi < 0 || gs.pending >= 0 {
		return nil
	}
	attacked := gs.attackedCells(c)
	opponents := gs.opponents(c)

	var moves []ScoredMove
	for _, i := range gs.players[pi].Pieces {
		p := gs.pieces[i]
		for _, to := range gs.destinationsOf(i) {
			score := gs.captureGain(i, to)
			if p.Threatened() && !attacked[to] {
				score += discounted(p) / 2
			}
			if p.Kind == Chief && !p.Central && to == Origin {
				score += float64(p.Value) * float64(opponents) / 2
			}
			if score > 0 {
				moves = append(moves, ScoredMove{Move: Move{From: p.Cell, To: to}, Score: score})
			}
		}
	}
	sort.SliceStable(moves, func(a, b int) bool { return moves[a].Score > moves[b].Score })
	if limit > 0 && len(moves) > limit {
		moves = moves[:limit]
	}
	return moves
}

// captureGain values the kills a move makes, adding the mover's own value when a victim threatens it.
func (gs *GameState) captureGain(i int, to Cell) float64 {
	p := gs.pieces[i]
	gain := func(j int) float64 {
		v := discounted(gs.pieces[j])
		if gs.pieces[j].Threatens&bit(i) != 0 {
			v += float64(p.Value)
		}
		return v
	}
	switch {
	case p.Kind.lethal():
		if j, ok := gs.PieceAt(to); ok && gs.isEnemy(p.Color, j) {
			return gain(j)
		}
	case p.Kind == Reporter:
		best, sum := 0.0, 0.0
		for _, d := range gs.board.Adjacent() {
			j, ok := gs.PieceAt(to.Add(d))
			if !ok || j == i || !gs.isEnemy(p.Color, j) {
				continue
			}
			v := gain(j)
			sum += v
			best = max(best, v)
		}
		if gs.rules.Advanced {
			return sum
		}
		return best
	}
	return 0
}

// attackedCells lists the cells where enemies of c could kill a piece next turn.
func (gs *GameState) attackedCells(c Color) map[Cell]bool {
	attacked := make(map[Cell]bool)
	for i, p := range gs.pieces {
		if !p.Alive || p.Color == c || i == gs.pending {
			continue
		}
		switch {
		case p.Kind.lethal():
			for _, to := range gs.destinationsOf(i) {
				attacked[to] = true
			}
		case p.Kind == Reporter:
			for _, to := range gs.destinationsOf(i) {
				for _, d := range gs.board.Adjacent() {
					attacked[to.Add(d)] = true
				}
			}
		}
	}
	return attacked
}
