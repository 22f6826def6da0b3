package game

import "fmt"

// Rules is the immutable rule configuration of a game. It is fixed at construction.
type Rules struct {
	Players  int  `json:"players"`
	Size     int  `json:"size"`     // cells with a coordinate at or beyond Size are off-board
	Square   bool `json:"square"`   // 4 players play on a square grid
	Advanced bool `json:"advanced"` // reporter kills every neighbor, diplomat passes over allies
}

// NewRules returns the default rules for a player count.
func NewRules(players int) (Rules, error) {
	switch players {
	case 3:
		return Rules{Players: 3, Size: 5}, nil
	case 4:
		return Rules{Players: 4, Size: 5, Square: true}, nil
	case 6:
		return Rules{Players: 6, Size: 7, Advanced: true}, nil
	default:
		return Rules{}, fmt.Errorf("cannot create rules for %d players: %w", players, ErrUnsupportedPlayerCount)
	}
}

func (r Rules) WithAdvanced(advanced bool) Rules {
	r.Advanced = advanced
	return r
}

// Colors lists the players' colors in seating order.
func (r Rules) Colors() []Color {
	switch r.Players {
	case 3:
		return []Color{Yellow, Red, Green}
	case 4:
		return []Color{Yellow, Green, Blue, Red}
	case 6:
		return []Color{Yellow, Pink, Red, Blue, Purple, Green}
	}
	return nil
}

func (r Rules) validate() error {
	base, err := NewRules(r.Players)
	if err != nil {
		return err
	}
	if r.Size != base.Size || r.Square != base.Square {
		return fmt.Errorf("cannot use board size %d (square=%t) for %d players: %w", r.Size, r.Square, r.Players, ErrUnsupportedPlayerCount)
	}
	return nil
}
