package game

import (
	"fmt"
	"slices"
)

type PieceView struct {
	Q     int    `json:"q"`
	R     int    `json:"r"`
	Color string `json:"color"`
	Class string `json:"class"`
	Alive bool   `json:"alive"`
}

type PlayerView struct {
	Color         string  `json:"color"`
	Score         float64 `json:"score"`
	RelativeScore float64 `json:"relative_score"`
}

// Export is the renderer and relay view of a game.
type Export struct {
	Pieces                  []PieceView  `json:"pieces"`
	CurrentPlayer           string       `json:"current_player"`
	CurrentPlayerIndex      int          `json:"current_player_index"`
	Order                   []string     `json:"order"`
	Players                 []PlayerView `json:"players"`
	PendingCapture          *PieceView   `json:"pending_capture"`
	PendingIndex            int          `json:"pending_index"`
	AvailablePlacementCells []Cell       `json:"available_placement_cells"`
	PlayerCount             int          `json:"player_count"`
	Advanced                bool         `json:"advanced"`
	Winner                  string       `json:"winner,omitempty"`
}

func viewOf(p Piece) PieceView {
	return PieceView{Q: p.Cell.Q, R: p.Cell.R, Color: p.Color.String(), Class: p.Kind.String(), Alive: p.Alive}
}

func (gs *GameState) Export() Export {
	gs.Evaluate()
	e := Export{
		Pieces:                  make([]PieceView, len(gs.pieces)),
		CurrentPlayer:           gs.Current().String(),
		CurrentPlayerIndex:      gs.current,
		Order:                   namesOf(gs.order),
		Players:                 make([]PlayerView, len(gs.players)),
		PendingIndex:            gs.pending,
		AvailablePlacementCells: slices.Clone(gs.available),
		PlayerCount:             gs.rules.Players,
		Advanced:                gs.rules.Advanced,
	}
	for i, p := range gs.pieces {
		e.Pieces[i] = viewOf(p)
	}
	for i, p := range gs.players {
		e.Players[i] = PlayerView{Color: p.Color.String(), Score: p.Score, RelativeScore: p.RelativeScore}
	}
	if gs.pending >= 0 {
		view := viewOf(gs.pieces[gs.pending])
		e.PendingCapture = &view
	}
	if winner, ok := gs.Winner(); ok {
		e.Winner = winner.String()
	}
	return e
}

// Import reconstructs a game from an export. The history restarts at the imported state.
func Import(e Export, options ...Option) (*GameState, error) {
	rules, err := NewRules(e.PlayerCount)
	if err != nil {
		return nil, fmt.Errorf("cannot import game: %w", err)
	}
	rules.Advanced = e.Advanced

	s := Snapshot{Current: e.CurrentPlayerIndex}
	for _, view := range e.Pieces {
		color, err := ParseColor(view.Color)
		if err != nil {
			return nil, fmt.Errorf("cannot import game: %w", err)
		}
		kind, err := ParseKind(view.Class)
		if err != nil {
			return nil, fmt.Errorf("cannot import game: %w", err)
		}
		s.Pieces = append(s.Pieces, PieceState{Cell: Cell{view.Q, view.R}, Color: color, Kind: kind, Alive: view.Alive})
	}
	for _, view := range e.Players {
		color, err := ParseColor(view.Color)
		if err != nil {
			return nil, fmt.Errorf("cannot import game: %w", err)
		}
		s.Players = append(s.Players, color)
	}
	for _, name := range e.Order {
		color, err := ParseColor(name)
		if err != nil {
			return nil, fmt.Errorf("cannot import game: %w", err)
		}
		s.Order = append(s.Order, color)
	}

	// the pending piece shares its cell with the mover until it is placed
	pending := -1
	if e.PendingCapture != nil {
		pending = e.PendingIndex
		if pending < 0 || pending >= len(s.Pieces) {
			return nil, fmt.Errorf("cannot import game: pending index %d: %w", pending, ErrInvalidSnapshot)
		}
	}
	gs, err := newGameState(rules, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot import game: %w", err)
	}
	if pending >= 0 {
		err = gs.loadPending(s, pending)
	} else {
		err = gs.load(s)
		gs.history = NewHistory(gs.snapshot())
	}
	if err != nil {
		return nil, fmt.Errorf("cannot import game: %w", err)
	}
	return gs, nil
}

// loadPending loads a snapshot whose piece at index pending is off the board awaiting placement.
func (gs *GameState) loadPending(s Snapshot, pending int) error {
	held := s.Pieces[pending]
	parked := s
	parked.Pieces = slices.Clone(s.Pieces)
	// park the held piece on a free cell while loading
	for _, c := range gs.board.Cells() {
		if _, taken := findCell(s.Pieces, c, pending); !taken && c != Origin {
			parked.Pieces[pending].Cell = c
			break
		}
	}
	if err := gs.load(parked); err != nil {
		return err
	}
	// undoing the open placement falls back to the parked position
	gs.history = NewHistory(gs.snapshot())
	gs.lift(pending)
	p := &gs.pieces[pending]
	p.Cell = held.Cell
	p.Central = false
	p.Value = StandardValue(p.Kind)
	gs.pending = pending
	gs.available = gs.freeCells()
	gs.invalidate()
	return nil
}

func findCell(pieces []PieceState, c Cell, skip int) (int, bool) {
	for i, p := range pieces {
		if i != skip && p.Cell == c {
			return i, true
		}
	}
	return -1, false
}
