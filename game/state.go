package game

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Player is a color in the roster together with the pieces it controls.
type Player struct {
	Color         Color
	Pieces        []int // arena indices of the alive pieces it controls
	Score         float64
	RelativeScore float64
}

func (p Player) copy() Player {
	p.Pieces = slices.Clone(p.Pieces)
	return p
}

// GameState owns the pieces, the players, the turn rotation and the pending capture placement.
// It is not safe for concurrent use.
type GameState struct {
	rules Rules
	board *Map
	log   zerolog.Logger

	pieces  []Piece
	grid    []int // board slot -> piece index, -1 when empty
	players []Player
	order   []Color // turn rotation; a central chief's owner appears several times
	current int

	pending   int // piece awaiting placement, -1 when none
	available []Cell

	destinations [][]Cell // per piece, nil until evaluated
	evaluated    bool

	history *History
}

type Option func(gs *GameState)

// WithAdvanced overrides the default advanced rule flag.
func WithAdvanced(advanced bool) Option {
	return func(gs *GameState) {
		gs.rules.Advanced = advanced
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(gs *GameState) {
		gs.log = logger
	}
}

// NewGameState sets up a standard game for 3, 4 or 6 players.
func NewGameState(players int, options ...Option) (*GameState, error) {
	rules, err := NewRules(players)
	if err != nil {
		return nil, fmt.Errorf("cannot create game: %w", err)
	}
	return NewGameStateFromSetup(rules, StandardSetup(rules), nil, options...)
}

// NewGameStateFromSetup builds a game from explicit piece positions. The roster
// follows the rules' seating order restricted to colors owning an alive chief;
// order overrides the initial rotation when it is not empty.
func NewGameStateFromSetup(rules Rules, setup []PieceState, order []Color, options ...Option) (*GameState, error) {
	gs, err := newGameState(rules, options...)
	if err != nil {
		return nil, err
	}

	var colors []Color
	for _, c := range gs.rules.Colors() {
		for _, s := range setup {
			if s.Alive && s.Color == c && s.Kind == Chief {
				colors = append(colors, c)
				break
			}
		}
	}
	if len(order) == 0 {
		order = colors
	}
	snapshot := Snapshot{Pieces: setup, Players: colors, Order: order, Current: 0}
	if err := gs.load(snapshot); err != nil {
		return nil, fmt.Errorf("cannot create game: %w", err)
	}
	gs.history = NewHistory(gs.snapshot())
	return gs, nil
}

func newGameState(rules Rules, options ...Option) (*GameState, error) {
	gs := &GameState{
		rules: rules,
		log:   log.With().Str("component", "game").Logger(),
	}
	for _, option := range options {
		option(gs)
	}
	if err := gs.rules.validate(); err != nil {
		return nil, fmt.Errorf("cannot create game: %w", err)
	}
	gs.board = NewMap(gs.rules)
	return gs, nil
}

// load rebuilds pieces and players from primitive data.
func (gs *GameState) load(s Snapshot) error {
	if len(s.Pieces) > MaxPieces {
		return fmt.Errorf("%d pieces exceed capacity %d: %w", len(s.Pieces), MaxPieces, ErrInvalidSnapshot)
	}
	if len(s.Order) == 0 || s.Current < 0 || s.Current >= len(s.Order) {
		return fmt.Errorf("turn pointer %d outside rotation of %d: %w", s.Current, len(s.Order), ErrInvalidSnapshot)
	}

	pieces := make([]Piece, len(s.Pieces))
	grid := make([]int, gs.board.slots())
	for i := range grid {
		grid[i] = -1
	}
	for i, ps := range s.Pieces {
		if !gs.board.Contains(ps.Cell) {
			return fmt.Errorf("piece %d at %v is off-board: %w", i, ps.Cell, ErrInvalidSnapshot)
		}
		slot := gs.board.index(ps.Cell)
		if grid[slot] >= 0 {
			return fmt.Errorf("cell %v holds two pieces: %w", ps.Cell, ErrInvalidSnapshot)
		}
		pieces[i] = newPiece(ps)
		grid[slot] = i
	}

	players := make([]Player, 0, len(s.Players))
	for _, c := range s.Players {
		player := Player{Color: c}
		for i, p := range pieces {
			if p.Alive && p.Color == c {
				player.Pieces = append(player.Pieces, i)
			}
		}
		players = append(players, player)
	}
	for _, c := range s.Order {
		if !slices.ContainsFunc(players, func(p Player) bool { return p.Color == c }) {
			return fmt.Errorf("rotation names %v outside the roster: %w", c, ErrInvalidSnapshot)
		}
	}

	gs.pieces = pieces
	gs.grid = grid
	gs.players = players
	gs.order = slices.Clone(s.Order)
	gs.current = s.Current
	gs.pending = -1
	gs.available = nil
	gs.invalidate()
	gs.Evaluate()
	return nil
}

func (gs *GameState) snapshot() Snapshot {
	s := Snapshot{
		Pieces:  make([]PieceState, len(gs.pieces)),
		Players: make([]Color, len(gs.players)),
		Order:   slices.Clone(gs.order),
		Current: gs.current,
	}
	for i, p := range gs.pieces {
		s.Pieces[i] = p.State()
	}
	for i, p := range gs.players {
		s.Players[i] = p.Color
	}
	return s
}

// Copy returns an independent game sharing only the immutable board. History is not copied.
func (gs *GameState) Copy() *GameState {
	players := make([]Player, len(gs.players))
	for i, p := range gs.players {
		players[i] = p.copy()
	}
	return &GameState{
		rules:     gs.rules,
		board:     gs.board,
		log:       zerolog.Nop(),
		pieces:    slices.Clone(gs.pieces),
		grid:      slices.Clone(gs.grid),
		players:   players,
		order:     slices.Clone(gs.order),
		current:   gs.current,
		pending:   gs.pending,
		available: slices.Clone(gs.available),
	}
}

func (gs *GameState) Rules() Rules { return gs.rules }

func (gs *GameState) Map() *Map { return gs.board }

// Pieces returns a copy of the piece arena.
func (gs *GameState) Pieces() []Piece {
	gs.Evaluate()
	return slices.Clone(gs.pieces)
}

func (gs *GameState) Piece(i int) Piece {
	gs.Evaluate()
	return gs.pieces[i]
}

// Players returns the distinct players still in the game.
func (gs *GameState) Players() []Player {
	gs.Evaluate()
	players := make([]Player, len(gs.players))
	for i, p := range gs.players {
		players[i] = p.copy()
	}
	return players
}

func (gs *GameState) Player(c Color) (Player, bool) {
	gs.Evaluate()
	if i := gs.playerIndex(c); i >= 0 {
		return gs.players[i].copy(), true
	}
	return Player{}, false
}

// Order returns the turn rotation.
func (gs *GameState) Order() []Color { return slices.Clone(gs.order) }

func (gs *GameState) CurrentIndex() int { return gs.current }

// Current returns the color whose turn it is.
func (gs *GameState) Current() Color {
	if len(gs.order) == 0 {
		return None
	}
	return gs.order[gs.current]
}

// Winner returns the last remaining player, if only one is left.
func (gs *GameState) Winner() (Color, bool) {
	if len(gs.players) == 1 {
		return gs.players[0].Color, true
	}
	return None, false
}

func (gs *GameState) Over() bool {
	return len(gs.players) <= 1
}

// PieceAt returns the index of the piece standing on c.
func (gs *GameState) PieceAt(c Cell) (int, bool) {
	if !gs.board.Contains(c) {
		return -1, false
	}
	i := gs.grid[gs.board.index(c)]
	return i, i >= 0
}

// Pending returns the piece awaiting placement and the cells it may be placed on.
func (gs *GameState) Pending() (int, []Cell, bool) {
	if gs.pending < 0 {
		return -1, nil, false
	}
	return gs.pending, slices.Clone(gs.available), true
}

func (gs *GameState) History() *History { return gs.history }

func (gs *GameState) playerIndex(c Color) int {
	for i, p := range gs.players {
		if p.Color == c {
			return i
		}
	}
	return -1
}

func (gs *GameState) opponents(c Color) int {
	n := len(gs.players)
	if gs.playerIndex(c) >= 0 {
		n--
	}
	return n
}

// lift removes a piece from the board without changing its cell.
func (gs *GameState) lift(i int) {
	slot := gs.board.index(gs.pieces[i].Cell)
	if gs.grid[slot] == i {
		gs.grid[slot] = -1
	}
	gs.invalidate()
}

// put places a lifted piece on an empty cell.
func (gs *GameState) put(i int, c Cell) {
	gs.pieces[i].Cell = c
	gs.grid[gs.board.index(c)] = i
	gs.invalidate()
}

func (gs *GameState) relocate(i int, c Cell) {
	gs.lift(i)
	gs.put(i, c)
}

func (gs *GameState) invalidate() {
	gs.evaluated = false
	gs.destinations = nil
}
