package gamemaster

import (
	"fmt"
	"io"
	"sync"

	"djambi/game"
	"djambi/searcher"
	"djambi/searcher/agent"

	"github.com/rs/zerolog"
)

// Event names carried by updates.
const (
	EventMove  = "move"
	EventPlace = "place"
	EventUndo  = "undo"
	EventRedo  = "redo"
)

type Update struct {
	Event string      `json:"event"`
	Move  *game.Move  `json:"move,omitempty"`
	Cell  *game.Cell  `json:"cell,omitempty"`
	State game.Export `json:"state"`
}

// Match serializes every call into one game and fans state changes out to subscribers.
type Match struct {
	ID string

	mu          sync.Mutex
	gs          *game.GameState
	ai          agent.Agent
	subscribers map[chan Update]struct{}
	log         zerolog.Logger
}

func NewMatch(id string, gs *game.GameState, ai *searcher.Negamax, logger zerolog.Logger) *Match {
	return &Match{
		ID:          id,
		gs:          gs,
		ai:          agent.NewSearchAgent(ai),
		subscribers: make(map[chan Update]struct{}),
		log:         logger.With().Str("match", id).Logger(),
	}
}

func (m *Match) State() game.Export {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.Export()
}

func (m *Match) Destinations(from game.Cell) []game.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.LegalDestinations(from)
}

func (m *Match) Move(move game.Move) (game.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gs.SubmitMove(move); err != nil {
		return game.Export{}, err
	}
	state := m.gs.Export()
	m.log.Info().Stringer("move", move).Str("next", state.CurrentPlayer).Msg("move played")
	m.publish(Update{Event: EventMove, Move: &move, State: state})
	return state, nil
}

func (m *Match) Place(cell game.Cell) (game.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.gs.PlaceCapturedPiece(cell); err != nil {
		return game.Export{}, err
	}
	state := m.gs.Export()
	m.log.Info().Stringer("cell", cell).Msg("piece placed")
	m.publish(Update{Event: EventPlace, Cell: &cell, State: state})
	return state, nil
}

// Undo restores the previous turn. ok is false when there is nothing to undo.
func (m *Match) Undo() (state game.Export, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok = m.gs.Undo(); !ok {
		return m.gs.Export(), false
	}
	state = m.gs.Export()
	m.publish(Update{Event: EventUndo, State: state})
	return state, true
}

func (m *Match) Redo() (state game.Export, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok = m.gs.Redo(); !ok {
		return m.gs.Export(), false
	}
	state = m.gs.Export()
	m.publish(Update{Event: EventRedo, State: state})
	return state, true
}

// PlayAI lets the search play the current player's turn, placement included.
func (m *Match) PlayAI() (game.Move, game.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, _, pending := m.gs.Pending(); pending {
		return game.Move{}, game.Export{}, fmt.Errorf("cannot play ai turn: %w", game.ErrPlacementPending)
	}
	player := m.gs.Current()
	move, metric, err := agent.Play(m.ai, m.gs)
	if err != nil {
		return game.Move{}, game.Export{}, err
	}
	state := m.gs.Export()
	m.log.Info().Str("player", player.String()).Stringer("move", move).
		Int("nodes", metric.Nodes).Dur("duration", metric.Duration).Msg("ai move played")
	m.publish(Update{Event: EventMove, Move: &move, State: state})
	return move, state, nil
}

// SaveHistory writes the match history file.
func (m *Match) SaveHistory(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gs.SaveHistory(w)
}

// Subscribe registers a buffered update channel. The returned func unsubscribes and closes it.
func (m *Match) Subscribe() (<-chan Update, func()) {
	ch := make(chan Update, 16)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, ch)
			close(ch)
			m.mu.Unlock()
		})
	}
}

// publish drops the update for subscribers whose buffer is full.
func (m *Match) publish(u Update) {
	for ch := range m.subscribers {
		select {
		case ch <- u:
		default:
			m.log.Warn().Str("event", u.Event).Msg("subscriber lagging, update dropped")
		}
	}
}
