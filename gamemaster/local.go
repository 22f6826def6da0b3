package gamemaster

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"djambi/game"
	"djambi/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrMatchNotFound = errors.New("match not found")

// Registry holds the matches of a relay process.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Match
	search  []searcher.Option
	log     zerolog.Logger
}

// NewRegistry returns an empty registry. Each match gets its own search built from options.
func NewRegistry(options ...searcher.Option) *Registry {
	return &Registry{
		matches: make(map[string]*Match),
		search:  options,
		log:     log.With().Str("component", "gamemaster").Logger(),
	}
}

// Create starts a standard game. advanced overrides the player count's default when set.
func (r *Registry) Create(players int, advanced *bool) (*Match, error) {
	var options []game.Option
	if advanced != nil {
		options = append(options, game.WithAdvanced(*advanced))
	}
	gs, err := game.NewGameState(players, options...)
	if err != nil {
		return nil, err
	}
	return r.add(gs), nil
}

// Resume starts a match from a history file written by SaveHistory.
func (r *Registry) Resume(history io.Reader) (*Match, error) {
	gs, err := game.LoadHistory(history)
	if err != nil {
		return nil, err
	}
	return r.add(gs), nil
}

func (r *Registry) add(gs *game.GameState) *Match {
	id := uuid.NewString()
	m := NewMatch(id, gs, searcher.NewNegamax(r.search...), r.log)

	r.mu.Lock()
	r.matches[id] = m
	r.mu.Unlock()

	r.log.Info().Str("match", id).Int("players", gs.Rules().Players).Bool("advanced", gs.Rules().Advanced).Msg("match created")
	return m
}

func (r *Registry) Get(id string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %q: %w", id, ErrMatchNotFound)
	}
	return m, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return fmt.Errorf("match %q: %w", id, ErrMatchNotFound)
	}
	delete(r.matches, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
