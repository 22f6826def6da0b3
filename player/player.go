package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"djambi/communication"
	"djambi/communication/client"
	"djambi/engine"
	"djambi/game"
	"djambi/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrEliminated = errors.New("player eliminated")

// Relay is a communicator that can also stream a match's changes.
type Relay interface {
	communication.Communicator
	Watch(ctx context.Context, id string) (<-chan client.Event, error)
}

// Player takes the turns of one color in a relay match, leaving the other
// colors to whoever else is connected.
type Player struct {
	Color string
	Agent agent.Agent
	relay Relay
	log   zerolog.Logger
}

// NewPlayer creates a new Player instance.
func NewPlayer(color string, a agent.Agent, relay Relay) *Player {
	return &Player{
		Color: color,
		Agent: a,
		relay: relay,
		log:   log.With().Str("component", "player").Str("color", color).Logger(),
	}
}

// Play starts the player's turn loop on match id. It returns the winner when
// the game ends, ErrEliminated when the color leaves the game first, and the
// context error when ctx is done.
func (p *Player) Play(ctx context.Context, id string) (string, error) {
	events, err := p.relay.Watch(ctx, id)
	if err != nil {
		return "", err
	}
	for event := range events {
		var state game.Export
		switch {
		case event.State != nil:
			state = *event.State
		case event.Update != nil:
			state = event.Update.State
		default:
			continue
		}

		if state.Winner != "" {
			p.log.Info().Str("winner", state.Winner).Msg("game over")
			return state.Winner, nil
		}
		if !slices.ContainsFunc(state.Players, func(v game.PlayerView) bool { return v.Color == p.Color }) {
			return "", fmt.Errorf("%s: %w", p.Color, ErrEliminated)
		}
		if state.CurrentPlayer != p.Color || state.PendingCapture != nil {
			continue
		}

		next, _, err := engine.PlayRemote(ctx, p.relay, id, p.Agent, state)
		var status *client.StatusError
		switch {
		case errors.As(err, &status) && (status.Status == http.StatusConflict || status.Status == http.StatusUnprocessableEntity):
			// the match moved on since this state was sent
			p.log.Debug().Err(err).Msg("stale turn skipped")
		case err != nil:
			return "", err
		default:
			p.log.Debug().Str("next", next.CurrentPlayer).Msg("turn played")
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("match %s: connection closed", id)
}
