package engine

import (
	"context"
	"errors"

	"djambi/experiments/metrics"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// MaxMoves caps a game when no MaxMoves option is given.
const MaxMoves = 1000

var ErrSeatMismatch = errors.New("number of agents does not match number of players")

type Engine interface {
	// Run plays the game till there's a winner or the move cap is reached
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

type settings struct {
	maxMoves int
	log      zerolog.Logger
}

type Option func(s *settings)

func WithMaxMoves(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxMoves = n
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.log = logger
	}
}

func newSettings(options []Option) settings {
	s := settings{
		maxMoves: MaxMoves,
		log:      log.With().Str("component", "engine").Logger(),
	}
	for _, option := range options {
		option(&s)
	}
	return s
}
