package searcher

import (
	"fmt"

	"djambi/experiments/metrics"
	"djambi/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(n *Negamax)

// Negamax is a depth-limited alpha-beta search over the ranked tactical moves
// of each position. It is not safe for concurrent use.
type Negamax struct {
	depth      int
	candidates int
	rng        *rand.Rand
	metrics    metrics.Collector
	log        zerolog.Logger
}

func WithDepth(depth int) Option {
	return func(n *Negamax) {
		if depth > 0 {
			n.depth = min(depth, MaxDepth)
		}
	}
}

// WithCandidates caps the ranked moves expanded per node.
func WithCandidates(candidates int) Option {
	return func(n *Negamax) {
		if candidates > 0 {
			n.candidates = candidates
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(n *Negamax) {
		n.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(n *Negamax) {
		n.metrics = metrics.NewCollector()
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(n *Negamax) {
		n.log = logger
	}
}

func NewNegamax(options ...Option) *Negamax {
	n := &Negamax{ // Default values
		depth:      DefaultDepth,
		candidates: DefaultCandidates,
		metrics:    metrics.NewDummyCollector(),
		log:        log.With().Str("component", "searcher").Logger(),
	}
	for _, option := range options {
		option(n)
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(rand.Uint64()))
	}
	return n
}

func (n *Negamax) Depth() int { return n.depth }

// ChooseMove searches from the player's point of view and returns the best
// move found. The game is not modified.
func (n *Negamax) ChooseMove(gs *game.GameState, player game.Color) (game.Move, metrics.SearchMetric, error) {
	return n.ChooseMoveDepth(gs, player, n.depth)
}

// ChooseMoveDepth is ChooseMove with an explicit search depth.
func (n *Negamax) ChooseMoveDepth(gs *game.GameState, player game.Color, depth int) (game.Move, metrics.SearchMetric, error) {
	if gs.Over() {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("cannot search for %v: %w", player, game.ErrGameOver)
	}
	if _, _, pending := gs.Pending(); pending {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("cannot search for %v: %w", player, game.ErrPlacementPending)
	}
	if gs.Current() != player {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("cannot search for %v on %v's turn: %w", player, gs.Current(), ErrNotYourTurn)
	}
	depth = max(1, min(depth, MaxDepth))

	n.metrics.Start(depth, n.candidates)
	value, move, ok := n.alphaBeta(gs.Copy(), depth, -inf, inf)
	metric := n.metrics.Complete()
	if !ok {
		return game.Move{}, metric, fmt.Errorf("cannot search for %v: %w", player, ErrNoMove)
	}

	n.log.Debug().Str("player", player.String()).Stringer("move", move).Float64("value", value).
		Int("depth", depth).Int("nodes", metric.Nodes).Msg("move chosen")
	return move, metric, nil
}

// ChoosePlacement picks a uniformly random cell for a pending placement.
func (n *Negamax) ChoosePlacement(cells []game.Cell) (game.Cell, error) {
	if len(cells) == 0 {
		return game.Cell{}, fmt.Errorf("cannot place: %w", game.ErrInvalidPlacement)
	}
	return cells[n.rng.Intn(len(cells))], nil
}

// alphaBeta returns the value of gs from the point of view of the player to
// move. A child whose player to move differs is negated, which treats the
// game as zero-sum between consecutive players.
func (n *Negamax) alphaBeta(gs *game.GameState, depth int, alpha, beta float64) (float64, game.Move, bool) {
	player := gs.Current()
	if depth == 0 || gs.Over() {
		n.metrics.AddLeaf()
		return gs.RelativeScore(player), game.Move{}, false
	}

	moves := n.candidatesOf(gs, player)
	if len(moves) == 0 {
		n.metrics.AddLeaf()
		return gs.RelativeScore(player), game.Move{}, false
	}

	best, bestMove, found := -inf, game.Move{}, false
	for _, m := range moves {
		child := gs.Copy()
		if err := n.play(child, m); err != nil {
			n.log.Warn().Err(err).Stringer("move", m).Msg("skipping candidate")
			continue
		}
		n.metrics.AddNode()

		var value float64
		if child.Current() == player {
			value, _, _ = n.alphaBeta(child, depth-1, alpha, beta)
		} else {
			value, _, _ = n.alphaBeta(child, depth-1, -beta, -alpha)
			value = -value
		}
		if value > best || !found {
			best, bestMove, found = value, m, true
		}
		alpha = max(alpha, value)
		if beta <= alpha {
			n.metrics.AddCutoff()
			break
		}
	}
	if !found {
		return gs.RelativeScore(player), game.Move{}, false
	}
	return best, bestMove, true
}

// candidatesOf returns the ranked moves, or one random legal move when none ranks.
func (n *Negamax) candidatesOf(gs *game.GameState, player game.Color) []game.Move {
	scored := gs.BestMoves(player, n.candidates)
	if len(scored) > 0 {
		moves := make([]game.Move, len(scored))
		for i, s := range scored {
			moves[i] = s.Move
		}
		return moves
	}
	legal := gs.LegalMoves(player)
	if len(legal) == 0 {
		return nil
	}
	n.metrics.AddFallback()
	return []game.Move{legal[n.rng.Intn(len(legal))]}
}

// play applies a move and resolves any placement it opens.
func (n *Negamax) play(gs *game.GameState, m game.Move) error {
	if err := gs.SubmitMove(m); err != nil {
		return err
	}
	if _, cells, pending := gs.Pending(); pending {
		cell, err := n.ChoosePlacement(cells)
		if err != nil {
			return err
		}
		return gs.PlaceCapturedPiece(cell)
	}
	return nil
}
