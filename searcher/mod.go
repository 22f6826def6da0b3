package searcher

import (
	"errors"
	"math"
)

// Defaults for the search.
const (
	DefaultDepth      = 2
	DefaultCandidates = 8
	MaxDepth          = 6
)

var inf = math.Inf(1)

var (
	ErrNotYourTurn = errors.New("not the player's turn")
	ErrNoMove      = errors.New("no legal move")
)
