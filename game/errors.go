package game

import "errors"

var (
	ErrUnsupportedPlayerCount = errors.New("unsupported player count")
	ErrInvalidMove            = errors.New("invalid move")
	ErrInvalidPlacement       = errors.New("invalid placement")
	ErrPlacementPending       = errors.New("capture placement pending")
	ErrGameOver               = errors.New("game is over")
	ErrInvalidSnapshot        = errors.New("invalid snapshot")
)
