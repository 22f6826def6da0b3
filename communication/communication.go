package communication

import (
	"context"

	"djambi/game"
)

// Communicator is the client side of the match relay.
type Communicator interface {
	Create(ctx context.Context, req CreateRequest) (CreateResponse, error)
	GetGameState(ctx context.Context, id string) (game.Export, error)
	Destinations(ctx context.Context, id string, from game.Cell) ([]game.Cell, error)
	SendMove(ctx context.Context, id string, move game.Move) (game.Export, error)
	SendPlacement(ctx context.Context, id string, cell game.Cell) (game.Export, error)
	Undo(ctx context.Context, id string) (HistoryResponse, error)
	Redo(ctx context.Context, id string) (HistoryResponse, error)
	PlayAI(ctx context.Context, id string) (AIResponse, error)
}

type CreateRequest struct {
	Players  int   `json:"players"`
	Advanced *bool `json:"advanced,omitempty"`
}

type CreateResponse struct {
	ID    string      `json:"id"`
	State game.Export `json:"state"`
}

type MoveRequest struct {
	From game.Cell `json:"from"`
	To   game.Cell `json:"to"`
}

type PlaceRequest struct {
	Cell game.Cell `json:"cell"`
}

type DestinationsResponse struct {
	From         game.Cell   `json:"from"`
	Destinations []game.Cell `json:"destinations"`
}

type AIResponse struct {
	Move  game.Move   `json:"move"`
	State game.Export `json:"state"`
}

// HistoryResponse reports whether an undo or redo applied. Applied is false at either end of the history.
type HistoryResponse struct {
	Applied bool        `json:"applied"`
	State   game.Export `json:"state"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
