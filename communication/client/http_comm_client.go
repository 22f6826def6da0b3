package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"djambi/communication"
	"djambi/game"
	"djambi/gamemaster"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
)

// StatusError is returned when the relay rejects a request.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay returned %d: %s", e.Status, e.Message)
}

type ClientCommunicator struct {
	serverURL string
	http      *http.Client
}

var _ communication.Communicator = (*ClientCommunicator)(nil)

// NewClientCommunicator initializes and returns a new ClientCommunicator.
func NewClientCommunicator(serverURL string) *ClientCommunicator {
	return &ClientCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		http:      &http.Client{Timeout: time.Minute},
	}
}

func (cc *ClientCommunicator) Create(ctx context.Context, req communication.CreateRequest) (communication.CreateResponse, error) {
	var resp communication.CreateResponse
	err := cc.do(ctx, http.MethodPost, "/api/matches/", req, &resp)
	return resp, err
}

func (cc *ClientCommunicator) GetGameState(ctx context.Context, id string) (game.Export, error) {
	var state game.Export
	err := cc.do(ctx, http.MethodGet, matchPath(id, ""), nil, &state)
	return state, err
}

func (cc *ClientCommunicator) Destinations(ctx context.Context, id string, from game.Cell) ([]game.Cell, error) {
	var resp communication.DestinationsResponse
	query := url.Values{"q": {strconv.Itoa(from.Q)}, "r": {strconv.Itoa(from.R)}}
	err := cc.do(ctx, http.MethodGet, matchPath(id, "/moves")+"?"+query.Encode(), nil, &resp)
	return resp.Destinations, err
}

func (cc *ClientCommunicator) SendMove(ctx context.Context, id string, move game.Move) (game.Export, error) {
	var state game.Export
	err := cc.do(ctx, http.MethodPost, matchPath(id, "/move"), communication.MoveRequest{From: move.From, To: move.To}, &state)
	return state, err
}

func (cc *ClientCommunicator) SendPlacement(ctx context.Context, id string, cell game.Cell) (game.Export, error) {
	var state game.Export
	err := cc.do(ctx, http.MethodPost, matchPath(id, "/place"), communication.PlaceRequest{Cell: cell}, &state)
	return state, err
}

func (cc *ClientCommunicator) Undo(ctx context.Context, id string) (communication.HistoryResponse, error) {
	var resp communication.HistoryResponse
	err := cc.do(ctx, http.MethodPost, matchPath(id, "/undo"), nil, &resp)
	return resp, err
}

func (cc *ClientCommunicator) Redo(ctx context.Context, id string) (communication.HistoryResponse, error) {
	var resp communication.HistoryResponse
	err := cc.do(ctx, http.MethodPost, matchPath(id, "/redo"), nil, &resp)
	return resp, err
}

func (cc *ClientCommunicator) PlayAI(ctx context.Context, id string) (communication.AIResponse, error) {
	var resp communication.AIResponse
	err := cc.do(ctx, http.MethodPost, matchPath(id, "/ai"), nil, &resp)
	return resp, err
}

// Event is a websocket message from the relay. State is set for the initial
// snapshot, Update for every change after it.
type Event struct {
	Type   string
	State  *game.Export
	Update *gamemaster.Update
}

// Watch streams the match's websocket events until ctx is done or the connection drops.
func (cc *ClientCommunicator) Watch(ctx context.Context, id string) (<-chan Event, error) {
	wsURL := "ws" + strings.TrimPrefix(cc.serverURL, "http") + matchPath(id, "/ws")
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot watch match %s: %w", id, err)
	}

	events := make(chan Event, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go func() {
		defer close(events)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			event, err := decodeEvent(data)
			if err != nil {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func decodeEvent(data []byte) (Event, error) {
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return Event{}, err
	}
	event := Event{Type: msg.Type}
	switch msg.Type {
	case "state":
		event.State = &game.Export{}
		return event, sonic.Unmarshal(msg.Payload, event.State)
	case "update":
		event.Update = &gamemaster.Update{}
		return event, sonic.Unmarshal(msg.Payload, event.Update)
	}
	return event, nil
}

func matchPath(id, suffix string) string {
	return "/api/matches/" + url.PathEscape(id) + suffix
}

func (cc *ClientCommunicator) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("cannot encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, cc.serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := cc.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e communication.ErrorResponse
		if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}
	return nil
}
