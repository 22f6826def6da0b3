package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"djambi/communication"
	"djambi/game"
	"djambi/gamemaster"
	"djambi/searcher"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	registry := gamemaster.NewRegistry(searcher.WithDepth(1), searcher.WithSeed(1))
	ts := httptest.NewServer(NewServer(registry).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createMatch(t *testing.T, ts *httptest.Server, players int) communication.CreateResponse {
	t.Helper()
	var created communication.CreateResponse
	status := call(t, http.MethodPost, ts.URL+"/api/matches/", communication.CreateRequest{Players: players}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)
	return created
}

func TestServer(t *testing.T) {
	ts := newTestServer(t)

	t.Run("ping", func(t *testing.T) {
		var body map[string]bool
		require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/ping", nil, &body))
		require.True(t, body["ok"])
	})

	t.Run("create and fetch", func(t *testing.T) {
		created := createMatch(t, ts, 3)
		require.Equal(t, 3, created.State.PlayerCount)
		require.Equal(t, "yellow", created.State.CurrentPlayer)

		var state game.Export
		require.Equal(t, http.StatusOK, call(t, http.MethodGet, ts.URL+"/api/matches/"+created.ID, nil, &state))
		require.Equal(t, created.State.Order, state.Order)
		require.Len(t, state.Pieces, len(created.State.Pieces))
	})

	t.Run("destinations", func(t *testing.T) {
		created := createMatch(t, ts, 3)
		var dests communication.DestinationsResponse
		status := call(t, http.MethodGet, ts.URL+"/api/matches/"+created.ID+"/moves?q=0&r=2", nil, &dests)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, game.Cell{Q: 0, R: 2}, dests.From)
		require.Contains(t, dests.Destinations, game.Cell{Q: 0, R: 1})

		var empty communication.DestinationsResponse
		status = call(t, http.MethodGet, ts.URL+"/api/matches/"+created.ID+"/moves?q=1&r=1", nil, &empty)
		require.Equal(t, http.StatusOK, status)
		require.NotNil(t, empty.Destinations)
		require.Empty(t, empty.Destinations)

		status = call(t, http.MethodGet, ts.URL+"/api/matches/"+created.ID+"/moves?q=a", nil, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("move undo redo", func(t *testing.T) {
		created := createMatch(t, ts, 3)
		base := ts.URL + "/api/matches/" + created.ID

		var hist communication.HistoryResponse
		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/undo", nil, &hist))
		require.False(t, hist.Applied)

		var state game.Export
		move := communication.MoveRequest{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}}
		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/move", move, &state))
		require.NotEqual(t, created.State.CurrentPlayer, state.CurrentPlayer)

		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/undo", nil, &hist))
		require.True(t, hist.Applied)
		require.Equal(t, created.State.CurrentPlayer, hist.State.CurrentPlayer)

		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/redo", nil, &hist))
		require.True(t, hist.Applied)
		require.Equal(t, state.CurrentPlayer, hist.State.CurrentPlayer)

		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/redo", nil, &hist))
		require.False(t, hist.Applied)
	})

	t.Run("ai", func(t *testing.T) {
		created := createMatch(t, ts, 4)
		var resp communication.AIResponse
		require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+"/api/matches/"+created.ID+"/ai", nil, &resp))
		require.NotEqual(t, resp.Move.From, resp.Move.To)
		require.NotEqual(t, created.State.CurrentPlayer, resp.State.CurrentPlayer)
	})

	t.Run("history and resume", func(t *testing.T) {
		created := createMatch(t, ts, 3)
		base := ts.URL + "/api/matches/" + created.ID
		move := communication.MoveRequest{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}}
		require.Equal(t, http.StatusOK, call(t, http.MethodPost, base+"/move", move, nil))

		resp, err := http.Get(base + "/history")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/matches/resume", &buf)
		require.NoError(t, err)
		resumed, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resumed.Body.Close()
		require.Equal(t, http.StatusCreated, resumed.StatusCode)

		var created2 communication.CreateResponse
		require.NoError(t, sonic.ConfigDefault.NewDecoder(resumed.Body).Decode(&created2))
		require.NotEqual(t, created.ID, created2.ID)

		var hist communication.HistoryResponse
		require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+"/api/matches/"+created2.ID+"/undo", nil, &hist))
		require.True(t, hist.Applied)
	})

	t.Run("delete", func(t *testing.T) {
		created := createMatch(t, ts, 3)
		require.Equal(t, http.StatusNoContent, call(t, http.MethodDelete, ts.URL+"/api/matches/"+created.ID, nil, nil))
		require.Equal(t, http.StatusNotFound, call(t, http.MethodGet, ts.URL+"/api/matches/"+created.ID, nil, nil))
	})

	t.Run("errors", func(t *testing.T) {
		var e communication.ErrorResponse
		require.Equal(t, http.StatusNotFound, call(t, http.MethodGet, ts.URL+"/api/matches/missing", nil, &e))
		require.Contains(t, e.Error, "not found")

		require.Equal(t, http.StatusBadRequest,
			call(t, http.MethodPost, ts.URL+"/api/matches/", communication.CreateRequest{Players: 5}, nil))

		created := createMatch(t, ts, 3)
		bad := communication.MoveRequest{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: -3}}
		require.Equal(t, http.StatusUnprocessableEntity,
			call(t, http.MethodPost, ts.URL+"/api/matches/"+created.ID+"/move", bad, nil))
		require.Equal(t, http.StatusUnprocessableEntity,
			call(t, http.MethodPost, ts.URL+"/api/matches/"+created.ID+"/place", communication.PlaceRequest{}, nil))

		resume, err := http.Post(ts.URL+"/api/matches/resume", "application/json", strings.NewReader("not json"))
		require.NoError(t, err)
		resume.Body.Close()
		require.Equal(t, http.StatusBadRequest, resume.StatusCode, "a malformed history file is a bad request")

		offBoard := `{"rules":{"players":3,"size":5},"past":[` +
			`{"pieces":[{"cell":{"q":9,"r":9},"color":"yellow","kind":"chief","alive":true}],"players":["yellow"],"order":["yellow"],"current":0},` +
			`{"pieces":[{"cell":{"q":0,"r":4},"color":"yellow","kind":"chief","alive":true}],"players":["yellow"],"order":["yellow"],"current":0}],"future":[]}`
		resume, err = http.Post(ts.URL+"/api/matches/resume", "application/json", strings.NewReader(offBoard))
		require.NoError(t, err)
		resume.Body.Close()
		require.Equal(t, http.StatusBadRequest, resume.StatusCode, "every snapshot of a resumed history must load")

		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/matches/"+created.ID+"/move", strings.NewReader("{"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestStatusOf(t *testing.T) {
	require.Equal(t, http.StatusNotFound, statusOf(gamemaster.ErrMatchNotFound))
	require.Equal(t, http.StatusBadRequest, statusOf(game.ErrUnsupportedPlayerCount))
	require.Equal(t, http.StatusConflict, statusOf(game.ErrPlacementPending))
	require.Equal(t, http.StatusConflict, statusOf(game.ErrGameOver))
	require.Equal(t, http.StatusUnprocessableEntity, statusOf(game.ErrInvalidMove))
	require.Equal(t, http.StatusInternalServerError, statusOf(bytes.ErrTooLarge))
}

func TestWebsocket(t *testing.T) {
	ts := newTestServer(t)
	created := createMatch(t, ts, 3)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/matches/" + created.ID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() (string, json.RawMessage) {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, sonic.Unmarshal(data, &msg))
		return msg.Type, msg.Payload
	}

	kind, payload := read()
	require.Equal(t, MessageState, kind)
	var state game.Export
	require.NoError(t, sonic.Unmarshal(payload, &state))
	require.Equal(t, "yellow", state.CurrentPlayer)

	move := communication.MoveRequest{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, ts.URL+"/api/matches/"+created.ID+"/move", move, nil))

	kind, payload = read()
	require.Equal(t, MessageUpdate, kind)
	var update gamemaster.Update
	require.NoError(t, sonic.Unmarshal(payload, &update))
	require.Equal(t, gamemaster.EventMove, update.Event)
	require.NotNil(t, update.Move)
	require.Equal(t, game.Cell{Q: 0, R: 1}, update.Move.To)
}
