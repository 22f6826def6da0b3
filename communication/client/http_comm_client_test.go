package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"djambi/communication"
	"djambi/communication/server"
	"djambi/game"
	"djambi/gamemaster"
	"djambi/searcher"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *ClientCommunicator {
	t.Helper()
	registry := gamemaster.NewRegistry(searcher.WithDepth(1), searcher.WithSeed(1))
	ts := httptest.NewServer(server.NewServer(registry).Handler())
	t.Cleanup(ts.Close)
	return NewClientCommunicator(ts.URL + "/")
}

func TestClientCommunicator(t *testing.T) {
	ctx := context.Background()
	cc := newTestClient(t)

	created, err := cc.Create(ctx, communication.CreateRequest{Players: 3})
	require.NoError(t, err)
	require.Equal(t, "yellow", created.State.CurrentPlayer)

	t.Run("state and destinations", func(t *testing.T) {
		state, err := cc.GetGameState(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.State.Order, state.Order)

		dests, err := cc.Destinations(ctx, created.ID, game.Cell{Q: 0, R: 2})
		require.NoError(t, err)
		require.Contains(t, dests, game.Cell{Q: 0, R: 1})
	})

	t.Run("move and history", func(t *testing.T) {
		state, err := cc.SendMove(ctx, created.ID, game.Move{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}})
		require.NoError(t, err)
		require.NotEqual(t, "yellow", state.CurrentPlayer)

		undone, err := cc.Undo(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, undone.Applied)
		require.Equal(t, "yellow", undone.State.CurrentPlayer)

		redone, err := cc.Redo(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, redone.Applied)
		require.Equal(t, state.CurrentPlayer, redone.State.CurrentPlayer)
	})

	t.Run("ai", func(t *testing.T) {
		before, err := cc.GetGameState(ctx, created.ID)
		require.NoError(t, err)
		resp, err := cc.PlayAI(ctx, created.ID)
		require.NoError(t, err)
		if resp.State.PendingCapture == nil {
			require.NotEqual(t, before.CurrentPlayer, resp.State.CurrentPlayer)
		}
	})

	t.Run("status errors", func(t *testing.T) {
		_, err := cc.GetGameState(ctx, "missing")
		var status *StatusError
		require.True(t, errors.As(err, &status))
		require.Equal(t, http.StatusNotFound, status.Status)

		_, err = cc.SendMove(ctx, created.ID, game.Move{From: game.Cell{Q: 1, R: 1}, To: game.Cell{Q: 1, R: 0}})
		require.True(t, errors.As(err, &status))
		require.Equal(t, http.StatusUnprocessableEntity, status.Status)

		_, err = cc.SendPlacement(ctx, created.ID, game.Cell{})
		require.True(t, errors.As(err, &status))
		require.Equal(t, http.StatusUnprocessableEntity, status.Status)
	})
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cc := newTestClient(t)

	created, err := cc.Create(ctx, communication.CreateRequest{Players: 4})
	require.NoError(t, err)

	events, err := cc.Watch(ctx, created.ID)
	require.NoError(t, err)

	first := <-events
	require.Equal(t, "state", first.Type)
	require.NotNil(t, first.State)
	require.Equal(t, created.State.CurrentPlayer, first.State.CurrentPlayer)

	resp, err := cc.PlayAI(ctx, created.ID)
	require.NoError(t, err)

	next := <-events
	require.Equal(t, "update", next.Type)
	require.NotNil(t, next.Update)
	require.Equal(t, gamemaster.EventMove, next.Update.Event)
	require.Equal(t, resp.Move, *next.Update.Move)

	cancel()
	for range events {
	}
}
