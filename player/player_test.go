package player

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"djambi/communication"
	"djambi/communication/client"
	"djambi/communication/server"
	"djambi/game"
	"djambi/gamemaster"
	"djambi/searcher"
	"djambi/searcher/agent"

	"github.com/stretchr/testify/require"
)

func newRelay(t *testing.T) *client.ClientCommunicator {
	t.Helper()
	registry := gamemaster.NewRegistry(searcher.WithDepth(1), searcher.WithSeed(1))
	ts := httptest.NewServer(server.NewServer(registry).Handler())
	t.Cleanup(ts.Close)
	return client.NewClientCommunicator(ts.URL)
}

func TestPlayerTakesItsTurns(t *testing.T) {
	relay := newRelay(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	created, err := relay.Create(ctx, communication.CreateRequest{Players: 3})
	require.NoError(t, err)
	require.Equal(t, "yellow", created.State.CurrentPlayer)

	type outcome struct {
		winner string
		err    error
	}
	done := make(chan outcome, 2)
	for i, color := range []string{"red", "green"} {
		p := NewPlayer(color, agent.NewRandomAgent(uint64(i+1)), relay)
		go func() {
			winner, err := p.Play(ctx, created.ID)
			done <- outcome{winner, err}
		}()
	}

	// the human seat moves, then both players answer
	_, err = relay.SendMove(ctx, created.ID, game.Move{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		state, err := relay.GetGameState(ctx, created.ID)
		return err == nil && state.CurrentPlayer == "yellow"
	}, 5*time.Second, 20*time.Millisecond)

	state, err := relay.GetGameState(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, state.PendingCapture)

	cancel()
	for range 2 {
		select {
		case o := <-done:
			require.Empty(t, o.winner)
			require.ErrorIs(t, o.err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("player did not stop")
		}
	}
}

func TestPlayerEliminated(t *testing.T) {
	relay := newRelay(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := relay.Create(ctx, communication.CreateRequest{Players: 3})
	require.NoError(t, err)

	p := NewPlayer("blue", agent.NewRandomAgent(1), relay)
	_, err = p.Play(ctx, created.ID)
	require.ErrorIs(t, err, ErrEliminated)
}
