package game

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestExportImport(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		gs, err := NewGameState(6)
		require.NoError(t, err)
		for turn := 0; turn < 7; turn++ {
			playQuiet(t, gs)
		}
		e := gs.Export()
		require.Equal(t, 6, e.PlayerCount)
		require.True(t, e.Advanced)
		require.Nil(t, e.PendingCapture)
		require.Equal(t, gs.Current().String(), e.CurrentPlayer)

		imported, err := Import(e)
		require.NoError(t, err)
		require.Equal(t, e.Pieces, imported.Export().Pieces)
		require.Equal(t, e.CurrentPlayerIndex, imported.CurrentIndex())
		require.Equal(t, e, imported.Export())
		require.Equal(t, 1, imported.History().Len())
	})

	t.Run("round trip through json", func(t *testing.T) {
		gs, err := NewGameState(4)
		require.NoError(t, err)
		playQuiet(t, gs)

		data, err := sonic.Marshal(gs.Export())
		require.NoError(t, err)
		var e Export
		require.NoError(t, sonic.Unmarshal(data, &e))
		imported, err := Import(e)
		require.NoError(t, err)
		require.Equal(t, gs.Export(), imported.Export())
	})

	t.Run("pending placement survives", func(t *testing.T) {
		gs := newTestGame(t, 3, false,
			ps(1, 0, Yellow, Militant), ps(0, 4, Yellow, Chief),
			ps(2, 0, Red, Militant), ps(4, -4, Red, Chief),
			ps(-4, 0, Green, Chief))
		require.NoError(t, gs.SubmitMove(Move{From: Cell{1, 0}, To: Cell{2, 0}}))
		e := gs.Export()
		require.NotNil(t, e.PendingCapture)
		require.Equal(t, "grey", e.PendingCapture.Color)

		imported, err := Import(e)
		require.NoError(t, err)
		require.Equal(t, e, imported.Export())

		i, cells, ok := imported.Pending()
		require.True(t, ok)
		require.Equal(t, e.PendingIndex, i)
		require.Equal(t, e.AvailablePlacementCells, cells)
		require.NoError(t, imported.PlaceCapturedPiece(Cell{1, 0}))
		require.Equal(t, "red", imported.Export().CurrentPlayer)
	})

	t.Run("rejects malformed exports", func(t *testing.T) {
		gs, err := NewGameState(3)
		require.NoError(t, err)

		e := gs.Export()
		e.PlayerCount = 5
		_, err = Import(e)
		require.ErrorIs(t, err, ErrUnsupportedPlayerCount)

		e = gs.Export()
		e.Pieces[0].Color = "orange"
		_, err = Import(e)
		require.Error(t, err)

		e = gs.Export()
		e.CurrentPlayerIndex = len(e.Order)
		_, err = Import(e)
		require.ErrorIs(t, err, ErrInvalidSnapshot)

		e = gs.Export()
		e.PendingCapture = &e.Pieces[0]
		e.PendingIndex = len(e.Pieces)
		_, err = Import(e)
		require.ErrorIs(t, err, ErrInvalidSnapshot)
	})
}
