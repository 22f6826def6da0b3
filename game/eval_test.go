package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelations(t *testing.T) {
	gs := newTestGame(t, 3, false,
		ps(1, 0, Yellow, Militant), ps(0, 4, Yellow, Chief),
		ps(2, 0, Red, Militant), ps(3, 0, Red, Assassin), ps(4, -4, Red, Chief),
		ps(-4, 0, Green, Chief))
	yellow, red, assassin := pieceOn(t, gs, Cell{1, 0}), pieceOn(t, gs, Cell{2, 0}), pieceOn(t, gs, Cell{3, 0})

	require.True(t, gs.Piece(red).Threatened())
	require.NotZero(t, gs.Piece(yellow).Threatens&bit(red))
	require.NotZero(t, gs.Piece(red).Threatens&bit(yellow))
	require.True(t, gs.Piece(red).Protected(), "the assassin behind covers the militant")
	require.NotZero(t, gs.Piece(assassin).Protects&bit(red))
	require.Zero(t, gs.Piece(yellow).Protects, "nothing to cover")
}

func TestBestMoves(t *testing.T) {
	t.Run("captures rank first", func(t *testing.T) {
		gs := newTestGame(t, 3, false,
			ps(1, 0, Yellow, Militant), ps(0, 4, Yellow, Chief),
			ps(2, 0, Red, Militant), ps(4, -4, Red, Chief),
			ps(-4, 0, Green, Chief))
		moves := gs.BestMoves(Yellow, 0)
		require.NotEmpty(t, moves)
		require.Equal(t, Move{From: Cell{1, 0}, To: Cell{2, 0}}, moves[0].Move)
		require.GreaterOrEqual(t, moves[0].Score, 120.0, "victim value plus the threat it poses")
		for k := 1; k < len(moves); k++ {
			require.GreaterOrEqual(t, moves[k-1].Score, moves[k].Score)
			require.Positive(t, moves[k].Score)
		}
	})

	t.Run("limit and empty cases", func(t *testing.T) {
		gs, err := NewGameState(6)
		require.NoError(t, err)
		for turn := 0; turn < 6; turn++ {
			playQuiet(t, gs)
		}
		require.LessOrEqual(t, len(gs.BestMoves(gs.Current(), 2)), 2)
		require.Nil(t, gs.BestMoves(Dead, 0))
	})

	t.Run("a chief approaching the origin", func(t *testing.T) {
		gs := newTestGame(t, 3, false, ps(2, 0, Yellow, Chief), ps(4, -4, Red, Chief), ps(-4, 4, Green, Chief))
		var found bool
		for _, m := range gs.BestMoves(Yellow, 0) {
			if m.To == Origin {
				found = true
				require.Equal(t, float64(ChiefValue), m.Score)
			}
		}
		require.True(t, found)
	})
}
