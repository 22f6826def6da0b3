package gamemaster

import (
	"bytes"
	"errors"
	"testing"

	"djambi/game"
	"djambi/searcher"
)

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry(searcher.WithDepth(1), searcher.WithSeed(1))
	m, err := r.Create(3, nil)
	if err != nil {
		t.Fatalf("expected a match, got %v", err)
	}
	if m.ID == "" {
		t.Fatal("expected a match id")
	}

	got, err := r.Get(m.ID)
	if err != nil || got != m {
		t.Fatalf("expected to find match %s, got %v (%v)", m.ID, got, err)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 match, got %d", r.Len())
	}

	state := m.State()
	if state.PlayerCount != 3 || state.CurrentPlayer != "yellow" {
		t.Errorf("unexpected initial state: %d players, %s to move", state.PlayerCount, state.CurrentPlayer)
	}

	advanced := true
	m2, err := r.Create(3, &advanced)
	if err != nil {
		t.Fatal(err)
	}
	if !m2.State().Advanced {
		t.Error("expected the advanced override to apply")
	}

	if _, err := r.Create(5, nil); !errors.Is(err, game.ErrUnsupportedPlayerCount) {
		t.Errorf("expected ErrUnsupportedPlayerCount, got %v", err)
	}
	if _, err := r.Get("missing"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound, got %v", err)
	}
	if err := r.Delete(m.ID); err != nil {
		t.Errorf("expected delete to succeed, got %v", err)
	}
	if err := r.Delete(m.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("expected ErrMatchNotFound on second delete, got %v", err)
	}
}

func TestMatchPlay_ValidMove(t *testing.T) {
	r := NewRegistry(searcher.WithDepth(1), searcher.WithSeed(1))
	m, _ := r.Create(3, nil)
	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	// the yellow necromobile at (0,2) may step to (0,1)
	from := game.Cell{Q: 0, R: 2}
	to := game.Cell{Q: 0, R: 1}
	found := false
	for _, c := range m.Destinations(from) {
		if c == to {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %v among the destinations of %v", to, from)
	}

	state, err := m.Move(game.Move{From: from, To: to})
	if err != nil {
		t.Fatalf("expected no error for a valid move, got %v", err)
	}
	if state.CurrentPlayer != "red" {
		t.Errorf("expected red to move next, got %s", state.CurrentPlayer)
	}

	u := <-updates
	if u.Event != EventMove || u.Move == nil || u.Move.To != to {
		t.Errorf("unexpected update %+v", u)
	}

	if _, ok := m.Undo(); !ok {
		t.Fatal("expected undo to succeed")
	}
	if u := <-updates; u.Event != EventUndo || u.State.CurrentPlayer != "yellow" {
		t.Errorf("unexpected undo update %+v", u)
	}
	if _, ok := m.Redo(); !ok {
		t.Fatal("expected redo to succeed")
	}
	if u := <-updates; u.Event != EventRedo {
		t.Errorf("unexpected redo update %+v", u)
	}
}

func TestMatchPlay_InvalidMove(t *testing.T) {
	r := NewRegistry()
	m, _ := r.Create(3, nil)
	updates, unsubscribe := m.Subscribe()
	defer unsubscribe()

	before := m.State()
	_, err := m.Move(game.Move{From: game.Cell{Q: 0, R: 4}, To: game.Cell{Q: 0, R: 0}})
	if !errors.Is(err, game.ErrInvalidMove) {
		t.Errorf("expected ErrInvalidMove, got %v", err)
	}
	if _, err := m.Place(game.Cell{Q: 1, R: 1}); !errors.Is(err, game.ErrInvalidPlacement) {
		t.Errorf("expected ErrInvalidPlacement, got %v", err)
	}
	if _, ok := m.Undo(); ok {
		t.Error("expected nothing to undo")
	}

	select {
	case u := <-updates:
		t.Errorf("expected no update after rejected calls, got %+v", u)
	default:
	}
	if after := m.State(); after.CurrentPlayerIndex != before.CurrentPlayerIndex {
		t.Error("rejected calls should not change the state")
	}
}

func TestMatchPlayAI(t *testing.T) {
	r := NewRegistry(searcher.WithDepth(1), searcher.WithSeed(3))
	m, _ := r.Create(4, nil)

	for turn := 0; turn < 4; turn++ {
		before := m.State().CurrentPlayer
		move, state, err := m.PlayAI()
		if err != nil {
			t.Fatalf("turn %d: %v", turn, err)
		}
		if move.From == move.To {
			t.Errorf("turn %d: empty move", turn)
		}
		if state.PendingCapture != nil {
			t.Errorf("turn %d: the ai left a placement open", turn)
		}
		if state.CurrentPlayer == before {
			t.Errorf("turn %d: the turn did not pass", turn)
		}
	}
}

func TestMatchHistory(t *testing.T) {
	r := NewRegistry(searcher.WithDepth(1), searcher.WithSeed(4))
	m, _ := r.Create(3, nil)
	if _, _, err := m.PlayAI(); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := m.SaveHistory(&buf); err != nil {
		t.Fatal(err)
	}
	resumed, err := r.Resume(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if resumed.ID == m.ID {
		t.Error("a resumed match gets its own id")
	}
	if got, want := resumed.State().CurrentPlayer, m.State().CurrentPlayer; got != want {
		t.Errorf("expected %s to move after resume, got %s", want, got)
	}
	if _, ok := resumed.Undo(); !ok {
		t.Error("expected the resumed history to allow undo")
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	r := NewRegistry()
	m, _ := r.Create(3, nil)
	updates, unsubscribe := m.Subscribe()
	unsubscribe()
	unsubscribe()
	if _, ok := <-updates; ok {
		t.Error("expected the channel to be closed")
	}
	if _, err := m.Move(game.Move{From: game.Cell{Q: 0, R: 2}, To: game.Cell{Q: 0, R: 1}}); err != nil {
		t.Errorf("publishing without subscribers should not fail: %v", err)
	}
}
