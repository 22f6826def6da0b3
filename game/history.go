package game

// Snapshot is the primitive structural state committed after every turn.
type Snapshot struct {
	Pieces  []PieceState `json:"pieces"`
	Players []Color      `json:"players"`
	Order   []Color      `json:"order"`
	Current int          `json:"current"`
}

// History is a stack of committed snapshots with a redo stack. It always holds the initial snapshot.
type History struct {
	past   []Snapshot
	future []Snapshot
}

func NewHistory(initial Snapshot) *History {
	return &History{past: []Snapshot{initial}}
}

// Commit pushes a snapshot and clears the redo stack.
func (h *History) Commit(s Snapshot) {
	h.past = append(h.past, s)
	h.future = nil
}

func (h *History) DiscardFuture() {
	h.future = nil
}

// Previous returns the snapshot Undo would restore.
func (h *History) Previous() (Snapshot, bool) {
	if len(h.past) <= 1 {
		return Snapshot{}, false
	}
	return h.past[len(h.past)-2], true
}

// Next returns the snapshot Redo would restore.
func (h *History) Next() (Snapshot, bool) {
	if len(h.future) == 0 {
		return Snapshot{}, false
	}
	return h.future[len(h.future)-1], true
}

// Undo moves the top snapshot to the redo stack and returns the new top.
// It is a no-op when only the initial snapshot remains.
func (h *History) Undo() (Snapshot, bool) {
	if len(h.past) <= 1 {
		return Snapshot{}, false
	}
	top := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, top)
	return h.Top(), true
}

func (h *History) Redo() (Snapshot, bool) {
	if len(h.future) == 0 {
		return Snapshot{}, false
	}
	next := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, next)
	return next, true
}

func (h *History) Top() Snapshot { return h.past[len(h.past)-1] }

// Len returns the number of committed snapshots, the initial one included.
func (h *History) Len() int { return len(h.past) }

func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Undo restores the previous turn and returns its turn pointer. An open
// capture placement is abandoned by restoring the last committed turn instead.
// A snapshot that fails to load leaves both the game and the history untouched.
func (gs *GameState) Undo() (int, bool) {
	if gs.history == nil {
		return 0, false
	}
	if gs.pending >= 0 {
		if !gs.restore(gs.history.Top()) {
			return 0, false
		}
		return gs.current, true
	}
	s, ok := gs.history.Previous()
	if !ok || !gs.restore(s) {
		return 0, false
	}
	gs.history.Undo()
	return gs.current, true
}

func (gs *GameState) Redo() (int, bool) {
	if gs.history == nil || gs.pending >= 0 {
		return 0, false
	}
	s, ok := gs.history.Next()
	if !ok || !gs.restore(s) {
		return 0, false
	}
	gs.history.Redo()
	return gs.current, true
}

// restore loads s. load validates before it mutates, so a failure keeps the current state.
func (gs *GameState) restore(s Snapshot) bool {
	if err := gs.load(s); err != nil {
		gs.log.Error().Err(err).Msg("snapshot rejected")
		return false
	}
	gs.log.Debug().Int("turn", gs.current).Int("snapshots", gs.history.Len()).Msg("state restored")
	return true
}
