package game

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

type historyFile struct {
	Rules  Rules      `json:"rules"`
	Past   []Snapshot `json:"past"`
	Future []Snapshot `json:"future"`
}

// SaveHistory writes the rules and both snapshot stacks as JSON.
func (gs *GameState) SaveHistory(w io.Writer) error {
	if gs.history == nil {
		return fmt.Errorf("cannot save history: game has no history")
	}
	file := historyFile{Rules: gs.rules, Past: gs.history.past, Future: gs.history.future}
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(file); err != nil {
		return fmt.Errorf("cannot save history: %w", err)
	}
	return nil
}

// LoadHistory reads a file written by SaveHistory and resumes the game at its latest snapshot.
func LoadHistory(r io.Reader, options ...Option) (*GameState, error) {
	var file historyFile
	if err := sonic.ConfigDefault.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("cannot load history: %w: %w", ErrInvalidSnapshot, err)
	}
	if len(file.Past) == 0 {
		return nil, fmt.Errorf("cannot load history: no initial snapshot: %w", ErrInvalidSnapshot)
	}
	top := file.Past[len(file.Past)-1]
	gs, err := newGameState(file.Rules, options...)
	if err != nil {
		return nil, fmt.Errorf("cannot load history: %w", err)
	}
	// every snapshot must load so undo and redo cannot fail later
	for i, snapshot := range file.Past {
		if err := gs.load(snapshot); err != nil {
			return nil, fmt.Errorf("cannot load history: snapshot %d: %w", i, err)
		}
	}
	for i, snapshot := range file.Future {
		if err := gs.load(snapshot); err != nil {
			return nil, fmt.Errorf("cannot load history: redo snapshot %d: %w", i, err)
		}
	}
	if err := gs.load(top); err != nil {
		return nil, fmt.Errorf("cannot load history: %w", err)
	}
	gs.history = &History{past: file.Past, future: file.Future}
	return gs, nil
}
