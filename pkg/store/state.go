package store

import "github.com/chazu/maquette/pkg/scene"

// Selection tracks which nodes the UI is focused on. A zero ID means
// nothing is selected or hovered.
type Selection struct {
	SelectedID scene.NodeID `json:"selectedId"`
	HoveredID  scene.NodeID `json:"hoveredId"`
}

// Snapshot is an independent deep copy of model plus selection, stored
// in the history stack. Snapshots are never mutated once stored.
type Snapshot struct {
	Model     *scene.Model
	Selection Selection
}

// State is the whole store value: the live model and selection plus
// the undo history. Reducer invocations never mutate a State in place;
// they return a new value, so retained States stay valid.
type State struct {
	Model        *scene.Model
	Selection    Selection
	History      []Snapshot
	HistoryIndex int
}

// NewState returns the initial state: a model holding only the root
// assembly, no selection, and a one-entry history seeded with a
// snapshot of that state.
func NewState() State {
	s := State{Model: scene.NewModel()}
	s.History = []Snapshot{{Model: s.Model.Clone(), Selection: s.Selection}}
	return s
}

// CanUndo reports whether an earlier snapshot exists.
func (s State) CanUndo() bool {
	return s.HistoryIndex > 0
}

// CanRedo reports whether a later snapshot exists.
func (s State) CanRedo() bool {
	return s.HistoryIndex < len(s.History)-1
}
