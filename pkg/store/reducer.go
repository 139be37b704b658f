package store

import (
	"slices"

	"github.com/chazu/maquette/pkg/scene"
)

// Apply is the reducer: it consumes the previous state and one action
// and returns the next state. Invalid operations (missing nodes, wrong
// node kinds, illegal moves, the protected root) are silent no-ops
// returning prev unchanged; no error surfaces from here. Apply never
// mutates prev: mutating actions work on a deep clone of the model,
// and an accepted mutation records a history snapshot.
func Apply(prev State, a Action) State {
	switch act := a.(type) {
	case SelectNode:
		next := prev
		next.Selection.SelectedID = act.NodeID
		return next
	case HoverNode:
		next := prev
		next.Selection.HoveredID = act.NodeID
		return next
	case Undo:
		return applyUndo(prev)
	case Redo:
		return applyRedo(prev)
	}

	model := prev.Model.Clone()
	sel := prev.Selection
	if !mutate(model, &sel, a) {
		return prev
	}
	next := prev
	next.Model = model
	next.Selection = sel
	return pushSnapshot(next)
}

// mutate applies one history-significant action to a cloned model and
// reports whether the action was accepted.
func mutate(m *scene.Model, sel *Selection, a Action) bool {
	switch act := a.(type) {
	case AddPrimitive:
		return addPrimitive(m, sel, act)
	case AddAssembly:
		return addAssembly(m, act)
	case DeleteNode:
		return deleteNode(m, sel, act)
	case UpdateNode:
		return updateNode(m, act)
	case UpdateTransform:
		return updateTransform(m, act)
	case ReorderChildren:
		return reorderChildren(m, act)
	case MoveNode:
		return moveNode(m, act)
	case RenameNode:
		return renameNode(m, act)
	case ToggleVisibility:
		return toggleVisibility(m, act)
	case UpdatePrimitiveProps:
		return updatePrimitiveProps(m, act)
	case DuplicateNode:
		return duplicateNode(m, sel, act)
	}
	return false
}

func addPrimitive(m *scene.Model, sel *Selection, act AddPrimitive) bool {
	if !scene.ValidPrimitiveKinds[act.PrimitiveKind] {
		return false
	}
	name := act.Name
	if name == "" {
		name = string(act.PrimitiveKind)
	}
	n := scene.NewPrimitive(act.PrimitiveKind, name)
	if !m.Attach(act.ParentID, n) {
		return false
	}
	sel.SelectedID = n.ID
	return true
}

func addAssembly(m *scene.Model, act AddAssembly) bool {
	name := act.Name
	if name == "" {
		name = "Assembly"
	}
	return m.Attach(act.ParentID, scene.NewAssembly(name))
}

func deleteNode(m *scene.Model, sel *Selection, act DeleteNode) bool {
	if act.NodeID == m.RootID {
		return false
	}
	if m.Get(act.NodeID) == nil {
		return false
	}
	sub := m.Subtree(act.NodeID)
	m.Detach(act.NodeID)
	m.Remove(sub...)

	// Selection and hover must not point into the removed subtree.
	if !sel.SelectedID.IsZero() && m.Get(sel.SelectedID) == nil {
		sel.SelectedID = scene.ZeroID
	}
	if !sel.HoveredID.IsZero() && m.Get(sel.HoveredID) == nil {
		sel.HoveredID = scene.ZeroID
	}
	return true
}

func updateNode(m *scene.Model, act UpdateNode) bool {
	n := m.Get(act.NodeID)
	if n == nil {
		return false
	}
	// A patch whose every field is skipped must not create an undo step.
	applied := false
	if act.Patch.Name != nil && act.NodeID != m.RootID {
		n.Name = *act.Patch.Name
		applied = true
	}
	if act.Patch.Visible != nil {
		n.Visible = *act.Patch.Visible
		applied = true
	}
	if act.Patch.Color != nil {
		if prim, ok := n.Data.(scene.PrimitiveData); ok {
			prim.Color = *act.Patch.Color
			applied = true
		}
	}
	return applied
}

func updateTransform(m *scene.Model, act UpdateTransform) bool {
	n := m.Get(act.NodeID)
	if n == nil {
		return false
	}
	n.Transform = act.Patch.apply(n.Transform)
	return true
}

func reorderChildren(m *scene.Model, act ReorderChildren) bool {
	p := m.Get(act.ParentID)
	if p == nil || !p.IsAssembly() {
		return false
	}
	children := m.ChildIDs(act.ParentID)
	// Out-of-range indices are rejected rather than clamped. ToIndex
	// addresses the list after removal, so len-1 is its upper bound.
	if act.FromIndex < 0 || act.FromIndex >= len(children) {
		return false
	}
	if act.ToIndex < 0 || act.ToIndex >= len(children) {
		return false
	}
	next := slices.Clone(children)
	id := next[act.FromIndex]
	next = slices.Delete(next, act.FromIndex, act.FromIndex+1)
	next = slices.Insert(next, act.ToIndex, id)
	return m.ReplaceChildren(act.ParentID, next)
}

func moveNode(m *scene.Model, act MoveNode) bool {
	if !m.ValidMove(act.NodeID, act.NewParentID) {
		return false
	}
	n := m.Get(act.NodeID)
	m.Detach(act.NodeID)
	return m.Attach(act.NewParentID, n)
}

func renameNode(m *scene.Model, act RenameNode) bool {
	if act.NodeID == m.RootID {
		return false
	}
	n := m.Get(act.NodeID)
	if n == nil {
		return false
	}
	n.Name = act.Name
	return true
}

func toggleVisibility(m *scene.Model, act ToggleVisibility) bool {
	n := m.Get(act.NodeID)
	if n == nil {
		return false
	}
	n.Visible = !n.Visible
	return true
}

func updatePrimitiveProps(m *scene.Model, act UpdatePrimitiveProps) bool {
	n := m.Get(act.NodeID)
	if n == nil {
		return false
	}
	prim, ok := n.Data.(scene.PrimitiveData)
	if !ok {
		return false
	}
	if prim.Props == nil {
		prim.Props = make(map[string]float64, len(act.Props))
		n.Data = prim
	}
	for k, v := range act.Props {
		prim.Props[k] = v
	}
	return true
}

func duplicateNode(m *scene.Model, sel *Selection, act DuplicateNode) bool {
	if act.NodeID == m.RootID {
		return false
	}
	if m.Get(act.NodeID) == nil {
		return false
	}
	parent := m.FindParent(act.NodeID)
	if parent.IsZero() {
		return false
	}
	newRoot, copies := m.CloneSubtree(act.NodeID)
	if newRoot.IsZero() {
		return false
	}
	for id, n := range copies {
		if id != newRoot {
			m.Nodes[id] = n
		}
	}
	if !m.Attach(parent, copies[newRoot]) {
		return false
	}
	sel.SelectedID = newRoot
	return true
}
