package store

import "github.com/chazu/maquette/pkg/scene"

// Kind names an action on the wire and in logs.
type Kind string

const (
	KindAddPrimitive     Kind = "ADD_PRIMITIVE"
	KindAddAssembly      Kind = "ADD_ASSEMBLY"
	KindDeleteNode       Kind = "DELETE_NODE"
	KindUpdateNode       Kind = "UPDATE_NODE"
	KindUpdateTransform  Kind = "UPDATE_TRANSFORM"
	KindReorderChildren  Kind = "REORDER_CHILDREN"
	KindMoveNode         Kind = "MOVE_NODE"
	KindSelectNode       Kind = "SELECT_NODE"
	KindHoverNode        Kind = "HOVER_NODE"
	KindRenameNode       Kind = "RENAME_NODE"
	KindToggleVisibility Kind = "TOGGLE_VISIBILITY"
	KindUpdatePrimProps  Kind = "UPDATE_PRIMITIVE_PROPERTIES"
	KindDuplicateNode    Kind = "DUPLICATE_NODE"
	KindUndo             Kind = "UNDO"
	KindRedo             Kind = "REDO"
)

// Action is one value from the closed mutation vocabulary. Every edit
// to the scene flows through the reducer as exactly one Action.
type Action interface {
	Kind() Kind
}

// Vec3Patch selects per-axis overrides for one vector. Nil fields keep
// the current value.
type Vec3Patch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

func (p Vec3Patch) apply(v scene.Vec3) scene.Vec3 {
	if p.X != nil {
		v.X = *p.X
	}
	if p.Y != nil {
		v.Y = *p.Y
	}
	if p.Z != nil {
		v.Z = *p.Z
	}
	return v
}

// TransformPatch merges at the sub-field level: each present component
// is itself merged per axis, so {position:{x:5}} changes only x.
type TransformPatch struct {
	Position *Vec3Patch `json:"position,omitempty"`
	Rotation *Vec3Patch `json:"rotation,omitempty"`
	Scale    *Vec3Patch `json:"scale,omitempty"`
}

func (p TransformPatch) apply(t scene.Transform) scene.Transform {
	if p.Position != nil {
		t.Position = p.Position.apply(t.Position)
	}
	if p.Rotation != nil {
		t.Rotation = p.Rotation.apply(t.Rotation)
	}
	if p.Scale != nil {
		t.Scale = p.Scale.apply(t.Scale)
	}
	return t
}

// NodePatch carries the non-structural node fields UPDATE_NODE may
// touch. Structural fields (children, payload kind) are deliberately
// absent; structure changes only through the structural actions.
type NodePatch struct {
	Name    *string `json:"name,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
	Color   *string `json:"color,omitempty"`
}

// AddPrimitive creates a primitive with default properties under an
// assembly and selects it.
type AddPrimitive struct {
	ParentID      scene.NodeID        `json:"parentId"`
	PrimitiveKind scene.PrimitiveKind `json:"primitiveType"`
	Name          string              `json:"name"`
}

func (AddPrimitive) Kind() Kind { return KindAddPrimitive }

// AddAssembly creates an empty assembly under an assembly.
type AddAssembly struct {
	ParentID scene.NodeID `json:"parentId"`
	Name     string       `json:"name"`
}

func (AddAssembly) Kind() Kind { return KindAddAssembly }

// DeleteNode removes a non-root node and its whole subtree.
type DeleteNode struct {
	NodeID scene.NodeID `json:"nodeId"`
}

func (DeleteNode) Kind() Kind { return KindDeleteNode }

// UpdateNode shallow-merges non-structural fields into a node.
type UpdateNode struct {
	NodeID scene.NodeID `json:"nodeId"`
	Patch  NodePatch    `json:"fields"`
}

func (UpdateNode) Kind() Kind { return KindUpdateNode }

// UpdateTransform merges a partial transform into a node's transform.
type UpdateTransform struct {
	NodeID scene.NodeID   `json:"nodeId"`
	Patch  TransformPatch `json:"transform"`
}

func (UpdateTransform) Kind() Kind { return KindUpdateTransform }

// ReorderChildren moves a child within its parent's ordered list using
// splice semantics: removal at FromIndex, then insertion at ToIndex of
// the shortened list.
type ReorderChildren struct {
	ParentID  scene.NodeID `json:"parentId"`
	FromIndex int          `json:"fromIndex"`
	ToIndex   int          `json:"toIndex"`
}

func (ReorderChildren) Kind() Kind { return KindReorderChildren }

// MoveNode reparents a node under another assembly, appending it to
// the new parent's children.
type MoveNode struct {
	NodeID      scene.NodeID `json:"nodeId"`
	NewParentID scene.NodeID `json:"newParentId"`
}

func (MoveNode) Kind() Kind { return KindMoveNode }

// SelectNode sets the selection; a zero ID clears it. Selection is not
// recorded in history.
type SelectNode struct {
	NodeID scene.NodeID `json:"nodeId"`
}

func (SelectNode) Kind() Kind { return KindSelectNode }

// HoverNode sets the hover highlight; a zero ID clears it. Hover is
// not recorded in history.
type HoverNode struct {
	NodeID scene.NodeID `json:"nodeId"`
}

func (HoverNode) Kind() Kind { return KindHoverNode }

// RenameNode sets a node's display name. The root keeps its name.
type RenameNode struct {
	NodeID scene.NodeID `json:"nodeId"`
	Name   string       `json:"name"`
}

func (RenameNode) Kind() Kind { return KindRenameNode }

// ToggleVisibility flips a node's visible flag.
type ToggleVisibility struct {
	NodeID scene.NodeID `json:"nodeId"`
}

func (ToggleVisibility) Kind() Kind { return KindToggleVisibility }

// UpdatePrimitiveProps shallow-merges numeric properties into a
// primitive's property map.
type UpdatePrimitiveProps struct {
	NodeID scene.NodeID       `json:"nodeId"`
	Props  map[string]float64 `json:"properties"`
}

func (UpdatePrimitiveProps) Kind() Kind { return KindUpdatePrimProps }

// DuplicateNode deep-copies a non-root node (and its subtree) next to
// the source and selects the new copy.
type DuplicateNode struct {
	NodeID scene.NodeID `json:"nodeId"`
}

func (DuplicateNode) Kind() Kind { return KindDuplicateNode }

// Undo steps the state back one history snapshot.
type Undo struct{}

func (Undo) Kind() Kind { return KindUndo }

// Redo steps the state forward one history snapshot.
type Redo struct{}

func (Redo) Kind() Kind { return KindRedo }
