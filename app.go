package main

import (
	"context"
	"log"

	"github.com/chazu/maquette/pkg/engine"
	"github.com/chazu/maquette/pkg/kernel"
	"github.com/chazu/maquette/pkg/kernel/sdfx"
	"github.com/chazu/maquette/pkg/propfield"
	"github.com/chazu/maquette/pkg/scene"
	"github.com/chazu/maquette/pkg/store"
	"github.com/chazu/maquette/pkg/tessellate"
)

// App is the Wails backend. It exposes methods to the frontend via
// bindings; every mutation flows through the store's reducer, and
// every read is a conversion of store state into frontend DTOs.
type App struct {
	ctx    context.Context
	store  *store.Store
	engine *engine.Engine
	kernel kernel.Kernel
}

// NewApp creates a new App with a fresh store, a script engine bound
// to it, and the sdfx kernel.
func NewApp() *App {
	st := store.NewStore()
	return &App{
		store:  st,
		engine: engine.NewEngine(st),
		kernel: sdfx.New(),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// TreeNode is the JSON-serializable node shape sent to the frontend
// tree view and property panel. Children are resolved in place so the
// frontend renders the hierarchy without id lookups.
type TreeNode struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Kind          string             `json:"kind"` // "primitive" or "assembly"
	PrimitiveType string             `json:"primitiveType,omitempty"`
	Props         map[string]float64 `json:"props,omitempty"`
	Color         string             `json:"color,omitempty"`
	Visible       bool               `json:"visible"`
	Transform     scene.Transform    `json:"transform"`
	Children      []TreeNode         `json:"children,omitempty"`
}

// StateData is the full observable state sent to the frontend.
type StateData struct {
	Tree       TreeNode `json:"tree"`
	SelectedID string   `json:"selectedId"`
	HoveredID  string   `json:"hoveredId"`
	CanUndo    bool     `json:"canUndo"`
	CanRedo    bool     `json:"canRedo"`
}

// DispatchResult is returned by every mutating binding: the state after
// the action, plus a decode error if the action never reached the
// reducer. Reducer-rejected actions are not errors; they just return
// the unchanged state.
type DispatchResult struct {
	State StateData `json:"state"`
	Error string    `json:"error,omitempty"`
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// MeshResult bundles the tessellated scene for the 3D view.
type MeshResult struct {
	Meshes []MeshData `json:"meshes"`
	Error  string     `json:"error,omitempty"`
}

// EvalErrorData is a JSON-serializable script error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ScriptResult is the console output of one script run.
type ScriptResult struct {
	Value  string          `json:"value"`
	Errors []EvalErrorData `json:"errors"`
}

// State returns the current model tree, selection, and history
// availability.
func (a *App) State() StateData {
	return stateData(a.store.State())
}

// Dispatch decodes one {type, payload} action envelope, folds it into
// the store, and returns the resulting state. Malformed envelopes are
// reported without touching the store.
func (a *App) Dispatch(actionJSON string) DispatchResult {
	action, err := store.DecodeAction([]byte(actionJSON))
	if err != nil {
		log.Printf("Dispatch: %v", err)
		return DispatchResult{State: stateData(a.store.State()), Error: err.Error()}
	}
	return DispatchResult{State: stateData(a.store.Dispatch(action))}
}

// Meshes tessellates the current model for the 3D view.
func (a *App) Meshes() MeshResult {
	meshes, err := tessellate.Build(a.store.State().Model, a.kernel)
	if err != nil {
		log.Printf("Meshes: %v", err)
		return MeshResult{Meshes: []MeshData{}, Error: err.Error()}
	}
	result := MeshResult{Meshes: make([]MeshData, 0, len(meshes))}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    m.Color,
		})
	}
	return result
}

// EditTransformField applies one property-panel field edit: component
// addresses position/rotation/scale, axis addresses x/y/z. Rotation
// values arrive in degrees and are normalized before storage in
// radians. With linked set, the other axes scale proportionally.
func (a *App) EditTransformField(nodeID, component, axis string, value float64, linked bool) DispatchResult {
	comp := propfield.Component(component)
	ax := propfield.Axis(axis)
	if !propfield.ValidComponents[comp] {
		return DispatchResult{State: stateData(a.store.State()), Error: "unknown transform component: " + component}
	}
	if !propfield.ValidAxes[ax] {
		return DispatchResult{State: stateData(a.store.State()), Error: "unknown axis: " + axis}
	}

	st := a.store.State()
	node := st.Model.Get(scene.NodeID(nodeID))
	if node == nil {
		return DispatchResult{State: stateData(st), Error: "unknown node: " + nodeID}
	}

	if comp == propfield.CompRotation {
		value = propfield.DegToRad(propfield.NormalizeDegrees(value))
	}

	var patch store.Vec3Patch
	if linked {
		next := propfield.LinkedSet(comp.Get(node.Transform), ax, value)
		patch = store.Vec3Patch{X: &next.X, Y: &next.Y, Z: &next.Z}
	} else {
		switch ax {
		case propfield.AxisX:
			patch.X = &value
		case propfield.AxisY:
			patch.Y = &value
		case propfield.AxisZ:
			patch.Z = &value
		}
	}

	tp := store.TransformPatch{}
	switch comp {
	case propfield.CompPosition:
		tp.Position = &patch
	case propfield.CompRotation:
		tp.Rotation = &patch
	case propfield.CompScale:
		tp.Scale = &patch
	}

	next := a.store.Dispatch(store.UpdateTransform{NodeID: scene.NodeID(nodeID), Patch: tp})
	return DispatchResult{State: stateData(next)}
}

// RunScript evaluates console input against the store.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{Errors: []EvalErrorData{}}

	value, evalErrs, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded).
		log.Printf("RunScript fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, e := range evalErrs {
		result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	result.Value = value
	return result
}

// CheckModel runs the structural validator against the live model and
// returns the findings as strings. Empty means every invariant holds.
// This is a debug surface; the reducer should never let it trip.
func (a *App) CheckModel() []string {
	findings := scene.Validate(a.store.State().Model)
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Error())
	}
	return out
}

// stateData converts store state into the frontend DTO.
func stateData(st store.State) StateData {
	return StateData{
		Tree:       treeNode(st.Model, st.Model.RootID),
		SelectedID: string(st.Selection.SelectedID),
		HoveredID:  string(st.Selection.HoveredID),
		CanUndo:    st.CanUndo(),
		CanRedo:    st.CanRedo(),
	}
}

// treeNode recursively converts one node and its subtree.
func treeNode(m *scene.Model, id scene.NodeID) TreeNode {
	n := m.Get(id)
	if n == nil {
		return TreeNode{}
	}
	dto := TreeNode{
		ID:        string(n.ID),
		Name:      n.Name,
		Visible:   n.Visible,
		Transform: n.Transform,
	}
	switch data := n.Data.(type) {
	case scene.PrimitiveData:
		dto.Kind = "primitive"
		dto.PrimitiveType = string(data.Kind)
		dto.Props = data.Props
		dto.Color = data.Color
	case scene.AssemblyData:
		dto.Kind = "assembly"
		dto.Children = make([]TreeNode, 0, len(data.Children))
		for _, cid := range data.Children {
			dto.Children = append(dto.Children, treeNode(m, cid))
		}
	}
	return dto
}
