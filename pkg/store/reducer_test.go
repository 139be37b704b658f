package store

import (
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/maquette/pkg/scene"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// dispatch folds a sequence of actions into a state.
func dispatch(s State, actions ...Action) State {
	for _, a := range actions {
		s = Apply(s, a)
	}
	return s
}

// addPrim applies ADD_PRIMITIVE and returns the new state plus the new
// node's ID (taken from the selection the action sets).
func addPrim(t *testing.T, s State, parent scene.NodeID, kind scene.PrimitiveKind, name string) (State, scene.NodeID) {
	t.Helper()
	next := Apply(s, AddPrimitive{ParentID: parent, PrimitiveKind: kind, Name: name})
	if next.Model.NodeCount() != s.Model.NodeCount()+1 {
		t.Fatalf("add %s %q: node count %d, want %d", kind, name, next.Model.NodeCount(), s.Model.NodeCount()+1)
	}
	return next, next.Selection.SelectedID
}

// addAsm applies ADD_ASSEMBLY and returns the new state plus the new
// assembly's ID (the parent's last child).
func addAsm(t *testing.T, s State, parent scene.NodeID, name string) (State, scene.NodeID) {
	t.Helper()
	next := Apply(s, AddAssembly{ParentID: parent, Name: name})
	kids := next.Model.ChildIDs(parent)
	if len(kids) != len(s.Model.ChildIDs(parent))+1 {
		t.Fatalf("add assembly %q: child not appended", name)
	}
	return next, kids[len(kids)-1]
}

// buildRigState builds the state equivalent of the scene test rig:
//
//	Root
//	├── body (box)
//	└── arm (assembly)
//	    ├── upper (cylinder)
//	    └── hand (assembly)
//	        └── finger (box)
func buildRigState(t *testing.T) (State, map[string]scene.NodeID) {
	t.Helper()
	s := NewState()
	root := s.Model.RootID

	s, body := addPrim(t, s, root, scene.KindBox, "body")
	s, arm := addAsm(t, s, root, "arm")
	s, upper := addPrim(t, s, arm, scene.KindCylinder, "upper")
	s, hand := addAsm(t, s, arm, "hand")
	s, finger := addPrim(t, s, hand, scene.KindBox, "finger")

	ids := map[string]scene.NodeID{
		"root": root, "body": body, "arm": arm,
		"upper": upper, "hand": hand, "finger": finger,
	}
	return s, ids
}

// mustValid fails the test when the model violates a tree invariant.
func mustValid(t *testing.T, m *scene.Model) {
	t.Helper()
	for _, e := range scene.Validate(m) {
		if e.Severity == scene.SeverityError {
			t.Errorf("invariant violated: %s", e)
		}
	}
}

// ---------------------------------------------------------------------------
// Creation
// ---------------------------------------------------------------------------

func TestAddPrimitive(t *testing.T) {
	s := NewState()
	root := s.Model.RootID

	s, id := addPrim(t, s, root, scene.KindSphere, "ball")

	n := s.Model.Get(id)
	if n == nil {
		t.Fatal("added node should resolve")
	}
	if n.Name != "ball" {
		t.Errorf("name = %q, want %q", n.Name, "ball")
	}
	if !n.Visible {
		t.Error("new primitive should be visible")
	}
	if n.Transform != scene.DefaultTransform() {
		t.Errorf("transform = %+v, want default", n.Transform)
	}
	prim := n.Data.(scene.PrimitiveData)
	if prim.Color != scene.DefaultColor {
		t.Errorf("color = %q, want %q", prim.Color, scene.DefaultColor)
	}
	if prim.Props["radius"] != 0.5 || prim.Props["segments"] != 32 {
		t.Errorf("props = %v, want sphere defaults", prim.Props)
	}

	// Appended to the parent's children and selected.
	kids := s.Model.ChildIDs(root)
	if kids[len(kids)-1] != id {
		t.Error("new node should be the parent's last child")
	}
	if s.Selection.SelectedID != id {
		t.Error("new primitive should be selected")
	}
	mustValid(t, s.Model)
}

func TestAddPrimitiveRejections(t *testing.T) {
	s, ids := buildRigState(t)

	// Parent is a primitive.
	next := Apply(s, AddPrimitive{ParentID: ids["body"], PrimitiveKind: scene.KindBox, Name: "x"})
	if !reflect.DeepEqual(next, s) {
		t.Error("adding under a primitive should be a no-op")
	}

	// Parent missing.
	next = Apply(s, AddPrimitive{ParentID: scene.NewNodeID(), PrimitiveKind: scene.KindBox, Name: "x"})
	if !reflect.DeepEqual(next, s) {
		t.Error("adding under a missing parent should be a no-op")
	}

	// Unknown primitive kind.
	next = Apply(s, AddPrimitive{ParentID: ids["root"], PrimitiveKind: "teapot", Name: "x"})
	if !reflect.DeepEqual(next, s) {
		t.Error("adding an unknown kind should be a no-op")
	}
}

func TestAddAssembly(t *testing.T) {
	s := NewState()
	root := s.Model.RootID

	s, id := addAsm(t, s, root, "group")

	n := s.Model.Get(id)
	if n == nil || !n.IsAssembly() {
		t.Fatal("added assembly should resolve as an assembly")
	}
	if n.Name != "group" {
		t.Errorf("name = %q, want %q", n.Name, "group")
	}
	if len(s.Model.ChildIDs(id)) != 0 {
		t.Error("new assembly should be empty")
	}
	// Unlike ADD_PRIMITIVE, the selection is untouched.
	if s.Selection.SelectedID != scene.ZeroID {
		t.Error("ADD_ASSEMBLY should not change the selection")
	}

	next := Apply(s, AddAssembly{ParentID: id, Name: "inner"})
	if len(next.Model.ChildIDs(id)) != 1 {
		t.Error("assemblies should nest")
	}
	mustValid(t, next.Model)
}

// ---------------------------------------------------------------------------
// Deletion
// ---------------------------------------------------------------------------

func TestDeleteNodeCascade(t *testing.T) {
	s, ids := buildRigState(t)
	before := s.Model.NodeCount() // 6

	// arm subtree holds arm, upper, hand, finger.
	s = Apply(s, DeleteNode{NodeID: ids["arm"]})

	if got := s.Model.NodeCount(); got != before-4 {
		t.Errorf("node count = %d, want %d", got, before-4)
	}
	for _, name := range []string{"arm", "upper", "hand", "finger"} {
		if s.Model.Get(ids[name]) != nil {
			t.Errorf("%s should be removed", name)
		}
	}
	kids := s.Model.ChildIDs(ids["root"])
	if len(kids) != 1 || kids[0] != ids["body"] {
		t.Errorf("root children = %v, want [body]", kids)
	}
	mustValid(t, s.Model)
}

func TestDeleteClearsSelection(t *testing.T) {
	s, ids := buildRigState(t)

	// Selected node deleted directly.
	s1 := dispatch(s, SelectNode{NodeID: ids["body"]}, DeleteNode{NodeID: ids["body"]})
	if !s1.Selection.SelectedID.IsZero() {
		t.Error("deleting the selected node should clear selection")
	}

	// Selected node is a descendant of the deleted one.
	s2 := dispatch(s,
		SelectNode{NodeID: ids["finger"]},
		HoverNode{NodeID: ids["hand"]},
		DeleteNode{NodeID: ids["arm"]},
	)
	if !s2.Selection.SelectedID.IsZero() {
		t.Error("deleting an ancestor of the selection should clear it")
	}
	if !s2.Selection.HoveredID.IsZero() {
		t.Error("deleting an ancestor of the hover should clear it")
	}

	// Unrelated selection survives.
	s3 := dispatch(s, SelectNode{NodeID: ids["body"]}, DeleteNode{NodeID: ids["arm"]})
	if s3.Selection.SelectedID != ids["body"] {
		t.Error("unrelated selection should survive a delete")
	}
}

func TestDeleteRejections(t *testing.T) {
	s, ids := buildRigState(t)

	next := Apply(s, DeleteNode{NodeID: ids["root"]})
	if !reflect.DeepEqual(next, s) {
		t.Error("deleting the root should be a no-op")
	}

	next = Apply(s, DeleteNode{NodeID: scene.NewNodeID()})
	if !reflect.DeepEqual(next, s) {
		t.Error("deleting a missing node should be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Field updates
// ---------------------------------------------------------------------------

func strp(s string) *string   { return &s }
func boolp(b bool) *bool      { return &b }
func f64p(f float64) *float64 { return &f }

func TestUpdateNode(t *testing.T) {
	s, ids := buildRigState(t)

	s = Apply(s, UpdateNode{NodeID: ids["body"], Patch: NodePatch{
		Name:    strp("torso"),
		Visible: boolp(false),
		Color:   strp("#ff8800"),
	}})

	n := s.Model.Get(ids["body"])
	if n.Name != "torso" {
		t.Errorf("name = %q, want torso", n.Name)
	}
	if n.Visible {
		t.Error("visible should be false")
	}
	if got := n.Data.(scene.PrimitiveData).Color; got != "#ff8800" {
		t.Errorf("color = %q, want #ff8800", got)
	}

	// Partial patch leaves other fields alone.
	s = Apply(s, UpdateNode{NodeID: ids["body"], Patch: NodePatch{Visible: boolp(true)}})
	n = s.Model.Get(ids["body"])
	if n.Name != "torso" || n.Data.(scene.PrimitiveData).Color != "#ff8800" {
		t.Error("partial patch should not reset other fields")
	}
	if !n.Visible {
		t.Error("visible should be true again")
	}
}

func TestUpdateNodeRootAndAssembly(t *testing.T) {
	s, ids := buildRigState(t)

	// The root never renames; other fields still apply.
	s = Apply(s, UpdateNode{NodeID: ids["root"], Patch: NodePatch{
		Name:    strp("NotRoot"),
		Visible: boolp(false),
	}})
	root := s.Model.Root()
	if root.Name != scene.RootName {
		t.Errorf("root name = %q, want %q", root.Name, scene.RootName)
	}
	if root.Visible {
		t.Error("root visible change should apply")
	}

	// Color has no slot on assemblies and is ignored. A patch where
	// every field was skipped is a full no-op: no undo step either.
	next := Apply(s, UpdateNode{NodeID: ids["arm"], Patch: NodePatch{Color: strp("#123456")}})
	if _, ok := next.Model.Get(ids["arm"]).Data.(scene.AssemblyData); !ok {
		t.Fatal("arm should still be an assembly")
	}
	if !reflect.DeepEqual(next, s) {
		t.Error("assembly color patch should be a no-op")
	}

	next = Apply(s, UpdateNode{NodeID: ids["root"], Patch: NodePatch{Name: strp("x")}})
	if !reflect.DeepEqual(next, s) {
		t.Error("name-only patch on the root should be a no-op")
	}

	next = Apply(s, UpdateNode{NodeID: scene.NewNodeID(), Patch: NodePatch{Name: strp("x")}})
	if !reflect.DeepEqual(next, s) {
		t.Error("updating a missing node should be a no-op")
	}
}

func TestUpdateTransformPartialMerge(t *testing.T) {
	s, ids := buildRigState(t)

	s = Apply(s, UpdateTransform{NodeID: ids["body"], Patch: TransformPatch{
		Position: &Vec3Patch{X: f64p(1), Y: f64p(2), Z: f64p(3)},
		Scale:    &Vec3Patch{X: f64p(2), Y: f64p(2), Z: f64p(2)},
	}})

	// A one-axis patch changes only that axis.
	s = Apply(s, UpdateTransform{NodeID: ids["body"], Patch: TransformPatch{
		Position: &Vec3Patch{X: f64p(5)},
	}})

	tr := s.Model.Get(ids["body"]).Transform
	if tr.Position != (scene.Vec3{X: 5, Y: 2, Z: 3}) {
		t.Errorf("position = %v, want (5, 2, 3)", tr.Position)
	}
	if tr.Scale != (scene.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("scale = %v, want (2, 2, 2)", tr.Scale)
	}
	if tr.Rotation != (scene.Vec3{}) {
		t.Errorf("rotation = %v, want zero", tr.Rotation)
	}

	next := Apply(s, UpdateTransform{NodeID: scene.NewNodeID(), Patch: TransformPatch{}})
	if !reflect.DeepEqual(next, s) {
		t.Error("updating a missing node should be a no-op")
	}
}

func TestUpdatePrimitiveProps(t *testing.T) {
	s, ids := buildRigState(t)

	s = Apply(s, UpdatePrimitiveProps{NodeID: ids["body"], Props: map[string]float64{
		"width": 4,
		"bevel": 0.1,
	}})

	props := s.Model.Get(ids["body"]).Data.(scene.PrimitiveData).Props
	if props["width"] != 4 {
		t.Errorf("width = %g, want 4", props["width"])
	}
	if props["height"] != 1 || props["depth"] != 1 {
		t.Error("unmentioned props should survive the merge")
	}
	if props["bevel"] != 0.1 {
		t.Error("new keys should merge in")
	}

	// Assemblies carry no properties.
	next := Apply(s, UpdatePrimitiveProps{NodeID: ids["arm"], Props: map[string]float64{"width": 1}})
	if !reflect.DeepEqual(next, s) {
		t.Error("updating props of an assembly should be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Structure: reorder and move
// ---------------------------------------------------------------------------

func TestReorderChildren(t *testing.T) {
	s := NewState()
	root := s.Model.RootID

	var a, b, c, d scene.NodeID
	s, a = addPrim(t, s, root, scene.KindBox, "a")
	s, b = addPrim(t, s, root, scene.KindBox, "b")
	s, c = addPrim(t, s, root, scene.KindBox, "c")
	s, d = addPrim(t, s, root, scene.KindBox, "d")

	// Splice semantics: remove index 0, reinsert at index 2 of the
	// shortened list: [a b c d] -> [b c a d].
	s = Apply(s, ReorderChildren{ParentID: root, FromIndex: 0, ToIndex: 2})
	want := []scene.NodeID{b, c, a, d}
	if got := s.Model.ChildIDs(root); !reflect.DeepEqual(got, want) {
		t.Errorf("children after reorder = %v, want %v", got, want)
	}

	// Move last to front.
	s = Apply(s, ReorderChildren{ParentID: root, FromIndex: 3, ToIndex: 0})
	want = []scene.NodeID{d, b, c, a}
	if got := s.Model.ChildIDs(root); !reflect.DeepEqual(got, want) {
		t.Errorf("children after second reorder = %v, want %v", got, want)
	}
	mustValid(t, s.Model)
}

func TestReorderChildrenRejections(t *testing.T) {
	s, ids := buildRigState(t)

	tests := []struct {
		name string
		act  ReorderChildren
	}{
		{"from below range", ReorderChildren{ParentID: ids["root"], FromIndex: -1, ToIndex: 0}},
		{"from above range", ReorderChildren{ParentID: ids["root"], FromIndex: 2, ToIndex: 0}},
		{"to below range", ReorderChildren{ParentID: ids["root"], FromIndex: 0, ToIndex: -1}},
		{"to above range", ReorderChildren{ParentID: ids["root"], FromIndex: 0, ToIndex: 2}},
		{"primitive parent", ReorderChildren{ParentID: ids["body"], FromIndex: 0, ToIndex: 0}},
		{"missing parent", ReorderChildren{ParentID: scene.NewNodeID(), FromIndex: 0, ToIndex: 0}},
	}

	for _, tt := range tests {
		next := Apply(s, tt.act)
		if !reflect.DeepEqual(next, s) {
			t.Errorf("%s: should be a no-op", tt.name)
		}
	}
}

func TestMoveNode(t *testing.T) {
	s, ids := buildRigState(t)

	// body moves from root into hand.
	s = Apply(s, MoveNode{NodeID: ids["body"], NewParentID: ids["hand"]})

	rootKids := s.Model.ChildIDs(ids["root"])
	if len(rootKids) != 1 || rootKids[0] != ids["arm"] {
		t.Errorf("root children = %v, want [arm]", rootKids)
	}
	handKids := s.Model.ChildIDs(ids["hand"])
	if len(handKids) != 2 || handKids[1] != ids["body"] {
		t.Errorf("hand children = %v, want [finger body]", handKids)
	}
	mustValid(t, s.Model)

	// Moving into the same parent re-appends at the end.
	s2 := Apply(s, MoveNode{NodeID: ids["finger"], NewParentID: ids["hand"]})
	handKids = s2.Model.ChildIDs(ids["hand"])
	if len(handKids) != 2 || handKids[1] != ids["finger"] {
		t.Errorf("hand children = %v, want [body finger]", handKids)
	}
	mustValid(t, s2.Model)
}

func TestMoveNodeCycleRejection(t *testing.T) {
	s, ids := buildRigState(t)

	tests := []struct {
		name string
		act  MoveNode
	}{
		{"into own descendant", MoveNode{NodeID: ids["arm"], NewParentID: ids["hand"]}},
		{"into itself", MoveNode{NodeID: ids["arm"], NewParentID: ids["arm"]}},
		{"root anywhere", MoveNode{NodeID: ids["root"], NewParentID: ids["arm"]}},
		{"onto a primitive", MoveNode{NodeID: ids["arm"], NewParentID: ids["body"]}},
		{"missing node", MoveNode{NodeID: scene.NewNodeID(), NewParentID: ids["arm"]}},
		{"missing target", MoveNode{NodeID: ids["body"], NewParentID: scene.NewNodeID()}},
	}

	for _, tt := range tests {
		next := Apply(s, tt.act)
		if !reflect.DeepEqual(next, s) {
			t.Errorf("%s: should leave the model unchanged", tt.name)
		}
		mustValid(t, next.Model)
	}
}

// ---------------------------------------------------------------------------
// Selection, rename, visibility
// ---------------------------------------------------------------------------

func TestSelectNode(t *testing.T) {
	s, ids := buildRigState(t)
	histLen := len(s.History)

	s = Apply(s, SelectNode{NodeID: ids["finger"]})
	if s.Selection.SelectedID != ids["finger"] {
		t.Error("selection not set")
	}
	if len(s.History) != histLen {
		t.Error("SELECT_NODE must not grow history")
	}

	s = Apply(s, SelectNode{})
	if !s.Selection.SelectedID.IsZero() {
		t.Error("zero ID should clear selection")
	}
	if len(s.History) != histLen {
		t.Error("clearing selection must not grow history")
	}
}

func TestHoverNode(t *testing.T) {
	s, ids := buildRigState(t)
	histLen := len(s.History)

	s = Apply(s, HoverNode{NodeID: ids["arm"]})
	if s.Selection.HoveredID != ids["arm"] {
		t.Error("hover not set")
	}
	s = Apply(s, HoverNode{})
	if !s.Selection.HoveredID.IsZero() {
		t.Error("zero ID should clear hover")
	}
	if len(s.History) != histLen {
		t.Error("HOVER_NODE must not grow history")
	}
}

func TestRenameNode(t *testing.T) {
	s, ids := buildRigState(t)

	s = Apply(s, RenameNode{NodeID: ids["body"], Name: "torso"})
	if got := s.Model.Get(ids["body"]).Name; got != "torso" {
		t.Errorf("name = %q, want torso", got)
	}

	next := Apply(s, RenameNode{NodeID: ids["root"], Name: "NotRoot"})
	if !reflect.DeepEqual(next, s) {
		t.Error("renaming the root should be a no-op")
	}

	next = Apply(s, RenameNode{NodeID: scene.NewNodeID(), Name: "ghost"})
	if !reflect.DeepEqual(next, s) {
		t.Error("renaming a missing node should be a no-op")
	}
}

func TestToggleVisibility(t *testing.T) {
	s, ids := buildRigState(t)

	s = Apply(s, ToggleVisibility{NodeID: ids["arm"]})
	if s.Model.Get(ids["arm"]).Visible {
		t.Error("first toggle should hide")
	}
	s = Apply(s, ToggleVisibility{NodeID: ids["arm"]})
	if !s.Model.Get(ids["arm"]).Visible {
		t.Error("second toggle should show")
	}

	next := Apply(s, ToggleVisibility{NodeID: scene.NewNodeID()})
	if !reflect.DeepEqual(next, s) {
		t.Error("toggling a missing node should be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Duplication
// ---------------------------------------------------------------------------

func TestDuplicatePrimitive(t *testing.T) {
	s, ids := buildRigState(t)

	// Give the source a recognizable property first.
	s = Apply(s, UpdatePrimitiveProps{NodeID: ids["body"], Props: map[string]float64{"width": 7}})

	before := s.Model.NodeCount()
	s = Apply(s, DuplicateNode{NodeID: ids["body"]})

	if s.Model.NodeCount() != before+1 {
		t.Fatalf("node count = %d, want %d", s.Model.NodeCount(), before+1)
	}

	copyID := s.Selection.SelectedID
	if copyID == ids["body"] || copyID.IsZero() {
		t.Fatal("duplicate should select the new copy")
	}
	c := s.Model.Get(copyID)
	if c.Name != "body"+scene.CopySuffix {
		t.Errorf("copy name = %q, want %q", c.Name, "body"+scene.CopySuffix)
	}
	if got := c.Data.(scene.PrimitiveData).Props["width"]; got != 7 {
		t.Errorf("copy width = %g, want the source's 7", got)
	}

	// Sibling of the source under the same parent.
	if s.Model.FindParent(copyID) != ids["root"] {
		t.Error("copy should share the source's parent")
	}
	mustValid(t, s.Model)
}

func TestDuplicateSubtree(t *testing.T) {
	s, ids := buildRigState(t)
	before := s.Model.NodeCount()

	s = Apply(s, DuplicateNode{NodeID: ids["arm"]})

	// arm subtree holds 4 nodes; all copied with fresh IDs.
	if s.Model.NodeCount() != before+4 {
		t.Fatalf("node count = %d, want %d", s.Model.NodeCount(), before+4)
	}

	copyID := s.Selection.SelectedID
	armCopy := s.Model.Get(copyID)
	if armCopy == nil || armCopy.Name != "arm"+scene.CopySuffix {
		t.Fatalf("selected copy = %+v, want arm copy", armCopy)
	}

	// Isomorphic structure with suffixed names at every level.
	kids := s.Model.Children(copyID)
	if len(kids) != 2 {
		t.Fatalf("arm copy children = %d, want 2", len(kids))
	}
	if kids[0].Name != "upper"+scene.CopySuffix || kids[1].Name != "hand"+scene.CopySuffix {
		t.Errorf("copy children = [%s %s]", kids[0].Name, kids[1].Name)
	}
	grand := s.Model.Children(kids[1].ID)
	if len(grand) != 1 || grand[0].Name != "finger"+scene.CopySuffix {
		t.Error("nested copy missing or misnamed")
	}

	// No ID reuse anywhere.
	seen := map[scene.NodeID]int{}
	for id := range s.Model.Nodes {
		seen[id]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("ID %s appears %d times", id.Short(), n)
		}
	}

	// The source subtree is untouched.
	if s.Model.Get(ids["finger"]).Name != "finger" {
		t.Error("source subtree should be untouched")
	}
	mustValid(t, s.Model)
}

func TestDuplicateRejections(t *testing.T) {
	s, ids := buildRigState(t)

	next := Apply(s, DuplicateNode{NodeID: ids["root"]})
	if !reflect.DeepEqual(next, s) {
		t.Error("duplicating the root should be a no-op")
	}

	next = Apply(s, DuplicateNode{NodeID: scene.NewNodeID()})
	if !reflect.DeepEqual(next, s) {
		t.Error("duplicating a missing node should be a no-op")
	}
}

// ---------------------------------------------------------------------------
// Reducer purity and invariants
// ---------------------------------------------------------------------------

func TestApplyNeverMutatesPrev(t *testing.T) {
	s, ids := buildRigState(t)

	prevCount := s.Model.NodeCount()
	prevKids := strings.Join(namesOf(s.Model, s.Model.ChildIDs(ids["root"])), ",")
	prevName := s.Model.Get(ids["body"]).Name

	_ = dispatch(s,
		AddPrimitive{ParentID: ids["root"], PrimitiveKind: scene.KindCone, Name: "spike"},
		RenameNode{NodeID: ids["body"], Name: "changed"},
		DeleteNode{NodeID: ids["arm"]},
		MoveNode{NodeID: ids["body"], NewParentID: ids["hand"]},
		UpdateTransform{NodeID: ids["body"], Patch: TransformPatch{Position: &Vec3Patch{X: f64p(9)}}},
	)

	if s.Model.NodeCount() != prevCount {
		t.Error("prev model node count changed")
	}
	if got := strings.Join(namesOf(s.Model, s.Model.ChildIDs(ids["root"])), ","); got != prevKids {
		t.Errorf("prev root children changed: %s", got)
	}
	if s.Model.Get(ids["body"]).Name != prevName {
		t.Error("prev node name changed")
	}
	if s.Model.Get(ids["body"]).Transform.Position.X != 0 {
		t.Error("prev transform changed")
	}
}

func TestTreeInvariantUnderActionStorm(t *testing.T) {
	s, ids := buildRigState(t)

	// A mix of valid and invalid actions; the tree invariant must
	// survive all of them.
	s = dispatch(s,
		MoveNode{NodeID: ids["body"], NewParentID: ids["hand"]},
		MoveNode{NodeID: ids["arm"], NewParentID: ids["hand"]}, // cycle, rejected
		DuplicateNode{NodeID: ids["arm"]},
		ReorderChildren{ParentID: ids["root"], FromIndex: 0, ToIndex: 1},
		DeleteNode{NodeID: ids["upper"]},
		DeleteNode{NodeID: ids["root"]}, // rejected
		Undo{},
		DuplicateNode{NodeID: ids["hand"]},
		Redo{}, // rejected: future discarded
		MoveNode{NodeID: ids["finger"], NewParentID: ids["root"]},
	)

	mustValid(t, s.Model)
}

func namesOf(m *scene.Model, ids []scene.NodeID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if n := m.Get(id); n != nil {
			out = append(out, n.Name)
		}
	}
	return out
}
