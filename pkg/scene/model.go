package scene

// RootName is the name given to the root assembly of a new model.
const RootName = "Root"

// Model is the scene document: a flat id-keyed arena of nodes plus the
// ID of the root assembly. Parent relationships are not stored; they
// are derived from assembly child lists, which keeps the structure a
// single source of truth.
//
// Applied actions never mutate a model in place; the reducer clones
// first and uses the mutating helpers (Attach, Detach, Remove,
// ReplaceChildren) only on the clone.
type Model struct {
	RootID NodeID           `json:"rootId"`
	Nodes  map[NodeID]*Node `json:"nodes"`
}

// NewModel creates a model containing only the root assembly.
func NewModel() *Model {
	root := NewAssembly(RootName)
	return &Model{
		RootID: root.ID,
		Nodes:  map[NodeID]*Node{root.ID: root},
	}
}

// Get returns the node with the given ID, or nil.
func (m *Model) Get(id NodeID) *Node {
	return m.Nodes[id]
}

// Root returns the root assembly node, or nil if the model is corrupt.
func (m *Model) Root() *Node {
	return m.Nodes[m.RootID]
}

// ChildIDs returns the ordered child list of the given node. Primitives
// and unknown nodes have no children.
func (m *Model) ChildIDs(id NodeID) []NodeID {
	n := m.Nodes[id]
	if n == nil {
		return nil
	}
	asm, ok := n.Data.(AssemblyData)
	if !ok {
		return nil
	}
	return asm.Children
}

// Children returns the resolved child nodes of the given node in
// display order, skipping dangling references.
func (m *Model) Children(id NodeID) []*Node {
	ids := m.ChildIDs(id)
	children := make([]*Node, 0, len(ids))
	for _, cid := range ids {
		if c := m.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// FindParent returns the ID of the assembly whose child list contains
// id, or ZeroID if none does. The root has no parent.
func (m *Model) FindParent(id NodeID) NodeID {
	for pid, n := range m.Nodes {
		asm, ok := n.Data.(AssemblyData)
		if !ok {
			continue
		}
		for _, cid := range asm.Children {
			if cid == id {
				return pid
			}
		}
	}
	return ZeroID
}

// Descendants returns the IDs of every node strictly below id,
// depth-first in child order. The node itself is not included.
func (m *Model) Descendants(id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(cur NodeID) {
		for _, cid := range m.ChildIDs(cur) {
			out = append(out, cid)
			walk(cid)
		}
	}
	walk(id)
	return out
}

// Subtree returns id followed by all of its descendants.
func (m *Model) Subtree(id NodeID) []NodeID {
	return append([]NodeID{id}, m.Descendants(id)...)
}

// IsAncestor reports whether a is a strict ancestor of b.
func (m *Model) IsAncestor(a, b NodeID) bool {
	for cur := m.FindParent(b); !cur.IsZero(); cur = m.FindParent(cur) {
		if cur == a {
			return true
		}
	}
	return false
}

// ValidMove reports whether node id may be reparented under target.
// A move is rejected when either endpoint is missing, the node is the
// root, the target is not an assembly, the target is the node itself,
// or the target lies inside the node's own subtree (which would detach
// the subtree into a cycle).
func (m *Model) ValidMove(id, target NodeID) bool {
	n := m.Nodes[id]
	t := m.Nodes[target]
	if n == nil || t == nil {
		return false
	}
	if id == m.RootID {
		return false
	}
	if !t.IsAssembly() {
		return false
	}
	if id == target {
		return false
	}
	if m.IsAncestor(id, target) {
		return false
	}
	return true
}

// NodeCount returns the total number of nodes.
func (m *Model) NodeCount() int {
	return len(m.Nodes)
}

// Attach adds n to the arena and appends it to parent's child list.
// It reports false, leaving the model untouched, when the parent is
// missing or not an assembly.
func (m *Model) Attach(parent NodeID, n *Node) bool {
	p := m.Nodes[parent]
	if p == nil {
		return false
	}
	asm, ok := p.Data.(AssemblyData)
	if !ok {
		return false
	}
	asm.Children = append(asm.Children, n.ID)
	p.Data = asm
	m.Nodes[n.ID] = n
	return true
}

// Detach removes id from its parent's child list and returns the old
// parent's ID, or ZeroID if the node had no parent. The node itself
// stays in the arena.
func (m *Model) Detach(id NodeID) NodeID {
	parent := m.FindParent(id)
	if parent.IsZero() {
		return ZeroID
	}
	p := m.Nodes[parent]
	asm := p.Data.(AssemblyData)
	children := make([]NodeID, 0, len(asm.Children))
	for _, cid := range asm.Children {
		if cid != id {
			children = append(children, cid)
		}
	}
	asm.Children = children
	p.Data = asm
	return parent
}

// Remove deletes the given nodes from the arena. Child list references
// are not touched; callers detach first.
func (m *Model) Remove(ids ...NodeID) {
	for _, id := range ids {
		delete(m.Nodes, id)
	}
}

// ReplaceChildren overwrites the child list of an assembly. It reports
// false when id is missing or not an assembly.
func (m *Model) ReplaceChildren(id NodeID, children []NodeID) bool {
	n := m.Nodes[id]
	if n == nil {
		return false
	}
	asm, ok := n.Data.(AssemblyData)
	if !ok {
		return false
	}
	asm.Children = children
	n.Data = asm
	return true
}
