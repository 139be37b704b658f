package scene

// CopySuffix is appended to the name of every node produced by a
// duplication, at every level of the copied subtree.
const CopySuffix = " (copy)"

// Clone returns a deep copy of the node. Props maps and child lists
// are copied so the clone shares no mutable state with the original.
func (n *Node) Clone() *Node {
	c := *n
	switch data := n.Data.(type) {
	case PrimitiveData:
		props := make(map[string]float64, len(data.Props))
		for k, v := range data.Props {
			props[k] = v
		}
		data.Props = props
		c.Data = data
	case AssemblyData:
		children := make([]NodeID, len(data.Children))
		copy(children, data.Children)
		data.Children = children
		c.Data = data
	}
	return &c
}

// Clone returns a deep copy of the model. Every node is cloned, so the
// copy can be mutated without touching the original.
func (m *Model) Clone() *Model {
	nodes := make(map[NodeID]*Node, len(m.Nodes))
	for id, n := range m.Nodes {
		nodes[id] = n.Clone()
	}
	return &Model{RootID: m.RootID, Nodes: nodes}
}

// CloneSubtree deep-copies the subtree rooted at id under fresh IDs.
// Every copied node's name gains the copy suffix, structure and child
// order are preserved, and assembly child lists are rewritten to the
// fresh IDs. It returns the new subtree root's ID and the copied nodes;
// the zero ID and nil are returned when id does not resolve.
func (m *Model) CloneSubtree(id NodeID) (NodeID, map[NodeID]*Node) {
	src := m.Nodes[id]
	if src == nil {
		return ZeroID, nil
	}
	copies := make(map[NodeID]*Node)
	var dup func(NodeID) NodeID
	dup = func(cur NodeID) NodeID {
		orig := m.Nodes[cur]
		if orig == nil {
			return ZeroID
		}
		c := orig.Clone()
		c.ID = NewNodeID()
		c.Name = orig.Name + CopySuffix
		if asm, ok := c.Data.(AssemblyData); ok {
			fresh := make([]NodeID, 0, len(asm.Children))
			for _, cid := range asm.Children {
				if ncid := dup(cid); !ncid.IsZero() {
					fresh = append(fresh, ncid)
				}
			}
			asm.Children = fresh
			c.Data = asm
		}
		copies[c.ID] = c
		return c.ID
	}
	newRoot := dup(id)
	return newRoot, copies
}
