package scene

// PrimitiveKind distinguishes the geometric primitive shapes.
type PrimitiveKind string

const (
	KindBox      PrimitiveKind = "box"
	KindCylinder PrimitiveKind = "cylinder"
	KindCone     PrimitiveKind = "cone"
	KindSphere   PrimitiveKind = "sphere"
	KindTorus    PrimitiveKind = "torus"
	KindPyramid  PrimitiveKind = "pyramid"
)

// ValidPrimitiveKinds is the set of accepted primitive kinds.
var ValidPrimitiveKinds = map[PrimitiveKind]bool{
	KindBox:      true,
	KindCylinder: true,
	KindCone:     true,
	KindSphere:   true,
	KindTorus:    true,
	KindPyramid:  true,
}

// DefaultColor is the color assigned to new primitives.
const DefaultColor = "#ffffff"

// DefaultProps returns the default property map for a primitive kind.
// Property semantics depend on the kind: box/pyramid are sized by
// width/height/depth; cylinder/cone by radius/height/segments; sphere
// by radius/segments; torus by radius/tube/segments.
func DefaultProps(kind PrimitiveKind) map[string]float64 {
	switch kind {
	case KindBox, KindPyramid:
		return map[string]float64{"width": 1, "height": 1, "depth": 1}
	case KindCylinder, KindCone:
		return map[string]float64{"radius": 0.5, "height": 1, "segments": 32}
	case KindSphere:
		return map[string]float64{"radius": 0.5, "segments": 32}
	case KindTorus:
		return map[string]float64{"radius": 0.5, "tube": 0.2, "segments": 32}
	default:
		return map[string]float64{}
	}
}

// Node is an addressable element of the scene tree. The common fields
// apply to both variants; Data carries the variant-specific payload.
type Node struct {
	ID        NodeID    `json:"id"`
	Name      string    `json:"name"`
	Transform Transform `json:"transform"`
	Visible   bool      `json:"visible"`
	Data      NodeData  `json:"data"`
}

// NodeData is the payload of exactly one of the two node variants:
// PrimitiveData (leaf geometry) or AssemblyData (container).
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

// PrimitiveData is the payload of a leaf geometry node. Primitives
// never have children.
type PrimitiveData struct {
	Kind  PrimitiveKind      `json:"kind"`
	Props map[string]float64 `json:"props"`
	Color string             `json:"color"`
}

func (PrimitiveData) nodeData() {}

// AssemblyData is the payload of a container node. Children are held
// in display order; that order also governs duplication and traversal.
type AssemblyData struct {
	Children []NodeID `json:"children"`
}

func (AssemblyData) nodeData() {}

// NewPrimitive builds a primitive node of the given kind with default
// properties, transform, color, and visibility, under a fresh ID.
func NewPrimitive(kind PrimitiveKind, name string) *Node {
	return &Node{
		ID:        NewNodeID(),
		Name:      name,
		Transform: DefaultTransform(),
		Visible:   true,
		Data: PrimitiveData{
			Kind:  kind,
			Props: DefaultProps(kind),
			Color: DefaultColor,
		},
	}
}

// NewAssembly builds an empty assembly node with default transform
// and visibility, under a fresh ID.
func NewAssembly(name string) *Node {
	return &Node{
		ID:        NewNodeID(),
		Name:      name,
		Transform: DefaultTransform(),
		Visible:   true,
		Data:      AssemblyData{},
	}
}

// IsAssembly reports whether the node is a container.
func (n *Node) IsAssembly() bool {
	_, ok := n.Data.(AssemblyData)
	return ok
}

// IsPrimitive reports whether the node is leaf geometry.
func (n *Node) IsPrimitive() bool {
	_, ok := n.Data.(PrimitiveData)
	return ok
}
