package scene

import "fmt"

// Vec3 is a 3-component vector. It doubles as a position (world units),
// an Euler rotation (radians), and a per-axis scale factor.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the component-wise sum v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Mul returns the component-wise product v * o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

// Scale returns v with every component multiplied by f.
func (v Vec3) Scale(f float64) Vec3 {
	return Vec3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Transform is the spatial state owned by every node. It is local to
// the node: the model never composes transforms across the tree.
// Composition happens only in the renderer/tessellator.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"` // Euler angles in radians
	Scale    Vec3 `json:"scale"`
}

// DefaultTransform returns the identity transform: origin position,
// no rotation, unit scale.
func DefaultTransform() Transform {
	return Transform{Scale: Vec3{X: 1, Y: 1, Z: 1}}
}
