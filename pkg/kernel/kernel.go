// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid construction and tessellation behind
// this interface, so the mesh pipeline never depends on a particular
// geometry backend.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. One constructor
// exists per scene primitive kind; the transform methods place the
// resulting solid in world space before meshing. All solids are
// centered on the origin so node transforms compose predictably.
type Kernel interface {
	// Primitives
	Box(width, height, depth float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Cone(height, radius float64, segments int) Solid
	Sphere(radius float64, segments int) Solid
	Torus(radius, tube float64, segments int) Solid
	Pyramid(width, height, depth float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in radians
	Scale(s Solid, x, y, z float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
