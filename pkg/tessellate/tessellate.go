// Package tessellate walks a scene model and produces triangle meshes
// using a geometry kernel. One mesh is produced per visible primitive;
// invisible nodes hide their whole subtree. This is the only place
// transforms compose across the tree: the model itself stores each
// node's transform independently.
//
// Composition is per component (positions and rotations add, scales
// multiply), not a matrix product. A parent's rotation therefore tilts
// each child in place but does not swing the child's position offset
// around the parent's origin, unlike a conventional scene graph.
package tessellate

import (
	"fmt"

	"github.com/chazu/maquette/pkg/kernel"
	"github.com/chazu/maquette/pkg/scene"
)

// transformStack accumulates spatial transforms during the model walk.
// Translations and rotations add; scales multiply per axis.
type transformStack struct {
	frames []scene.Transform
}

func newTransformStack() *transformStack {
	return &transformStack{
		frames: []scene.Transform{scene.DefaultTransform()},
	}
}

// push composes t onto the current frame.
func (ts *transformStack) push(t scene.Transform) {
	top := ts.current()
	ts.frames = append(ts.frames, scene.Transform{
		Position: top.Position.Add(t.Position),
		Rotation: top.Rotation.Add(t.Rotation),
		Scale:    top.Scale.Mul(t.Scale),
	})
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 1 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// current returns the accumulated world transform.
func (ts *transformStack) current() scene.Transform {
	return ts.frames[len(ts.frames)-1]
}

// Build walks the model from its root and produces one triangle mesh
// per visible primitive using the provided geometry kernel. The walk
// is read-only and never mutates the model.
func Build(m *scene.Model, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if m == nil {
		return nil, nil
	}
	root := m.Root()
	if root == nil {
		return nil, fmt.Errorf("tessellate: model has no root")
	}

	var meshes []*kernel.Mesh
	ts := newTransformStack()

	for _, child := range m.Children(root.ID) {
		collected, err := walkNode(m, k, child, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// walkNode recursively traverses a node and its children, collecting
// meshes. Invisible nodes are skipped along with their descendants.
func walkNode(m *scene.Model, k kernel.Kernel, n *scene.Node, ts *transformStack) ([]*kernel.Mesh, error) {
	if !n.Visible {
		return nil, nil
	}

	ts.push(n.Transform)
	defer ts.pop()

	switch data := n.Data.(type) {
	case scene.PrimitiveData:
		mesh, err := buildPrimitive(k, n, data, ts.current())
		if err != nil {
			return nil, err
		}
		return []*kernel.Mesh{mesh}, nil

	case scene.AssemblyData:
		var meshes []*kernel.Mesh
		for _, child := range m.Children(n.ID) {
			collected, err := walkNode(m, k, child, ts)
			if err != nil {
				return nil, err
			}
			meshes = append(meshes, collected...)
		}
		return meshes, nil

	default:
		return nil, fmt.Errorf("tessellate: node %s has unknown data type %T", n.ID.Short(), n.Data)
	}
}

// buildPrimitive constructs the solid for one primitive, places it with
// the accumulated world transform, and meshes it.
func buildPrimitive(k kernel.Kernel, n *scene.Node, data scene.PrimitiveData, world scene.Transform) (*kernel.Mesh, error) {
	solid, err := makeSolid(k, data)
	if err != nil {
		return nil, fmt.Errorf("tessellate: node %s: %w", n.ID.Short(), err)
	}

	// Scale first, then rotate, then translate.
	if s := world.Scale; s != (scene.Vec3{X: 1, Y: 1, Z: 1}) {
		solid = k.Scale(solid, s.X, s.Y, s.Z)
	}
	if r := world.Rotation; r != (scene.Vec3{}) {
		solid = k.Rotate(solid, r.X, r.Y, r.Z)
	}
	if p := world.Position; p != (scene.Vec3{}) {
		solid = k.Translate(solid, p.X, p.Y, p.Z)
	}

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}

	if n.Name != "" {
		mesh.Name = n.Name
	} else {
		mesh.Name = n.ID.Short()
	}
	mesh.Color = data.Color
	if mesh.Color == "" {
		mesh.Color = scene.DefaultColor
	}
	return mesh, nil
}

// makeSolid dispatches on the primitive kind. Missing properties fall
// back to the kind's defaults so a partially-edited primitive still
// meshes.
func makeSolid(k kernel.Kernel, data scene.PrimitiveData) (kernel.Solid, error) {
	get := func(key string) float64 {
		if v, ok := data.Props[key]; ok {
			return v
		}
		return scene.DefaultProps(data.Kind)[key]
	}

	switch data.Kind {
	case scene.KindBox:
		return k.Box(get("width"), get("height"), get("depth")), nil
	case scene.KindCylinder:
		return k.Cylinder(get("height"), get("radius"), int(get("segments"))), nil
	case scene.KindCone:
		return k.Cone(get("height"), get("radius"), int(get("segments"))), nil
	case scene.KindSphere:
		return k.Sphere(get("radius"), int(get("segments"))), nil
	case scene.KindTorus:
		return k.Torus(get("radius"), get("tube"), int(get("segments"))), nil
	case scene.KindPyramid:
		return k.Pyramid(get("width"), get("height"), get("depth")), nil
	}
	return nil, fmt.Errorf("unknown primitive kind %q", data.Kind)
}
