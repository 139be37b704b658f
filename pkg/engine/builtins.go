package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/maquette/pkg/propfield"
	"github.com/chazu/maquette/pkg/scene"
	"github.com/chazu/maquette/pkg/store"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Maquette script source before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: some-name -> some_name
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a scene.NodeID so node handles can flow between
// builtins as first-class script values.
type sexpNodeRef struct {
	id   scene.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(node %q %s)", n.name, n.id.Short())
	}
	return fmt.Sprintf("(node %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value — treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (scene.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return scene.ZeroID, fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVecArgs extracts three numbers following the positional args at
// offset, for (translate ref x y z) style builtins.
func toVecArgs(name string, positional []zygo.Sexp, offset int) (scene.Vec3, error) {
	if len(positional) < offset+3 {
		return scene.Vec3{}, fmt.Errorf("%s requires x, y, z values", name)
	}
	x, err := toFloat64(positional[offset])
	if err != nil {
		return scene.Vec3{}, fmt.Errorf("%s: x: %w", name, err)
	}
	y, err := toFloat64(positional[offset+1])
	if err != nil {
		return scene.Vec3{}, fmt.Errorf("%s: y: %w", name, err)
	}
	z, err := toFloat64(positional[offset+2])
	if err != nil {
		return scene.Vec3{}, fmt.Errorf("%s: z: %w", name, err)
	}
	return scene.Vec3{X: x, Y: y, Z: z}, nil
}

// ---------------------------------------------------------------------------
// Script context: the bridge between builtins and the store
// ---------------------------------------------------------------------------

// scriptContext carries per-run state into the builtins: the engine's
// store and the run's generation, so a superseded script stops
// dispatching.
type scriptContext struct {
	engine *Engine
	gen    uint64
}

func (sc *scriptContext) state() store.State {
	return sc.engine.store.State()
}

// dispatch sends one action to the store, refusing if a newer run has
// started.
func (sc *scriptContext) dispatch(a store.Action) (store.State, error) {
	if sc.engine.superseded(sc.gen) {
		return store.State{}, fmt.Errorf("script superseded by newer evaluation")
	}
	return sc.engine.store.Dispatch(a), nil
}

// requireNode resolves an id against the current model or errors.
func (sc *scriptContext) requireNode(name string, id scene.NodeID) (*scene.Node, error) {
	n := sc.state().Model.Get(id)
	if n == nil {
		return nil, fmt.Errorf("%s: node %s no longer exists", name, id.Short())
	}
	return n, nil
}

// refArg resolves the first positional argument as a node reference
// and checks it still exists.
func (sc *scriptContext) refArg(name string, pa kwArgs) (*scene.Node, error) {
	if len(pa.positional) < 1 {
		return nil, fmt.Errorf("%s requires a node reference", name)
	}
	id, err := toNodeRef(pa.positional[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sc.requireNode(name, id)
}

// parentArg resolves the :in keyword to an assembly, defaulting to the
// root.
func (sc *scriptContext) parentArg(name string, pa kwArgs) (scene.NodeID, error) {
	st := sc.state()
	parent := st.Model.RootID
	if v, ok := pa.kw["in"]; ok {
		id, err := toNodeRef(v)
		if err != nil {
			return scene.ZeroID, fmt.Errorf("%s: in: %w", name, err)
		}
		parent = id
	}
	p := st.Model.Get(parent)
	if p == nil {
		return scene.ZeroID, fmt.Errorf("%s: parent %s no longer exists", name, parent.Short())
	}
	if !p.IsAssembly() {
		return scene.ZeroID, fmt.Errorf("%s: parent %q is not an assembly", name, p.Name)
	}
	return parent, nil
}

// lastChild returns the final entry of a parent's child list after an
// insert-style action, erroring when the insert was rejected.
func lastChild(name string, st store.State, parent scene.NodeID, before int) (scene.NodeID, error) {
	children := st.Model.ChildIDs(parent)
	if len(children) != before+1 {
		return scene.ZeroID, fmt.Errorf("%s: action was rejected", name)
	}
	return children[len(children)-1], nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// primitiveKinds maps builtin names to the primitive each creates.
var primitiveKinds = map[string]scene.PrimitiveKind{
	"box":      scene.KindBox,
	"cylinder": scene.KindCylinder,
	"cone":     scene.KindCone,
	"sphere":   scene.KindSphere,
	"torus":    scene.KindTorus,
	"pyramid":  scene.KindPyramid,
}

// registerBuiltins installs all Maquette DSL builtins into a zygomys
// environment. The builtins dispatch actions into the context's store
// and read back resulting state, so scripts observe exactly what the
// UI would.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scriptContext) {

	// -----------------------------------------------------------------------
	// (box "name" :in parent :width 2 :height 1 :depth 3 :color "#44aa88")
	// and likewise cylinder/cone/sphere/torus/pyramid with their own
	// property keywords (radius, tube, segments, ...).
	// -----------------------------------------------------------------------
	for builtin, kind := range primitiveKinds {
		kind := kind
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)

			nodeName := string(kind)
			if len(pa.positional) > 0 {
				s, err := toString(pa.positional[0])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: name: %w", name, err)
				}
				nodeName = s
			}

			parent, err := sc.parentArg(name, pa)
			if err != nil {
				return zygo.SexpNull, err
			}

			// Every keyword except :in and :color is a numeric property.
			props := make(map[string]float64)
			var color string
			for key, v := range pa.kw {
				switch key {
				case "in":
					continue
				case "color":
					s, err := toString(v)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("%s: color: %w", name, err)
					}
					color = s
				default:
					f, err := toFloat64(v)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("%s: %s: %w", name, key, err)
					}
					props[key] = f
				}
			}

			before := len(sc.state().Model.ChildIDs(parent))
			st, err := sc.dispatch(store.AddPrimitive{ParentID: parent, PrimitiveKind: kind, Name: nodeName})
			if err != nil {
				return zygo.SexpNull, err
			}
			id, err := lastChild(name, st, parent, before)
			if err != nil {
				return zygo.SexpNull, err
			}

			if len(props) > 0 {
				if _, err := sc.dispatch(store.UpdatePrimitiveProps{NodeID: id, Props: props}); err != nil {
					return zygo.SexpNull, err
				}
			}
			if color != "" {
				if _, err := sc.dispatch(store.UpdateNode{NodeID: id, Patch: store.NodePatch{Color: &color}}); err != nil {
					return zygo.SexpNull, err
				}
			}

			return &sexpNodeRef{id: id, name: nodeName}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (group "name" :in parent)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		groupName := "Assembly"
		if len(pa.positional) > 0 {
			s, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
			}
			groupName = s
		}

		parent, err := sc.parentArg("group", pa)
		if err != nil {
			return zygo.SexpNull, err
		}

		before := len(sc.state().Model.ChildIDs(parent))
		st, err := sc.dispatch(store.AddAssembly{ParentID: parent, Name: groupName})
		if err != nil {
			return zygo.SexpNull, err
		}
		id, err := lastChild("group", st, parent, before)
		if err != nil {
			return zygo.SexpNull, err
		}

		return &sexpNodeRef{id: id, name: groupName}, nil
	})

	// -----------------------------------------------------------------------
	// (delete ref)
	// -----------------------------------------------------------------------
	env.AddFunction("delete", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := sc.refArg("delete", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		if n.ID == sc.state().Model.RootID {
			return zygo.SexpNull, fmt.Errorf("delete: the root cannot be deleted")
		}
		if _, err := sc.dispatch(store.DeleteNode{NodeID: n.ID}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (move ref parent)
	// -----------------------------------------------------------------------
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := sc.refArg("move", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("move requires a node and a target assembly")
		}
		target, err := toNodeRef(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: target: %w", err)
		}
		if !sc.state().Model.ValidMove(n.ID, target) {
			return zygo.SexpNull, fmt.Errorf("move: cannot move %q under %s", n.Name, target.Short())
		}
		if _, err := sc.dispatch(store.MoveNode{NodeID: n.ID, NewParentID: target}); err != nil {
			return zygo.SexpNull, err
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (reorder parent from to)
	// -----------------------------------------------------------------------
	env.AddFunction("reorder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := sc.refArg("reorder", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 3 {
			return zygo.SexpNull, fmt.Errorf("reorder requires an assembly, a from index, and a to index")
		}
		from, err := toFloat64(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reorder: from: %w", err)
		}
		to, err := toFloat64(pa.positional[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("reorder: to: %w", err)
		}
		count := len(sc.state().Model.ChildIDs(n.ID))
		if int(from) < 0 || int(from) >= count || int(to) < 0 || int(to) >= count {
			return zygo.SexpNull, fmt.Errorf("reorder: index out of range (have %d children)", count)
		}
		if _, err := sc.dispatch(store.ReorderChildren{ParentID: n.ID, FromIndex: int(from), ToIndex: int(to)}); err != nil {
			return zygo.SexpNull, err
		}
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (duplicate ref) -> ref of the new copy
	// -----------------------------------------------------------------------
	env.AddFunction("duplicate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := sc.refArg("duplicate", parseArgs(args))
		if err != nil {
			return zygo.SexpNull, err
		}
		st, err := sc.dispatch(store.DuplicateNode{NodeID: n.ID})
		if err != nil {
			return zygo.SexpNull, err
		}
		// The reducer selects the new top-level copy on success.
		copyID := st.Selection.SelectedID
		if copyID.IsZero() || copyID == n.ID || st.Model.Get(copyID) == nil {
			return zygo.SexpNull, fmt.Errorf("duplicate: %q could not be duplicated", n.Name)
		}
		return &sexpNodeRef{id: copyID, name: st.Model.Get(copyID).Name}, nil
	})

	// -----------------------------------------------------------------------
	// (rename ref "new name")
	// -----------------------------------------------------------------------
	env.AddFunction("rename", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := sc.refArg("rename", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("rename requires a node and a new name")
		}
		newName, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rename: name: %w", err)
		}
		if n.ID == sc.state().Model.RootID {
			return zygo.SexpNull, fmt.Errorf("rename: the root cannot be renamed")
		}
		if _, err := sc.dispatch(store.RenameNode{NodeID: n.ID, Name: newName}); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpNodeRef{id: n.ID, name: newName}, nil
	})

	// -----------------------------------------------------------------------
	// (recolor ref "#44aa88")
	// -----------------------------------------------------------------------
	env.AddFunction("recolor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		n, err := sc.refArg("recolor", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if !n.IsPrimitive() {
			return zygo.SexpNull, fmt.Errorf("recolor: %q is not a primitive", n.Name)
		}
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("recolor requires a node and a hex color")
		}
		color, err := toString(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("recolor: color: %w", err)
		}
		if _, err := sc.dispatch(store.UpdateNode{NodeID: n.ID, Patch: store.NodePatch{Color: &color}}); err != nil {
			return zygo.SexpNull, err
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (translate ref x y z) / (rotate ref x y z) / (scale ref x y z)
	// translate and scale set the component outright; rotate takes
	// degrees and stores radians.
	// -----------------------------------------------------------------------
	transformSetter := func(builtin string, build func(v scene.Vec3) store.TransformPatch) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			n, err := sc.refArg(builtin, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			v, err := toVecArgs(builtin, pa.positional, 1)
			if err != nil {
				return zygo.SexpNull, err
			}
			if _, err := sc.dispatch(store.UpdateTransform{NodeID: n.ID, Patch: build(v)}); err != nil {
				return zygo.SexpNull, err
			}
			return pa.positional[0], nil
		})
	}
	transformSetter("translate", func(v scene.Vec3) store.TransformPatch {
		return store.TransformPatch{Position: &store.Vec3Patch{X: &v.X, Y: &v.Y, Z: &v.Z}}
	})
	transformSetter("rotate", func(v scene.Vec3) store.TransformPatch {
		x := propfield.DegToRad(v.X)
		y := propfield.DegToRad(v.Y)
		z := propfield.DegToRad(v.Z)
		return store.TransformPatch{Rotation: &store.Vec3Patch{X: &x, Y: &y, Z: &z}}
	})
	transformSetter("scale", func(v scene.Vec3) store.TransformPatch {
		return store.TransformPatch{Scale: &store.Vec3Patch{X: &v.X, Y: &v.Y, Z: &v.Z}}
	})

	// -----------------------------------------------------------------------
	// (show ref) / (hide ref)
	// -----------------------------------------------------------------------
	visibilitySetter := func(builtin string, visible bool) {
		env.AddFunction(builtin, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			n, err := sc.refArg(builtin, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			v := visible
			if _, err := sc.dispatch(store.UpdateNode{NodeID: n.ID, Patch: store.NodePatch{Visible: &v}}); err != nil {
				return zygo.SexpNull, err
			}
			return pa.positional[0], nil
		})
	}
	visibilitySetter("show", true)
	visibilitySetter("hide", false)

	// -----------------------------------------------------------------------
	// (select ref) / (select) to clear
	// -----------------------------------------------------------------------
	env.AddFunction("select", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) == 0 {
			if _, err := sc.dispatch(store.SelectNode{}); err != nil {
				return zygo.SexpNull, err
			}
			return zygo.SexpNull, nil
		}
		n, err := sc.refArg("select", pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		if _, err := sc.dispatch(store.SelectNode{NodeID: n.ID}); err != nil {
			return zygo.SexpNull, err
		}
		return pa.positional[0], nil
	})

	// -----------------------------------------------------------------------
	// (find "name") -> first matching node in tree order
	// -----------------------------------------------------------------------
	env.AddFunction("find", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("find requires a name")
		}
		wanted, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("find: name: %w", err)
		}
		m := sc.state().Model
		for _, id := range m.Subtree(m.RootID) {
			if n := m.Get(id); n != nil && n.Name == wanted {
				return &sexpNodeRef{id: id, name: wanted}, nil
			}
		}
		return zygo.SexpNull, fmt.Errorf("find: no node named %q", wanted)
	})

	// -----------------------------------------------------------------------
	// (root)
	// -----------------------------------------------------------------------
	env.AddFunction("root", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		m := sc.state().Model
		return &sexpNodeRef{id: m.RootID, name: scene.RootName}, nil
	})

	// -----------------------------------------------------------------------
	// (undo) / (redo) -> whether a step was taken
	// -----------------------------------------------------------------------
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		could := sc.state().CanUndo()
		if _, err := sc.dispatch(store.Undo{}); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: could}, nil
	})
	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		could := sc.state().CanRedo()
		if _, err := sc.dispatch(store.Redo{}); err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpBool{Val: could}, nil
	})

	// -----------------------------------------------------------------------
	// (tree) -> formatted listing of the whole model
	// -----------------------------------------------------------------------
	env.AddFunction("tree", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpStr{S: formatTree(sc.state())}, nil
	})
}

// formatTree renders the model as an indented listing, one node per
// line, marking the selected node and hidden nodes.
func formatTree(st store.State) string {
	var b strings.Builder
	m := st.Model

	var walk func(id scene.NodeID, depth int)
	walk = func(id scene.NodeID, depth int) {
		n := m.Get(id)
		if n == nil {
			return
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Name)
		switch data := n.Data.(type) {
		case scene.PrimitiveData:
			fmt.Fprintf(&b, " [%s]", data.Kind)
		case scene.AssemblyData:
			fmt.Fprintf(&b, " [assembly %d]", len(data.Children))
		}
		p := n.Transform.Position
		fmt.Fprintf(&b, " at (%s, %s, %s)",
			propfield.Format(p.X), propfield.Format(p.Y), propfield.Format(p.Z))
		if !n.Visible {
			b.WriteString(" hidden")
		}
		if id == st.Selection.SelectedID {
			b.WriteString(" *")
		}
		b.WriteString("\n")
		for _, cid := range m.ChildIDs(id) {
			walk(cid, depth+1)
		}
	}
	walk(m.RootID, 0)
	return strings.TrimRight(b.String(), "\n")
}
