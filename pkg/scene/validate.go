package scene

import "fmt"

// ValidationSeverity indicates whether a validation finding is a hard
// structural violation or merely advisory.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // structural violation
	SeverityWarning                           // advisory
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID             // which node has the problem (zero if model-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.NodeID.IsZero() {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID.Short(), e.Message)
}

// Validate runs every structural check on the model and returns the
// findings. An empty slice means the model upholds the tree invariants:
// a resolvable assembly root, all child references resolving, every
// non-root node owned by exactly one assembly, and no cycles. The
// function is read-only and never mutates the model.
func Validate(m *Model) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoot(m)...)
	errs = append(errs, validateReferences(m)...)
	errs = append(errs, validateOwnership(m)...)
	errs = append(errs, validateTree(m)...)
	errs = append(errs, validatePrimitives(m)...)
	return errs
}

// validateRoot checks that the root ID resolves to an assembly.
func validateRoot(m *Model) []ValidationError {
	var errs []ValidationError

	if m.RootID.IsZero() {
		errs = append(errs, ValidationError{
			Message:  "model has no root",
			Severity: SeverityError,
		})
		return errs
	}

	root, ok := m.Nodes[m.RootID]
	if !ok {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("root reference %s does not exist", m.RootID.Short()),
			Severity: SeverityError,
		})
		return errs
	}

	if !root.IsAssembly() {
		errs = append(errs, ValidationError{
			NodeID:   m.RootID,
			Message:  "root node is not an assembly",
			Severity: SeverityError,
		})
	}

	return errs
}

// validateReferences checks that every child ID referenced by an
// assembly points to a node that actually exists in m.Nodes.
func validateReferences(m *Model) []ValidationError {
	var errs []ValidationError

	for _, node := range m.Nodes {
		asm, ok := node.Data.(AssemblyData)
		if !ok {
			continue
		}
		for _, childID := range asm.Children {
			if _, ok := m.Nodes[childID]; !ok {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("child reference %s does not exist", childID.Short()),
					Severity: SeverityError,
				})
			}
		}
	}

	return errs
}

// validateOwnership checks single ownership: every non-root node must
// appear in exactly one assembly's child list, and the root in none.
func validateOwnership(m *Model) []ValidationError {
	var errs []ValidationError

	refs := make(map[NodeID]int, len(m.Nodes))
	for _, node := range m.Nodes {
		asm, ok := node.Data.(AssemblyData)
		if !ok {
			continue
		}
		for _, childID := range asm.Children {
			refs[childID]++
		}
	}

	for id, node := range m.Nodes {
		count := refs[id]
		switch {
		case id == m.RootID && count > 0:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  "root appears as a child",
				Severity: SeverityError,
			})
		case id != m.RootID && count == 0:
			name := node.Name
			if name == "" {
				name = id.Short()
			}
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node %q has no parent (orphan)", name),
				Severity: SeverityError,
			})
		case id != m.RootID && count > 1:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("node referenced by %d parents", count),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateTree checks for cycles using DFS with 3-color marking.
// White (0) = unvisited, gray (1) = in current DFS path, black (2) =
// fully explored. Encountering a gray node during traversal means the
// node is its own ancestor.
func validateTree(m *Model) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	color := make(map[NodeID]int) // default zero = white
	var errs []ValidationError

	var visit func(id NodeID) bool // returns true if cycle found
	visit = func(id NodeID) bool {
		switch color[id] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("cycle detected: node %s is its own ancestor", id.Short()),
				Severity: SeverityError,
			})
			return true
		}

		color[id] = gray

		for _, childID := range m.ChildIDs(id) {
			if visit(childID) {
				return true
			}
		}

		color[id] = black
		return false
	}

	// Start DFS from every node to catch disconnected components.
	for id := range m.Nodes {
		if color[id] == white {
			if visit(id) {
				// One cycle error is sufficient; stop early.
				break
			}
		}
	}

	return errs
}

// validatePrimitives checks that primitive payloads are sane: a known
// kind and a non-nil property map. Non-positive dimensions are reported
// as warnings since they only degrade preview geometry.
func validatePrimitives(m *Model) []ValidationError {
	var errs []ValidationError

	for _, node := range m.Nodes {
		prim, ok := node.Data.(PrimitiveData)
		if !ok {
			continue
		}

		if !ValidPrimitiveKinds[prim.Kind] {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("invalid primitive kind %q", prim.Kind),
				Severity: SeverityError,
			})
		}

		if prim.Props == nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  "primitive has no properties",
				Severity: SeverityError,
			})
			continue
		}

		for key, v := range prim.Props {
			if key == "segments" {
				continue
			}
			if v <= 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("property %q is %g, expected > 0", key, v),
					Severity: SeverityWarning,
				})
			}
		}
	}

	return errs
}
