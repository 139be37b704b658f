package store

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire form of an action: a kind tag plus a payload
// whose shape depends on the kind. UNDO and REDO carry no payload.
type Envelope struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeAction parses one JSON action envelope into its typed Action.
// Unknown kinds and malformed payloads are errors; the caller decides
// whether to surface or drop them.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("store: decode action envelope: %w", err)
	}
	return env.Action()
}

// Action converts a parsed envelope into its typed Action.
func (env Envelope) Action() (Action, error) {
	decode := func(v any) error {
		if len(env.Payload) == 0 {
			return fmt.Errorf("store: %s: missing payload", env.Type)
		}
		if err := json.Unmarshal(env.Payload, v); err != nil {
			return fmt.Errorf("store: %s: decode payload: %w", env.Type, err)
		}
		return nil
	}

	switch env.Type {
	case KindAddPrimitive:
		var a AddPrimitive
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindAddAssembly:
		var a AddAssembly
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindDeleteNode:
		var a DeleteNode
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindUpdateNode:
		var a UpdateNode
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindUpdateTransform:
		var a UpdateTransform
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindReorderChildren:
		var a ReorderChildren
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindMoveNode:
		var a MoveNode
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindSelectNode:
		// A null or absent payload clears the selection.
		var a SelectNode
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &a); err != nil {
				return nil, fmt.Errorf("store: %s: decode payload: %w", env.Type, err)
			}
		}
		return a, nil
	case KindHoverNode:
		var a HoverNode
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &a); err != nil {
				return nil, fmt.Errorf("store: %s: decode payload: %w", env.Type, err)
			}
		}
		return a, nil
	case KindRenameNode:
		var a RenameNode
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindToggleVisibility:
		var a ToggleVisibility
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindUpdatePrimProps:
		var a UpdatePrimitiveProps
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindDuplicateNode:
		var a DuplicateNode
		if err := decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	case KindUndo:
		return Undo{}, nil
	case KindRedo:
		return Redo{}, nil
	}
	return nil, fmt.Errorf("store: unknown action type %q", env.Type)
}
