package scene

import "github.com/google/uuid"

// NodeID uniquely identifies a node within a model. IDs are never
// reused, even after the node they named has been deleted. The zero
// value is the "no node" reference used by selection state.
type NodeID string

// ZeroID is the empty NodeID, meaning "no node".
const ZeroID NodeID = ""

// NewNodeID returns a fresh globally-unique node identifier.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// IsZero reports whether the ID is the zero "no node" value.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns an abbreviated form of the ID for logs and script
// output. Full IDs remain the only identity used by the model itself.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}
