package vcedit

// NodePath represents the traversal steps from a surface root to a target node.
// Example: [0, 1, 3] means root -> child[0] -> child[1] -> child[3]
type NodePath []int

type OpType string

const (
	OpInsertNode  OpType = "INSERT_NODE"  // Insert a new node
	OpDeleteNode  OpType = "DELETE_NODE"  // Remove a node
	OpReplaceNode OpType = "REPLACE_NODE" // Swap a node for one of another type or tag
	OpUpdateAttr  OpType = "UPDATE_ATTR"  // Change/Add an attribute
	OpRemoveAttr  OpType = "REMOVE_ATTR"  // Remove an attribute
	OpUpdateText  OpType = "UPDATE_TEXT"  // Replace full text (Atomic)
)

// Operation represents an atomic change to a surface subtree.
type Operation struct {
	Type     OpType   `json:"type"`
	Path     NodePath `json:"path"`
	Key      string   `json:"key,omitempty"`       // For Attributes (name of the attribute)
	OldValue string   `json:"old_value,omitempty"` // Previous value (for verification)
	NewValue string   `json:"new_value,omitempty"` // New value/Content
	NodeData string   `json:"node_data,omitempty"` // For Insert/Replace: The HTML string of the node
	Position int      `json:"position,omitempty"`  // For InsertNode: child index
}

// Delta is the set of changes one editing step made to a surface.
type Delta struct {
	Surface    string      `json:"surface"`   // Session ID
	Command    string      `json:"command"`   // Command or key that caused the change
	BaseHash   string      `json:"base_hash"` // Hash of the surface before the change
	Operations []Operation `json:"operations"`
	Timestamp  int64       `json:"timestamp"`
}
