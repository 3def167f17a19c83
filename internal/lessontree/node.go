package lessontree

// NodeType classifies a lesson node's origin.
type NodeType string

const (
	TypeCore      NodeType = "core"
	TypeRemedial  NodeType = "remedial"
	TypeExtension NodeType = "extension"
)

// Node is a single lesson in the mind map. ParentID is empty for root
// (introduction) nodes; the engine never locks a root node.
type Node struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	ParentID   string   `json:"parent_id,omitempty"`
	Locked     bool     `json:"locked"`
	Difficulty float64  `json:"difficulty"` // 0..1
	Type       NodeType `json:"type"`
	IsAdaptive bool     `json:"is_adaptive"`
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}
