// Package remediate splices AI-generated remedial lessons into an
// existing plan after a failed assessment.
package remediate

import "github.com/pathwise/pathwise/internal/lessontree"

// Insertion is the tree and path after a remedial node is spliced in.
type Insertion struct {
	Tree lessontree.Tree
	Path lessontree.Path
}

// Insert appends the remedial node to the lesson set and places its id
// in the suggested path immediately after the node that triggered it.
// When the triggering id is absent from the path the remedial id goes
// to the end; that fallback is defined behavior.
//
// The remedial node arrives unlocked and parented to its trigger so the
// map renders it beneath the failed lesson.
func Insert(tree lessontree.Tree, path lessontree.Path, triggerID string, node lessontree.Node) Insertion {
	node.Type = lessontree.TypeRemedial
	node.Locked = false
	if node.ParentID == "" {
		node.ParentID = triggerID
	}

	return Insertion{
		Tree: tree.Append(node),
		Path: path.InsertAfter(triggerID, node.ID),
	}
}
