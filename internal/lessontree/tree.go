package lessontree

import "fmt"

// Tree is an ordered collection of lesson nodes. Order is the order the
// plan generator produced them in; traversal order lives in the
// suggested path, not here.
type Tree []Node

// ByID returns the node with the given id, or an error if absent.
func (t Tree) ByID(id string) (Node, error) {
	for _, n := range t {
		if n.ID == id {
			return n, nil
		}
	}
	return Node{}, fmt.Errorf("lesson node not found: %q", id)
}

// Contains reports whether a node with the given id exists.
func (t Tree) Contains(id string) bool {
	_, err := t.ByID(id)
	return err == nil
}

// Children returns the nodes whose ParentID equals id, in tree order.
func (t Tree) Children(id string) []Node {
	var out []Node
	for _, n := range t {
		if n.ParentID == id {
			out = append(out, n)
		}
	}
	return out
}

// Roots returns all parentless nodes, in tree order.
func (t Tree) Roots() []Node {
	var out []Node
	for _, n := range t {
		if n.IsRoot() {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a copy that shares no backing storage with t.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	copy(out, t)
	return out
}

// Append returns a new tree with n added at the end.
func (t Tree) Append(n Node) Tree {
	out := make(Tree, len(t), len(t)+1)
	copy(out, t)
	return append(out, n)
}

// UnlockChildren returns a new tree where every direct child of
// parentID has its Locked flag cleared. The unlock is single-level:
// deeper descendants stay locked until their own parent completes.
// Unlocking is one-way; this never re-locks a node.
func (t Tree) UnlockChildren(parentID string) Tree {
	out := t.Clone()
	for i := range out {
		if out[i].ParentID == parentID {
			out[i].Locked = false
		}
	}
	return out
}

// Normalize returns a new tree with the root-node invariant enforced:
// a node without a parent is never locked. Called when a plan or
// snapshot is installed, so the engine never has to special-case roots
// afterward.
func (t Tree) Normalize() Tree {
	out := t.Clone()
	for i := range out {
		if out[i].IsRoot() {
			out[i].Locked = false
		}
	}
	return out
}
