package remediate

import (
	"testing"

	"github.com/pathwise/pathwise/internal/lessontree"
)

func TestInsertAfterTrigger(t *testing.T) {
	tree := lessontree.Tree{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	path := lessontree.Path{"a", "b", "c"}

	got := Insert(tree, path, "b", lessontree.Node{ID: "rem-1", Title: "Fractions again"})

	if len(got.Tree) != 4 {
		t.Fatalf("tree len = %d, want 4", len(got.Tree))
	}
	n, err := got.Tree.ByID("rem-1")
	if err != nil {
		t.Fatal("remedial node missing from tree")
	}
	if n.Type != lessontree.TypeRemedial {
		t.Errorf("type = %s, want remedial", n.Type)
	}
	if n.Locked {
		t.Error("remedial node must arrive unlocked")
	}
	if n.ParentID != "b" {
		t.Errorf("parent = %q, want trigger id", n.ParentID)
	}

	if got.Path.IndexOf("rem-1") != 2 {
		t.Errorf("path = %v, want rem-1 right after b", got.Path)
	}
}

func TestInsertTriggerAbsentAppends(t *testing.T) {
	got := Insert(lessontree.Tree{{ID: "a"}}, lessontree.Path{"a"}, "gone", lessontree.Node{ID: "rem-1"})

	if got.Path.IndexOf("rem-1") != len(got.Path)-1 {
		t.Errorf("path = %v, want rem-1 appended at end", got.Path)
	}
}

func TestInsertDoesNotMutateInputs(t *testing.T) {
	tree := lessontree.Tree{{ID: "a"}}
	path := lessontree.Path{"a"}

	_ = Insert(tree, path, "a", lessontree.Node{ID: "rem-1"})

	if len(tree) != 1 || len(path) != 1 {
		t.Error("Insert mutated its inputs")
	}
}
