package lessontree

import "testing"

func sampleTree() Tree {
	return Tree{
		{ID: "intro", Title: "Introduction", Type: TypeCore},
		{ID: "a", Title: "A", ParentID: "intro", Locked: true, Type: TypeCore},
		{ID: "b", Title: "B", ParentID: "intro", Locked: true, Type: TypeCore},
		{ID: "a1", Title: "A1", ParentID: "a", Locked: true, Type: TypeCore},
	}
}

func TestByID(t *testing.T) {
	tr := sampleTree()

	n, err := tr.ByID("a1")
	if err != nil {
		t.Fatalf("ByID(a1): %v", err)
	}
	if n.ParentID != "a" {
		t.Errorf("ParentID = %q, want %q", n.ParentID, "a")
	}

	if _, err := tr.ByID("missing"); err == nil {
		t.Error("ByID(missing): want error, got nil")
	}
}

func TestUnlockChildrenSingleLevel(t *testing.T) {
	tr := sampleTree().UnlockChildren("intro")

	for _, id := range []string{"a", "b"} {
		n, _ := tr.ByID(id)
		if n.Locked {
			t.Errorf("node %s still locked after parent unlock", id)
		}
	}

	// Grandchild must stay locked: unlock does not cascade.
	a1, _ := tr.ByID("a1")
	if !a1.Locked {
		t.Error("grandchild a1 unlocked; unlock must be single-level")
	}
}

func TestUnlockChildrenDoesNotMutateOriginal(t *testing.T) {
	orig := sampleTree()
	_ = orig.UnlockChildren("intro")

	a, _ := orig.ByID("a")
	if !a.Locked {
		t.Error("original tree mutated by UnlockChildren")
	}
}

func TestNormalizeClearsRootLock(t *testing.T) {
	tr := Tree{
		{ID: "r", Locked: true},
		{ID: "c", ParentID: "r", Locked: true},
	}.Normalize()

	r, _ := tr.ByID("r")
	if r.Locked {
		t.Error("root node locked after Normalize")
	}
	c, _ := tr.ByID("c")
	if !c.Locked {
		t.Error("non-root node unlocked by Normalize")
	}
}

func TestPathInsertAfter(t *testing.T) {
	tests := []struct {
		name    string
		path    Path
		after   string
		insert  string
		want    []string
	}{
		{"middle", Path{"a", "b", "c"}, "b", "x", []string{"a", "b", "x", "c"}},
		{"head", Path{"a", "b"}, "a", "x", []string{"a", "x", "b"}},
		{"tail", Path{"a", "b"}, "b", "x", []string{"a", "b", "x"}},
		{"absent appends", Path{"a", "b"}, "zz", "x", []string{"a", "b", "x"}},
		{"empty path", Path{}, "a", "x", []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.path.InsertAfter(tt.after, tt.insert)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("path[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
