package lessontree

import "slices"

// Path is the AI-recommended linear traversal order over the tree,
// as a list of node ids.
type Path []string

// IndexOf returns the position of id in the path, or -1.
func (p Path) IndexOf(id string) int {
	return slices.Index(p, id)
}

// InsertAfter returns a new path with insertID placed immediately after
// afterID. When afterID is not present the new id is appended at the
// end; that is the defined fallback for remediation, not an error.
func (p Path) InsertAfter(afterID, insertID string) Path {
	i := p.IndexOf(afterID)
	if i < 0 {
		out := make(Path, len(p), len(p)+1)
		copy(out, p)
		return append(out, insertID)
	}
	out := make(Path, 0, len(p)+1)
	out = append(out, p[:i+1]...)
	out = append(out, insertID)
	out = append(out, p[i+1:]...)
	return out
}

// Clone returns a copy that shares no backing storage with p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return slices.Clone(p)
}
