package datastructure

import "errors"

var ErrVertexNotInVisitList = errors.New("vertex is not part of this visit list")

// VisitList represents one query endpoint after snapping. A geographic point
// snapped onto an edge does not resolve to a single graph vertex: both edge
// endpoints are reachable from the snapped position, each with its own partial
// path and pre-weight. The routing engine enumerates the candidates, seeds its
// search with the source side and shrinks the target side as candidates get
// settled, so it always works on its own Clone, never on the caller's list.
type VisitList struct {
	paths map[int32]*PathSegment
}

func NewVisitList() *VisitList {
	return &VisitList{
		paths: make(map[int32]*PathSegment),
	}
}

// NewVisitListFromVertex builds a single-candidate list for a query position
// that coincides with a real graph vertex, with zero pre-weight.
func NewVisitListFromVertex(vertex int32) *VisitList {
	v := NewVisitList()
	v.Add(NewPathSegment(vertex, 0, nil))
	return v
}

// Add registers the candidate at the chain's head vertex. Adding a second
// chain for the same vertex replaces the first.
func (v *VisitList) Add(path *PathSegment) {
	v.paths[path.Vertex] = path
}

func (v *VisitList) Len() int {
	return len(v.paths)
}

func (v *VisitList) Contains(vertex int32) bool {
	_, ok := v.paths[vertex]
	return ok
}

// Vertices lists the candidate vertex ids. Order is unspecified.
func (v *VisitList) Vertices() []int32 {
	out := make([]int32, 0, len(v.paths))
	for id := range v.paths {
		out = append(out, id)
	}
	return out
}

// PathTo returns the partial chain from the virtual query position to the
// given candidate vertex, pre-weight included.
func (v *VisitList) PathTo(vertex int32) (*PathSegment, error) {
	path, ok := v.paths[vertex]
	if !ok {
		return nil, ErrVertexNotInVisitList
	}
	return path, nil
}

// Remove drops a candidate once its optimal path has been finalized.
func (v *VisitList) Remove(vertex int32) {
	delete(v.paths, vertex)
}

// Clone returns an independent copy: removals on the clone never show through
// to the original. The chains themselves are shared, they are immutable.
func (v *VisitList) Clone() *VisitList {
	c := NewVisitList()
	for id, path := range v.paths {
		c.paths[id] = path
	}
	return c
}
