package datastructure

import "errors"

var ErrInvalidPath = errors.New("path segment chain has no base to concatenate onto")

// PathSegment is one node of a backward-linked shortest path chain. Weight is
// the cumulative weight from the chain root up to Vertex, Prev points at the
// previous node of the chain (nil at the root). Prev links are shared between
// chains that diverge from a common prefix, so a node must never be mutated
// once it has been handed out. Building a longer chain always allocates a new
// head node.
type PathSegment struct {
	Vertex int32
	Weight float64
	Prev   *PathSegment
}

func NewPathSegment(vertex int32, weight float64, prev *PathSegment) *PathSegment {
	return &PathSegment{Vertex: vertex, Weight: weight, Prev: prev}
}

// Extend returns a new head node for vertex, keeping p as the shared tail.
func (p *PathSegment) Extend(vertex int32, weight float64) *PathSegment {
	return &PathSegment{Vertex: vertex, Weight: weight, Prev: p}
}

// Root walks back to the first node of the chain.
func (p *PathSegment) Root() *PathSegment {
	cur := p
	for cur.Prev != nil {
		cur = cur.Prev
	}
	return cur
}

// Vertices lists the chain vertex ids in travel order, root first.
func (p *PathSegment) Vertices() []int32 {
	n := 0
	for cur := p; cur != nil; cur = cur.Prev {
		n++
	}
	out := make([]int32, n)
	for cur := p; cur != nil; cur = cur.Prev {
		n--
		out[n] = cur.Vertex
	}
	return out
}

// Reverse builds a new chain with the link direction inverted: the head vertex
// becomes the root and vice versa. Cumulative weights are remapped so that the
// total weight of the chain is preserved and reversing twice yields the
// original vertex order and weights. The receiver chain is left untouched.
func (p *PathSegment) Reverse() *PathSegment {
	if p == nil {
		return nil
	}
	base := p.Root().Weight
	var rev *PathSegment
	for cur := p; cur != nil; cur = cur.Prev {
		rev = &PathSegment{Vertex: cur.Vertex, Weight: p.Weight + base - cur.Weight, Prev: rev}
	}
	return rev
}

// ConcatenateAfter appends the receiver chain onto the tail of base, producing
// one continuous chain whose head weight is always base.Weight + p.Weight.
// When the receiver's root repeats base's head vertex (the usual case when two
// partial paths meet at a junction vertex) the duplicate node is merged into
// base's head, its pre-weight folded in. Neither input chain is modified.
// Concatenating onto a nil base is a contract violation and returns
// ErrInvalidPath: a finalized route always connects a real source candidate to
// a real target candidate.
func (p *PathSegment) ConcatenateAfter(base *PathSegment) (*PathSegment, error) {
	if base == nil {
		return nil, ErrInvalidPath
	}
	nodes := make([]*PathSegment, 0)
	for cur := p; cur != nil; cur = cur.Prev {
		nodes = append(nodes, cur)
	}

	out := base
	root := len(nodes) - 1
	if nodes[root].Vertex == base.Vertex {
		if nodes[root].Weight != 0 {
			out = &PathSegment{Vertex: base.Vertex, Weight: base.Weight + nodes[root].Weight, Prev: base.Prev}
		}
		root--
	}
	for i := root; i >= 0; i-- {
		out = &PathSegment{Vertex: nodes[i].Vertex, Weight: base.Weight + nodes[i].Weight, Prev: out}
	}
	return out, nil
}
