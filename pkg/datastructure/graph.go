package datastructure

// Edge is one stored arc of the road network. Every way segment is stored
// twice, once per direction; Forward tells whether this stored direction
// equals the semantic forward direction of the original way, which is what
// one-way evaluation keys on. TagsRef points into the graph's interned tag-set
// index.
type Edge struct {
	To      int32
	TagsRef int32
	Forward bool
}

func NewEdge(to, tagsRef int32, forward bool) Edge {
	return Edge{To: to, TagsRef: tagsRef, Forward: forward}
}
