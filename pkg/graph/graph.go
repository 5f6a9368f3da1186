package graph

import (
	"errors"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/paulmach/osm"
)

var (
	ErrVertexNotFound = errors.New("vertex not found in graph")
)

// Graph in-memory road network: a coordinate per vertex, an adjacency list of
// arcs per vertex and an interned tag-set index shared by all edges of the
// same way. Read-only once built, safe for concurrent queries.
type Graph struct {
	vertices []datastructure.Coordinate
	arcs     [][]datastructure.Edge
	tags     *TagsIndex
}

func NewGraph() *Graph {
	return &Graph{
		vertices: make([]datastructure.Coordinate, 0),
		arcs:     make([][]datastructure.Edge, 0),
		tags:     NewTagsIndex(),
	}
}

func (g *Graph) AddVertex(lat, lon float64) int32 {
	id := int32(len(g.vertices))
	g.vertices = append(g.vertices, datastructure.NewCoordinate(lat, lon))
	g.arcs = append(g.arcs, nil)
	return id
}

// AddSegment stores one way segment as a forward arc from->to and a reverse
// arc to->from sharing the same tag set. One-way legality is decided at query
// time by the vehicle profile against the Forward flag, so even one-way roads
// keep both stored directions (the reverse direction is what a backward
// search walks).
func (g *Graph) AddSegment(from, to int32, tags osm.Tags) {
	ref := g.tags.Put(tags)
	g.arcs[from] = append(g.arcs[from], datastructure.NewEdge(to, ref, true))
	g.arcs[to] = append(g.arcs[to], datastructure.NewEdge(from, ref, false))
}

func (g *Graph) GetVertex(id int32) (datastructure.Coordinate, error) {
	if id < 0 || int(id) >= len(g.vertices) {
		return datastructure.Coordinate{}, ErrVertexNotFound
	}
	return g.vertices[id], nil
}

func (g *Graph) GetArcs(id int32) ([]datastructure.Edge, error) {
	if id < 0 || int(id) >= len(g.arcs) {
		return nil, ErrVertexNotFound
	}
	return g.arcs[id], nil
}

func (g *Graph) GetTags(ref int32) (osm.Tags, error) {
	return g.tags.Get(ref)
}

func (g *Graph) NumVertices() int32 {
	return int32(len(g.vertices))
}

// ForEachArc visits every stored arc once, reverse directions included. Used
// by the snapper to build its spatial index.
func (g *Graph) ForEachArc(fn func(from int32, edge datastructure.Edge)) {
	for from, arcs := range g.arcs {
		for _, edge := range arcs {
			fn(int32(from), edge)
		}
	}
}
