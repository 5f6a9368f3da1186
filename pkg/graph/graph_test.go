package graph

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestGraphAddSegment(t *testing.T) {
	g := NewGraph()
	a := g.AddVertex(-7.78, 110.36)
	b := g.AddVertex(-7.79, 110.37)

	tags := osm.Tags{{Key: "highway", Value: "residential"}}
	g.AddSegment(a, b, tags)

	out, err := g.GetArcs(a)
	assert.Nil(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, b, out[0].To)
	assert.True(t, out[0].Forward)

	back, err := g.GetArcs(b)
	assert.Nil(t, err)
	assert.Len(t, back, 1)
	assert.Equal(t, a, back[0].To)
	assert.False(t, back[0].Forward)

	// both directions reference the same interned tag set
	assert.Equal(t, out[0].TagsRef, back[0].TagsRef)
	got, err := g.GetTags(out[0].TagsRef)
	assert.Nil(t, err)
	assert.Equal(t, "residential", got.Find("highway"))
}

func TestGraphVertexNotFound(t *testing.T) {
	g := NewGraph()

	_, err := g.GetVertex(3)
	assert.ErrorIs(t, err, ErrVertexNotFound)
	_, err = g.GetArcs(-1)
	assert.ErrorIs(t, err, ErrVertexNotFound)
}

func TestTagsIndexInterning(t *testing.T) {
	ti := NewTagsIndex()

	refOne := ti.Put(osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "yes"}})
	refTwo := ti.Put(osm.Tags{{Key: "oneway", Value: "yes"}, {Key: "highway", Value: "primary"}})
	refThree := ti.Put(osm.Tags{{Key: "highway", Value: "secondary"}})

	assert.Equal(t, refOne, refTwo)
	assert.NotEqual(t, refOne, refThree)
	assert.Equal(t, 2, ti.Len())

	_, err := ti.Get(99)
	assert.ErrorIs(t, err, ErrTagsNotFound)
}
