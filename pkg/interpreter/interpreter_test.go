package interpreter

import (
	"testing"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/routing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
)

func TestInterpreterTurnRestrictions(t *testing.T) {
	it := NewInterpreter()
	it.AddRestriction(1, 2, 3)

	assert.False(t, it.CanBeTraversed(1, 2, datastructure.NewEdge(3, 0, true)))
	assert.True(t, it.CanBeTraversed(1, 2, datastructure.NewEdge(4, 0, true)))
	assert.True(t, it.CanBeTraversed(0, 2, datastructure.NewEdge(3, 0, true)))
	assert.Equal(t, 1, it.NumRestrictions())
}

func TestInterpreterConstraintsOptional(t *testing.T) {
	it := NewInterpreter()
	assert.Nil(t, it.Constraints())

	it.SetConstraints(NewAccessConstraints())
	assert.NotNil(t, it.Constraints())
}

func TestAccessConstraintsLabelFor(t *testing.T) {
	c := NewAccessConstraints()

	assert.Equal(t, routing.Label("public"), c.LabelFor(osm.Tags{{Key: "highway", Value: "residential"}}))
	assert.Equal(t, routing.Label("public"), c.LabelFor(osm.Tags{{Key: "access", Value: "yes"}}))
	assert.Equal(t, routing.Label("private"), c.LabelFor(osm.Tags{{Key: "access", Value: "private"}}))
}

func TestAccessConstraintsForwardSequence(t *testing.T) {
	c := NewAccessConstraints()

	// entering a restricted class the first time is fine
	assert.True(t, c.ForwardSequenceAllowed([]routing.Label{"public"}, "destination"))
	// leaving it again is always fine
	assert.True(t, c.ForwardSequenceAllowed([]routing.Label{"public", "destination"}, "public"))
	// a second run of the same class is not
	assert.False(t, c.ForwardSequenceAllowed([]routing.Label{"public", "destination", "public"}, "destination"))
	// a different restricted class still gets its first run
	assert.True(t, c.ForwardSequenceAllowed([]routing.Label{"public", "destination", "public"}, "private"))
}
