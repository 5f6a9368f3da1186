package routing

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/paulmach/osm"
)

// Graph read-only view of the road network consumed by the engine. Lookups
// must be repeatable and side-effect free; the graph must not be mutated for
// the duration of a query.
type Graph interface {
	GetVertex(id int32) (datastructure.Coordinate, error)
	GetArcs(id int32) ([]datastructure.Edge, error)
	GetTags(ref int32) (osm.Tags, error)
}

// VehicleProfile legality and cost rules of one vehicle class, chosen per
// query.
type VehicleProfile interface {
	// CanTraverse reports whether the vehicle may use an edge with this tag
	// set at all, in either direction.
	CanTraverse(tags osm.Tags) bool
	// IsOneWay returns nil for bidirectional ways, true when only the stored
	// forward direction is legal, false when only the reverse is.
	IsOneWay(tags osm.Tags) *bool
	// Weight non-negative traversal cost of an edge given the great-circle
	// positions of both endpoints.
	Weight(tags osm.Tags, from, to datastructure.Coordinate) float64
}

// Label opaque classification token attached to an edge tag set, e.g. an
// access class.
type Label string

// Constraints validates legal label sequences along a path. Only consulted
// when the interpreter exposes one.
type Constraints interface {
	LabelFor(tags osm.Tags) Label
	// ForwardSequenceAllowed reports whether appending next to the
	// accumulated label sequence of a path keeps the path legal. Only called
	// when next differs from the last label of the sequence; unchanged-label
	// runs are assumed valid.
	ForwardSequenceAllowed(seq []Label, next Label) bool
}

// Interpreter turn-restriction and label-constraint rules of the routing
// policy in effect.
type Interpreter interface {
	// Constraints returns nil when label-sequence checking is inactive.
	Constraints() Constraints
	// CanBeTraversed reports whether moving from prev through cur onto edge
	// is allowed (turn restrictions need the two-hop history).
	CanBeTraversed(prev, cur int32, edge datastructure.Edge) bool
}
