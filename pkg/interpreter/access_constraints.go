package interpreter

import (
	"github.com/aditya-wp/wayfinder/pkg/routing"

	"github.com/paulmach/osm"
)

const publicLabel = routing.Label("public")

// default restricted access classes: a route may cross one run of such a
// class (reaching or leaving an address inside it) but must not chain two
// separate runs together
var defaultRestrictedClasses = map[routing.Label]struct{}{
	"private":     {},
	"destination": {},
	"customers":   {},
	"delivery":    {},
}

// AccessConstraints labels every edge with its access class and forbids
// entering a second run of a restricted class. Implements the engine's
// Constraints contract.
type AccessConstraints struct {
	restricted map[routing.Label]struct{}
}

func NewAccessConstraints() *AccessConstraints {
	return &AccessConstraints{restricted: defaultRestrictedClasses}
}

func (c *AccessConstraints) LabelFor(tags osm.Tags) routing.Label {
	if v := tags.Find("access"); v != "" && v != "yes" {
		return routing.Label(v)
	}
	return publicLabel
}

// ForwardSequenceAllowed only sees transitions where next differs from the
// last label of seq; entering a restricted class is allowed once per route.
func (c *AccessConstraints) ForwardSequenceAllowed(seq []routing.Label, next routing.Label) bool {
	if _, ok := c.restricted[next]; !ok {
		return true
	}
	for _, label := range seq {
		if label == next {
			return false
		}
	}
	return true
}
