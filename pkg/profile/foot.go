package profile

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/paulmach/osm"
)

const walkingSpeedKmh = 5.0

var footAllowedClasses = map[string]struct{}{
	"footway":       {},
	"path":          {},
	"pedestrian":    {},
	"steps":         {},
	"track":         {},
	"living_street": {},
	"residential":   {},
	"service":       {},
	"unclassified":  {},
	"tertiary":      {},
	"secondary":     {},
	"primary":       {},
	"road":          {},
}

// FootProfile traversal and cost rules for a pedestrian. One-way streets do
// not bind pedestrians, so IsOneWay always reports bidirectional.
type FootProfile struct{}

func NewFootProfile() *FootProfile {
	return &FootProfile{}
}

func (p *FootProfile) CanTraverse(tags osm.Tags) bool {
	if _, ok := footAllowedClasses[tags.Find("highway")]; !ok {
		return false
	}
	switch tags.Find("foot") {
	case "no", "none":
		return false
	}
	switch tags.Find("access") {
	case "no", "none":
		return false
	}
	return true
}

func (p *FootProfile) IsOneWay(tags osm.Tags) *bool {
	return nil
}

func (p *FootProfile) Weight(tags osm.Tags, from, to datastructure.Coordinate) float64 {
	return travelTimeMinutes(from, to, walkingSpeedKmh)
}
