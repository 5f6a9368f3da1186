package profile

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/paulmach/osm"
)

// default speed per highway class in km/h, used when the way carries no
// usable maxspeed tag
var carClassSpeeds = map[string]float64{
	"motorway":       90,
	"motorway_link":  45,
	"trunk":          80,
	"trunk_link":     40,
	"primary":        60,
	"primary_link":   30,
	"secondary":      50,
	"secondary_link": 25,
	"tertiary":       40,
	"tertiary_link":  20,
	"unclassified":   30,
	"residential":    25,
	"living_street":  10,
	"service":        15,
	"road":           20,
}

// CarProfile traversal and cost rules for a regular passenger car. Weight is
// travel time in minutes.
type CarProfile struct{}

func NewCarProfile() *CarProfile {
	return &CarProfile{}
}

func (p *CarProfile) CanTraverse(tags osm.Tags) bool {
	if _, ok := carClassSpeeds[tags.Find("highway")]; !ok {
		return false
	}
	switch tags.Find("motor_vehicle") {
	case "no", "none":
		return false
	}
	switch tags.Find("access") {
	case "no", "none":
		return false
	}
	return true
}

func (p *CarProfile) IsOneWay(tags osm.Tags) *bool {
	return oneWayFromTags(tags)
}

func (p *CarProfile) Weight(tags osm.Tags, from, to datastructure.Coordinate) float64 {
	speed, ok := parseMaxSpeed(tags)
	if !ok {
		speed = carClassSpeeds[tags.Find("highway")]
	}
	if speed <= 0 {
		speed = carClassSpeeds["road"]
	}
	return travelTimeMinutes(from, to, speed)
}
