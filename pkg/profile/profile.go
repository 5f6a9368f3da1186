package profile

import (
	"strconv"
	"strings"

	"github.com/aditya-wp/wayfinder/pkg/datastructure"
	"github.com/aditya-wp/wayfinder/pkg/geo"

	"github.com/paulmach/osm"
)

// travel time weights are minutes

func parseMaxSpeed(tags osm.Tags) (float64, bool) {
	raw := strings.TrimSpace(tags.Find("maxspeed"))
	if raw == "" || raw == "none" || raw == "signals" {
		return 0, false
	}
	mph := false
	if strings.HasSuffix(raw, "mph") {
		mph = true
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "mph"))
	}
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "km/h"))
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil || speed <= 0 {
		return 0, false
	}
	if mph {
		speed *= 1.609344
	}
	return speed, true
}

func oneWayFromTags(tags osm.Tags) *bool {
	forwardOnly := true
	reverseOnly := false
	if tags.Find("junction") == "roundabout" {
		return &forwardOnly
	}
	switch tags.Find("oneway") {
	case "yes", "true", "1":
		return &forwardOnly
	case "-1", "reverse":
		return &reverseOnly
	}
	return nil
}

func travelTimeMinutes(from, to datastructure.Coordinate, speedKmh float64) float64 {
	distKm := geo.CalculateHaversineDistance(from.Lat, from.Lon, to.Lat, to.Lon)
	return distKm / speedKmh * 60.0
}
