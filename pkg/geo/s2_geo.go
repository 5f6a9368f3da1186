package geo

import (
	"github.com/aditya-wp/wayfinder/pkg/datastructure"

	"github.com/golang/geo/s2"
)

// ProjectPointToEdge projects a raw query point onto the great-circle segment
// between the two endpoints of an edge. The result is the snapped virtual
// position the visit list candidates are measured from.
func ProjectPointToEdge(from, to, query datastructure.Coordinate) datastructure.Coordinate {
	fromS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(from.Lat, from.Lon))
	toS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(to.Lat, to.Lon))
	queryS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(query.Lat, query.Lon))

	projection := s2.Project(queryS2, fromS2, toS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// AngleDistanceKm s2 angle distance between two coordinates in kilometers.
func AngleDistanceKm(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() * earthRadiusKM
}
