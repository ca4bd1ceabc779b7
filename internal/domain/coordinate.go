package domain

import (
	"fmt"
	"math"
)

// earthRadiusMiles is the mean Earth radius used for great-circle distances.
const earthRadiusMiles = 3958.8

// Coordinate is a WGS-84 latitude/longitude pair. Construct via
// NewCoordinate so range validation happens before any network activity.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewCoordinate validates latitude and longitude ranges and returns the
// coordinate, or a ValidationError when out of range.
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinate{}, &ValidationError{
			Field:  "latitude",
			Reason: fmt.Sprintf("%v outside [-90, 90]", lat),
		}
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Coordinate{}, &ValidationError{
			Field:  "longitude",
			Reason: fmt.Sprintf("%v outside [-180, 180]", lon),
		}
	}
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}

// Distance returns the haversine great-circle distance between a and b in
// miles. It is symmetric and zero (within floating epsilon) for identical
// points.
func Distance(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMiles * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
