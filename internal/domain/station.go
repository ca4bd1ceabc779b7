package domain

import "sort"

// Station is one SCAN installation as reported by the catalog. Immutable
// once loaded.
type Station struct {
	ID         string     `json:"id"` // station triplet, e.g. "2218:WY:SCAN"
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
	Elevation  float64    `json:"elevation"` // meters
	Network    string     `json:"network"`
}

// RankedStation pairs a station with its distance from a query origin.
type RankedStation struct {
	Station       Station `json:"station"`
	DistanceMiles float64 `json:"distance_miles"`
}

// RankStations returns the k stations closest to origin, sorted ascending by
// haversine distance with ties broken by station id. The result length is
// min(k, len(stations)); the input slice is not modified.
func RankStations(origin Coordinate, stations []Station, k int) []RankedStation {
	ranked := make([]RankedStation, 0, len(stations))
	for _, s := range stations {
		ranked = append(ranked, RankedStation{
			Station:       s,
			DistanceMiles: Distance(origin, s.Coordinate),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceMiles != ranked[j].DistanceMiles {
			return ranked[i].DistanceMiles < ranked[j].DistanceMiles
		}
		return ranked[i].Station.ID < ranked[j].Station.ID
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
