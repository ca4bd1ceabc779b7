// Command mockawdb serves a deterministic fake of the AWDB REST API for
// local development and demos, so `scan query` can run without hitting the
// USDA service. It generates a small SCAN catalog around a center point and
// seasonal daily series with a few injected outliers.
//
// Usage:
//
//	go run ./cmd/mockawdb -addr :9105
//	AWDB_BASE_URL=http://localhost:9105 scan query --lat 45.68 --lon -111.04
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

type station struct {
	StationTriplet string  `json:"stationTriplet"`
	Name           string  `json:"name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Elevation      float64 `json:"elevation"`
	NetworkCode    string  `json:"networkCode"`
}

type valueRow struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func main() {
	addr := flag.String("addr", ":9105", "listen address")
	centerLat := flag.Float64("lat", 45.6790, "catalog center latitude")
	centerLon := flag.Float64("lon", -111.0426, "catalog center longitude")
	flag.Parse()

	stations := makeStations(*centerLat, *centerLon)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stations", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, stations)
	})
	mux.HandleFunc("GET /data", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		triplet := q.Get("stationTriplets")
		element := q.Get("elements")
		begin, err1 := time.Parse("2006-01-02", q.Get("beginDate"))
		end, err2 := time.Parse("2006-01-02", q.Get("endDate"))
		if triplet == "" || element == "" || err1 != nil || err2 != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		writeJSON(w, []map[string]any{{
			"stationTriplet": triplet,
			"data": []map[string]any{{
				"values": makeValues(triplet, element, begin, end),
			}},
		}})
	})

	log.Printf("mock AWDB listening on %s (%d stations)", *addr, len(stations))
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func makeStations(lat, lon float64) []station {
	offsets := []struct {
		dLat, dLon float64
		name       string
	}{
		{0.12, 0.05, "Bridger Bench"},
		{-0.30, 0.21, "Willow Creek"},
		{0.45, -0.38, "Sixteen Mile"},
		{-0.72, -0.55, "Norris Flats"},
		{1.05, 0.90, "Crazy Head"},
		{-1.40, 1.12, "Pryor Gap"},
	}
	stations := make([]station, 0, len(offsets)+1)
	for i, o := range offsets {
		stations = append(stations, station{
			StationTriplet: fmt.Sprintf("%d:MT:SCAN", 2000+i),
			Name:           o.name,
			Latitude:       lat + o.dLat,
			Longitude:      lon + o.dLon,
			Elevation:      1200 + 80*float64(i),
			NetworkCode:    "SCAN",
		})
	}
	// One non-SCAN entry, which clients must filter out.
	stations = append(stations, station{
		StationTriplet: "311:MT:SNTL",
		Name:           "Beartooth SNOTEL",
		Latitude:       lat + 0.2,
		Longitude:      lon - 0.2,
		Elevation:      2600,
		NetworkCode:    "SNTL",
	})
	return stations
}

// makeValues produces a seasonal daily series. Temperatures are Fahrenheit,
// moisture is percent. Every 97th day gets an implausible spike so IQR
// fencing has something to remove.
func makeValues(triplet, element string, begin, end time.Time) []valueRow {
	var base, amplitude float64
	switch element {
	case "SMN:-20", "SMN:-40":
		base, amplitude = 22, 8
	case "STX:-20", "STX:-40":
		base, amplitude = 52, 18
	default: // TMAX
		base, amplitude = 55, 35
	}

	// Cheap per-station phase shift so stations differ.
	var phase float64
	for _, c := range triplet {
		phase += float64(c)
	}

	var rows []valueRow
	for d, i := begin, 0; !d.After(end); d, i = d.AddDate(0, 0, 1), i+1 {
		day := float64(d.YearDay())
		v := base + amplitude*math.Sin(2*math.Pi*(day+phase)/365)
		if i%97 == 96 {
			v = base + amplitude*6
		}
		rows = append(rows, valueRow{Date: d.Format("2006-01-02"), Value: math.Round(v*10) / 10})
	}
	return rows
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
