// Package export flattens query results into numeric records for download.
// Column names carry the units ("Distance to Installation (miles)"); cell
// values are bare numbers so the files parse back losslessly. Distances are
// always miles and temperatures always Celsius at this boundary.
package export

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/pipeline"
)

// StationHeader is the column layout of the station metadata export.
var StationHeader = []string{
	"SCAN Site",
	"Station Triplet",
	"Elevation (m)",
	"Distance to Installation (miles)",
	"Latitude",
	"Longitude",
}

// OverviewHeader is the column layout of the per-station summary export.
// The combined soil moisture column is the lesser of the two depth minima.
var OverviewHeader = []string{
	"SCAN Site",
	"Station Triplet",
	"Distance to Installation (miles)",
	"Soil Moisture Minimum (pct)",
	"Soil Moisture Minimum 20in (pct)",
	"Soil Moisture Minimum 40in (pct)",
	"Soil Temp Maximum 20in (C)",
	"Soil Temp Maximum 40in (C)",
	"Ambient Temp Maximum (C)",
}

// StationRows flattens ranked stations into export records, one per station,
// in ranking order.
func StationRows(stations []domain.RankedStation) [][]string {
	rows := make([][]string, 0, len(stations))
	for _, rs := range stations {
		rows = append(rows, []string{
			rs.Station.Name,
			rs.Station.ID,
			formatValue(rs.Station.Elevation),
			formatValue(rs.DistanceMiles),
			formatValue(rs.Station.Coordinate.Latitude),
			formatValue(rs.Station.Coordinate.Longitude),
		})
	}
	return rows
}

// OverviewRows flattens per-station summaries into export records. A sensor
// with no summary (no data, or its fetch failed) renders as an empty cell;
// the row itself always appears.
func OverviewRows(report *pipeline.Report) [][]string {
	rows := make([][]string, 0, len(report.Stations))
	for _, rs := range report.Stations {
		m20 := summaryValue(report, rs.Station.ID, domain.SoilMoisture20)
		m40 := summaryValue(report, rs.Station.ID, domain.SoilMoisture40)

		rows = append(rows, []string{
			rs.Station.Name,
			rs.Station.ID,
			formatValue(rs.DistanceMiles),
			formatOptional(combinedMoistureMin(m20, m40)),
			formatOptional(m20),
			formatOptional(m40),
			formatOptional(summaryValue(report, rs.Station.ID, domain.SoilTemp20)),
			formatOptional(summaryValue(report, rs.Station.ID, domain.SoilTemp40)),
			formatOptional(summaryValue(report, rs.Station.ID, domain.AmbientTemp)),
		})
	}
	return rows
}

// WriteCSV writes a header and rows as RFC 4180 CSV.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func summaryValue(report *pipeline.Report, stationID string, kind domain.SensorKind) *float64 {
	res, ok := report.Result(stationID, kind)
	if !ok || res.Err != nil || res.Summary == nil {
		return nil
	}
	v := res.Summary.Value
	return &v
}

// combinedMoistureMin mirrors the overview table's single moisture column:
// the lesser of the per-depth minima, or whichever is present.
func combinedMoistureMin(m20, m40 *float64) *float64 {
	switch {
	case m20 != nil && m40 != nil:
		v := math.Min(*m20, *m40)
		return &v
	case m20 != nil:
		return m20
	case m40 != nil:
		return m40
	default:
		return nil
	}
}

// formatValue renders a float with the shortest representation that parses
// back to the identical value.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatValue(*v)
}
