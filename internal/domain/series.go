package domain

import (
	"fmt"
	"time"
)

// dateLayout is the civil-date format used by the AWDB API.
const dateLayout = "2006-01-02"

// Window is a bounded, inclusive date range over which a series is requested.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow validates that start does not follow end.
func NewWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, &ValidationError{
			Field:  "window",
			Reason: fmt.Sprintf("end %s before start %s", end.Format(dateLayout), start.Format(dateLayout)),
		}
	}
	return Window{Start: start, End: end}, nil
}

// WindowEndingToday returns a window covering the last years of history,
// ending on the current date. "Today" comes from the package clock so tests
// can freeze it. Non-positive years are rejected before any window exists,
// so an inverted range can never reach the upstream.
func WindowEndingToday(years int) (Window, error) {
	if years < 1 {
		return Window{}, &ValidationError{Field: "years", Reason: fmt.Sprintf("%d is not >= 1", years)}
	}
	end := clock.Now().UTC().Truncate(24 * time.Hour)
	return NewWindow(end.AddDate(-years, 0, 0), end)
}

// StartDate returns the window start formatted for the AWDB API.
func (w Window) StartDate() string { return w.Start.Format(dateLayout) }

// EndDate returns the window end formatted for the AWDB API.
func (w Window) EndDate() string { return w.End.Format(dateLayout) }

// Contains reports whether t falls inside the window, inclusive of both ends.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Observation is a single dated sensor value in source units.
type Observation struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Series is a chronologically ordered sequence of raw observations for one
// (station, sensor) pair over a window. Values are in source units
// (Fahrenheit for temperature sensors).
type Series struct {
	StationID string       `json:"station_id"`
	Kind      SensorKind   `json:"sensor"`
	Window    Window       `json:"-"`
	Points    []Observation `json:"points"`
}

// CleanedSeries is a Series after outlier removal and unit conversion:
// temperatures are Celsius, no value lies outside the Tukey fences computed
// over the source distribution, and chronological order is preserved. It may
// be shorter than its source, never reordered or interpolated.
type CleanedSeries struct {
	StationID string       `json:"station_id"`
	Kind      SensorKind   `json:"sensor"`
	Points    []Observation `json:"points"`
}

// SummaryPoint is the extremum of a cleaned series per the sensor policy,
// carrying the observation it came from verbatim.
type SummaryPoint struct {
	Kind     SensorKind   `json:"sensor"`
	Extremum ExtremumKind `json:"extremum"`
	Value    float64      `json:"value"`
	Date     time.Time    `json:"date"`
}
