package domain

import "fmt"

// ValidationError reports malformed caller input (coordinate, window, sensor
// kind, station count). It is raised before any network activity.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DataSourceError reports an upstream failure: the provider was unreachable,
// timed out, or returned a payload that could not be parsed. It is scoped to
// a single catalog or series request; one failing station/sensor never
// poisons its siblings.
type DataSourceError struct {
	Op      string     // "catalog" or "series"
	Station string     // station triplet, empty for catalog fetches
	Sensor  SensorKind // zero value for catalog fetches
	Err     error
}

func (e *DataSourceError) Error() string {
	if e.Station == "" {
		return fmt.Sprintf("%s fetch: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s fetch for %s %s: %v", e.Op, e.Station, e.Sensor, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
