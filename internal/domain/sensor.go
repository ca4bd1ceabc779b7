package domain

// SensorKind identifies one of the five daily element series tracked per
// SCAN station.
type SensorKind string

const (
	SoilMoisture20 SensorKind = "soil_moisture_20"
	SoilMoisture40 SensorKind = "soil_moisture_40"
	SoilTemp20     SensorKind = "soil_temp_20"
	SoilTemp40     SensorKind = "soil_temp_40"
	AmbientTemp    SensorKind = "ambient_temp"
)

// ExtremumKind selects which end of a cleaned series a summary reports.
type ExtremumKind string

const (
	Min ExtremumKind = "min"
	Max ExtremumKind = "max"
)

// AllSensorKinds returns the sensors fetched for every station, in display order.
func AllSensorKinds() []SensorKind {
	return []SensorKind{SoilMoisture20, SoilMoisture40, SoilTemp20, SoilTemp40, AmbientTemp}
}

// Valid reports whether k is one of the known sensor kinds.
func (k SensorKind) Valid() bool {
	switch k {
	case SoilMoisture20, SoilMoisture40, SoilTemp20, SoilTemp40, AmbientTemp:
		return true
	default:
		return false
	}
}

// ElementCode returns the AWDB element code for the sensor, e.g. "SMN:-20".
func (k SensorKind) ElementCode() string {
	switch k {
	case SoilMoisture20:
		return "SMN:-20"
	case SoilMoisture40:
		return "SMN:-40"
	case SoilTemp20:
		return "STX:-20"
	case SoilTemp40:
		return "STX:-40"
	case AmbientTemp:
		return "TMAX"
	default:
		return ""
	}
}

// IsTemperature reports whether the sensor measures temperature. Temperature
// values arrive in Fahrenheit and are converted to Celsius during cleaning.
func (k SensorKind) IsTemperature() bool {
	switch k {
	case SoilTemp20, SoilTemp40, AmbientTemp:
		return true
	default:
		return false
	}
}

// DepthInches returns the sensor depth in inches, or 0 for above-ground sensors.
func (k SensorKind) DepthInches() int {
	switch k {
	case SoilMoisture20, SoilTemp20:
		return 20
	case SoilMoisture40, SoilTemp40:
		return 40
	default:
		return 0
	}
}

// Extremum returns which extremum summarization reports for the sensor:
// minimum for moisture (drought indicator), maximum for temperature.
func (k SensorKind) Extremum() ExtremumKind {
	if k.IsTemperature() {
		return Max
	}
	return Min
}
