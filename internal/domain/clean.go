package domain

import (
	"math"
	"sort"
)

// CleaningPolicyVersion names the current outlier policy. It participates in
// cleaned-series cache keys so a policy change never reuses stale cleaned
// data. Bump when the fencing rule changes.
const CleaningPolicyVersion = "iqr15-v1"

// iqrMultiplier is the conventional Tukey fence width.
const iqrMultiplier = 1.5

// Clean removes statistical outliers from a raw series and converts
// temperature values from Fahrenheit to Celsius. Fencing happens before
// conversion so the bounds are computed in one unit system. Series with
// fewer than four points skip fencing (the IQR is undefined for such small
// samples) but still get unit conversion. Clean never fails; an empty or
// all-outlier input yields an empty cleaned series.
func Clean(s Series) CleanedSeries {
	kept := s.Points
	if len(s.Points) >= 4 {
		values := make([]float64, len(s.Points))
		for i, p := range s.Points {
			values[i] = p.Value
		}
		sort.Float64s(values)

		q1 := quantile(values, 0.25)
		q3 := quantile(values, 0.75)
		iqr := q3 - q1
		lo := q1 - iqrMultiplier*iqr
		hi := q3 + iqrMultiplier*iqr

		kept = make([]Observation, 0, len(s.Points))
		for _, p := range s.Points {
			if p.Value < lo || p.Value > hi {
				continue
			}
			kept = append(kept, p)
		}
	}

	out := make([]Observation, len(kept))
	copy(out, kept)
	if s.Kind.IsTemperature() {
		for i := range out {
			out[i].Value = FahrenheitToCelsius(out[i].Value)
		}
	}

	return CleanedSeries{StationID: s.StationID, Kind: s.Kind, Points: out}
}

// OutliersRemoved returns how many observations cleaning dropped from raw.
func OutliersRemoved(raw Series, cleaned CleanedSeries) int {
	return len(raw.Points) - len(cleaned.Points)
}

// quantile computes the p-th quantile of sorted values using linear
// interpolation between order statistics (the same definition pandas and
// numpy use by default).
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// FahrenheitToCelsius converts a temperature reading to the canonical
// output unit.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}
