package domain_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func makeSeries(kind domain.SensorKind, values ...float64) domain.Series {
	s := domain.Series{StationID: "2001:CO:SCAN", Kind: kind}
	for i, v := range values {
		s.Points = append(s.Points, domain.Observation{Date: day(i), Value: v})
	}
	return s
}

func TestClean_RemovesOutlierAndConvertsToCelsius(t *testing.T) {
	// 200F is far outside the Tukey fences of [30..33]; the surviving
	// values convert from Fahrenheit to Celsius.
	s := makeSeries(domain.SoilTemp20, 30, 31, 32, 33, 200)

	cleaned := domain.Clean(s)
	require.Len(t, cleaned.Points, 4)
	assert.Equal(t, 1, domain.OutliersRemoved(s, cleaned))

	want := []float64{-1.1111, -0.5556, 0, 0.5556}
	for i, w := range want {
		assert.InDelta(t, w, cleaned.Points[i].Value, 0.001, "point %d", i)
		assert.Equal(t, day(i), cleaned.Points[i].Date)
	}
}

func TestClean_FewerThanFourPointsConvertsOnly(t *testing.T) {
	// IQR is undefined for tiny samples: even an implausible spike stays,
	// but unit conversion still applies.
	s := makeSeries(domain.AmbientTemp, 32, 212, 100)

	cleaned := domain.Clean(s)
	require.Len(t, cleaned.Points, 3)
	assert.InDelta(t, 0.0, cleaned.Points[0].Value, 1e-9)
	assert.InDelta(t, 100.0, cleaned.Points[1].Value, 1e-9)
	assert.InDelta(t, 37.7778, cleaned.Points[2].Value, 0.001)
}

func TestClean_MoistureKeepsSourceUnits(t *testing.T) {
	s := makeSeries(domain.SoilMoisture20, 18, 20, 22, 24)

	cleaned := domain.Clean(s)
	require.Len(t, cleaned.Points, 4)

	got := make([]float64, len(cleaned.Points))
	for i, p := range cleaned.Points {
		got[i] = p.Value
	}
	if diff := cmp.Diff([]float64{18, 20, 22, 24}, got); diff != "" {
		t.Fatalf("moisture values changed (-want +got):\n%s", diff)
	}
}

func TestClean_PreservesChronologicalOrder(t *testing.T) {
	s := makeSeries(domain.SoilMoisture40, 10, 90, 11, 12, 13, 11, 90, 12)

	cleaned := domain.Clean(s)
	for i := 1; i < len(cleaned.Points); i++ {
		assert.True(t, cleaned.Points[i-1].Date.Before(cleaned.Points[i].Date),
			"points must stay chronological")
	}
}

func TestClean_NoRetainedValueOutsideFences(t *testing.T) {
	s := makeSeries(domain.SoilMoisture20,
		14, 15, 16, 15, 14, 17, 16, 15, 55, 14, 16, 2, 15, 17)

	cleaned := domain.Clean(s)
	require.NotEmpty(t, cleaned.Points)

	// Recompute the fences over the raw distribution the way Clean does:
	// sorted values, quartiles by linear interpolation.
	lo, hi := tukeyFences(t, s)
	for _, p := range cleaned.Points {
		assert.GreaterOrEqual(t, p.Value, lo)
		assert.LessOrEqual(t, p.Value, hi)
	}
	assert.Less(t, len(cleaned.Points), len(s.Points), "spikes should have been dropped")
}

func TestClean_EmptySeries(t *testing.T) {
	cleaned := domain.Clean(domain.Series{StationID: "x", Kind: domain.SoilTemp40})
	assert.Empty(t, cleaned.Points)
	assert.Equal(t, domain.SoilTemp40, cleaned.Kind)
}

func TestFahrenheitToCelsius(t *testing.T) {
	assert.InDelta(t, 0.0, domain.FahrenheitToCelsius(32), 1e-9)
	assert.InDelta(t, 100.0, domain.FahrenheitToCelsius(212), 1e-9)
	assert.InDelta(t, -40.0, domain.FahrenheitToCelsius(-40), 1e-9)
}

// tukeyFences mirrors the cleaning bounds for property checks.
func tukeyFences(t *testing.T, s domain.Series) (float64, float64) {
	t.Helper()
	values := make([]float64, len(s.Points))
	for i, p := range s.Points {
		values[i] = p.Value
	}
	sortFloats(values)
	q1 := interpQuantile(values, 0.25)
	q3 := interpQuantile(values, 0.75)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}

func sortFloats(v []float64) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func interpQuantile(sorted []float64, p float64) float64 {
	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	frac := rank - float64(lower)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
