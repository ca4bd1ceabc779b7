package domain_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowEndingToday_UsesClock(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 30, 14, 30, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	w, err := domain.WindowEndingToday(5)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", w.EndDate())
	assert.Equal(t, "2021-08-30", w.StartDate())
}

func TestWindowEndingToday_RejectsNonPositiveYears(t *testing.T) {
	for _, years := range []int{0, -1, -5} {
		_, err := domain.WindowEndingToday(years)
		require.Error(t, err, "years=%d", years)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	}
}

func TestNewWindow_RejectsInvertedRange(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	_, err := domain.NewWindow(start, start.AddDate(0, 0, -1))
	require.Error(t, err)

	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestWindow_Contains(t *testing.T) {
	w, err := domain.NewWindow(
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, w.Contains(w.Start), "inclusive start")
	assert.True(t, w.Contains(w.End), "inclusive end")
	assert.True(t, w.Contains(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, w.Contains(w.Start.AddDate(0, 0, -1)))
	assert.False(t, w.Contains(w.End.AddDate(0, 0, 1)))
}
