package dates_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/dates"
)

func TestParseDayFirst(t *testing.T) {
	cases := map[string]time.Time{
		"25/12/2024":          time.Date(2024, 12, 25, 0, 0, 0, 0, time.Local),
		"25/12/2024 14:30":    time.Date(2024, 12, 25, 14, 30, 0, 0, time.Local),
		"05/01/2025 08:15:42": time.Date(2025, 1, 5, 8, 15, 42, 0, time.Local),
		"":                    time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local),
		"xx/yy/zzzz aa:bb":    time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local),
		"10/03":               time.Date(2000, 3, 10, 0, 0, 0, 0, time.Local),
	}
	for in, want := range cases {
		assert.True(t, want.Equal(dates.ParseDayFirst(in)), "input %q", in)
	}
}

func TestParseISO(t *testing.T) {
	got, err := dates.ParseISO("2024-01-01T00:00:00.000Z")
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	got, err = dates.ParseISO("2024-06-30")
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))

	got, err = dates.ParseISO("2024-06-30T10:20:30")
	require.NoError(t, err)
	require.True(t, got.Equal(time.Date(2024, 6, 30, 10, 20, 30, 0, time.Local)))

	_, err = dates.ParseISO("2024-13-45")
	require.Error(t, err)
}

func TestParseAnyDispatch(t *testing.T) {
	iso, err := dates.ParseAny("2024-02-03T04:05:06Z")
	require.NoError(t, err)
	require.True(t, iso.Equal(time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)))

	dayFirst, err := dates.ParseAny("03/02/2024 04:05:06")
	require.NoError(t, err)
	require.True(t, dayFirst.Equal(time.Date(2024, 2, 3, 4, 5, 6, 0, time.Local)))

	require.True(t, dates.LooksISO("20240203"))
	require.False(t, dates.LooksISO("03/02/2024"))
}

func TestFormatDayFirstRoundTrips(t *testing.T) {
	at := time.Date(2024, 7, 9, 13, 4, 5, 0, time.Local)
	require.Equal(t, "09/07/2024 13:04:05", dates.FormatDayFirst(at))
	require.True(t, at.Equal(dates.ParseDayFirst(dates.FormatDayFirst(at))))
}

func TestMonthsAgo(t *testing.T) {
	now := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC), dates.MonthsAgo(now, 6))
}
