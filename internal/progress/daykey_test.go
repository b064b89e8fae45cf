package progress_test

import (
	"testing"
	"time"

	"github.com/rehastep/rehastep-backend/internal/progress"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCompletionTime(t *testing.T) {
	// 23:30 UTC on Jan 1st is already Jan 2nd in Tokyo, still Jan 1st in New York
	instant := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	tokyo, err := progress.NormalizeCompletionTime(instant, "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", tokyo.DayKey)
	assert.Equal(t, 8, tokyo.Local.Hour())

	newYork, err := progress.NormalizeCompletionTime(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", newYork.DayKey)
	assert.Equal(t, 18, newYork.Local.Hour())
}

func TestNormalizeCompletionTime_DSTTransition(t *testing.T) {
	// 2024-03-10 is the US spring forward day, 02:00 local jumps to 03:00;
	// 06:30 UTC is 01:30 EST, still before the jump
	instant := time.Date(2024, 3, 10, 6, 30, 0, 0, time.UTC)
	local, err := progress.NormalizeCompletionTime(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", local.DayKey)
	assert.Equal(t, 1, local.Local.Hour())

	// one hour later UTC lands after the jump, but the calendar day holds
	instant = time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC)
	local, err = progress.NormalizeCompletionTime(instant, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", local.DayKey)
	assert.Equal(t, 3, local.Local.Hour())
}

func TestNormalizeCompletionTime_InvalidTimezone(t *testing.T) {
	for _, timezone := range []string{"", "Mars/Olympus_Mons", "EST5EDT4garbage"} {
		_, err := progress.NormalizeCompletionTime(time.Now(), timezone)
		assert.ErrorIs(t, err, progress.ErrInvalidTimezone, "timezone %q", timezone)
	}
}

func TestDiffDays(t *testing.T) {
	testCases := []struct {
		name     string
		prevKey  string
		newKey   string
		expected int
	}{
		{name: "same day", prevKey: "2024-01-01", newKey: "2024-01-01", expected: 0},
		{name: "next day", prevKey: "2024-01-01", newKey: "2024-01-02", expected: 1},
		{name: "three days later", prevKey: "2024-01-01", newKey: "2024-01-04", expected: 3},
		{name: "day earlier", prevKey: "2024-01-02", newKey: "2024-01-01", expected: -1},
		{name: "across spring forward", prevKey: "2024-03-09", newKey: "2024-03-11", expected: 2},
		{name: "across fall back", prevKey: "2024-11-02", newKey: "2024-11-04", expected: 2},
		{name: "across month boundary", prevKey: "2024-01-31", newKey: "2024-02-01", expected: 1},
		{name: "leap day", prevKey: "2024-02-28", newKey: "2024-03-01", expected: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			diff, err := progress.DiffDays(tc.prevKey, tc.newKey)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, diff)
		})
	}
}

func TestDiffDays_MalformedKey(t *testing.T) {
	_, err := progress.DiffDays("not-a-date", "2024-01-01")
	assert.Error(t, err)
}
