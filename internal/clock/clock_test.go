package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToUTC(t *testing.T) {
	c := New()
	require.Equal(t, time.UTC, c.Location(""))
	require.Equal(t, time.UTC, c.Location("Not/AZone"))

	jakarta := c.Location("Asia/Jakarta")
	require.Equal(t, "Asia/Jakarta", jakarta.String())
	// Second lookup hits the cache and returns the same instance
	require.Same(t, jakarta, c.Location("Asia/Jakarta"))
}

func TestSameDayRespectsZone(t *testing.T) {
	c := New()
	jakarta := c.Location("Asia/Jakarta") // UTC+7

	// 22:00 UTC and 02:00 UTC next day are different days in UTC but
	// the same day in Jakarta (05:00 and 09:00 local).
	a := time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	require.False(t, c.SameDay(a, b, time.UTC))
	require.True(t, c.SameDay(a, b, jakarta))
}

func TestStartAndEndOfDay(t *testing.T) {
	c := New()
	now := time.Date(2025, 6, 15, 13, 45, 12, 0, time.UTC)
	require.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), c.StartOfDay(now, time.UTC))
	require.Equal(t, time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC), c.EndOfDay(now, time.UTC))
}

func TestDaysLate(t *testing.T) {
	c := New()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Due today: normalized to 23:59:59, not late yet.
	require.Equal(t, 0, c.DaysLate(now, now, time.UTC))

	// Due yesterday morning: one whole day late.
	due := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	require.Equal(t, 1, c.DaysLate(due, now, time.UTC))

	// Due 5 and 40 days ago.
	require.Equal(t, 5, c.DaysLate(now.AddDate(0, 0, -5), now, time.UTC))
	require.Equal(t, 40, c.DaysLate(now.AddDate(0, 0, -40), now, time.UTC))

	// Due in the future.
	require.Equal(t, 0, c.DaysLate(now.AddDate(0, 0, 3), now, time.UTC))
}

func TestDaysLateAcrossDSTTransition(t *testing.T) {
	c := New()
	ny := c.Location("America/New_York")
	require.Equal(t, "America/New_York", ny.String())

	// US spring-forward 2025-03-09: the day is only 23 wall-clock
	// hours, but one calendar day late is still one day late.
	due := time.Date(2025, 3, 8, 10, 0, 0, 0, ny)
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, ny)
	require.Equal(t, 1, c.DaysLate(due, now, ny))

	// Fall-back 2025-11-02: a 25-hour day must not count as two.
	due = time.Date(2025, 11, 1, 10, 0, 0, 0, ny)
	now = time.Date(2025, 11, 2, 12, 0, 0, 0, ny)
	require.Equal(t, 1, c.DaysLate(due, now, ny))
}

func TestLastDayOfMonth(t *testing.T) {
	c := New()
	require.Equal(t, 31, c.LastDayOfMonth(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), time.UTC))
	require.Equal(t, 28, c.LastDayOfMonth(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC))
	require.Equal(t, 29, c.LastDayOfMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.UTC))
	require.Equal(t, 30, c.LastDayOfMonth(time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC), time.UTC))
}

func TestISOWeekday(t *testing.T) {
	c := New()
	// 2025-06-09 is a Monday, 2025-06-15 a Sunday.
	require.Equal(t, 1, c.ISOWeekday(time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), time.UTC))
	require.Equal(t, 7, c.ISOWeekday(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), time.UTC))
	require.Equal(t, 3, c.ISOWeekday(time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC), time.UTC))
}
