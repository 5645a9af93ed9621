package clock

import (
	"time"

	"habit-quest-api/internal/cache"
)

// Clock centralizes every calendar-day computation the engine makes.
// All "is this the same day" and "how late is this" questions route
// through here in the owning user's time zone, which keeps the sweep's
// once-per-day guard consistent across call sites.
type Clock struct {
	// Now is swappable in tests.
	Now func() time.Time

	locations *cache.TTLCache[string, *time.Location]
}

// New returns a Clock backed by the real wall clock.
func New() *Clock {
	return &Clock{
		Now:       time.Now,
		locations: cache.New[string, *time.Location](),
	}
}

// Location resolves an IANA zone name, falling back to UTC when the
// name is empty or unknown. Resolved zones are cached.
func (c *Clock) Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	if loc, ok := c.locations.Get(tz); ok {
		return loc
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	c.locations.Set(tz, loc, 0)
	return loc
}

// StartOfDay returns midnight of t's calendar day in loc.
func (c *Clock) StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns 23:59:59 of t's calendar day in loc.
func (c *Clock) EndOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func (c *Clock) SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// NormalizeDue shifts a stored due instant to 23:59:59 of its calendar
// day in loc, so a task is never late on its own due day.
func (c *Clock) NormalizeDue(due time.Time, loc *time.Location) time.Time {
	return c.EndOfDay(due, loc)
}

// DaysLate returns the number of whole calendar days that now is past
// the (normalized) due instant, or 0 if not past due. The difference
// is taken between calendar dates, not wall-clock hours, so a DST
// transition inside the window cannot shave off a day.
func (c *Clock) DaysLate(due, now time.Time, loc *time.Location) int {
	if !now.After(c.NormalizeDue(due, loc)) {
		return 0
	}
	days := int(utcDate(now.In(loc)).Sub(utcDate(due.In(loc))).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// utcDate re-expresses t's calendar date as UTC midnight, giving a
// fixed 24h day length for date subtraction.
func utcDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the final calendar day number of the month
// containing t in loc.
func (c *Clock) LastDayOfMonth(t time.Time, loc *time.Location) int {
	t = t.In(loc)
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// ISOWeekday returns t's weekday in loc as 1=Monday..7=Sunday.
func (c *Clock) ISOWeekday(t time.Time, loc *time.Location) int {
	wd := int(t.In(loc).Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
