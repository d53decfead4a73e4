package book

import "time"

// Clock tracks when the book last swept GoodForDay orders and decides when
// the next sweep is due. The time source is always supplied by the caller
// (ShouldResetDay takes "now" as a parameter) rather than read internally,
// so tests can drive it deterministically and callers can choose whichever
// time.Location their deployment needs instead of the book silently picking
// one.
type Clock struct {
	resetHour   int
	resetMinute int
	lastReset   time.Time
}

// NewClock builds a Clock whose daily sweep fires at resetHour:resetMinute,
// seeded as already reset at now.
func NewClock(resetHour, resetMinute int, now time.Time) *Clock {
	if resetHour < 0 || resetHour > 23 || resetMinute < 0 || resetMinute > 59 {
		panic("book: invalid reset time, hour must be 0-23 and minute 0-59")
	}
	return &Clock{resetHour: resetHour, resetMinute: resetMinute, lastReset: now}
}

// ShouldResetDay reports whether, given now, today's reset time has passed
// since the last recorded reset.
func (c *Clock) ShouldResetDay(now time.Time) bool {
	todayReset := time.Date(now.Year(), now.Month(), now.Day(), c.resetHour, c.resetMinute, 0, 0, now.Location())
	return c.lastReset.Before(todayReset) && !now.Before(todayReset)
}

// MarkResetOccurred records that a sweep happened at now.
func (c *Clock) MarkResetOccurred(now time.Time) {
	c.lastReset = now
}

// SetResetTime reconfigures the daily sweep time.
func (c *Clock) SetResetTime(hour, minute int) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		panic("book: invalid reset time, hour must be 0-23 and minute 0-59")
	}
	c.resetHour = hour
	c.resetMinute = minute
}

// ResetHour returns the configured sweep hour.
func (c *Clock) ResetHour() int { return c.resetHour }

// ResetMinute returns the configured sweep minute.
func (c *Clock) ResetMinute() int { return c.resetMinute }

// LastResetTime returns when the most recent sweep occurred.
func (c *Clock) LastResetTime() time.Time { return c.lastReset }
