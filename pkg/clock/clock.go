// Package clock defines "today" for the whole application: one timezone,
// one day-key format.
package clock

import (
	"time"

	"github.com/jinzhu/now"
)

const DayLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type realClock struct {
	loc *time.Location
}

func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return realClock{loc: loc}
}

func (c realClock) Now() time.Time           { return time.Now().In(c.loc) }
func (c realClock) Location() *time.Location { return c.loc }

// Fixed is a Clock stuck at one instant.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time           { return f.At }
func (f Fixed) Location() *time.Location { return f.At.Location() }

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := now.With(t.In(loc)).BeginningOfDay()
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats t as YYYY-MM-DD in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// Today is the day key of c.Now().
func Today(c Clock) string {
	return DayKey(c.Now(), c.Location())
}

// ParseDay parses a YYYY-MM-DD key into the start of that day in loc.
func ParseDay(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, loc)
}
