// Package clock defines attendance days. A day is a calendar date in the
// configured location, formatted with model.DayLayout.
package clock

import (
	"time"

	"github.com/nccmultimedia/attendance-server/internal/model"
)

type Clock interface {
	Now() time.Time
}

// System reads the wall clock in Location.
type System struct {
	Location *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{Location: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Day formats t as an attendance day in t's location.
func Day(t time.Time) string {
	return t.Format(model.DayLayout)
}

// Today is the current attendance day of c.
func Today(c Clock) string {
	return Day(c.Now())
}

// DaysBefore returns the day n days before day. Invalid input is returned unchanged.
func DaysBefore(day string, n int) string {
	t, err := time.Parse(model.DayLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, -n).Format(model.DayLayout)
}

// ValidDay reports whether s is a YYYY-MM-DD date.
func ValidDay(s string) bool {
	_, err := time.Parse(model.DayLayout, s)
	return err == nil
}
