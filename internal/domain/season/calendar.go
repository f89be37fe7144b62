package season

import "time"

const MaxWeeks = 18

// Calendar anchors NFL week numbering for one season. The opening kickoff is
// the first Thursday on or after September 1st of the season year; each week
// spans seven days from there.
type Calendar struct {
	Year    int
	Opening time.Time
}

// NewCalendar derives the season calendar for a year.
func NewCalendar(year int) Calendar {
	septFirst := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
	daysUntilThursday := (int(time.Thursday) - int(septFirst.Weekday()) + 7) % 7
	return Calendar{
		Year:    year,
		Opening: septFirst.AddDate(0, 0, daysUntilThursday),
	}
}

// WeekFor maps an instant to the NFL week number, clamped to [1, MaxWeeks].
// Time is passed in explicitly so callers stay deterministic under test.
func (c Calendar) WeekFor(now time.Time) int {
	if now.Before(c.Opening) {
		return 1
	}
	week := int(now.Sub(c.Opening).Hours()/(24*7)) + 1
	if week > MaxWeeks {
		return MaxWeeks
	}
	return week
}
