package season

import (
	"testing"
	"time"
)

func TestNewCalendar_OpeningIsThursday(t *testing.T) {
	for year := 2020; year <= 2030; year++ {
		cal := NewCalendar(year)
		if cal.Opening.Weekday() != time.Thursday {
			t.Fatalf("year %d: opening %s is not a Thursday", year, cal.Opening)
		}
		if cal.Opening.Month() != time.September {
			t.Fatalf("year %d: opening %s is not in September", year, cal.Opening)
		}
	}
}

func TestCalendar_WeekFor(t *testing.T) {
	cal := NewCalendar(2025)

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"before opening", cal.Opening.Add(-48 * time.Hour), 1},
		{"opening kickoff", cal.Opening, 1},
		{"sunday of week one", cal.Opening.Add(72 * time.Hour), 1},
		{"start of week two", cal.Opening.AddDate(0, 0, 7), 2},
		{"mid season", cal.Opening.AddDate(0, 0, 9*7+3), 10},
		{"past the season", cal.Opening.AddDate(0, 0, 30*7), MaxWeeks},
	}

	for _, tc := range tests {
		if got := cal.WeekFor(tc.at); got != tc.want {
			t.Fatalf("%s: WeekFor(%s) = %d, want %d", tc.name, tc.at, got, tc.want)
		}
	}
}
