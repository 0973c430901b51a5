// Package enum holds label constants that are not CHECK-constrained in the
// database: the day codes used by promotion scheduling.
package enum

import "time"

// Day codes as stored in promotions.days_of_week.
const (
	DayMon = "MON"
	DayTue = "TUE"
	DayWed = "WED"
	DayThu = "THU"
	DayFri = "FRI"
	DaySat = "SAT"
	DaySun = "SUN"
)

// Days lists all day codes in week order starting Monday.
var Days = []string{DayMon, DayTue, DayWed, DayThu, DayFri, DaySat, DaySun}

var weekdayCodes = map[time.Weekday]string{
	time.Monday:    DayMon,
	time.Tuesday:   DayTue,
	time.Wednesday: DayWed,
	time.Thursday:  DayThu,
	time.Friday:    DayFri,
	time.Saturday:  DaySat,
	time.Sunday:    DaySun,
}

// DayCodeFor returns the day code for the given instant.
func DayCodeFor(t time.Time) string {
	return weekdayCodes[t.Weekday()]
}

// IsValidDay reports whether s is one of the seven day codes.
func IsValidDay(s string) bool {
	for _, d := range Days {
		if s == d {
			return true
		}
	}
	return false
}
