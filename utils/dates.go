// utils/dates.go
package utils

import "time"

const DayLayout = "2006-01-02"

// BeginningOfDay returns midnight of t's calendar day in loc.
func BeginningOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// DayWindow returns the [start, end) range covering t's calendar day in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := BeginningOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}

// DayKey formats t's calendar day in loc as YYYY-MM-DD.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// DaysBetween counts whole calendar days from start to end in loc.
// It is negative when end falls on an earlier day than start.
func DaysBetween(start, end time.Time, loc *time.Location) int {
	sy, sm, sd := start.In(loc).Date()
	ey, em, ed := end.In(loc).Date()
	// UTC midnights keep DST shifts out of the arithmetic.
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// MonthRange returns the [start, end) range of a calendar month in loc.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
