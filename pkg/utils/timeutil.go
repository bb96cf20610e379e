package utils

import (
	"time"
)

// LoadLocation resolves an IANA time zone name, falling back to UTC when the
// name is empty or unknown. Yahoo chart metadata carries the exchange zone
// (e.g. "America/New_York"); price series without one are treated as UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// YearStart returns midnight on January 1 of the given year in loc.
func YearStart(year int, loc *time.Location) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
}

// YearEnd returns the last instant of December 31 of the given year in loc.
func YearEnd(year int, loc *time.Location) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
}

// Timestamp returns the compact timestamp used in output file names.
func Timestamp(t time.Time) string {
	return t.Format("20060102_150405")
}
