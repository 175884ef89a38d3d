package utils

import (
	"errors"
	"time"

	"booking-service/data"
)

// EnumerateDays lists every calendar day in the half-open interval
// [start, end). The end day is excluded so a check-out day stays free
// for the next booking's check-in. An empty or inverted interval yields
// an empty list, never an error.
func EnumerateDays(start, end data.Date) []data.Date {
	var days []data.Date
	for d := start; d.Before(end); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// NightsBetween counts the nights spanned by [start, end). It always
// equals len(EnumerateDays(start, end)) for valid input. An inverted
// interval is a caller bug and is reported as an error rather than a
// negative count.
func NightsBetween(start, end data.Date) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, errors.New("nights between: missing date")
	}
	if end.Before(start) {
		return 0, errors.New("nights between: end before start")
	}
	return start.DaysUntil(end), nil
}

// IsPastDate reports whether d's calendar day is strictly before now's
// calendar day. Time-of-day is ignored on both sides.
func IsPastDate(d data.Date, now time.Time) bool {
	return d.Before(data.DateOf(now))
}
