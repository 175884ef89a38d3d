package services

import (
	"context"
	"time"

	"booking-service/data"
)

// AvailabilityService answers whether days and ranges of a property are
// open for booking. The pure checks operate on whatever reservation
// list the caller assembled (seed set plus dynamically added ones); the
// repository-backed methods perform that merge themselves, so the
// answer is only as fresh as the read behind it.
type AvailabilityService interface {
	IsDateBlocked(propertyID string, day data.Date, reservations data.Reservations, now time.Time) bool
	IsRangeFree(propertyID string, checkIn, checkOut data.Date, reservations data.Reservations, now time.Time) error
	ResolveDaySelection(propertyID string, checkIn, checkOut data.Date, picked data.Date, reservations data.Reservations, now time.Time) (data.Date, data.Date)
	CheckRange(ctx context.Context, propertyID string, checkIn, checkOut data.Date, now time.Time) error
	BlockedDays(ctx context.Context, propertyID string, from, to data.Date, now time.Time) ([]data.Date, error)
}
