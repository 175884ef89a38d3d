package services

import (
	"context"
	"fmt"
	"time"

	"booking-service/data"
	"booking-service/domain"
	"booking-service/utils"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type AvailabilityServiceImpl struct {
	repo    domain.ReservationRepository
	seed    data.Reservations
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
	tracer  trace.Tracer
}

// NewAvailabilityServiceImpl wires the engine to the reservation store.
// The seed list holds reservations that existed before the service
// started taking bookings; it is merged with every read.
func NewAvailabilityServiceImpl(repo domain.ReservationRepository, seed data.Reservations, logger *logrus.Logger, tracer trace.Tracer) AvailabilityService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "ReservationStore",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"path": "services/availability"}).
				Infof("Circuit Breaker %s state changed from %s to %s", name, from, to)
		},
	})

	return &AvailabilityServiceImpl{
		repo:    repo,
		seed:    seed,
		breaker: breaker,
		logger:  logger,
		tracer:  tracer,
	}
}

// IsDateBlocked reports whether day is in the past or falls inside the
// half-open [check-in, check-out) interval of any confirmed reservation
// of the property.
func (s *AvailabilityServiceImpl) IsDateBlocked(propertyID string, day data.Date, reservations data.Reservations, now time.Time) bool {
	if utils.IsPastDate(day, now) {
		return true
	}
	for _, r := range reservations {
		if r.PropertyID != propertyID || r.Status != data.Confirmed {
			continue
		}
		if !day.Before(r.CheckIn) && day.Before(r.CheckOut) {
			return true
		}
	}
	return false
}

// IsRangeFree returns nil only when checkOut is after checkIn and every
// day of [checkIn, checkOut) is unblocked. A zero or inverted range is
// rejected as invalid input, never silently accepted.
func (s *AvailabilityServiceImpl) IsRangeFree(propertyID string, checkIn, checkOut data.Date, reservations data.Reservations, now time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return domain.NewBookingError(domain.InvalidRange, "check-in and check-out dates are required")
	}
	if !checkOut.After(checkIn) {
		return domain.NewBookingError(domain.InvalidRange, "check-out must be after check-in")
	}
	for _, day := range utils.EnumerateDays(checkIn, checkOut) {
		if s.IsDateBlocked(propertyID, day, reservations, now) {
			return domain.NewBookingError(domain.InvalidRange,
				fmt.Sprintf("day %s is not available", day))
		}
	}
	return nil
}

// ResolveDaySelection applies the interactive picking rule: the first
// pick becomes the check-in; a later pick becomes the check-out unless
// the interior of the implied range touches a blocked day, in which
// case the selection restarts from the picked day. A pick on or before
// the current check-in also restarts the selection.
func (s *AvailabilityServiceImpl) ResolveDaySelection(propertyID string, checkIn, checkOut data.Date, picked data.Date, reservations data.Reservations, now time.Time) (data.Date, data.Date) {
	if checkIn.IsZero() || !checkOut.IsZero() {
		return picked, data.Date{}
	}
	if !picked.After(checkIn) {
		return picked, data.Date{}
	}
	for _, day := range utils.EnumerateDays(checkIn.AddDays(1), picked) {
		if s.IsDateBlocked(propertyID, day, reservations, now) {
			return picked, data.Date{}
		}
	}
	return checkIn, picked
}

// CheckRange validates a range against the freshest reservation list
// the store can give us.
func (s *AvailabilityServiceImpl) CheckRange(ctx context.Context, propertyID string, checkIn, checkOut data.Date, now time.Time) error {
	ctx, span := s.tracer.Start(ctx, "AvailabilityService.CheckRange")
	defer span.End()

	reservations, err := s.readMerged(ctx, propertyID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return s.IsRangeFree(propertyID, checkIn, checkOut, reservations, now)
}

// BlockedDays lists the blocked days of [from, to) for calendar
// rendering.
func (s *AvailabilityServiceImpl) BlockedDays(ctx context.Context, propertyID string, from, to data.Date, now time.Time) ([]data.Date, error) {
	ctx, span := s.tracer.Start(ctx, "AvailabilityService.BlockedDays")
	defer span.End()

	reservations, err := s.readMerged(ctx, propertyID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var blocked []data.Date
	for _, day := range utils.EnumerateDays(from, to) {
		if s.IsDateBlocked(propertyID, day, reservations, now) {
			blocked = append(blocked, day)
		}
	}
	return blocked, nil
}

// readMerged combines the seed set with the store's reservations. The
// merge builds a fresh slice; neither input list is mutated and no
// deduplication is attempted (duplicate seed entries are a caller
// responsibility).
func (s *AvailabilityServiceImpl) readMerged(ctx context.Context, propertyID string) (data.Reservations, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.repo.GetByProperty(ctx, propertyID)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{"path": "services/availability"}).Error(err)
		return nil, err
	}
	stored := result.(data.Reservations)

	merged := make(data.Reservations, 0, len(s.seed)+len(stored))
	for _, r := range s.seed {
		if r.PropertyID == propertyID {
			merged = append(merged, r)
		}
	}
	merged = append(merged, stored...)
	return merged, nil
}
