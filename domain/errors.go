package domain

import "errors"

// ErrorKind classifies every recoverable rejection the booking core can
// produce, so the interface layer can render a specific corrective
// message instead of a generic failure.
type ErrorKind string

const (
	InvalidRange         ErrorKind = "invalid_range"
	OccupancyExceeded    ErrorKind = "occupancy_exceeded"
	IncompleteStep       ErrorKind = "incomplete_step"
	UnparseableUtterance ErrorKind = "unparseable_utterance"
	StaleAvailability    ErrorKind = "stale_availability"
)

type BookingError struct {
	Kind    ErrorKind
	Message string
}

func (e *BookingError) Error() string {
	return e.Message
}

func NewBookingError(kind ErrorKind, message string) *BookingError {
	return &BookingError{Kind: kind, Message: message}
}

// KindOf returns the classification of err, or "" when err is not a
// booking rejection (a programming error surfaced upward).
func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
