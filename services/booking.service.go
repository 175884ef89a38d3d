package services

import (
	"context"
	"time"

	"booking-service/data"
)

// BookingService owns the draft workflow. Every intent, whether it came
// from a pointer event or a parsed utterance, is applied synchronously
// to the session's draft; the last write to a field wins regardless of
// channel.
type BookingService interface {
	StartSession(ctx context.Context) (*data.BookingDraft, error)
	GetSession(ctx context.Context, sessionID string) (*data.BookingDraft, *data.PricingBreakdown, error)
	Apply(ctx context.Context, sessionID string, intent data.Intent) (*data.BookingDraft, error)
	ApplyUtterance(ctx context.Context, sessionID string, utterance string, now time.Time) (*data.BookingDraft, string, error)
	Abandon(ctx context.Context, sessionID string) error
}
