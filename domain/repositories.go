package domain

import (
	"context"

	"booking-service/data"
)

// ReservationRepository is the caller-owned reservation ledger. The
// availability engine only ever sees the list a read returned; it is as
// fresh as that read and no fresher, which is why the confirm path
// re-reads before writing.
type ReservationRepository interface {
	GetByProperty(ctx context.Context, propertyID string) (data.Reservations, error)
	Insert(ctx context.Context, reservation *data.Reservation) error
}

// PropertyRepository serves the immutable property catalog.
type PropertyRepository interface {
	GetAll(ctx context.Context) (data.Properties, error)
	GetByID(ctx context.Context, id string) (*data.Property, error)
}

// DraftStore keeps in-progress drafts between page loads. The only
// contract is round-trip fidelity of the draft's JSON shape, date
// fields included.
type DraftStore interface {
	Save(ctx context.Context, draft *data.BookingDraft) error
	Load(ctx context.Context, sessionID string) (*data.BookingDraft, error)
	Delete(ctx context.Context, sessionID string) error
}
