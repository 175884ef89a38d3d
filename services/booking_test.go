package services

import (
	"context"
	"testing"
	"time"

	"booking-service/data"
	"booking-service/domain"
	"booking-service/notification"
	"booking-service/voice"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	recipient string
	message   string
}

type bookingFixture struct {
	svc          *BookingServiceImpl
	reservations *memReservationRepo
	drafts       *memDraftStore
	sent         chan sentMessage
}

func newBookingFixture(seed data.Reservations) *bookingFixture {
	logger := testLogger()
	tracer := testTracer()

	reservations := &memReservationRepo{}
	drafts := newMemDraftStore()
	properties := newMemPropertyRepo()

	sent := make(chan sentMessage, 4)
	dispatcher := notification.NewDispatcher(
		[]string{"+38160111111", "+38160222222"},
		func(recipient, message string) error {
			sent <- sentMessage{recipient: recipient, message: message}
			return nil
		},
		0, logger)

	availability := NewAvailabilityServiceImpl(reservations, seed, logger, tracer)
	svc := NewBookingServiceImpl(
		properties, reservations, availability, NewPricingServiceImpl(),
		drafts, voice.NewParser(data.SeedProperties()), dispatcher,
		logger, tracer).(*BookingServiceImpl)

	// pin the clock so availability checks are stable
	svc.now = func() time.Time {
		return time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	}

	return &bookingFixture{
		svc:          svc,
		reservations: reservations,
		drafts:       drafts,
		sent:         sent,
	}
}

func (f *bookingFixture) apply(t *testing.T, sessionID string, intent data.Intent) *data.BookingDraft {
	t.Helper()
	draft, err := f.svc.Apply(context.Background(), sessionID, intent)
	require.NoError(t, err)
	return draft
}

// toGuestDetails walks a fresh session to the guest details step.
func (f *bookingFixture) toGuestDetails(t *testing.T) string {
	t.Helper()
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)
	sessionID := draft.SessionID

	f.apply(t, sessionID, data.SelectProperty("romantic-suite"))
	f.apply(t, sessionID, data.Advance())
	f.apply(t, sessionID, data.SetCheckIn(data.NewDate(2025, time.August, 1)))
	f.apply(t, sessionID, data.SetCheckOut(data.NewDate(2025, time.August, 4)))
	f.apply(t, sessionID, data.SetGuestCount(2))
	f.apply(t, sessionID, data.Advance())

	return sessionID
}

func (f *bookingFixture) fillGuestDetails(t *testing.T, sessionID string) {
	t.Helper()
	f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Jana"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldLastName, "Kovac"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldPhone, "38160123456"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldEmail, "jana@example.com"))
}

func (f *bookingFixture) waitSent(t *testing.T) sentMessage {
	t.Helper()
	select {
	case msg := <-f.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not dispatched")
		return sentMessage{}
	}
}

func TestHappyPathConfirm(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)
	f.fillGuestDetails(t, sessionID)

	draft := f.apply(t, sessionID, data.Confirm())

	assert.Equal(t, data.StepConfirmation, draft.Step)
	assert.True(t, draft.Frozen())

	// the reservation reached the store
	require.Equal(t, 1, f.reservations.count())
	stored, err := f.reservations.GetByProperty(context.Background(), "romantic-suite")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, data.Confirmed, stored[0].Status)
	assert.Equal(t, data.NewDate(2025, time.August, 1), stored[0].CheckIn)
	assert.Equal(t, data.NewDate(2025, time.August, 4), stored[0].CheckOut)

	// both recipients got the summary, in order
	first := f.waitSent(t)
	second := f.waitSent(t)
	assert.Equal(t, "+38160111111", first.recipient)
	assert.Equal(t, "+38160222222", second.recipient)
	assert.Equal(t, first.message, second.message)
	assert.Contains(t, first.message, "Property: Romantic Suite")
	assert.Contains(t, first.message, "Nights: 3")
	assert.Contains(t, first.message, "Total: 310 EUR")
}

func TestAdvanceWithoutPropertyRejected(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), draft.SessionID, data.Advance())

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestFieldIntentBeforeOwningStepRejected(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), draft.SessionID,
		data.SetCheckIn(data.NewDate(2025, time.August, 1)))

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestSelectUnknownPropertyRejected(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), draft.SessionID, data.SelectProperty("villa-nowhere"))

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestOccupancyExceeded(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)
	sessionID := draft.SessionID

	f.apply(t, sessionID, data.SelectProperty("romantic-suite"))
	f.apply(t, sessionID, data.Advance())
	f.apply(t, sessionID, data.SetCheckIn(data.NewDate(2025, time.August, 1)))
	f.apply(t, sessionID, data.SetCheckOut(data.NewDate(2025, time.August, 4)))
	f.apply(t, sessionID, data.SetGuestCount(3))

	_, err = f.svc.Apply(context.Background(), sessionID, data.Advance())

	assert.Equal(t, domain.OccupancyExceeded, domain.KindOf(err))
}

func TestAdvanceOverBlockedRangeRejected(t *testing.T) {
	f := newBookingFixture(suiteReservations())
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)
	sessionID := draft.SessionID

	f.apply(t, sessionID, data.SelectProperty("romantic-suite"))
	f.apply(t, sessionID, data.Advance())
	f.apply(t, sessionID, data.SetCheckIn(data.NewDate(2025, time.July, 25)))
	f.apply(t, sessionID, data.SetCheckOut(data.NewDate(2025, time.July, 26)))
	f.apply(t, sessionID, data.SetGuestCount(2))

	_, err = f.svc.Apply(context.Background(), sessionID, data.Advance())

	assert.Equal(t, domain.InvalidRange, domain.KindOf(err))
}

func TestGoBackKeepsEnteredValues(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)

	draft := f.apply(t, sessionID, data.GoBack())
	assert.Equal(t, data.StepDateSelection, draft.Step)
	assert.Equal(t, data.NewDate(2025, time.August, 1), draft.CheckIn)
	assert.Equal(t, 2, draft.GuestCount)

	// moving forward again needs no re-entry
	draft = f.apply(t, sessionID, data.Advance())
	assert.Equal(t, data.StepGuestDetails, draft.Step)
}

func TestGoBackFromInitialRejected(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), draft.SessionID, data.GoBack())

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestAdvanceFromGuestDetailsRequiresConfirm(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)
	f.fillGuestDetails(t, sessionID)

	_, err := f.svc.Apply(context.Background(), sessionID, data.Advance())

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestConfirmWithBadEmailRejected(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)
	f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Jana"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldLastName, "Kovac"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldPhone, "38160123456"))
	f.apply(t, sessionID, data.SetGuestField(data.FieldEmail, "not-an-email"))

	_, err := f.svc.Apply(context.Background(), sessionID, data.Confirm())

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
	assert.Equal(t, 0, f.reservations.count())
}

func TestConfirmOutsideGuestDetailsRejected(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Apply(context.Background(), draft.SessionID, data.Confirm())

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestDraftFrozenAfterConfirm(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)
	f.fillGuestDetails(t, sessionID)
	f.apply(t, sessionID, data.Confirm())

	_, err := f.svc.Apply(context.Background(), sessionID, data.SetNote("changed my mind"))

	assert.Equal(t, domain.IncompleteStep, domain.KindOf(err))
}

func TestSetGuestFieldIdempotent(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)

	once := f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Jana"))
	twice := f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Jana"))

	assert.Equal(t, once, twice)
}

func TestLastWriteWinsOnSameField(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)

	// a voice-sourced and a click-sourced value for the same field:
	// whichever is applied last sticks
	f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Jana"))
	draft := f.apply(t, sessionID, data.SetGuestField(data.FieldFirstName, "Ana"))

	assert.Equal(t, "Ana", draft.FirstName)
}

func TestStaleAvailabilityOnConfirm(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)
	f.fillGuestDetails(t, sessionID)

	// a competing booker wins the race between the date gate and confirm
	require.NoError(t, f.reservations.Insert(context.Background(), &data.Reservation{
		ID:         "competitor",
		PropertyID: "romantic-suite",
		CheckIn:    data.NewDate(2025, time.August, 2),
		CheckOut:   data.NewDate(2025, time.August, 5),
		Status:     data.Confirmed,
	}))

	_, err := f.svc.Apply(context.Background(), sessionID, data.Confirm())

	assert.Equal(t, domain.StaleAvailability, domain.KindOf(err))
	// only the competitor's reservation is in the store
	assert.Equal(t, 1, f.reservations.count())
}

func TestApplyUtteranceSelectsProperty(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	now := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	updated, clarification, err := f.svc.ApplyUtterance(context.Background(), draft.SessionID, "Lucas Rooftop", now)

	require.NoError(t, err)
	assert.Empty(t, clarification)
	assert.Equal(t, "lucas-rooftop", updated.PropertyID)
}

func TestApplyUtteranceUnparseableLeavesDraftUnchanged(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	now := time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)
	updated, clarification, err := f.svc.ApplyUtterance(context.Background(), draft.SessionID, "banana", now)

	assert.Equal(t, domain.UnparseableUtterance, domain.KindOf(err))
	assert.NotEmpty(t, clarification)
	assert.Equal(t, "", updated.PropertyID)
	assert.Equal(t, data.StepPropertySelection, updated.Step)
}

func TestAbandonDeletesDraft(t *testing.T) {
	f := newBookingFixture(nil)
	draft, err := f.svc.StartSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.svc.Abandon(context.Background(), draft.SessionID))

	_, _, err = f.svc.GetSession(context.Background(), draft.SessionID)
	assert.Error(t, err)
}

func TestDraftSurvivesStoreRoundTrip(t *testing.T) {
	f := newBookingFixture(nil)
	sessionID := f.toGuestDetails(t)

	draft, breakdown, err := f.svc.GetSession(context.Background(), sessionID)

	require.NoError(t, err)
	assert.Equal(t, data.NewDate(2025, time.August, 1), draft.CheckIn)
	assert.Equal(t, data.NewDate(2025, time.August, 4), draft.CheckOut)
	require.NotNil(t, breakdown)
	assert.Equal(t, 310, breakdown.Total)
}
