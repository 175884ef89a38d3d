package data

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingDraftJSONRoundTrip(t *testing.T) {
	original := &BookingDraft{
		SessionID:  "abc-123",
		PropertyID: "romantic-suite",
		CheckIn:    NewDate(2025, time.August, 1),
		CheckOut:   NewDate(2025, time.August, 4),
		GuestCount: 2,
		HasPet:     true,
		FirstName:  "Jana",
		LastName:   "Kovac",
		Phone:      "38160123456",
		Email:      "jana@example.com",
		Note:       "late arrival",
		Step:       StepGuestDetails,
	}

	var buf bytes.Buffer
	assert.NoError(t, original.ToJSON(&buf))

	restored := &BookingDraft{}
	assert.NoError(t, restored.FromJSON(&buf))

	assert.Equal(t, original, restored)
}

func TestBookingDraftRoundTripEmptyDates(t *testing.T) {
	original := &BookingDraft{SessionID: "abc-123"}

	var buf bytes.Buffer
	assert.NoError(t, original.ToJSON(&buf))

	restored := &BookingDraft{}
	assert.NoError(t, restored.FromJSON(&buf))

	assert.Equal(t, original, restored)
	assert.True(t, restored.CheckIn.IsZero())
}

func TestSetGuestFieldFullName(t *testing.T) {
	draft := &BookingDraft{}

	draft.SetGuestField(FieldFullName, "Jana van der Berg")

	assert.Equal(t, "Jana", draft.FirstName)
	assert.Equal(t, "van der Berg", draft.LastName)
}

func TestFilled(t *testing.T) {
	draft := &BookingDraft{}
	assert.Equal(t, Filled{}, draft.Filled())

	draft.PropertyID = "romantic-suite"
	draft.CheckIn = NewDate(2025, time.August, 1)
	draft.Phone = "38160123456"

	filled := draft.Filled()
	assert.True(t, filled.Property)
	assert.True(t, filled.CheckIn)
	assert.False(t, filled.CheckOut)
	assert.False(t, filled.Name)
	assert.True(t, filled.Phone)
}

func TestFrozen(t *testing.T) {
	draft := &BookingDraft{Step: StepGuestDetails}
	assert.False(t, draft.Frozen())

	draft.Step = StepConfirmation
	assert.True(t, draft.Frozen())
}

func TestDateParse(t *testing.T) {
	d, err := ParseDate("2025-07-24")
	assert.NoError(t, err)
	assert.Equal(t, NewDate(2025, time.July, 24), d)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}
