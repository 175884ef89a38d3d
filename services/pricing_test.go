package services

import (
	"testing"
	"time"

	"booking-service/data"

	"github.com/stretchr/testify/assert"
)

func suiteProperty() *data.Property {
	return &data.Property{
		ID:           "romantic-suite",
		Name:         "Romantic Suite",
		MaxOccupancy: 2,
		NightlyRate:  95,
		CleaningFee:  25,
	}
}

func rooftopProperty() *data.Property {
	return &data.Property{
		ID:            "lucas-rooftop",
		Name:          "Lucas Rooftop",
		MaxOccupancy:  4,
		NightlyRate:   120,
		CleaningFee:   25,
		PetsAllowed:   true,
		PetSupplement: 20,
	}
}

func TestQuoteThreeNights(t *testing.T) {
	svc := NewPricingServiceImpl()
	draft := &data.BookingDraft{
		CheckIn:  data.NewDate(2025, time.August, 1),
		CheckOut: data.NewDate(2025, time.August, 4),
	}

	breakdown := svc.Quote(suiteProperty(), draft)

	assert.Equal(t, 3, breakdown.Nights)
	assert.Equal(t, 285, breakdown.Subtotal)
	assert.Equal(t, 25, breakdown.CleaningFee)
	assert.Equal(t, 0, breakdown.PetSupplement)
	assert.Equal(t, 310, breakdown.Total)
}

func TestQuoteWithPet(t *testing.T) {
	svc := NewPricingServiceImpl()
	draft := &data.BookingDraft{
		CheckIn:  data.NewDate(2025, time.August, 1),
		CheckOut: data.NewDate(2025, time.August, 4),
		HasPet:   true,
	}

	breakdown := svc.Quote(rooftopProperty(), draft)

	assert.Equal(t, 3, breakdown.Nights)
	assert.Equal(t, 360, breakdown.Subtotal)
	assert.Equal(t, 20, breakdown.PetSupplement)
	assert.Equal(t, 405, breakdown.Total)
}

func TestQuotePetOnPetFreeProperty(t *testing.T) {
	svc := NewPricingServiceImpl()
	draft := &data.BookingDraft{
		CheckIn:  data.NewDate(2025, time.August, 1),
		CheckOut: data.NewDate(2025, time.August, 4),
		HasPet:   true,
	}

	// the supplement is silently zero when the property disallows pets
	breakdown := svc.Quote(suiteProperty(), draft)

	assert.Equal(t, 0, breakdown.PetSupplement)
	assert.Equal(t, 310, breakdown.Total)
}

func TestQuoteIncompleteDatesFloorsAtOneNight(t *testing.T) {
	svc := NewPricingServiceImpl()

	breakdown := svc.Quote(suiteProperty(), &data.BookingDraft{})

	assert.Equal(t, 1, breakdown.Nights)
	assert.Equal(t, 95, breakdown.Subtotal)
	assert.Equal(t, 120, breakdown.Total)
}

func TestQuoteDeterministic(t *testing.T) {
	svc := NewPricingServiceImpl()
	draft := &data.BookingDraft{
		CheckIn:  data.NewDate(2025, time.August, 1),
		CheckOut: data.NewDate(2025, time.August, 4),
		HasPet:   true,
	}

	first := svc.Quote(rooftopProperty(), draft)
	second := svc.Quote(rooftopProperty(), draft)

	assert.Equal(t, first, second)
}
