package services

import (
	"booking-service/data"
	"booking-service/utils"
)

type PricingServiceImpl struct{}

func NewPricingServiceImpl() PricingService {
	return &PricingServiceImpl{}
}

// Quote computes the breakdown in whole currency units. While the draft
// has no complete date range the night count floors at 1 so the UI can
// show a provisional price; confirmation is gated elsewhere until real
// dates produce at least one night. A pet on a property that disallows
// pets charges no supplement.
func (s *PricingServiceImpl) Quote(property *data.Property, draft *data.BookingDraft) data.PricingBreakdown {
	nights := 1
	if n, err := utils.NightsBetween(draft.CheckIn, draft.CheckOut); err == nil && n > 0 {
		nights = n
	}

	subtotal := nights * property.NightlyRate

	petSupplement := 0
	if draft.HasPet && property.PetsAllowed {
		petSupplement = property.PetSupplement
	}

	return data.PricingBreakdown{
		Nights:        nights,
		Subtotal:      subtotal,
		CleaningFee:   property.CleaningFee,
		PetSupplement: petSupplement,
		Total:         subtotal + property.CleaningFee + petSupplement,
	}
}
