package services

import "booking-service/data"

// PricingService derives a price breakdown from a property's rate card
// and a draft. Quoting is pure and deterministic: the same inputs
// always produce the same breakdown.
type PricingService interface {
	Quote(property *data.Property, draft *data.BookingDraft) data.PricingBreakdown
}
