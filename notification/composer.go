package notification

import (
	"fmt"
	"strings"

	"booking-service/data"
)

// Compose renders a frozen draft and its price breakdown into the
// outbound summary block. The field order is fixed because the same
// text serves as the human-facing receipt and as the payload handed to
// the dispatch channel. Composing is pure; sending is the dispatcher's
// business.
func Compose(property *data.Property, draft *data.BookingDraft, breakdown data.PricingBreakdown) string {
	var b strings.Builder

	b.WriteString("New booking request\n\n")
	fmt.Fprintf(&b, "Property: %s\n", property.Name)
	fmt.Fprintf(&b, "Check-in: %s\n", draft.CheckIn)
	fmt.Fprintf(&b, "Check-out: %s\n", draft.CheckOut)
	fmt.Fprintf(&b, "Nights: %d\n", breakdown.Nights)
	fmt.Fprintf(&b, "Guests: %d\n", draft.GuestCount)
	if draft.HasPet {
		b.WriteString("Pet: yes\n")
	} else {
		b.WriteString("Pet: no\n")
	}
	fmt.Fprintf(&b, "Guest: %s %s\n", draft.FirstName, draft.LastName)
	fmt.Fprintf(&b, "Phone: %s\n", draft.Phone)
	fmt.Fprintf(&b, "Email: %s\n", draft.Email)
	fmt.Fprintf(&b, "Subtotal: %d EUR\n", breakdown.Subtotal)
	fmt.Fprintf(&b, "Cleaning fee: %d EUR\n", breakdown.CleaningFee)
	if breakdown.PetSupplement > 0 {
		fmt.Fprintf(&b, "Pet supplement: %d EUR\n", breakdown.PetSupplement)
	}
	fmt.Fprintf(&b, "Total: %d EUR\n", breakdown.Total)
	if draft.Note != "" {
		fmt.Fprintf(&b, "Note: %s\n", draft.Note)
	}

	return b.String()
}
