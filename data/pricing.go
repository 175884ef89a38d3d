package data

import (
	"encoding/json"
	"io"
)

// PricingBreakdown is derived from a draft and its property's rate
// card. All amounts are whole currency units so line items add up
// without floating-point drift.
type PricingBreakdown struct {
	Nights        int `json:"nights"`
	Subtotal      int `json:"subtotal"`
	CleaningFee   int `json:"cleaning_fee"`
	PetSupplement int `json:"pet_supplement"`
	Total         int `json:"total"`
}

func (p *PricingBreakdown) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(p)
}
