package data

import (
	"encoding/json"
	"io"
)

type ReservationStatus string

const (
	Confirmed ReservationStatus = "confirmed"
)

// Reservation occupies the half-open interval [CheckIn, CheckOut) of a
// property. Reservations are either seeded at startup or created by a
// confirmed booking draft.
type Reservation struct {
	ID         string            `json:"id"`
	PropertyID string            `json:"property_id"`
	CheckIn    Date              `json:"check_in"`
	CheckOut   Date              `json:"check_out"`
	GuestCount int               `json:"guest_count"`
	Status     ReservationStatus `json:"status"`
}

type Reservations []*Reservation

func (r *Reservation) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(r)
}

func (r *Reservation) FromJSON(rd io.Reader) error {
	d := json.NewDecoder(rd)
	return d.Decode(r)
}

func (r Reservations) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(r)
}

func (r *Reservations) FromJSON(rd io.Reader) error {
	d := json.NewDecoder(rd)
	return d.Decode(r)
}
