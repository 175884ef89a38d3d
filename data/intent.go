package data

import (
	"encoding/json"
	"io"
)

// IntentKind tags the discrete user actions the booking workflow
// understands. UI handlers and the voice parser both produce Intent
// values; the workflow never needs to know which channel one came from.
type IntentKind string

const (
	IntentSelectProperty IntentKind = "select_property"
	IntentSetCheckIn     IntentKind = "set_check_in"
	IntentSetCheckOut    IntentKind = "set_check_out"
	IntentSetGuestCount  IntentKind = "set_guest_count"
	IntentSetPetFlag     IntentKind = "set_pet_flag"
	IntentSetGuestField  IntentKind = "set_guest_field"
	IntentSetNote        IntentKind = "set_note"
	IntentAdvance        IntentKind = "advance"
	IntentGoBack         IntentKind = "go_back"
	IntentConfirm        IntentKind = "confirm"
)

type Intent struct {
	Kind       IntentKind `json:"kind"`
	PropertyID string     `json:"property_id,omitempty"`
	Date       Date       `json:"date,omitempty"`
	Count      int        `json:"count,omitempty"`
	Flag       bool       `json:"flag,omitempty"`
	Field      GuestField `json:"field,omitempty"`
	Value      string     `json:"value,omitempty"`
}

func SelectProperty(id string) Intent {
	return Intent{Kind: IntentSelectProperty, PropertyID: id}
}

func SetCheckIn(d Date) Intent {
	return Intent{Kind: IntentSetCheckIn, Date: d}
}

func SetCheckOut(d Date) Intent {
	return Intent{Kind: IntentSetCheckOut, Date: d}
}

func SetGuestCount(n int) Intent {
	return Intent{Kind: IntentSetGuestCount, Count: n}
}

func SetPetFlag(flag bool) Intent {
	return Intent{Kind: IntentSetPetFlag, Flag: flag}
}

func SetGuestField(field GuestField, value string) Intent {
	return Intent{Kind: IntentSetGuestField, Field: field, Value: value}
}

func SetNote(text string) Intent {
	return Intent{Kind: IntentSetNote, Value: text}
}

func Advance() Intent { return Intent{Kind: IntentAdvance} }
func GoBack() Intent  { return Intent{Kind: IntentGoBack} }
func Confirm() Intent { return Intent{Kind: IntentConfirm} }

func (i *Intent) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(i)
}
