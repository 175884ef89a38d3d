package data

import (
	"encoding/json"
	"io"
	"strings"
)

// BookingStep is the position of a draft in the reservation workflow.
type BookingStep int

const (
	StepPropertySelection BookingStep = iota
	StepDateSelection
	StepGuestDetails
	StepConfirmation
)

var stepNames = map[BookingStep]string{
	StepPropertySelection: "property_selection",
	StepDateSelection:     "date_selection",
	StepGuestDetails:      "guest_details",
	StepConfirmation:      "confirmation",
}

func (s BookingStep) String() string {
	return stepNames[s]
}

func (s BookingStep) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BookingStep) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for step, n := range stepNames {
		if n == name {
			*s = step
			return nil
		}
	}
	*s = StepPropertySelection
	return nil
}

type GuestField string

const (
	FieldFirstName GuestField = "first_name"
	FieldLastName  GuestField = "last_name"
	FieldPhone     GuestField = "phone"
	FieldEmail     GuestField = "email"

	// FieldFullName sets both name fields from one spoken value: the
	// first token becomes the first name, the rest the last name.
	FieldFullName GuestField = "full_name"
)

// BookingDraft is the single mutable unit of work for one reservation
// flow. It is owned by the booking service for the duration of the flow
// and frozen once the confirmation step is entered.
type BookingDraft struct {
	SessionID  string      `json:"session_id"`
	PropertyID string      `json:"property_id"`
	CheckIn    Date        `json:"check_in"`
	CheckOut   Date        `json:"check_out"`
	GuestCount int         `json:"guest_count"`
	HasPet     bool        `json:"has_pet"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Phone      string      `json:"phone"`
	Email      string      `json:"email"`
	Note       string      `json:"note"`
	Step       BookingStep `json:"step"`
}

// Filled reports which draft fields already hold a value. The voice
// parser keys its per-step expectations off this instead of keeping
// hidden cross-call state.
type Filled struct {
	Property bool
	CheckIn  bool
	CheckOut bool
	Name     bool
	Phone    bool
	Email    bool
}

func (d *BookingDraft) Filled() Filled {
	return Filled{
		Property: d.PropertyID != "",
		CheckIn:  !d.CheckIn.IsZero(),
		CheckOut: !d.CheckOut.IsZero(),
		Name:     d.FirstName != "" || d.LastName != "",
		Phone:    d.Phone != "",
		Email:    d.Email != "",
	}
}

// Frozen reports whether the draft reached the terminal step. A frozen
// draft accepts no further field mutation.
func (d *BookingDraft) Frozen() bool {
	return d.Step == StepConfirmation
}

func (d *BookingDraft) SetGuestField(field GuestField, value string) {
	switch field {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldPhone:
		d.Phone = value
	case FieldEmail:
		d.Email = value
	case FieldFullName:
		tokens := strings.Fields(value)
		if len(tokens) == 0 {
			return
		}
		d.FirstName = tokens[0]
		d.LastName = strings.Join(tokens[1:], " ")
	}
}

func (d *BookingDraft) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(d)
}

func (d *BookingDraft) FromJSON(r io.Reader) error {
	dec := json.NewDecoder(r)
	return dec.Decode(d)
}
