package data

import (
	"encoding/json"
	"io"
)

// Property is immutable reference data. It is seeded into the catalog
// at startup and never mutated by the booking core.
type Property struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	MaxOccupancy  int       `bson:"max_occupancy" json:"max_occupancy"`
	NightlyRate   int       `bson:"nightly_rate" json:"nightly_rate"`
	CleaningFee   int       `bson:"cleaning_fee" json:"cleaning_fee"`
	PetsAllowed   bool      `bson:"pets_allowed" json:"pets_allowed"`
	PetSupplement int       `bson:"pet_supplement" json:"pet_supplement"`
	Amenities     []Amenity `bson:"amenities" json:"amenities"`

	// Aliases are the spoken names the voice parser matches against.
	Aliases []string `bson:"aliases" json:"aliases"`
}

type Properties []*Property

func (p *Property) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(p)
}

func (p *Property) FromJSON(r io.Reader) error {
	d := json.NewDecoder(r)
	return d.Decode(p)
}

func (p Properties) ToJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	return e.Encode(p)
}

// SeedProperties is the fixed catalog the service starts with.
func SeedProperties() Properties {
	return Properties{
		{
			ID:           "romantic-suite",
			Name:         "Romantic Suite",
			MaxOccupancy: 2,
			NightlyRate:  95,
			CleaningFee:  25,
			PetsAllowed:  false,
			Amenities:    []Amenity{AmenityWifi, AmenityAirConditioning, AmenitySeaView},
			Aliases:      []string{"suite", "romantic", "two"},
		},
		{
			ID:            "lucas-rooftop",
			Name:          "Lucas Rooftop",
			MaxOccupancy:  4,
			NightlyRate:   120,
			CleaningFee:   25,
			PetsAllowed:   true,
			PetSupplement: 20,
			Amenities:     []Amenity{AmenityWifi, AmenityKitchen, AmenityTerrace, AmenityParking, AmenityPetFriendly},
			Aliases:       []string{"lucas", "rooftop", "loft"},
		},
	}
}
