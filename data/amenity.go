package data

import (
	"encoding/json"
	"fmt"
)

// Amenity is a closed enumeration of the features a property can
// advertise. Unknown names fail at parse time instead of falling back
// to a generic entry.
type Amenity int

const (
	AmenityWifi Amenity = iota
	AmenityKitchen
	AmenityAirConditioning
	AmenityTerrace
	AmenitySeaView
	AmenityParking
	AmenityPetFriendly
)

var amenityNames = map[Amenity]string{
	AmenityWifi:            "wifi",
	AmenityKitchen:         "kitchen",
	AmenityAirConditioning: "air_conditioning",
	AmenityTerrace:         "terrace",
	AmenitySeaView:         "sea_view",
	AmenityParking:         "parking",
	AmenityPetFriendly:     "pet_friendly",
}

func (a Amenity) String() string {
	return amenityNames[a]
}

func ParseAmenity(s string) (Amenity, error) {
	for a, name := range amenityNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown amenity %q", s)
}

func (a Amenity) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amenity) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseAmenity(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
