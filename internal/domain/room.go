package domain

import "slices"

type RoomType string

const (
	RoomStandard RoomType = "Standard"
	RoomJunior   RoomType = "Junior"
	RoomSuite    RoomType = "Suite"
)

type Accommodation string

const (
	AccommodationSingle    Accommodation = "Single"
	AccommodationDouble    Accommodation = "Double"
	AccommodationTriple    Accommodation = "Triple"
	AccommodationQuadruple Accommodation = "Quadruple"
)

// accommodationPolicy is the fixed type → accommodation table. It is never
// handed out directly; callers get copies.
var accommodationPolicy = map[RoomType][]Accommodation{
	RoomStandard: {AccommodationSingle, AccommodationDouble},
	RoomJunior:   {AccommodationTriple, AccommodationQuadruple},
	RoomSuite:    {AccommodationSingle, AccommodationDouble, AccommodationTriple},
}

// RoomTypes lists the enumerated room types in a stable order.
func RoomTypes() []RoomType {
	return []RoomType{RoomStandard, RoomJunior, RoomSuite}
}

func (t RoomType) Valid() bool {
	_, ok := accommodationPolicy[t]
	return ok
}

// Allows reports whether a is an accommodation offered for rooms of type t.
func (t RoomType) Allows(a Accommodation) bool {
	return slices.Contains(accommodationPolicy[t], a)
}

// AllowedAccommodations returns the accommodations offered for t, or nil for
// an unknown type.
func AllowedAccommodations(t RoomType) []Accommodation {
	return slices.Clone(accommodationPolicy[t])
}
