package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hotel_inventory/internal/domain"
)

func room(t domain.RoomType, a domain.Accommodation, qty int) domain.Room {
	return domain.Room{ID: uuid.New(), Type: t, Accommodation: a, Quantity: qty}
}

func TestAccommodationPolicy(t *testing.T) {
	cases := []struct {
		typ     domain.RoomType
		allowed []domain.Accommodation
	}{
		{domain.RoomStandard, []domain.Accommodation{"Single", "Double"}},
		{domain.RoomJunior, []domain.Accommodation{"Triple", "Quadruple"}},
		{domain.RoomSuite, []domain.Accommodation{"Single", "Double", "Triple"}},
	}
	all := []domain.Accommodation{"Single", "Double", "Triple", "Quadruple", "Penthouse", ""}
	for _, tc := range cases {
		require.Equal(t, tc.allowed, domain.AllowedAccommodations(tc.typ))
		for _, a := range all {
			want := false
			for _, ok := range tc.allowed {
				if ok == a {
					want = true
				}
			}
			require.Equalf(t, want, tc.typ.Allows(a), "%s/%s", tc.typ, a)
		}
	}

	require.False(t, domain.RoomType("Presidential").Valid())
	require.Nil(t, domain.AllowedAccommodations("Presidential"))
}

func TestAllowedAccommodations_ReturnsCopy(t *testing.T) {
	got := domain.AllowedAccommodations(domain.RoomStandard)
	got[0] = "Quadruple"
	require.False(t, domain.RoomStandard.Allows("Quadruple"))
}

func TestCheckPlacement(t *testing.T) {
	hotel := domain.Hotel{HotelRecord: domain.HotelRecord{ID: uuid.New(), MaxRooms: 5}}
	full := []domain.Room{room(domain.RoomStandard, domain.AccommodationDouble, 5)}

	cases := []struct {
		name     string
		current  []domain.Room
		proposed domain.Room
		kind     error
		field    string
	}{
		{"fits empty hotel", nil, room("Standard", "Double", 5), nil, ""},
		{"unknown type", nil, room("Presidential", "Double", 1), domain.ErrValidation, "type"},
		{"zero quantity", nil, room("Standard", "Double", 0), domain.ErrValidation, "quantity"},
		{"accommodation not offered", nil, room("Junior", "Double", 1), domain.ErrValidation, "accommodation"},
		{"duplicate on full hotel", full, room("Standard", "Double", 1), domain.ErrDuplicateRoomType, ""},
		{"capacity exceeded", full, room("Standard", "Single", 1), domain.ErrCapacityExceeded, ""},
		{"exactly at ceiling", []domain.Room{room("Suite", "Triple", 2)}, room("Junior", "Triple", 3), nil, ""},
		{"quantity above column range", nil, room("Standard", "Double", domain.MaxCount+1), domain.ErrValidation, "quantity"},
		{"sum would wrap around", []domain.Room{room("Suite", "Single", 1)}, room("Standard", "Double", math.MaxInt), domain.ErrValidation, "quantity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.CheckPlacement(hotel, tc.current, tc.proposed)
			if tc.kind == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.kind)
			if tc.field != "" {
				var de *domain.Error
				require.True(t, errors.As(err, &de))
				require.Len(t, de.Fields, 1)
				require.Equal(t, tc.field, de.Fields[0].Field)
			}
		})
	}
}

func TestCheckPlacement_UpdateExcludesOwnQuantity(t *testing.T) {
	hotel := domain.Hotel{HotelRecord: domain.HotelRecord{ID: uuid.New(), MaxRooms: 5}}
	target := room(domain.RoomStandard, domain.AccommodationDouble, 3)
	sibling := room(domain.RoomSuite, domain.AccommodationSingle, 2)
	current := []domain.Room{target, sibling}

	down := target
	down.Quantity = 1
	require.NoError(t, domain.CheckPlacement(hotel, current, down))

	atCeiling := target
	atCeiling.Quantity = 3
	require.NoError(t, domain.CheckPlacement(hotel, current, atCeiling))

	over := target
	over.Quantity = 4
	require.ErrorIs(t, domain.CheckPlacement(hotel, current, over), domain.ErrCapacityExceeded)
}

func TestCheckPlacement_UpdateRejectsSiblingDuplicate(t *testing.T) {
	hotel := domain.Hotel{HotelRecord: domain.HotelRecord{ID: uuid.New(), MaxRooms: 10}}
	target := room(domain.RoomStandard, domain.AccommodationDouble, 1)
	sibling := room(domain.RoomSuite, domain.AccommodationSingle, 1)

	same := target
	same.Quantity = 2
	require.NoError(t, domain.CheckPlacement(hotel, []domain.Room{target, sibling}, same))

	clash := target
	clash.Type, clash.Accommodation = domain.RoomSuite, domain.AccommodationSingle
	require.ErrorIs(t, domain.CheckPlacement(hotel, []domain.Room{target, sibling}, clash), domain.ErrDuplicateRoomType)
}

// Stored entries may already be large; their sum must not wrap below the ceiling.
func TestCheckPlacement_HugeSiblingsDoNotWrap(t *testing.T) {
	hotel := domain.Hotel{HotelRecord: domain.HotelRecord{ID: uuid.New(), MaxRooms: 5}}
	current := []domain.Room{
		room(domain.RoomSuite, domain.AccommodationSingle, math.MaxInt),
		room(domain.RoomSuite, domain.AccommodationDouble, math.MaxInt),
	}
	err := domain.CheckPlacement(hotel, current, room(domain.RoomStandard, domain.AccommodationDouble, 1))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	require.Equal(t, math.MaxInt, domain.TotalQuantity(current))
	require.ErrorIs(t, domain.CheckCeiling(5, current), domain.ErrCapacityExceeded)
}

func TestCheckCeiling(t *testing.T) {
	rooms := []domain.Room{room("Standard", "Single", 2), room("Suite", "Double", 3)}
	require.NoError(t, domain.CheckCeiling(5, rooms))
	require.ErrorIs(t, domain.CheckCeiling(4, rooms), domain.ErrCapacityExceeded)
	require.NoError(t, domain.CheckCeiling(1, nil))
}
