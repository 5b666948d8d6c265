package domain

import "fmt"

// CheckPlacement validates proposed against the rooms its hotel currently
// holds. An entry in current with proposed's ID is the stored version of
// proposed: it is left out of both the duplicate check and the capacity sum,
// so the same call serves create (fresh ID) and update.
func CheckPlacement(h Hotel, current []Room, proposed Room) error {
	if !proposed.Type.Valid() {
		return InvalidField("type", "oneof",
			fmt.Sprintf("type must be one of %v", RoomTypes()))
	}
	if proposed.Quantity < 1 {
		return InvalidField("quantity", "min", "quantity must be at least 1")
	}
	if proposed.Quantity > MaxCount {
		return InvalidField("quantity", "max", fmt.Sprintf("quantity must not exceed %d", MaxCount))
	}
	if !proposed.Type.Allows(proposed.Accommodation) {
		return InvalidField("accommodation", "accommodation_for_type",
			fmt.Sprintf("accommodation %q is not valid for %s rooms (allowed: %v)",
				proposed.Accommodation, proposed.Type, AllowedAccommodations(proposed.Type)))
	}

	total := proposed.Quantity
	for _, r := range current {
		if r.ID == proposed.ID {
			continue
		}
		if r.Type == proposed.Type && r.Accommodation == proposed.Accommodation {
			return DuplicateRoomType(proposed.Type, proposed.Accommodation)
		}
		total = addQuantity(total, r.Quantity)
	}
	if total > h.MaxRooms {
		return CapacityExceeded(total, h.MaxRooms)
	}
	return nil
}

// CheckCeiling verifies that a hotel with the given ceiling can hold rooms.
func CheckCeiling(maxRooms int, rooms []Room) error {
	if total := TotalQuantity(rooms); total > maxRooms {
		return CapacityExceeded(total, maxRooms)
	}
	return nil
}
