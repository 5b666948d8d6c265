package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// HotelRecord is the stored hotel row; it is what a room embeds as its owner.
type HotelRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	TaxID     string    `json:"tax_id"`
	MaxRooms  int       `json:"max_rooms"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Hotel struct {
	HotelRecord
	Rooms []Room `json:"rooms"`
}

type Room struct {
	ID            uuid.UUID     `json:"id"`
	HotelID       uuid.UUID     `json:"hotel_id"`
	Type          RoomType      `json:"type"`
	Accommodation Accommodation `json:"accommodation"`
	Quantity      int           `json:"quantity"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Hotel         *HotelRecord  `json:"hotel,omitempty"`
}

// MaxCount bounds max_rooms and room quantities; it is the range of the
// INT columns that store them.
const MaxCount = math.MaxInt32

// TotalQuantity sums the physical room count of the given entries. The sum
// saturates at math.MaxInt instead of wrapping.
func TotalQuantity(rooms []Room) int {
	n := 0
	for _, r := range rooms {
		n = addQuantity(n, r.Quantity)
	}
	return n
}

func addQuantity(a, b int) int {
	if a > 0 && b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
