package domain

import (
	"context"

	"github.com/google/uuid"
)

type HotelRepository interface {
	// Read paths. ListHotels and GetHotel attach each hotel's rooms.
	ListHotels(ctx context.Context) ([]Hotel, error)
	GetHotel(ctx context.Context, id uuid.UUID) (Hotel, error)
	// LockHotel reads the bare hotel row and holds it until the transaction ends.
	LockHotel(ctx context.Context, id uuid.UUID) (Hotel, error)
	HotelTaken(ctx context.Context, name, taxID string, exclude uuid.UUID) (HotelConflicts, error)

	// Write paths
	InsertHotel(ctx context.Context, h Hotel) error
	UpdateHotel(ctx context.Context, h Hotel) error
	DeleteHotel(ctx context.Context, id uuid.UUID) error
}

type RoomRepository interface {
	// Read paths. ListRooms and GetRoom attach the owning hotel.
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id uuid.UUID) (Room, error)
	ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]Room, error)

	// Write paths
	InsertRoom(ctx context.Context, r Room) error
	UpdateRoom(ctx context.Context, r Room) error
	DeleteRoom(ctx context.Context, id uuid.UUID) error
	DeleteRoomsByHotel(ctx context.Context, hotelID uuid.UUID) error
}

type Repository interface {
	HotelRepository
	RoomRepository

	// InTx runs fn against a repository bound to one transaction. fn's error
	// rolls the transaction back.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// HotelConflicts reports which unique hotel attributes are held by another hotel.
type HotelConflicts struct {
	Name  bool
	TaxID bool
}

func (c HotelConflicts) Any() bool { return c.Name || c.TaxID }
