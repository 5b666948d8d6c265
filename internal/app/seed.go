package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"hotel_inventory/internal/domain"
)

// HotelSeed is one entry of a seed file: a hotel and the rooms to register under it.
type HotelSeed struct {
	HotelInput
	Rooms []RoomSeed `json:"rooms"`
}

type RoomSeed struct {
	Type          string `json:"type"`
	Accommodation string `json:"accommodation"`
	Quantity      int    `json:"quantity"`
}

type SeedResult struct {
	Hotel    string
	Skipped  bool
	Rooms    int
	Rejected int
}

func LoadSeeds(r io.Reader) ([]HotelSeed, error) {
	var out []HotelSeed
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return out, nil
}

// Seeder loads hotels and rooms through the catalog services, so every
// capacity and duplication rule applies to seed data as well.
type Seeder struct {
	hotels *HotelCatalog
	rooms  *RoomInventory
}

func NewSeeder(h *HotelCatalog, r *RoomInventory) *Seeder {
	return &Seeder{hotels: h, rooms: r}
}

// SeedHotel creates the hotel and its rooms. A hotel whose name or tax id is
// already registered is skipped; rooms breaking a rule are logged and counted.
// Storage failures are returned.
func (s *Seeder) SeedHotel(ctx context.Context, seed HotelSeed) (SeedResult, error) {
	res := SeedResult{Hotel: seed.Name}

	h, err := s.hotels.Create(ctx, seed.HotelInput)
	if err != nil {
		if isUniqueViolation(err) {
			res.Skipped = true
			return res, nil
		}
		return res, fmt.Errorf("seed hotel %q: %w", seed.Name, err)
	}

	for _, rs := range seed.Rooms {
		_, err := s.rooms.Create(ctx, RoomInput{
			HotelID:       h.ID.String(),
			Type:          rs.Type,
			Accommodation: rs.Accommodation,
			Quantity:      rs.Quantity,
		})
		if err == nil {
			res.Rooms++
			continue
		}
		if errors.Is(err, domain.ErrPersistence) {
			return res, fmt.Errorf("seed rooms of %q: %w", seed.Name, err)
		}
		res.Rejected++
		log.Warn().
			Err(err).
			Str("hotel", seed.Name).
			Str("type", rs.Type).
			Str("accommodation", rs.Accommodation).
			Int("quantity", rs.Quantity).
			Msg("seed room rejected")
	}
	return res, nil
}

func isUniqueViolation(err error) bool {
	var de *domain.Error
	if !errors.As(err, &de) || !errors.Is(err, domain.ErrValidation) {
		return false
	}
	for _, f := range de.Fields {
		if f.Code == "unique" {
			return true
		}
	}
	return false
}
