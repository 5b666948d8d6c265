package app_test

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"hotel_inventory/internal/domain"
)

// ---- fakes ----

// memRepo is an in-memory domain.Repository. InTx restores the previous state
// when fn fails, like a rolled back transaction.
type memRepo struct {
	hotels map[uuid.UUID]domain.HotelRecord
	rooms  map[uuid.UUID]domain.Room
	fail   map[string]error
}

func newMemRepo() *memRepo {
	return &memRepo{
		hotels: map[uuid.UUID]domain.HotelRecord{},
		rooms:  map[uuid.UUID]domain.Room{},
		fail:   map[string]error{},
	}
}

func (m *memRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	hotels, rooms := maps.Clone(m.hotels), maps.Clone(m.rooms)
	if err := fn(m); err != nil {
		m.hotels, m.rooms = hotels, rooms
		return err
	}
	return nil
}

func (m *memRepo) sortedHotels() []domain.HotelRecord {
	out := make([]domain.HotelRecord, 0, len(m.hotels))
	for _, h := range m.hotels {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b domain.HotelRecord) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out
}

func (m *memRepo) roomsOf(hotelID uuid.UUID) []domain.Room {
	out := []domain.Room{}
	for _, r := range m.rooms {
		if r.HotelID == hotelID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b domain.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.String(), b.ID.String())
	})
	return out
}

func (m *memRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	if err := m.fail["ListHotels"]; err != nil {
		return nil, err
	}
	out := []domain.Hotel{}
	for _, rec := range m.sortedHotels() {
		out = append(out, domain.Hotel{HotelRecord: rec, Rooms: m.roomsOf(rec.ID)})
	}
	return out, nil
}

func (m *memRepo) GetHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	rec, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return domain.Hotel{HotelRecord: rec, Rooms: m.roomsOf(id)}, nil
}

func (m *memRepo) LockHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	if err := m.fail["LockHotel"]; err != nil {
		return domain.Hotel{}, err
	}
	rec, ok := m.hotels[id]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return domain.Hotel{HotelRecord: rec}, nil
}

func (m *memRepo) HotelTaken(ctx context.Context, name, taxID string, exclude uuid.UUID) (domain.HotelConflicts, error) {
	var c domain.HotelConflicts
	for id, h := range m.hotels {
		if id == exclude {
			continue
		}
		c.Name = c.Name || h.Name == name
		c.TaxID = c.TaxID || h.TaxID == taxID
	}
	return c, nil
}

func (m *memRepo) InsertHotel(ctx context.Context, h domain.Hotel) error {
	if err := m.fail["InsertHotel"]; err != nil {
		return err
	}
	m.hotels[h.ID] = h.HotelRecord
	return nil
}

func (m *memRepo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	if _, ok := m.hotels[h.ID]; !ok {
		return domain.ErrNotFound
	}
	m.hotels[h.ID] = h.HotelRecord
	return nil
}

func (m *memRepo) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.hotels[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.hotels, id)
	return nil
}

func (m *memRepo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	out := []domain.Room{}
	for _, h := range m.sortedHotels() {
		for _, r := range m.roomsOf(h.ID) {
			rec := h
			r.Hotel = &rec
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRepo) GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return domain.Room{}, domain.ErrNotFound
	}
	rec := m.hotels[r.HotelID]
	r.Hotel = &rec
	return r, nil
}

func (m *memRepo) ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	return m.roomsOf(hotelID), nil
}

func (m *memRepo) InsertRoom(ctx context.Context, r domain.Room) error {
	if err := m.fail["InsertRoom"]; err != nil {
		return err
	}
	r.Hotel = nil
	m.rooms[r.ID] = r
	return nil
}

func (m *memRepo) UpdateRoom(ctx context.Context, r domain.Room) error {
	if _, ok := m.rooms[r.ID]; !ok {
		return domain.ErrNotFound
	}
	r.Hotel = nil
	m.rooms[r.ID] = r
	return nil
}

func (m *memRepo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.rooms[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *memRepo) DeleteRoomsByHotel(ctx context.Context, hotelID uuid.UUID) error {
	for id, r := range m.rooms {
		if r.HotelID == hotelID {
			delete(m.rooms, id)
		}
	}
	return nil
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	t := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}
