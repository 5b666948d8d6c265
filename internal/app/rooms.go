package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"hotel_inventory/internal/domain"
)

type RoomInput struct {
	HotelID       string `json:"hotel_id" validate:"required,uuid"`
	Type          string `json:"type" validate:"required,oneof=Standard Junior Suite"`
	Accommodation string `json:"accommodation" validate:"required"`
	Quantity      int    `json:"quantity" validate:"min=1,max=2147483647"`
}

// RoomUpdate carries the mutable attributes of a room; its hotel never changes.
type RoomUpdate struct {
	Type          string `json:"type" validate:"required,oneof=Standard Junior Suite"`
	Accommodation string `json:"accommodation" validate:"required"`
	Quantity      int    `json:"quantity" validate:"min=1,max=2147483647"`
}

func (in RoomInput) normalized() RoomInput {
	in.HotelID = strings.TrimSpace(in.HotelID)
	in.Type = strings.TrimSpace(in.Type)
	in.Accommodation = strings.TrimSpace(in.Accommodation)
	return in
}

func (in RoomUpdate) normalized() RoomUpdate {
	in.Type = strings.TrimSpace(in.Type)
	in.Accommodation = strings.TrimSpace(in.Accommodation)
	return in
}

// RoomInventory owns the room entries of every hotel and enforces the
// capacity, duplicate and accommodation rules against the owning hotel.
type RoomInventory struct {
	repo domain.Repository
	deps
}

func NewRoomInventory(r domain.Repository, opts ...Option) *RoomInventory {
	return &RoomInventory{repo: r, deps: buildDeps(opts)}
}

func (s *RoomInventory) List(ctx context.Context) (out []domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, "RoomInventory.List")
	defer func() { endSpan(span, err) }()

	out, err = s.repo.ListRooms(ctx)
	if err != nil {
		return nil, domain.Persistence("list rooms", err)
	}
	return out, nil
}

func (s *RoomInventory) Get(ctx context.Context, id uuid.UUID) (r domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, "RoomInventory.Get")
	span.SetAttributes(attribute.String("room.id", id.String()))
	defer func() { endSpan(span, err) }()

	r, err = s.repo.GetRoom(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Room{}, domain.NotFound("room")
	}
	if err != nil {
		return domain.Room{}, domain.Persistence("get room", err)
	}
	return r, nil
}

func (s *RoomInventory) Create(ctx context.Context, in RoomInput) (r domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, "RoomInventory.Create")
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}
	hotelID, err := uuid.Parse(in.HotelID)
	if err != nil {
		return domain.Room{}, domain.InvalidField("hotel_id", "uuid", "hotel_id must be a valid UUID")
	}
	span.SetAttributes(attribute.String("hotel.id", hotelID.String()))

	now := s.now()
	r = domain.Room{
		ID:            s.newID(),
		HotelID:       hotelID,
		Type:          domain.RoomType(in.Type),
		Accommodation: domain.Accommodation(in.Accommodation),
		Quantity:      in.Quantity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.repo.InTx(ctx, func(tx domain.Repository) error {
		h, err := tx.LockHotel(ctx, hotelID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.MissingReference("hotel_id", "hotel")
		}
		if err != nil {
			return err
		}
		current, err := tx.ListRoomsByHotel(ctx, hotelID)
		if err != nil {
			return err
		}
		if err := domain.CheckPlacement(h, current, r); err != nil {
			return err
		}
		if err := tx.InsertRoom(ctx, r); err != nil {
			return err
		}
		r.Hotel = &h.HotelRecord
		return nil
	})
	if err != nil {
		return domain.Room{}, domain.Persistence("create room", err)
	}

	log.Debug().
		Str("room_id", r.ID.String()).
		Str("hotel_id", hotelID.String()).
		Str("type", string(r.Type)).
		Str("accommodation", string(r.Accommodation)).
		Int("quantity", r.Quantity).
		Msg("room created")
	return r, nil
}

// Update rechecks the hotel capacity with the room's stored quantity replaced
// by the new one, and refuses a type/accommodation pair held by a sibling.
func (s *RoomInventory) Update(ctx context.Context, id uuid.UUID, in RoomUpdate) (r domain.Room, err error) {
	ctx, span := s.tracer.Start(ctx, "RoomInventory.Update")
	span.SetAttributes(attribute.String("room.id", id.String()))
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if err := validateInput(in); err != nil {
		return domain.Room{}, err
	}

	err = s.repo.InTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.GetRoom(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("room")
		}
		if err != nil {
			return err
		}
		h, err := tx.LockHotel(ctx, cur.HotelID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("room")
		}
		if err != nil {
			return err
		}
		current, err := tx.ListRoomsByHotel(ctx, cur.HotelID)
		if err != nil {
			return err
		}

		r = cur
		r.Type = domain.RoomType(in.Type)
		r.Accommodation = domain.Accommodation(in.Accommodation)
		r.Quantity = in.Quantity
		r.UpdatedAt = s.now()
		r.Hotel = &h.HotelRecord
		if err := domain.CheckPlacement(h, current, r); err != nil {
			return err
		}
		return tx.UpdateRoom(ctx, r)
	})
	if err != nil {
		return domain.Room{}, domain.Persistence("update room", err)
	}

	log.Debug().Str("room_id", r.ID.String()).Int("quantity", r.Quantity).Msg("room updated")
	return r, nil
}

func (s *RoomInventory) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "RoomInventory.Delete")
	span.SetAttributes(attribute.String("room.id", id.String()))
	defer func() { endSpan(span, err) }()

	err = s.repo.DeleteRoom(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NotFound("room")
	}
	if err != nil {
		return domain.Persistence("delete room", err)
	}

	log.Debug().Str("room_id", id.String()).Msg("room deleted")
	return nil
}
