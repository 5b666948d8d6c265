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

type HotelInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Address  string `json:"address" validate:"required,max=255"`
	City     string `json:"city" validate:"required,max=120"`
	TaxID    string `json:"tax_id" validate:"required,max=64"`
	MaxRooms int    `json:"max_rooms" validate:"min=1,max=2147483647"`
}

func (in HotelInput) normalized() HotelInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.TaxID = strings.TrimSpace(in.TaxID)
	return in
}

// HotelCatalog owns hotel records.
type HotelCatalog struct {
	repo domain.Repository
	deps
}

func NewHotelCatalog(r domain.Repository, opts ...Option) *HotelCatalog {
	return &HotelCatalog{repo: r, deps: buildDeps(opts)}
}

func (s *HotelCatalog) List(ctx context.Context) (out []domain.Hotel, err error) {
	ctx, span := s.tracer.Start(ctx, "HotelCatalog.List")
	defer func() { endSpan(span, err) }()

	out, err = s.repo.ListHotels(ctx)
	if err != nil {
		return nil, domain.Persistence("list hotels", err)
	}
	return out, nil
}

func (s *HotelCatalog) Get(ctx context.Context, id uuid.UUID) (h domain.Hotel, err error) {
	ctx, span := s.tracer.Start(ctx, "HotelCatalog.Get")
	span.SetAttributes(attribute.String("hotel.id", id.String()))
	defer func() { endSpan(span, err) }()

	h, err = s.repo.GetHotel(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Hotel{}, domain.NotFound("hotel")
	}
	if err != nil {
		return domain.Hotel{}, domain.Persistence("get hotel", err)
	}
	return h, nil
}

func (s *HotelCatalog) Create(ctx context.Context, in HotelInput) (h domain.Hotel, err error) {
	ctx, span := s.tracer.Start(ctx, "HotelCatalog.Create")
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}

	now := s.now()
	h = domain.Hotel{
		HotelRecord: domain.HotelRecord{
			ID:        s.newID(),
			Name:      in.Name,
			Address:   in.Address,
			City:      in.City,
			TaxID:     in.TaxID,
			MaxRooms:  in.MaxRooms,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Rooms: []domain.Room{},
	}

	err = s.repo.InTx(ctx, func(tx domain.Repository) error {
		if err := checkHotelUnique(ctx, tx, in, uuid.Nil); err != nil {
			return err
		}
		return tx.InsertHotel(ctx, h)
	})
	if err != nil {
		return domain.Hotel{}, domain.Persistence("create hotel", err)
	}

	span.SetAttributes(attribute.String("hotel.id", h.ID.String()))
	log.Debug().Str("hotel_id", h.ID.String()).Str("name", h.Name).Msg("hotel created")
	return h, nil
}

// Update replaces every attribute of the hotel. Lowering max_rooms below the
// rooms already registered is refused.
func (s *HotelCatalog) Update(ctx context.Context, id uuid.UUID, in HotelInput) (h domain.Hotel, err error) {
	ctx, span := s.tracer.Start(ctx, "HotelCatalog.Update")
	span.SetAttributes(attribute.String("hotel.id", id.String()))
	defer func() { endSpan(span, err) }()

	in = in.normalized()
	if err := validateInput(in); err != nil {
		return domain.Hotel{}, err
	}

	err = s.repo.InTx(ctx, func(tx domain.Repository) error {
		cur, err := tx.LockHotel(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("hotel")
		}
		if err != nil {
			return err
		}
		if err := checkHotelUnique(ctx, tx, in, id); err != nil {
			return err
		}
		rooms, err := tx.ListRoomsByHotel(ctx, id)
		if err != nil {
			return err
		}
		if err := domain.CheckCeiling(in.MaxRooms, rooms); err != nil {
			return err
		}

		h = cur
		h.Name, h.Address, h.City, h.TaxID, h.MaxRooms = in.Name, in.Address, in.City, in.TaxID, in.MaxRooms
		h.UpdatedAt = s.now()
		h.Rooms = rooms
		return tx.UpdateHotel(ctx, h)
	})
	if err != nil {
		return domain.Hotel{}, domain.Persistence("update hotel", err)
	}

	log.Debug().Str("hotel_id", h.ID.String()).Msg("hotel updated")
	return h, nil
}

// Delete removes the hotel together with its rooms.
func (s *HotelCatalog) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "HotelCatalog.Delete")
	span.SetAttributes(attribute.String("hotel.id", id.String()))
	defer func() { endSpan(span, err) }()

	err = s.repo.InTx(ctx, func(tx domain.Repository) error {
		if _, err := tx.LockHotel(ctx, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("hotel")
			}
			return err
		}
		if err := tx.DeleteRoomsByHotel(ctx, id); err != nil {
			return err
		}
		return tx.DeleteHotel(ctx, id)
	})
	if err != nil {
		return domain.Persistence("delete hotel", err)
	}

	log.Debug().Str("hotel_id", id.String()).Msg("hotel deleted")
	return nil
}

func checkHotelUnique(ctx context.Context, repo domain.Repository, in HotelInput, exclude uuid.UUID) error {
	c, err := repo.HotelTaken(ctx, in.Name, in.TaxID, exclude)
	if err != nil {
		return err
	}
	if !c.Any() {
		return nil
	}
	var fields []domain.FieldError
	if c.Name {
		fields = append(fields, domain.FieldError{Field: "name", Code: "unique", Message: "the hotel name is already in use"})
	}
	if c.TaxID {
		fields = append(fields, domain.FieldError{Field: "tax_id", Code: "unique", Message: "the tax_id is already registered to another hotel"})
	}
	return domain.Invalid(fields[0].Message, fields...)
}
