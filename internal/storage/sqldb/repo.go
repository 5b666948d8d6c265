package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel_inventory/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Repo struct {
	db      *sql.DB
	q       querier
	dialect Dialect
}

var _ domain.Repository = (*Repo)(nil)

func New(db *sql.DB, d Dialect) *Repo { return &Repo{db: db, q: db, dialect: d} }

func (r *Repo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	if r.db == nil {
		// already inside a transaction
		return fn(r)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Repo{q: tx, dialect: r.dialect}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ---- hotels ----

type scanner interface{ Scan(dest ...any) error }

func scanHotel(s scanner) (domain.HotelRecord, error) {
	var h domain.HotelRecord
	err := s.Scan(&h.ID, &h.Name, &h.Address, &h.City, &h.TaxID, &h.MaxRooms, &h.CreatedAt, &h.UpdatedAt)
	h.CreatedAt, h.UpdatedAt = h.CreatedAt.UTC(), h.UpdatedAt.UTC()
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.q.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	out := []domain.Hotel{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		rec, err := scanHotel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hotel: %w", err)
		}
		index[rec.ID] = len(out)
		out = append(out, domain.Hotel{HotelRecord: rec, Rooms: []domain.Room{}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}

	rooms, err := r.queryRooms(ctx, listAllRoomsSQL)
	if err != nil {
		return nil, err
	}
	for _, rm := range rooms {
		if i, ok := index[rm.HotelID]; ok {
			out[i].Rooms = append(out[i].Rooms, rm)
		}
	}
	return out, nil
}

func (r *Repo) GetHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	rec, err := r.getHotel(ctx, getHotelSQL, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	rooms, err := r.ListRoomsByHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	return domain.Hotel{HotelRecord: rec, Rooms: rooms}, nil
}

func (r *Repo) LockHotel(ctx context.Context, id uuid.UUID) (domain.Hotel, error) {
	q := getHotelSQL
	if r.dialect == MySQL {
		q += lockHotelSuffix
	}
	rec, err := r.getHotel(ctx, q, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	return domain.Hotel{HotelRecord: rec}, nil
}

func (r *Repo) getHotel(ctx context.Context, query string, id uuid.UUID) (domain.HotelRecord, error) {
	rec, err := scanHotel(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelRecord{}, domain.ErrNotFound
		}
		return domain.HotelRecord{}, fmt.Errorf("get hotel: %w", err)
	}
	return rec, nil
}

func (r *Repo) HotelTaken(ctx context.Context, name, taxID string, exclude uuid.UUID) (domain.HotelConflicts, error) {
	var byName, byTax int
	err := r.q.QueryRowContext(ctx, hotelTakenSQL, name, taxID, exclude, name, taxID).Scan(&byName, &byTax)
	if err != nil {
		return domain.HotelConflicts{}, fmt.Errorf("hotel uniqueness: %w", err)
	}
	return domain.HotelConflicts{Name: byName > 0, TaxID: byTax > 0}, nil
}

func (r *Repo) InsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.q.ExecContext(ctx, insertHotelSQL,
		h.ID, h.Name, h.Address, h.City, h.TaxID, h.MaxRooms, ts(h.CreatedAt), ts(h.UpdatedAt))
	if err != nil {
		return hotelConstraintErr(fmt.Errorf("insert hotel: %w", err))
	}
	return nil
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) error {
	res, err := r.q.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Address, h.City, h.TaxID, h.MaxRooms, ts(h.UpdatedAt), h.ID)
	if err != nil {
		return hotelConstraintErr(fmt.Errorf("update hotel: %w", err))
	}
	return expectRow(res, "update hotel")
}

func (r *Repo) DeleteHotel(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, deleteHotelSQL, id)
	if err != nil {
		return fmt.Errorf("delete hotel: %w", err)
	}
	return expectRow(res, "delete hotel")
}

// ---- rooms ----

func roomDest(rm *domain.Room) []any {
	return []any{&rm.ID, &rm.HotelID, &rm.Type, &rm.Accommodation, &rm.Quantity, &rm.CreatedAt, &rm.UpdatedAt}
}

func (r *Repo) queryRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(roomDest(&rm)...); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rm.CreatedAt, rm.UpdatedAt = rm.CreatedAt.UTC(), rm.UpdatedAt.UTC()
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

// roomWithHotel scans one row of the rooms/hotels join.
type roomWithHotel struct {
	room  domain.Room
	hotel domain.HotelRecord
}

func (rw *roomWithHotel) scanFrom(s scanner) error {
	h := &rw.hotel
	dest := append(roomDest(&rw.room),
		&h.ID, &h.Name, &h.Address, &h.City, &h.TaxID, &h.MaxRooms, &h.CreatedAt, &h.UpdatedAt)
	if err := s.Scan(dest...); err != nil {
		return err
	}
	rw.room.CreatedAt, rw.room.UpdatedAt = rw.room.CreatedAt.UTC(), rw.room.UpdatedAt.UTC()
	h.CreatedAt, h.UpdatedAt = h.CreatedAt.UTC(), h.UpdatedAt.UTC()
	rw.room.Hotel = h
	return nil
}

func (r *Repo) ListRooms(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.q.QueryContext(ctx, listRoomsWithHotelSQL)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	out := []domain.Room{}
	for rows.Next() {
		rw := &roomWithHotel{}
		if err := rw.scanFrom(rows); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		out = append(out, rw.room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return out, nil
}

func (r *Repo) GetRoom(ctx context.Context, id uuid.UUID) (domain.Room, error) {
	rw := &roomWithHotel{}
	if err := rw.scanFrom(r.q.QueryRowContext(ctx, getRoomWithHotelSQL, id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, fmt.Errorf("get room: %w", err)
	}
	return rw.room, nil
}

func (r *Repo) ListRoomsByHotel(ctx context.Context, hotelID uuid.UUID) ([]domain.Room, error) {
	return r.queryRooms(ctx, listRoomsByHotelSQL, hotelID)
}

func (r *Repo) InsertRoom(ctx context.Context, rm domain.Room) error {
	_, err := r.q.ExecContext(ctx, insertRoomSQL,
		rm.ID, rm.HotelID, rm.Type, rm.Accommodation, rm.Quantity, ts(rm.CreatedAt), ts(rm.UpdatedAt))
	if err != nil {
		return roomConstraintErr(fmt.Errorf("insert room: %w", err), rm)
	}
	return nil
}

func (r *Repo) UpdateRoom(ctx context.Context, rm domain.Room) error {
	res, err := r.q.ExecContext(ctx, updateRoomSQL,
		rm.Type, rm.Accommodation, rm.Quantity, ts(rm.UpdatedAt), rm.ID)
	if err != nil {
		return roomConstraintErr(fmt.Errorf("update room: %w", err), rm)
	}
	return expectRow(res, "update room")
}

func (r *Repo) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, deleteRoomSQL, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return expectRow(res, "delete room")
}

func (r *Repo) DeleteRoomsByHotel(ctx context.Context, hotelID uuid.UUID) error {
	if _, err := r.q.ExecContext(ctx, deleteRoomsByHotelSQL, hotelID); err != nil {
		return fmt.Errorf("delete rooms of hotel: %w", err)
	}
	return nil
}

func expectRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ts stores timestamps in UTC at microsecond precision, the finest DATETIME(6) keeps.
func ts(t time.Time) time.Time { return t.UTC().Truncate(time.Microsecond) }
