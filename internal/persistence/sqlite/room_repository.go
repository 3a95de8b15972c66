package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/example/hotel-occupancy/internal/persistence"
)

var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// RoomRepository implements persistence.RoomRepository on SQLite. Each save rewrites the room's
// tags, bookings and expenses inside one transaction.
type RoomRepository struct {
	pool *Pool
	now  func() time.Time
}

// NewRoomRepository creates a repository on pool.
func NewRoomRepository(pool *Pool) *RoomRepository {
	return &RoomRepository{pool: pool, now: time.Now}
}

// LoadRooms returns every stored room ordered by number.
func (r *RoomRepository) LoadRooms(ctx context.Context) ([]persistence.Room, error) {
	var rooms []persistence.Room
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		rooms, err = r.selectRooms(ctx, tx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom retrieves a room by number.
func (r *RoomRepository) GetRoom(ctx context.Context, number string) (persistence.Room, error) {
	var rooms []persistence.Room
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var err error
		rooms, err = r.selectRooms(ctx, tx, squirrel.Eq{"number": number})
		return err
	})
	if err != nil {
		return persistence.Room{}, err
	}
	if len(rooms) == 0 {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return rooms[0], nil
}

// SaveRoom inserts or replaces a room.
func (r *RoomRepository) SaveRoom(ctx context.Context, room persistence.Room) error {
	return r.SaveRooms(ctx, []persistence.Room{room})
}

// SaveRooms inserts or replaces rooms in a single transaction.
func (r *RoomRepository) SaveRooms(ctx context.Context, rooms []persistence.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, room := range rooms {
			if err := r.saveRoom(ctx, tx, room); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *RoomRepository) saveRoom(ctx context.Context, tx queryer, room persistence.Room) error {
	if room.Number == "" {
		return fmt.Errorf("%w: room number is empty", persistence.ErrConstraintViolation)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: room %s capacity must be positive", persistence.ErrConstraintViolation, room.Number)
	}

	updatedAt := room.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now()
	}

	upsert := builder.Insert("rooms").
		Columns("number", "capacity", "updated_at").
		Values(room.Number, room.Capacity, formatTime(updatedAt)).
		Suffix("ON CONFLICT(number) DO UPDATE SET capacity = excluded.capacity, updated_at = excluded.updated_at")
	if err := exec(ctx, tx, "SaveRoom - upsert room", upsert); err != nil {
		return err
	}

	for _, table := range []string{"room_tags", "bookings", "expenses"} {
		del := builder.Delete(table).Where(squirrel.Eq{"room_number": room.Number})
		if err := exec(ctx, tx, "SaveRoom - clear "+table, del); err != nil {
			return err
		}
	}

	if len(room.Tags) > 0 {
		insert := builder.Insert("room_tags").Columns("room_number", "tag")
		for _, tag := range room.Tags {
			insert = insert.Values(room.Number, tag)
		}
		if err := exec(ctx, tx, "SaveRoom - insert tags", insert); err != nil {
			return err
		}
	}

	if len(room.Bookings) > 0 {
		insert := builder.Insert("bookings").Columns(
			"room_number", "position", "guest_name", "guest_phone", "guest_email",
			"start_date", "end_date", "checked_in",
		)
		for i, b := range room.Bookings {
			insert = insert.Values(room.Number, i, b.GuestName, b.GuestPhone, b.GuestEmail, b.StartDate, b.EndDate, b.CheckedIn)
		}
		if err := exec(ctx, tx, "SaveRoom - insert bookings", insert); err != nil {
			return err
		}
	}

	if len(room.Expenses) > 0 {
		insert := builder.Insert("expenses").Columns(
			"id", "room_number", "menu_number", "description", "cost", "charged_at",
		)
		for _, e := range room.Expenses {
			insert = insert.Values(e.ID, room.Number, e.MenuNumber, e.Description, e.Cost, formatTime(e.ChargedAt))
		}
		if err := exec(ctx, tx, "SaveRoom - insert expenses", insert); err != nil {
			return err
		}
	}

	return nil
}

func (r *RoomRepository) selectRooms(ctx context.Context, tx queryer, where squirrel.Sqlizer) ([]persistence.Room, error) {
	roomQuery := builder.Select("number", "capacity", "updated_at").From("rooms").OrderBy("number ASC")
	if where != nil {
		roomQuery = roomQuery.Where(where)
	}

	rows, err := query(ctx, tx, "LoadRooms - select rooms", roomQuery)
	if err != nil {
		return nil, err
	}

	var rooms []persistence.Room
	index := make(map[string]int)
	err = scanAll(rows, func(rows *sql.Rows) error {
		var room persistence.Room
		var updatedAt string
		if err := rows.Scan(&room.Number, &room.Capacity, &updatedAt); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return fmt.Errorf("%w: room %s updated_at: %v", persistence.ErrCorruptRecord, room.Number, err)
		}
		room.UpdatedAt = parsed
		index[room.Number] = len(rooms)
		rooms = append(rooms, room)
		return nil
	})
	if err != nil || len(rooms) == 0 {
		return rooms, err
	}

	numbers := make([]string, 0, len(rooms))
	for _, room := range rooms {
		numbers = append(numbers, room.Number)
	}
	owned := squirrel.Eq{"room_number": numbers}

	rows, err = query(ctx, tx, "LoadRooms - select tags",
		builder.Select("room_number", "tag").From("room_tags").Where(owned).OrderBy("room_number", "tag"))
	if err != nil {
		return nil, err
	}
	err = scanAll(rows, func(rows *sql.Rows) error {
		var number, tag string
		if err := rows.Scan(&number, &tag); err != nil {
			return err
		}
		rooms[index[number]].Tags = append(rooms[index[number]].Tags, tag)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = query(ctx, tx, "LoadRooms - select bookings",
		builder.Select("room_number", "guest_name", "guest_phone", "guest_email", "start_date", "end_date", "checked_in").
			From("bookings").Where(owned).OrderBy("room_number", "position"))
	if err != nil {
		return nil, err
	}
	err = scanAll(rows, func(rows *sql.Rows) error {
		var number string
		var b persistence.Booking
		if err := rows.Scan(&number, &b.GuestName, &b.GuestPhone, &b.GuestEmail, &b.StartDate, &b.EndDate, &b.CheckedIn); err != nil {
			return err
		}
		rooms[index[number]].Bookings = append(rooms[index[number]].Bookings, b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rows, err = query(ctx, tx, "LoadRooms - select expenses",
		builder.Select("room_number", "id", "menu_number", "description", "cost", "charged_at").
			From("expenses").Where(owned).OrderBy("room_number", "charged_at", "id"))
	if err != nil {
		return nil, err
	}
	err = scanAll(rows, func(rows *sql.Rows) error {
		var number, chargedAt string
		var e persistence.Expense
		if err := rows.Scan(&number, &e.ID, &e.MenuNumber, &e.Description, &e.Cost, &chargedAt); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339Nano, chargedAt)
		if err != nil {
			return fmt.Errorf("%w: expense %s charged_at: %v", persistence.ErrCorruptRecord, e.ID, err)
		}
		e.ChargedAt = parsed
		rooms[index[number]].Expenses = append(rooms[index[number]].Expenses, e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rooms, nil
}

func exec(ctx context.Context, tx queryer, op string, stmt squirrel.Sqlizer) error {
	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBuildQuery, op, err)
	}
	if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
		return mapError(op, err)
	}
	return nil
}

func query(ctx context.Context, tx queryer, op string, stmt squirrel.Sqlizer) (*sql.Rows, error) {
	sqlText, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBuildQuery, op, err)
	}
	rows, err := tx.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	return rows, nil
}

func scanAll(rows *sql.Rows, scan func(*sql.Rows) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			if errors.Is(err, persistence.ErrCorruptRecord) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrScanRow, err)
		}
	}
	return rows.Err()
}

// mapError maps SQLite constraint failures to persistence errors.
func mapError(op string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "constraint failed") {
		return fmt.Errorf("%w: %s: %v", persistence.ErrConstraintViolation, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
