package persistence

import "context"

// RoomRepository stores whole rooms. A room is always written with all of its bookings,
// tags and expenses so a reader never sees half of an edit.
type RoomRepository interface {
	LoadRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, number string) (Room, error)
	SaveRoom(ctx context.Context, room Room) error
	SaveRooms(ctx context.Context, rooms []Room) error
}
