package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/hotel-occupancy/internal/persistence"
)

// Storage keeps rooms in process memory. It is used when no database is configured and by tests.
type Storage struct {
	mu    sync.RWMutex
	rooms map[string]persistence.Room
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{rooms: make(map[string]persistence.Room)}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// Ping always succeeds.
func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

// LoadRooms returns every stored room ordered by number.
func (s *Storage) LoadRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, persistence.CloneRoom(room))
	}

	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Number < rooms[j].Number
	})

	return rooms, nil
}

// GetRoom retrieves a room by number.
func (s *Storage) GetRoom(ctx context.Context, number string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[number]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}

	return persistence.CloneRoom(room), nil
}

// SaveRoom inserts or replaces a room.
func (s *Storage) SaveRoom(ctx context.Context, room persistence.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[room.Number] = persistence.CloneRoom(room)
	return nil
}

// SaveRooms inserts or replaces several rooms at once. Nothing is written when any room is invalid.
func (s *Storage) SaveRooms(ctx context.Context, rooms []persistence.Room) error {
	for _, room := range rooms {
		if err := validateRoom(room); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, room := range rooms {
		s.rooms[room.Number] = persistence.CloneRoom(room)
	}
	return nil
}

func validateRoom(room persistence.Room) error {
	if room.Number == "" {
		return fmt.Errorf("%w: room number is empty", persistence.ErrConstraintViolation)
	}
	if room.Capacity <= 0 {
		return fmt.Errorf("%w: room %s capacity must be positive", persistence.ErrConstraintViolation, room.Number)
	}
	return nil
}
