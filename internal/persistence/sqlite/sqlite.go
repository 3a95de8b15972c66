package sqlite

import (
	"context"
)

// Storage is a migrated SQLite database exposing the room repository.
type Storage struct {
	*RoomRepository
	pool *Pool
}

// Open connects to the database described by cfg and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	pool, err := OpenPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return &Storage{RoomRepository: NewRoomRepository(pool), pool: pool}, nil
}

// Ping tests the database connection.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *Storage) Close() error {
	return s.pool.Close()
}
