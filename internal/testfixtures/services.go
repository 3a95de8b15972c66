package testfixtures

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/persistence/memory"
)

// ServiceFactory assists tests with constructing hotel services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// HotelServiceDeps captures optional dependencies for constructing a hotel service.
// Zero values fall back to an in-memory store, the factory clock and generator, and UTC.
type HotelServiceDeps struct {
	Rooms    persistence.RoomRepository
	Recorder application.Recorder
	Logger   *slog.Logger
}

// NewHotelService builds a hotel service with an empty registry.
func (f *ServiceFactory) NewHotelService(deps HotelServiceDeps) *application.HotelService {
	rooms := deps.Rooms
	if rooms == nil {
		rooms = memory.New()
	}
	return application.NewHotelService(application.HotelServiceDeps{
		Rooms:       rooms,
		Recorder:    deps.Recorder,
		IDGenerator: f.IDGenerator.NextFunc(),
		Now:         f.Clock.NowFunc(),
		Location:    time.UTC,
		Logger:      deps.Logger,
	})
}

// NewLoadedHotelService stores the given rooms in a fresh in-memory repository and loads
// them into a new service. It fails the test when loading fails.
func (f *ServiceFactory) NewLoadedHotelService(tb testing.TB, rooms ...RoomFixture) (*application.HotelService, *memory.Storage) {
	tb.Helper()

	store := memory.New()
	records := make([]persistence.Room, 0, len(rooms))
	for _, r := range rooms {
		records = append(records, r.Persistence())
	}
	if len(records) > 0 {
		if err := store.SaveRooms(context.Background(), records); err != nil {
			tb.Fatalf("failed to store rooms: %v", err)
		}
	}

	svc := f.NewHotelService(HotelServiceDeps{Rooms: store})
	if _, err := svc.Load(context.Background(), 0); err != nil {
		tb.Fatalf("failed to load rooms: %v", err)
	}
	return svc, store
}
