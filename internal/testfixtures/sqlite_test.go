package testfixtures

import (
	"context"
	"testing"

	"github.com/example/hotel-occupancy/internal/room"
)

func TestSQLiteHarnessBacksHotelService(t *testing.T) {
	harness := NewSQLiteHarness(t)
	factory := NewServiceFactory()

	svc := factory.NewHotelService(HotelServiceDeps{Rooms: harness.Storage})
	if n, err := svc.Load(context.Background(), 10); err != nil || n != 10 {
		t.Fatalf("expected 10 seeded rooms, got %d (%v)", n, err)
	}

	stay := NewBookingFixture(WithStay(0, 3))
	if _, err := svc.AddBooking(context.Background(), "007", stay.Input()); err != nil {
		t.Fatalf("AddBooking returned error: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "007"); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}

	reloaded := factory.NewHotelService(HotelServiceDeps{Rooms: harness.Storage})
	if n, err := reloaded.Load(context.Background(), 10); err != nil || n != 10 {
		t.Fatalf("expected 10 stored rooms, got %d (%v)", n, err)
	}
	got, err := reloaded.GetRoom(context.Background(), "007")
	if err != nil {
		t.Fatalf("GetRoom returned error: %v", err)
	}
	if got.State(reloaded.Today()) != room.StateCheckedIn {
		t.Fatalf("expected checked-in room after reload, got %s", got.State(reloaded.Today()))
	}
}
