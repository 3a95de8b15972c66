package testfixtures

import (
	"context"
	"testing"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/room"
)

func TestServiceFactoryNewHotelService(t *testing.T) {
	factory := NewServiceFactory()
	svc := factory.NewHotelService(HotelServiceDeps{})

	if _, err := svc.Load(context.Background(), 3); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !svc.Today().Equal(factory.Clock.Today()) {
		t.Fatalf("expected today %v, got %v", factory.Clock.Today(), svc.Today())
	}

	guest := NewBookingFixture()
	if _, err := svc.AddBooking(context.Background(), "001", guest.Input()); err != nil {
		t.Fatalf("AddBooking returned error: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "001"); err != nil {
		t.Fatalf("CheckIn returned error: %v", err)
	}

	edited, err := svc.AddExpense(context.Background(), "001", application.ExpenseInput{MenuNumber: "M1", Cost: 500})
	if err != nil {
		t.Fatalf("AddExpense returned error: %v", err)
	}
	expenses := edited.Expenses()
	if len(expenses) != 1 || expenses[0].ID != "expense-1" {
		t.Fatalf("expected generated ID expense-1, got %+v", expenses)
	}
	if !expenses[0].ChargedAt.Equal(factory.Clock.Now()) {
		t.Fatalf("expected charge time %v, got %v", factory.Clock.Now(), expenses[0].ChargedAt)
	}
}

func TestServiceFactoryNewLoadedHotelService(t *testing.T) {
	factory := NewServiceFactory()
	fixture := NewRoomFixture(
		WithRoomNumber("042"),
		WithRoomCapacity(room.Suite),
		WithRoomTags("sea view"),
		WithBookings(
			NewBookingFixture(WithStay(-1, 2), CheckedIn()),
			NewBookingFixture(WithStay(3, 2)),
		),
		WithExpenses(NewExpenseFixture(WithCost(1200))),
	)

	svc, store := factory.NewLoadedHotelService(t, fixture)

	got, err := svc.GetRoom(context.Background(), "042")
	if err != nil {
		t.Fatalf("GetRoom returned error: %v", err)
	}
	if got.State(svc.Today()) != room.StateCheckedIn {
		t.Fatalf("expected checked-in room, got %s", got.State(svc.Today()))
	}
	if !got.Bookings().Equal(fixture.Domain().Bookings()) {
		t.Fatalf("bookings differ: %s vs %s", got.Bookings(), fixture.Domain().Bookings())
	}
	if total := room.TotalCost(got.Expenses()); total != 1200 {
		t.Fatalf("expected expense total 1200, got %d", total)
	}

	records, err := store.LoadRooms(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one stored room, got %d (%v)", len(records), err)
	}
}
