package application

import (
	"errors"
	"testing"
	"time"

	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/room"
)

func TestRoomRecordRoundTrip(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	guest := booking.Guest{Name: "Alice Pauline", Phone: "85355255", Email: "alice@example.com"}

	r := room.New("012", room.Double).WithTags("vip")
	r, err := r.AddBooking(booking.New(guest, booking.MustPeriod("13/03/2024", "16/03/2024")))
	if err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	r, err = r.AddBooking(booking.New(guest, booking.MustPeriod("20/03/2024", "21/03/2024")))
	if err != nil {
		t.Fatalf("AddBooking failed: %v", err)
	}
	r, err = r.CheckIn(today)
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	r, err = r.AddExpense(room.Expense{ID: "exp-1", MenuNumber: "4", Cost: 800, ChargedAt: today})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}

	record := roomToRecord(r, today)
	if record.Bookings[0].StartDate != "13/03/2024" || !record.Bookings[0].CheckedIn {
		t.Fatalf("unexpected first booking record %+v", record.Bookings[0])
	}

	restored, err := roomFromRecord(record, today)
	if err != nil {
		t.Fatalf("roomFromRecord failed: %v", err)
	}
	if !restored.Bookings().Equal(r.Bookings()) {
		t.Fatalf("expected bookings %s, got %s", r.Bookings(), restored.Bookings())
	}
	if restored.Capacity() != room.Double || len(restored.Expenses()) != 1 || restored.Tags()[0] != "vip" {
		t.Fatalf("unexpected restored room %+v", restored)
	}
}

func TestRoomFromRecordRejectsCorruptRecords(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)
	valid := func() persistence.Room {
		return persistence.Room{
			Number:   "001",
			Capacity: 1,
			Bookings: []persistence.Booking{
				{GuestName: "Alice", StartDate: "01/01/2024", EndDate: "03/01/2024"},
				{GuestName: "Bob", StartDate: "05/01/2024", EndDate: "06/01/2024"},
			},
		}
	}

	cases := map[string]func(r *persistence.Room){
		"overlapping bookings": func(r *persistence.Room) { r.Bookings[1].StartDate = "02/01/2024" },
		"impossible date":      func(r *persistence.Room) { r.Bookings[0].StartDate = "31/02/2024" },
		"empty guest":          func(r *persistence.Room) { r.Bookings[0].GuestName = " " },
		"late check-in":        func(r *persistence.Room) { r.Bookings[1].CheckedIn = true },
		"future check-in": func(r *persistence.Room) {
			r.Bookings = r.Bookings[1:]
			r.Bookings[0].CheckedIn = true
		},
		"bad number":           func(r *persistence.Room) { r.Number = "101" },
		"bad capacity":         func(r *persistence.Room) { r.Capacity = 3 },
		"negative expense": func(r *persistence.Room) {
			r.Expenses = []persistence.Expense{{ID: "e", MenuNumber: "1", Cost: -1}}
		},
	}

	for name, corrupt := range cases {
		corrupt := corrupt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			record := valid()
			corrupt(&record)
			if _, err := roomFromRecord(record, today); !errors.Is(err, persistence.ErrCorruptRecord) {
				t.Fatalf("expected ErrCorruptRecord, got %v", err)
			}
		})
	}

	if _, err := roomFromRecord(valid(), today); err != nil {
		t.Fatalf("expected valid record to load, got %v", err)
	}

	checkedIn := valid()
	checkedIn.Bookings[0].CheckedIn = true
	if _, err := roomFromRecord(checkedIn, today); err != nil {
		t.Fatalf("expected active checked-in record to load, got %v", err)
	}
	if _, err := roomFromRecord(checkedIn, today.AddDate(0, 0, 30)); err != nil {
		t.Fatalf("expected expired checked-in record to load, got %v", err)
	}
}
