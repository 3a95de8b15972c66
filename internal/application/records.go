package application

import (
	"fmt"
	"time"

	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/room"
)

func roomToRecord(r room.Room, updatedAt time.Time) persistence.Room {
	record := persistence.Room{
		Number:    r.Number().String(),
		Capacity:  int(r.Capacity()),
		Tags:      r.Tags(),
		UpdatedAt: updatedAt,
	}
	for _, b := range r.Bookings().All() {
		guest := b.Guest()
		record.Bookings = append(record.Bookings, persistence.Booking{
			GuestName:  guest.Name,
			GuestPhone: guest.Phone,
			GuestEmail: guest.Email,
			StartDate:  booking.FormatDate(b.Period().Start()),
			EndDate:    booking.FormatDate(b.Period().End()),
			CheckedIn:  b.IsCheckedIn(),
		})
	}
	for _, e := range r.Expenses() {
		record.Expenses = append(record.Expenses, persistence.Expense{
			ID:          e.ID,
			MenuNumber:  e.MenuNumber,
			Description: e.Description,
			Cost:        e.Cost,
			ChargedAt:   e.ChargedAt,
		})
	}
	return record
}

// roomFromRecord rebuilds a room through the same validating constructors used for user input,
// so a stored record that breaks any booking invariant as of today is rejected instead of loaded.
func roomFromRecord(record persistence.Room, today time.Time) (room.Room, error) {
	corrupt := func(err error) error {
		return fmt.Errorf("%w: room %q: %w", persistence.ErrCorruptRecord, record.Number, err)
	}

	number, err := room.ParseNumber(record.Number)
	if err != nil {
		return room.Room{}, corrupt(err)
	}
	capacity, err := room.CapacityOf(record.Capacity)
	if err != nil {
		return room.Room{}, corrupt(err)
	}

	items := make([]booking.Booking, 0, len(record.Bookings))
	for _, stored := range record.Bookings {
		period, err := booking.ParsePeriod(stored.StartDate, stored.EndDate)
		if err != nil {
			return room.Room{}, corrupt(err)
		}
		guest, err := booking.NewGuest(stored.GuestName, stored.GuestPhone, stored.GuestEmail)
		if err != nil {
			return room.Room{}, corrupt(err)
		}
		items = append(items, booking.Restore(guest, period, stored.CheckedIn))
	}
	bookings, err := booking.From(items...)
	if err != nil {
		return room.Room{}, corrupt(err)
	}
	if err := room.ValidateCheckedIn(bookings, today); err != nil {
		return room.Room{}, corrupt(err)
	}

	expenses := make([]room.Expense, 0, len(record.Expenses))
	for _, stored := range record.Expenses {
		e := room.Expense{
			ID:          stored.ID,
			MenuNumber:  stored.MenuNumber,
			Description: stored.Description,
			Cost:        stored.Cost,
			ChargedAt:   stored.ChargedAt,
		}
		if err := e.Validate(); err != nil {
			return room.Room{}, corrupt(err)
		}
		expenses = append(expenses, e)
	}

	return room.Restore(number, capacity, bookings, record.Tags, expenses), nil
}
