package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/hotel-occupancy/internal/application"
	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/room"
)

var (
	guestCounter   uint64
	roomCounter    uint64
	expenseCounter uint64
)

var referenceTime = time.Date(2024, time.March, 14, 10, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical "now" used by fixtures. Its calendar day is the hotel's today.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceDay returns ReferenceTime truncated to its calendar day.
func ReferenceDay() time.Time {
	return booking.Day(referenceTime)
}

// DateText formats the day offset days from ReferenceDay as day/month/year text.
func DateText(offset int) string {
	return booking.FormatDate(ReferenceDay().AddDate(0, 0, offset))
}

// ----------------------------- Booking fixtures -----------------------------

// BookingFixture represents a deterministic reservation.
type BookingFixture struct {
	GuestName  string
	GuestPhone string
	GuestEmail string
	StartDate  string
	EndDate    string
	CheckedIn  bool
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a one night booking starting on ReferenceDay for a fresh guest.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&guestCounter, 1)
	fixture := BookingFixture{
		GuestName:  fmt.Sprintf("Guest %03d", idx),
		GuestPhone: fmt.Sprintf("9000%04d", idx),
		GuestEmail: fmt.Sprintf("guest-%03d@example.com", idx),
		StartDate:  DateText(0),
		EndDate:    DateText(1),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithGuestName overrides the generated guest name.
func WithGuestName(name string) BookingOption {
	return func(f *BookingFixture) {
		f.GuestName = name
	}
}

// WithStay sets the booking to start offset days from ReferenceDay and last the given nights.
func WithStay(offset, nights int) BookingOption {
	return func(f *BookingFixture) {
		f.StartDate = DateText(offset)
		f.EndDate = DateText(offset + nights)
	}
}

// WithDates sets the booking dates verbatim.
func WithDates(start, end string) BookingOption {
	return func(f *BookingFixture) {
		f.StartDate = start
		f.EndDate = end
	}
}

// CheckedIn marks the booking as checked in.
func CheckedIn() BookingOption {
	return func(f *BookingFixture) {
		f.CheckedIn = true
	}
}

// Input returns the fixture as an application.BookingInput.
func (f BookingFixture) Input() application.BookingInput {
	return application.BookingInput{
		GuestName:  f.GuestName,
		GuestPhone: f.GuestPhone,
		GuestEmail: f.GuestEmail,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
	}
}

// Period returns the fixture's dates as an application.PeriodInput.
func (f BookingFixture) Period() application.PeriodInput {
	return application.PeriodInput{StartDate: f.StartDate, EndDate: f.EndDate}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		GuestName:  f.GuestName,
		GuestPhone: f.GuestPhone,
		GuestEmail: f.GuestEmail,
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		CheckedIn:  f.CheckedIn,
	}
}

// Domain returns the fixture as a booking.Booking. It panics on invalid fixture data.
func (f BookingFixture) Domain() booking.Booking {
	guest, err := booking.NewGuest(f.GuestName, f.GuestPhone, f.GuestEmail)
	if err != nil {
		panic(err)
	}
	return booking.Restore(guest, booking.MustPeriod(f.StartDate, f.EndDate), f.CheckedIn)
}

// ----------------------------- Expense fixtures -----------------------------

// ExpenseOption configures the generated expense fixture.
type ExpenseOption func(*room.Expense)

// NewExpenseFixture returns a deterministic expense charged at ReferenceTime.
func NewExpenseFixture(opts ...ExpenseOption) room.Expense {
	idx := atomic.AddUint64(&expenseCounter, 1)
	fixture := room.Expense{
		ID:          fmt.Sprintf("expense-%03d", idx),
		MenuNumber:  fmt.Sprintf("M%02d", idx%100),
		Description: "Room service",
		Cost:        int64(1000 + idx),
		ChargedAt:   referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithCost overrides the generated cost.
func WithCost(cost int64) ExpenseOption {
	return func(e *room.Expense) {
		e.Cost = cost
	}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic hotel room.
type RoomFixture struct {
	Number   string
	Capacity room.Capacity
	Tags     []string
	Bookings []BookingFixture
	Expenses []room.Expense
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns an empty double room with the next free number.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		Number:   fmt.Sprintf("%03d", 1+(idx-1)%room.MaxNumber),
		Capacity: room.Double,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomNumber overrides the generated room number.
func WithRoomNumber(number string) RoomOption {
	return func(f *RoomFixture) {
		f.Number = number
	}
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity room.Capacity) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// WithRoomTags sets the room tags.
func WithRoomTags(tags ...string) RoomOption {
	return func(f *RoomFixture) {
		f.Tags = append([]string(nil), tags...)
	}
}

// WithBookings appends bookings to the room.
func WithBookings(bookings ...BookingFixture) RoomOption {
	return func(f *RoomFixture) {
		f.Bookings = append(f.Bookings, bookings...)
	}
}

// WithExpenses appends expenses to the room.
func WithExpenses(expenses ...room.Expense) RoomOption {
	return func(f *RoomFixture) {
		f.Expenses = append(f.Expenses, expenses...)
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	record := persistence.Room{
		Number:    f.Number,
		Capacity:  int(f.Capacity),
		Tags:      append([]string(nil), f.Tags...),
		UpdatedAt: referenceTime,
	}
	for _, b := range f.Bookings {
		record.Bookings = append(record.Bookings, b.Persistence())
	}
	for _, e := range f.Expenses {
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

// Domain returns the fixture as a room.Room. It panics on invalid fixture data.
func (f RoomFixture) Domain() room.Room {
	number, err := room.ParseNumber(f.Number)
	if err != nil {
		panic(err)
	}
	items := make([]booking.Booking, 0, len(f.Bookings))
	for _, b := range f.Bookings {
		items = append(items, b.Domain())
	}
	bookings, err := booking.From(items...)
	if err != nil {
		panic(err)
	}
	return room.Restore(number, f.Capacity, bookings, f.Tags, f.Expenses)
}
