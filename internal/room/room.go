package room

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/example/hotel-occupancy/internal/booking"
)

// State is the lifecycle state of a room, derived from its bookings on a given day.
type State string

const (
	// StateNoBooking means the room has no bookings at all.
	StateNoBooking State = "no_booking"
	// StateHasBookingNotActive means the room only has bookings that are not active today.
	StateHasBookingNotActive State = "has_booking_not_active"
	// StateActiveNotCheckedIn means a booking is active today but its guest has not checked in.
	StateActiveNotCheckedIn State = "active_not_checked_in"
	// StateCheckedIn means the earliest booking is checked in.
	StateCheckedIn State = "checked_in"
)

// Room is a hotel room with its bookings, tags and the expenses of its checked-in guest.
// Rooms are values: every operation returns an edited copy and leaves the receiver as it was.
// Two rooms are the same room when their numbers match.
type Room struct {
	number   Number
	capacity Capacity
	bookings booking.Bookings
	tags     []string
	expenses []Expense
}

// New returns an empty room.
func New(number Number, capacity Capacity) Room {
	return Room{number: number, capacity: capacity, bookings: booking.Empty()}
}

// Restore rebuilds a room from already validated parts.
func Restore(number Number, capacity Capacity, bookings booking.Bookings, tags []string, expenses []Expense) Room {
	return Room{
		number:   number,
		capacity: capacity,
		bookings: bookings,
		tags:     normalizeTags(tags),
		expenses: slices.Clone(expenses),
	}
}

func (r Room) Number() Number { return r.number }

func (r Room) Capacity() Capacity { return r.capacity }

func (r Room) Bookings() booking.Bookings { return r.bookings }

func (r Room) Tags() []string { return slices.Clone(r.tags) }

func (r Room) Expenses() []Expense { return slices.Clone(r.expenses) }

// IsSameRoom reports whether both rooms carry the same number.
func (r Room) IsSameRoom(other Room) bool {
	return r.number == other.number
}

// HasBookings reports whether the room holds any booking.
func (r Room) HasBookings() bool {
	return r.bookings.HasBookings()
}

// HasActiveBooking reports whether a booking is active today. Fails with ErrNoBooking when empty.
func (r Room) HasActiveBooking(today time.Time) (bool, error) {
	return r.bookings.HasActive(today)
}

// HasActiveOrExpiredBooking reports whether the earliest booking has started. Fails with ErrNoBooking when empty.
func (r Room) HasActiveOrExpiredBooking(today time.Time) (bool, error) {
	return r.bookings.HasActiveOrExpired(today)
}

// FirstActiveBooking returns the earliest booking active today.
func (r Room) FirstActiveBooking(today time.Time) (booking.Booking, bool) {
	return r.bookings.FirstActive(today)
}

// IsCheckedIn reports whether the room's earliest booking is checked in. A checked-in booking is
// always the earliest one, so no other booking needs inspecting.
func (r Room) IsCheckedIn() (bool, error) {
	first, err := r.bookings.First()
	if err != nil {
		return false, err
	}
	return first.IsCheckedIn(), nil
}

// State derives the lifecycle state for today.
func (r Room) State(today time.Time) State {
	first, err := r.bookings.First()
	if err != nil {
		return StateNoBooking
	}
	if first.IsCheckedIn() {
		return StateCheckedIn
	}
	if _, ok := r.bookings.FirstActive(today); ok {
		return StateActiveNotCheckedIn
	}
	return StateHasBookingNotActive
}

// AddBooking returns a room that also holds b. A booking may not be placed ahead of a
// checked-in one.
func (r Room) AddBooking(b booking.Booking) (Room, error) {
	bookings, err := r.bookings.Add(b)
	if err != nil {
		return Room{}, err
	}
	if err := checkedInFirst(bookings); err != nil {
		return Room{}, err
	}
	return r.withBookings(bookings), nil
}

// UpdateBooking returns a room in which target is replaced by edited. A checked-in booking must
// remain the earliest one and must have started by today.
func (r Room) UpdateBooking(target, edited booking.Booking, today time.Time) (Room, error) {
	bookings, err := r.bookings.Replace(target, edited)
	if err != nil {
		return Room{}, err
	}
	if err := ValidateCheckedIn(bookings, today); err != nil {
		return Room{}, err
	}
	return r.withBookings(bookings), nil
}

// CheckIn marks the booking active today as checked in. The earliest booking must be that
// booking: an expired booking still held by the room blocks the next guest until it is checked out.
func (r Room) CheckIn(today time.Time) (Room, error) {
	first, err := r.bookings.First()
	if err != nil {
		return Room{}, err
	}
	active, ok := r.bookings.FirstActive(today)
	if !ok {
		return Room{}, ErrNoActiveBooking
	}
	if first.Period().IsExpired(today) {
		return Room{}, fmt.Errorf("%w: %s", ErrExpiredBookingPending, first)
	}
	if active.IsCheckedIn() {
		return Room{}, ErrOccupiedRoomCheckin
	}
	return r.UpdateBooking(active, active.WithCheckIn(), today)
}

// Checkout removes the earliest booking, which must be checked in or already expired, and clears
// the expenses charged to it.
func (r Room) Checkout(today time.Time) (Room, error) {
	first, err := r.bookings.First()
	if err != nil {
		return Room{}, err
	}
	if !first.IsCheckedIn() && !first.Period().IsExpired(today) {
		return Room{}, ErrNotCheckedIn
	}
	return r.removeBooking(first)
}

// CheckoutPeriod removes the booking covering exactly period.
func (r Room) CheckoutPeriod(period booking.Period) (Room, error) {
	target, ok := r.bookings.Find(period)
	if !ok {
		return Room{}, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, period)
	}
	return r.removeBooking(target)
}

// Reassign moves the booking covering period from r to dest, keeping its guest and checked-in
// flag. A checked-in booking takes its expenses along. A checked-in booking must stay the first
// booking of whichever room holds it, so moves that would put another booking ahead of one are
// rejected. Both edited rooms are returned; on failure neither is.
func (r Room) Reassign(period booking.Period, dest Room) (Room, Room, error) {
	if r.IsSameRoom(dest) {
		return Room{}, Room{}, ErrOriginalRoomReassign
	}
	moved, ok := r.bookings.Find(period)
	if !ok {
		return Room{}, Room{}, fmt.Errorf("%w: %s in room %s", booking.ErrBookingNotFound, period, r.number)
	}

	if destFirst, err := dest.bookings.First(); err == nil {
		if destFirst.IsCheckedIn() && moved.Period().Compare(destFirst.Period()) < 0 {
			return Room{}, Room{}, fmt.Errorf("%w: %s before %s", ErrNewBookingStartsBeforeOldBookingCheckedIn, moved, destFirst)
		}
		if moved.IsCheckedIn() && destFirst.Period().Compare(moved.Period()) < 0 {
			return Room{}, Room{}, fmt.Errorf("%w: %s before %s", ErrOldBookingStartsBeforeNewBookingCheckedIn, destFirst, moved)
		}
	}

	destBookings, err := dest.bookings.Add(moved)
	if err != nil {
		return Room{}, Room{}, err
	}
	sourceBookings, err := r.bookings.Remove(moved)
	if err != nil {
		return Room{}, Room{}, err
	}

	source := r.withBookings(sourceBookings)
	target := dest.withBookings(destBookings)
	if moved.IsCheckedIn() {
		target.expenses = slices.Clone(r.expenses)
		source.expenses = nil
	}
	return source, target, nil
}

// AddExpense charges e to the checked-in guest.
func (r Room) AddExpense(e Expense) (Room, error) {
	if err := e.Validate(); err != nil {
		return Room{}, err
	}
	checkedIn, err := r.IsCheckedIn()
	if err != nil {
		return Room{}, err
	}
	if !checkedIn {
		return Room{}, ErrNotCheckedIn
	}
	edited := r
	edited.expenses = append(slices.Clone(r.expenses), e)
	return edited, nil
}

// WithTags returns a room carrying exactly tags.
func (r Room) WithTags(tags ...string) Room {
	edited := r
	edited.tags = normalizeTags(tags)
	return edited
}

// AddTags returns a room with tags merged into its current ones.
func (r Room) AddTags(tags ...string) Room {
	return r.WithTags(append(slices.Clone(r.tags), tags...)...)
}

// RemoveTags returns a room without the given tags.
func (r Room) RemoveTags(tags ...string) Room {
	drop := normalizeTags(tags)
	kept := slices.DeleteFunc(slices.Clone(r.tags), func(tag string) bool {
		_, found := slices.BinarySearch(drop, tag)
		return found
	})
	return r.WithTags(kept...)
}

func (r Room) withBookings(bookings booking.Bookings) Room {
	edited := r
	edited.bookings = bookings
	return edited
}

func (r Room) removeBooking(b booking.Booking) (Room, error) {
	bookings, err := r.bookings.Remove(b)
	if err != nil {
		return Room{}, err
	}
	edited := r.withBookings(bookings)
	if b.IsCheckedIn() {
		edited.expenses = nil
	}
	return edited, nil
}

// ValidateCheckedIn reports whether bookings can belong to a room on the given day: only the
// earliest booking may be checked in, and only once its period is active or expired.
func ValidateCheckedIn(bookings booking.Bookings, today time.Time) error {
	if err := checkedInFirst(bookings); err != nil {
		return err
	}
	first, err := bookings.First()
	if err != nil {
		return nil
	}
	if first.IsCheckedIn() && !first.Period().IsActiveOrExpired(today) {
		return fmt.Errorf("%w: %s", ErrCheckedInNotStarted, first)
	}
	return nil
}

func checkedInFirst(bookings booking.Bookings) error {
	for i, b := range bookings.All() {
		if i > 0 && b.IsCheckedIn() {
			return fmt.Errorf("%w: %s", ErrCheckedInNotFirst, b)
		}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
