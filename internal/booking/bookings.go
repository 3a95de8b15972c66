package booking

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Bookings is a sorted set of bookings in which no two periods overlap. Every mutator returns a
// new set and leaves the receiver untouched, so a set handed to a reader stays stable.
type Bookings struct {
	items []Booking
}

// Empty returns a set with no bookings.
func Empty() Bookings {
	return Bookings{}
}

// From builds a set from arbitrary bookings, sorting them and rejecting any overlap.
func From(items ...Booking) (Bookings, error) {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, Booking.Compare)

	// With periods sorted by start, an overlap exists exactly when some start falls before the
	// latest end seen so far.
	latest := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Overlaps(sorted[latest]) {
			return Bookings{}, overlapError(sorted[latest], sorted[i])
		}
		if sorted[i].period.end.After(sorted[latest].period.end) {
			latest = i
		}
	}
	return Bookings{items: sorted}, nil
}

func overlapError(existing, candidate Booking) error {
	return fmt.Errorf("%w: %s clashes with %s", ErrOverlappingBookings, candidate.period, existing.period)
}

// Add returns a set that also holds b. It fails when b overlaps any booking already present.
func (s Bookings) Add(b Booking) (Bookings, error) {
	if clash, ok := s.overlapping(b); ok {
		return Bookings{}, overlapError(clash, b)
	}
	return s.insert(b), nil
}

// Remove returns a set without b. b must match an element exactly, checked-in flag included.
func (s Bookings) Remove(b Booking) (Bookings, error) {
	idx := s.indexOf(b)
	if idx < 0 {
		return Bookings{}, fmt.Errorf("%w: %s", ErrBookingNotFound, b)
	}
	return Bookings{items: slices.Delete(slices.Clone(s.items), idx, idx+1)}, nil
}

// Replace returns a set in which target is swapped for replacement. When both are the same
// booking (same guest and period) no overlap check is needed; otherwise replacement must not
// overlap any booking other than target.
func (s Bookings) Replace(target, replacement Booking) (Bookings, error) {
	idx := s.indexOf(target)
	if idx < 0 {
		return Bookings{}, fmt.Errorf("%w: %s", ErrBookingNotFound, target)
	}

	rest := Bookings{items: slices.Delete(slices.Clone(s.items), idx, idx+1)}
	if !target.IsSameBooking(replacement) {
		if clash, ok := rest.overlapping(replacement); ok {
			return Bookings{}, overlapError(clash, replacement)
		}
	}
	return rest.insert(replacement), nil
}

// First returns the earliest booking.
func (s Bookings) First() (Booking, error) {
	if len(s.items) == 0 {
		return Booking{}, ErrNoBooking
	}
	return s.items[0], nil
}

// FirstActive returns the earliest booking whose period contains today.
func (s Bookings) FirstActive(today time.Time) (Booking, bool) {
	for _, b := range s.items {
		if b.period.IsActive(today) {
			return b, true
		}
	}
	return Booking{}, false
}

// Find returns the booking covering exactly period.
func (s Bookings) Find(period Period) (Booking, bool) {
	for _, b := range s.items {
		if b.period.Equal(period) {
			return b, true
		}
	}
	return Booking{}, false
}

// Contains reports whether b is an element, compared exactly.
func (s Bookings) Contains(b Booking) bool {
	return s.indexOf(b) >= 0
}

// Overlapping returns the first booking that overlaps b, if any.
func (s Bookings) Overlapping(b Booking) (Booking, bool) {
	return s.overlapping(b)
}

func (s Bookings) IsEmpty() bool { return len(s.items) == 0 }

func (s Bookings) HasBookings() bool { return len(s.items) > 0 }

func (s Bookings) Len() int { return len(s.items) }

// HasActive reports whether any booking is active today. It fails with ErrNoBooking on an empty set.
func (s Bookings) HasActive(today time.Time) (bool, error) {
	if s.IsEmpty() {
		return false, ErrNoBooking
	}
	_, ok := s.FirstActive(today)
	return ok, nil
}

// HasActiveOrExpired reports whether the earliest booking has started by today. It fails with
// ErrNoBooking on an empty set.
func (s Bookings) HasActiveOrExpired(today time.Time) (bool, error) {
	first, err := s.First()
	if err != nil {
		return false, err
	}
	return first.period.IsActiveOrExpired(today), nil
}

// All returns a copy of the bookings in order.
func (s Bookings) All() []Booking {
	return slices.Clone(s.items)
}

// Equal reports whether both sets hold the same bookings in the same order.
func (s Bookings) Equal(other Bookings) bool {
	return slices.EqualFunc(s.items, other.items, Booking.Equal)
}

func (s Bookings) String() string {
	parts := make([]string, 0, len(s.items))
	for _, b := range s.items {
		parts = append(parts, b.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (s Bookings) indexOf(b Booking) int {
	return slices.IndexFunc(s.items, b.Equal)
}

func (s Bookings) overlapping(b Booking) (Booking, bool) {
	for _, existing := range s.items {
		if existing.Overlaps(b) {
			return existing, true
		}
	}
	return Booking{}, false
}

func (s Bookings) insert(b Booking) Bookings {
	idx, _ := slices.BinarySearchFunc(s.items, b, Booking.Compare)
	return Bookings{items: slices.Insert(slices.Clone(s.items), idx, b)}
}
