package booking

// Booking pairs a guest with the period they reserved. Values are never edited in place;
// WithCheckIn and the Bookings mutators return copies.
type Booking struct {
	guest     Guest
	period    Period
	checkedIn bool
}

// New returns a booking that is not yet checked in.
func New(guest Guest, period Period) Booking {
	return Booking{guest: guest, period: period}
}

// Restore rebuilds a booking read back from storage, including its checked-in flag.
func Restore(guest Guest, period Period, checkedIn bool) Booking {
	return Booking{guest: guest, period: period, checkedIn: checkedIn}
}

func (b Booking) Guest() Guest { return b.guest }

func (b Booking) Period() Period { return b.period }

func (b Booking) IsCheckedIn() bool { return b.checkedIn }

// WithCheckIn returns a checked-in copy. Expiry is not validated here.
func (b Booking) WithCheckIn() Booking {
	b.checkedIn = true
	return b
}

// IsSameBooking reports whether both bookings hold the same guest and period, ignoring check-in.
func (b Booking) IsSameBooking(other Booking) bool {
	return b.guest == other.guest && b.period.Equal(other.period)
}

// Equal reports full equality, including the checked-in flag.
func (b Booking) Equal(other Booking) bool {
	return b.IsSameBooking(other) && b.checkedIn == other.checkedIn
}

// Overlaps reports whether the two booking periods overlap.
func (b Booking) Overlaps(other Booking) bool {
	return b.period.Overlaps(other.period)
}

// Compare orders by period, then guest, then checked-in (false first).
func (b Booking) Compare(other Booking) int {
	if c := b.period.Compare(other.period); c != 0 {
		return c
	}
	if c := b.guest.Compare(other.guest); c != 0 {
		return c
	}
	switch {
	case b.checkedIn == other.checkedIn:
		return 0
	case other.checkedIn:
		return -1
	default:
		return 1
	}
}

func (b Booking) String() string {
	s := b.guest.String() + " " + b.period.String()
	if b.checkedIn {
		s += " (checked in)"
	}
	return s
}
