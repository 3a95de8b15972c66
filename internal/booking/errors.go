package booking

import "errors"

var (
	// ErrInvalidPeriod is returned when a date is malformed or the start is not strictly before the end.
	ErrInvalidPeriod = errors.New("booking: invalid period")
	// ErrInvalidGuest is returned when guest details fail validation.
	ErrInvalidGuest = errors.New("booking: invalid guest")
	// ErrOverlappingBookings is returned when an operation would leave two overlapping periods in one set.
	ErrOverlappingBookings = errors.New("booking: overlapping bookings")
	// ErrBookingNotFound is returned when a remove or replace target is absent from the set.
	ErrBookingNotFound = errors.New("booking: booking not found")
	// ErrNoBooking is returned when an operation needs at least one booking and the set is empty.
	ErrNoBooking = errors.New("booking: no booking")
)
