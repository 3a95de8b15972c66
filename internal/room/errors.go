package room

import (
	"errors"

	"github.com/example/hotel-occupancy/internal/booking"
)

var (
	// ErrInvalidRoomNumber is returned for numbers outside "001".."100" or not three digits.
	ErrInvalidRoomNumber = errors.New("room: invalid room number")
	// ErrInvalidCapacity is returned for unknown capacity names or head counts.
	ErrInvalidCapacity = errors.New("room: invalid capacity")
	// ErrInvalidExpense is returned when an expense has no menu number or a negative cost.
	ErrInvalidExpense = errors.New("room: invalid expense")
	// ErrNoActiveBooking is returned when checking in without a booking active today.
	ErrNoActiveBooking = errors.New("room: no active booking")
	// ErrOccupiedRoomCheckin is returned when the active booking is already checked in.
	ErrOccupiedRoomCheckin = errors.New("room: active booking already checked in")
	// ErrExpiredBookingPending is returned when an expired booking has to be checked out before the next check-in.
	ErrExpiredBookingPending = errors.New("room: expired booking not checked out")
	// ErrNotCheckedIn is returned when an operation needs a checked-in guest.
	ErrNotCheckedIn = errors.New("room: no checked-in booking")
	// ErrOriginalRoomReassign is returned when reassigning a booking to its own room.
	ErrOriginalRoomReassign = errors.New("room: cannot reassign to the original room")
	// ErrNewBookingStartsBeforeOldBookingCheckedIn is returned when the moved booking would start
	// before the checked-in booking already occupying the destination room.
	ErrNewBookingStartsBeforeOldBookingCheckedIn = errors.New("room: reassigned booking starts before the destination's checked-in booking")
	// ErrOldBookingStartsBeforeNewBookingCheckedIn is returned when a checked-in booking would be
	// moved behind an earlier booking of the destination room.
	ErrOldBookingStartsBeforeNewBookingCheckedIn = errors.New("room: destination booking starts before the reassigned checked-in booking")
	// ErrCheckedInNotFirst is returned when an edit would put another booking ahead of the
	// checked-in one.
	ErrCheckedInNotFirst = errors.New("room: checked-in booking must be the earliest booking")
	// ErrCheckedInNotStarted is returned when a checked-in booking would cover a period that has
	// not started yet.
	ErrCheckedInNotStarted = errors.New("room: checked-in booking has not started")
	// ErrRoomNotFound is returned when the registry has no room with the requested number.
	ErrRoomNotFound = errors.New("room: room not found")
	// ErrDuplicateRoom is returned when a room number is already taken by another entry.
	ErrDuplicateRoom = errors.New("room: duplicate room")
)

// ErrNoBooking is shared with the booking set so callers can match either layer.
var ErrNoBooking = booking.ErrNoBooking
