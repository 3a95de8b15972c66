package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/logging"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/room"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

var errorKinds = []struct {
	err  error
	kind string
}{
	{persistence.ErrCorruptRecord, "corrupt_record"},
	{booking.ErrInvalidPeriod, "invalid_period"},
	{booking.ErrInvalidGuest, "invalid_guest"},
	{booking.ErrOverlappingBookings, "overlapping_bookings"},
	{booking.ErrBookingNotFound, "booking_not_found"},
	{booking.ErrNoBooking, "no_booking"},
	{room.ErrNoActiveBooking, "no_active_booking"},
	{room.ErrOccupiedRoomCheckin, "occupied_room_checkin"},
	{room.ErrExpiredBookingPending, "expired_booking_pending"},
	{room.ErrNotCheckedIn, "not_checked_in"},
	{room.ErrOriginalRoomReassign, "original_room_reassign"},
	{room.ErrNewBookingStartsBeforeOldBookingCheckedIn, "reassign_order_conflict"},
	{room.ErrOldBookingStartsBeforeNewBookingCheckedIn, "reassign_order_conflict"},
	{room.ErrCheckedInNotFirst, "checked_in_not_first"},
	{room.ErrCheckedInNotStarted, "checked_in_not_started"},
	{room.ErrRoomNotFound, "room_not_found"},
	{room.ErrDuplicateRoom, "duplicate_room"},
	{room.ErrInvalidRoomNumber, "invalid_room_number"},
	{room.ErrInvalidCapacity, "invalid_capacity"},
	{room.ErrInvalidExpense, "invalid_expense"},
	{ErrPersistence, "persistence"},
}

// ErrorKind maps sentinel and validation errors to a stable logging and metrics label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	for _, candidate := range errorKinds {
		if errors.Is(err, candidate.err) {
			return candidate.kind
		}
	}

	return "unexpected"
}
