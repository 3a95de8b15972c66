package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/hotel-occupancy/internal/booking"
	"github.com/example/hotel-occupancy/internal/persistence"
	"github.com/example/hotel-occupancy/internal/room"
)

// HotelServiceDeps captures dependencies for constructing a hotel service.
type HotelServiceDeps struct {
	Registry    *room.Registry
	Rooms       persistence.RoomRepository
	Recorder    Recorder
	IDGenerator func() string
	Now         func() time.Time
	Location    *time.Location
	Logger      *slog.Logger
}

// HotelService applies booking operations to the room registry and persists every edited room
// before the registry accepts it.
type HotelService struct {
	registry    *room.Registry
	rooms       persistence.RoomRepository
	recorder    Recorder
	idGenerator func() string
	now         func() time.Time
	location    *time.Location
	logger      *slog.Logger
}

// NewHotelService constructs a hotel service with the provided dependencies.
func NewHotelService(deps HotelServiceDeps) *HotelService {
	registry := deps.Registry
	if registry == nil {
		registry, _ = room.NewRegistry()
	}
	idGenerator := deps.IDGenerator
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	location := deps.Location
	if location == nil {
		location = time.Local
	}
	return &HotelService{
		registry:    registry,
		rooms:       deps.Rooms,
		recorder:    deps.Recorder,
		idGenerator: idGenerator,
		now:         now,
		location:    location,
		logger:      defaultLogger(deps.Logger),
	}
}

func (s *HotelService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HotelService", operation, attrs...)
}

// Today returns the current hotel day.
func (s *HotelService) Today() time.Time {
	return booking.Day(s.now().In(s.location))
}

// Load fills the registry from the repository. When the repository holds no rooms, seedCount
// empty rooms are created and saved first.
func (s *HotelService) Load(ctx context.Context, seedCount int) (loaded int, err error) {
	if s == nil {
		err = fmt.Errorf("HotelService is nil")
		return
	}

	logger := s.loggerWith(ctx, "Load", "seed_count", seedCount)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to load rooms", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_count", loaded).InfoContext(ctx, "rooms loaded")
	}()

	var records []persistence.Room
	if s.rooms != nil {
		records, err = s.rooms.LoadRooms(ctx)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
			return
		}
	}

	var rooms []room.Room
	if len(records) == 0 {
		if seedCount <= 0 {
			return 0, nil
		}
		rooms, err = room.NewHotel(seedCount)
		if err != nil {
			return
		}
		if err = s.persist(ctx, rooms...); err != nil {
			return
		}
	} else {
		today := s.Today()
		rooms = make([]room.Room, 0, len(records))
		for _, record := range records {
			var r room.Room
			r, err = roomFromRecord(record, today)
			if err != nil {
				return
			}
			rooms = append(rooms, r)
		}
	}

	if err = s.registry.Replace(rooms); err != nil {
		return
	}
	s.updateOccupancy()
	return len(rooms), nil
}

// ListRooms returns every room ordered by number.
func (s *HotelService) ListRooms(ctx context.Context) []room.Room {
	rooms := s.registry.List()
	s.loggerWith(ctx, "ListRooms").DebugContext(ctx, "rooms listed", "result_count", len(rooms))
	return rooms
}

// GetRoom returns the room with the given number.
func (s *HotelService) GetRoom(ctx context.Context, number string) (room.Room, error) {
	n, vErr := parseRoomNumber("room_number", number)
	if vErr.HasErrors() {
		return room.Room{}, vErr
	}
	return s.registry.Get(n)
}

// Occupancy counts rooms per lifecycle state for today.
func (s *HotelService) Occupancy(ctx context.Context) Occupancy {
	return occupancyOf(s.registry.List(), s.Today())
}

// AddBooking reserves a room for a guest.
func (s *HotelService) AddBooking(ctx context.Context, number string, input BookingInput) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "AddBooking", "room_number", number)
	defer s.finish(ctx, logger, "AddBooking", time.Now(), &err, "booking added")

	n, vErr := parseRoomNumber("room_number", number)
	b, bookingErr := bookingFromInput(input)
	vErr.merge(bookingErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.AddBooking(b)
	})
}

// UpdateBooking replaces the booking covering params.Target with the one described by
// params.Input. The checked-in flag of the original booking is kept, so a checked-in stay can
// only be edited to dates that have already started.
func (s *HotelService) UpdateBooking(ctx context.Context, params UpdateBookingParams) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "UpdateBooking", "room_number", params.RoomNumber)
	defer s.finish(ctx, logger, "UpdateBooking", time.Now(), &err, "booking updated")

	n, vErr := parseRoomNumber("room_number", params.RoomNumber)
	target, targetErr := periodFromInput("target", params.Target)
	replacement, bookingErr := bookingFromInput(params.Input)
	vErr.merge(targetErr)
	vErr.merge(bookingErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	today := s.Today()
	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		current, ok := r.Bookings().Find(target)
		if !ok {
			return room.Room{}, fmt.Errorf("%w: %s in room %s", booking.ErrBookingNotFound, target, r.Number())
		}
		updated := booking.Restore(replacement.Guest(), replacement.Period(), current.IsCheckedIn())
		return r.UpdateBooking(current, updated, today)
	})
}

// CheckIn checks in the guest whose booking is active today.
func (s *HotelService) CheckIn(ctx context.Context, number string) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "CheckIn", "room_number", number)
	defer s.finish(ctx, logger, "CheckIn", time.Now(), &err, "guest checked in")

	n, vErr := parseRoomNumber("room_number", number)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	today := s.Today()
	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.CheckIn(today)
	})
}

// Checkout checks out the room's checked-in or expired booking.
func (s *HotelService) Checkout(ctx context.Context, number string) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "Checkout", "room_number", number)
	defer s.finish(ctx, logger, "Checkout", time.Now(), &err, "guest checked out")

	n, vErr := parseRoomNumber("room_number", number)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	today := s.Today()
	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.Checkout(today)
	})
}

// CheckoutPeriod removes the booking covering exactly the given dates.
func (s *HotelService) CheckoutPeriod(ctx context.Context, number string, target PeriodInput) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "CheckoutPeriod", "room_number", number)
	defer s.finish(ctx, logger, "CheckoutPeriod", time.Now(), &err, "booking removed")

	n, vErr := parseRoomNumber("room_number", number)
	period, periodErr := periodFromInput("target", target)
	vErr.merge(periodErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.CheckoutPeriod(period)
	})
}

// Reassign moves a booking to another room. Both rooms are saved together.
func (s *HotelService) Reassign(ctx context.Context, params ReassignParams) (from, to room.Room, err error) {
	logger := s.loggerWith(ctx, "Reassign", "room_number", params.RoomNumber, "target_room_number", params.TargetNumber)
	defer s.finish(ctx, logger, "Reassign", time.Now(), &err, "booking reassigned")

	source, vErr := parseRoomNumber("room_number", params.RoomNumber)
	dest, destErr := parseRoomNumber("target_room_number", params.TargetNumber)
	period, periodErr := periodFromInput("target", params.Target)
	vErr.merge(destErr)
	vErr.merge(periodErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	if source == dest {
		err = room.ErrOriginalRoomReassign
		return
	}

	return s.registry.UpdatePair(source, dest, func(a, b room.Room) (room.Room, room.Room, error) {
		editedA, editedB, err := a.Reassign(period, b)
		if err != nil {
			return room.Room{}, room.Room{}, err
		}
		if err := s.persist(ctx, editedA, editedB); err != nil {
			return room.Room{}, room.Room{}, err
		}
		return editedA, editedB, nil
	})
}

// AddExpense charges an expense to the room's checked-in guest.
func (s *HotelService) AddExpense(ctx context.Context, number string, input ExpenseInput) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "AddExpense", "room_number", number, "menu_number", input.MenuNumber)
	defer s.finish(ctx, logger, "AddExpense", time.Now(), &err, "expense added")

	n, vErr := parseRoomNumber("room_number", number)
	if strings.TrimSpace(input.MenuNumber) == "" {
		vErr.add("menu_number", "menu number is required")
	}
	if input.Cost < 0 {
		vErr.add("cost", "cost cannot be negative")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	expense := room.Expense{
		ID:          s.idGenerator(),
		MenuNumber:  strings.TrimSpace(input.MenuNumber),
		Description: strings.TrimSpace(input.Description),
		Cost:        input.Cost,
		ChargedAt:   s.now(),
	}
	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.AddExpense(expense)
	})
}

// SetTags replaces the tags of a room.
func (s *HotelService) SetTags(ctx context.Context, number string, tags []string) (edited room.Room, err error) {
	logger := s.loggerWith(ctx, "SetTags", "room_number", number)
	defer s.finish(ctx, logger, "SetTags", time.Now(), &err, "tags updated")

	n, vErr := parseRoomNumber("room_number", number)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	return s.edit(ctx, n, func(r room.Room) (room.Room, error) {
		return r.WithTags(tags...), nil
	})
}

// edit applies fn to a room and persists the result while the registry lock is held, so a
// failed save leaves the registry as it was.
func (s *HotelService) edit(ctx context.Context, number room.Number, fn func(room.Room) (room.Room, error)) (room.Room, error) {
	return s.registry.Update(number, func(current room.Room) (room.Room, error) {
		edited, err := fn(current)
		if err != nil {
			return room.Room{}, err
		}
		if err := s.persist(ctx, edited); err != nil {
			return room.Room{}, err
		}
		return edited, nil
	})
}

func (s *HotelService) persist(ctx context.Context, rooms ...room.Room) error {
	if s.rooms == nil || len(rooms) == 0 {
		return nil
	}

	stamp := s.now()
	records := make([]persistence.Room, 0, len(rooms))
	for _, r := range rooms {
		records = append(records, roomToRecord(r, stamp))
	}

	var err error
	if len(records) == 1 {
		err = s.rooms.SaveRoom(ctx, records[0])
	} else {
		err = s.rooms.SaveRooms(ctx, records)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

// finish logs and records the outcome of a mutating operation. It is deferred with a pointer to
// the operation's named error.
func (s *HotelService) finish(ctx context.Context, logger *slog.Logger, operation string, started time.Time, errp *error, message string) {
	err := *errp
	outcome := "success"
	if err != nil {
		outcome = ErrorKind(err)
	}
	if s.recorder != nil {
		s.recorder.ObserveOperation(operation, outcome, time.Since(started))
	}

	switch {
	case err == nil:
		logger.InfoContext(ctx, message)
		s.updateOccupancy()
	case errors.Is(err, ErrPersistence) || outcome == "unexpected":
		logger.ErrorContext(ctx, "operation failed", "error", err, "error_kind", outcome)
	default:
		logger.WarnContext(ctx, "operation rejected", "error", err, "error_kind", outcome)
	}
}

func (s *HotelService) updateOccupancy() {
	if s.recorder == nil {
		return
	}
	s.recorder.SetOccupancy(occupancyOf(s.registry.List(), s.Today()))
}

func occupancyOf(rooms []room.Room, today time.Time) Occupancy {
	occupancy := Occupancy{Total: len(rooms)}
	for _, r := range rooms {
		switch r.State(today) {
		case room.StateNoBooking:
			occupancy.Vacant++
		case room.StateHasBookingNotActive:
			occupancy.Reserved++
		case room.StateActiveNotCheckedIn:
			occupancy.Arriving++
		case room.StateCheckedIn:
			occupancy.CheckedIn++
		}
	}
	return occupancy
}

func parseRoomNumber(field, value string) (room.Number, *ValidationError) {
	vErr := &ValidationError{}
	n, err := room.ParseNumber(value)
	if err != nil {
		vErr.add(field, "room number must be three digits between 001 and 100")
	}
	return n, vErr
}

func periodFromInput(field string, input PeriodInput) (booking.Period, *ValidationError) {
	vErr := &ValidationError{}
	period, err := booking.ParsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		vErr.add(field, err.Error())
	}
	return period, vErr
}

func bookingFromInput(input BookingInput) (booking.Booking, *ValidationError) {
	vErr := &ValidationError{}
	guest, err := booking.NewGuest(input.GuestName, input.GuestPhone, input.GuestEmail)
	if err != nil {
		vErr.add("guest", err.Error())
	}
	period, err := booking.ParsePeriod(input.StartDate, input.EndDate)
	if err != nil {
		vErr.add("period", err.Error())
	}
	if vErr.HasErrors() {
		return booking.Booking{}, vErr
	}
	return booking.New(guest, period), vErr
}
