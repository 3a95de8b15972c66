package application

import "time"

// BookingInput captures caller provided booking fields. Dates use the day/month/year text format.
type BookingInput struct {
	GuestName  string
	GuestPhone string
	GuestEmail string
	StartDate  string
	EndDate    string
}

// PeriodInput identifies an existing booking of a room by its dates.
type PeriodInput struct {
	StartDate string
	EndDate   string
}

// UpdateBookingParams wraps the data required to edit an existing booking.
type UpdateBookingParams struct {
	RoomNumber string
	Target     PeriodInput
	Input      BookingInput
}

// ReassignParams wraps the data required to move a booking to another room.
type ReassignParams struct {
	RoomNumber   string
	Target       PeriodInput
	TargetNumber string
}

// ExpenseInput captures a charge made by the checked-in guest.
type ExpenseInput struct {
	MenuNumber  string
	Description string
	Cost        int64
}

// Occupancy summarises room states for a given day.
type Occupancy struct {
	Total     int
	Vacant    int
	Reserved  int
	Arriving  int
	CheckedIn int
}

// Recorder receives service level measurements. A nil Recorder disables them.
type Recorder interface {
	ObserveOperation(operation, outcome string, elapsed time.Duration)
	SetOccupancy(occupancy Occupancy)
}
