package persistence

import "time"

// Room is the stored form of a hotel room. Dates are kept as dd/mm/yyyy text so that loading
// goes back through the same validating parsers as user input.
type Room struct {
	Number    string
	Capacity  int
	Tags      []string
	Bookings  []Booking
	Expenses  []Expense
	UpdatedAt time.Time
}

// Booking is the stored form of a single reservation.
type Booking struct {
	GuestName  string
	GuestPhone string
	GuestEmail string
	StartDate  string
	EndDate    string
	CheckedIn  bool
}

// Expense is the stored form of a charge made by the checked-in guest.
type Expense struct {
	ID          string
	MenuNumber  string
	Description string
	Cost        int64
	ChargedAt   time.Time
}

// CloneRoom returns a deep copy of r.
func CloneRoom(r Room) Room {
	clone := r
	if r.Tags != nil {
		clone.Tags = append([]string(nil), r.Tags...)
	}
	if r.Bookings != nil {
		clone.Bookings = append([]Booking(nil), r.Bookings...)
	}
	if r.Expenses != nil {
		clone.Expenses = append([]Expense(nil), r.Expenses...)
	}
	return clone
}
