package room

import "fmt"

// NewHotel creates count empty rooms numbered from "001". The first half are singles, the last
// tenth suites and the rest doubles.
func NewHotel(count int) ([]Room, error) {
	if count < MinNumber || count > MaxNumber {
		return nil, fmt.Errorf("%w: hotel size %d must be between %d and %d", ErrInvalidRoomNumber, count, MinNumber, MaxNumber)
	}

	singles := count / 2
	suites := count / 10
	rooms := make([]Room, 0, count)
	for i := 1; i <= count; i++ {
		number, err := NumberOf(i)
		if err != nil {
			return nil, err
		}
		capacity := Double
		switch {
		case i <= singles:
			capacity = Single
		case i > count-suites:
			capacity = Suite
		}
		rooms = append(rooms, New(number, capacity))
	}
	return rooms, nil
}
