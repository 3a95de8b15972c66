package room

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MinNumber and MaxNumber bound the hotel's room numbers.
	MinNumber = 1
	MaxNumber = 100
)

// Number is a validated three digit room number such as "042".
type Number string

// ParseNumber validates text as a room number between "001" and "100".
func ParseNumber(value string) (Number, error) {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) != 3 {
		return "", fmt.Errorf("%w: %q must have three digits", ErrInvalidRoomNumber, value)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < MinNumber || n > MaxNumber || strings.ContainsAny(trimmed, "+-") {
		return "", fmt.Errorf("%w: %q must be between 001 and 100", ErrInvalidRoomNumber, value)
	}
	return Number(trimmed), nil
}

// NumberOf formats n as a room number.
func NumberOf(n int) (Number, error) {
	return ParseNumber(fmt.Sprintf("%03d", n))
}

func (n Number) String() string { return string(n) }

// Capacity is the number of guests a room sleeps.
type Capacity int

const (
	Single Capacity = 1
	Double Capacity = 2
	Suite  Capacity = 5
)

// ParseCapacity accepts a capacity name ("single", "double", "suite") or its head count.
func ParseCapacity(value string) (Capacity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "single", "1":
		return Single, nil
	case "double", "2":
		return Double, nil
	case "suite", "5":
		return Suite, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCapacity, value)
}

// CapacityOf converts a stored head count back to a Capacity.
func CapacityOf(guests int) (Capacity, error) {
	return ParseCapacity(strconv.Itoa(guests))
}

func (c Capacity) String() string {
	switch c {
	case Single:
		return "single"
	case Double:
		return "double"
	case Suite:
		return "suite"
	default:
		return "capacity(" + strconv.Itoa(int(c)) + ")"
	}
}
