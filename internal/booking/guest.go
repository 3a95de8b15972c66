package booking

import (
	"cmp"
	"fmt"
	"net/mail"
	"strings"
)

// Guest identifies the person holding a booking.
type Guest struct {
	Name  string
	Phone string
	Email string
}

// NewGuest trims and validates guest details. A name is required; an email, when given, must parse.
func NewGuest(name, phone, email string) (Guest, error) {
	g := Guest{
		Name:  strings.TrimSpace(name),
		Phone: strings.TrimSpace(phone),
		Email: strings.TrimSpace(email),
	}
	if g.Name == "" {
		return Guest{}, fmt.Errorf("%w: name is required", ErrInvalidGuest)
	}
	if g.Email != "" {
		if _, err := mail.ParseAddress(g.Email); err != nil {
			return Guest{}, fmt.Errorf("%w: email %q: %v", ErrInvalidGuest, g.Email, err)
		}
	}
	return g, nil
}

// Compare orders guests by name, phone, then email.
func (g Guest) Compare(other Guest) int {
	if c := cmp.Compare(g.Name, other.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(g.Phone, other.Phone); c != 0 {
		return c
	}
	return cmp.Compare(g.Email, other.Email)
}

func (g Guest) String() string {
	return g.Name
}
