package room

import (
	"fmt"
	"strings"
	"time"
)

// Expense is a charge run up by the checked-in guest, such as a room service order.
// Cost is held in minor currency units.
type Expense struct {
	ID          string
	MenuNumber  string
	Description string
	Cost        int64
	ChargedAt   time.Time
}

// Validate reports whether the expense can be charged to a room.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.MenuNumber) == "" {
		return fmt.Errorf("%w: menu number is required", ErrInvalidExpense)
	}
	if e.Cost < 0 {
		return fmt.Errorf("%w: cost %d is negative", ErrInvalidExpense, e.Cost)
	}
	return nil
}

// TotalCost sums the cost of all expenses.
func TotalCost(expenses []Expense) int64 {
	var total int64
	for _, e := range expenses {
		total += e.Cost
	}
	return total
}
